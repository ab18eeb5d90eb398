package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/sitzungsdienst/internal/async"
	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
	"github.com/joseph-ayodele/sitzungsdienst/internal/ingest"
	"github.com/joseph-ayodele/sitzungsdienst/internal/repository"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

// RosterService serves extraction over gRPC. Runs and Queue are optional;
// the methods needing them answer FailedPrecondition when absent.
type RosterService struct {
	extractor *roster.Extractor
	runs      repository.RunRepository
	queue     async.Queue
	logger    *slog.Logger
}

func NewRosterService(extractor *roster.Extractor, runs repository.RunRepository, queue async.Queue, logger *slog.Logger) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = roster.NewExtractor(logger)
	}
	return &RosterService{extractor: extractor, runs: runs, queue: queue, logger: logger}
}

// Extract runs the extraction on already decoded pages.
// Request: {pages: [[string]], query: [string]}.
// Response: {records: [{date, when, who, where, what}], from, to}.
func (s *RosterService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()
	fields := req.GetFields()

	pagesVal, ok := fields["pages"]
	if !ok {
		return nil, common.InvalidArgumentError("pages is required")
	}
	pages, err := decodePages(pagesVal)
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	query, err := stringList(fields["query"], "query")
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}

	records := roster.Filter(s.extractor.Extract(pages), query)
	resp, err := recordsResponse(records)
	if err != nil {
		s.logger.Error("encode extract response failed", "error", err)
		return nil, common.InternalError("encode response failed")
	}
	s.logger.Info("rpc.extract.ok",
		"pages", len(pages),
		"query_terms", len(query),
		"records", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// ListAssignments returns stored records between optional YYYY-MM-DD bounds.
// Request: {from, to, query: [string]}.
func (s *RosterService) ListAssignments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.runs == nil {
		return nil, common.FailedPreconditionError("no store configured")
	}
	fields := req.GetFields()
	from := strings.TrimSpace(fields["from"].GetStringValue())
	to := strings.TrimSpace(fields["to"].GetStringValue())

	v := common.NewValidator().
		Field("from", from, common.ISODate).
		Field("to", to, common.ISODate)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	query, err := stringList(fields["query"], "query")
	if err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}

	records, err := s.runs.ListAssignmentsBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("list assignments failed", "from", from, "to", to, "error", err)
		return nil, common.InternalError("list assignments failed")
	}
	records = roster.Filter(records, query)
	resp, err := recordsResponse(records)
	if err != nil {
		return nil, common.InternalError("encode response failed")
	}
	return resp, nil
}

// SubmitFile queues a document on the server's file system for processing.
// Request: {path}. Response: {accepted, trace_id}.
func (s *RosterService) SubmitFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.queue == nil {
		return nil, common.FailedPreconditionError("no processing queue configured")
	}
	path := strings.TrimSpace(req.GetFields()["path"].GetStringValue())
	if err := common.ValidateAndReturnError(common.NewValidator().Field("path", path, common.Required)); err != nil {
		return nil, err
	}
	if !ingest.AllowedExt(filepath.Ext(path)) {
		return nil, common.InvalidArgumentErrorf("unsupported file type: %s", path)
	}

	traceID := uuid.NewString()
	if err := s.queue.Enqueue(ctx, async.Job{Path: path, SubmittedAt: time.Now(), TraceID: traceID}); err != nil {
		if errors.Is(err, async.ErrQueueClosed) {
			return nil, common.FailedPreconditionError(err.Error())
		}
		return nil, common.StatusFromError(err)
	}
	s.logger.Info("rpc.submit.ok", "path", path, "trace_id", traceID)
	return structpb.NewStruct(map[string]any{"accepted": true, "trace_id": traceID})
}

func decodePages(v *structpb.Value) ([]roster.Page, error) {
	list := v.GetListValue()
	if list == nil {
		return nil, errors.New("pages must be a list of pages")
	}
	pages := make([]roster.Page, 0, len(list.GetValues()))
	for i, pv := range list.GetValues() {
		page, err := stringList(pv, fmt.Sprintf("pages[%d]", i))
		if err != nil {
			return nil, err
		}
		if pv.GetListValue() == nil {
			return nil, fmt.Errorf("pages[%d] must be a list of strings", i)
		}
		pages = append(pages, roster.Page(page))
	}
	return pages, nil
}

// stringList accepts a missing value as empty.
func stringList(v *structpb.Value, name string) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%s must be a list of strings", name)
	}
	out := make([]string, 0, len(list.GetValues()))
	for j, item := range list.GetValues() {
		sv, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", name, j)
		}
		out = append(out, sv.StringValue)
	}
	return out, nil
}

func recordsResponse(records []roster.AssignmentRecord) (*structpb.Struct, error) {
	items := make([]any, 0, len(records))
	for _, r := range records {
		items = append(items, map[string]any{
			"date":  r.Date,
			"when":  r.When,
			"who":   r.Who,
			"where": r.Where,
			"what":  r.What,
		})
	}
	from, to, _ := roster.DateRange(records)
	return structpb.NewStruct(map[string]any{
		"records": items,
		"from":    from,
		"to":      to,
	})
}
