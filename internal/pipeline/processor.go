package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/sitzungsdienst/constants"
	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
	"github.com/joseph-ayodele/sitzungsdienst/internal/decode"
	"github.com/joseph-ayodele/sitzungsdienst/internal/entity"
	"github.com/joseph-ayodele/sitzungsdienst/internal/repository"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

// Decoder is the part of decode.Decoder the processor needs.
type Decoder interface {
	Decode(ctx context.Context, path string) (decode.Result, error)
}

// Outcome is the result of processing one document.
type Outcome struct {
	Run          *entity.Run
	Records      []roster.AssignmentRecord
	Method       string
	Deduplicated bool
}

// Processor coordinates hash -> decode -> extract -> persist for one file.
// Runs is optional; without it nothing is stored.
type Processor struct {
	Logger    *slog.Logger
	Decoder   Decoder
	Extractor *roster.Extractor
	Runs      repository.RunRepository
}

func NewProcessor(logger *slog.Logger, decoder Decoder, extractor *roster.Extractor, runs repository.RunRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = roster.NewExtractor(logger)
	}
	return &Processor{Logger: logger, Decoder: decoder, Extractor: extractor, Runs: runs}
}

// ProcessFile extracts the assignment records of the document at path. A
// document whose content was already stored is not decoded again; its stored
// records are returned with Deduplicated set.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Outcome, error) {
	start := time.Now()
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if !constants.IsAllowedExt(filepath.Ext(abs)) {
		return nil, common.NewAppError("UNSUPPORTED_FILE", fmt.Sprintf("unsupported file type: %s", filepath.Base(abs)), common.ErrInvalidInput)
	}

	hash, err := HashFile(abs)
	if err != nil {
		return nil, err
	}
	run := &entity.Run{
		ID:          uuid.New(),
		SourcePath:  abs,
		ContentHash: hash,
		Status:      string(constants.RunStatusQueued),
		CreatedAt:   time.Now().UTC(),
	}
	ctx = common.WithRunID(ctx, run.ID.String())
	logger := common.LoggerFromContext(ctx, p.Logger)

	if p.Runs != nil {
		if out, ok, err := p.fromStore(ctx, hash); err != nil {
			return nil, err
		} else if ok {
			logger.Info("processor.dedup", "path", abs, "stored_run_id", out.Run.ID, "records", len(out.Records))
			return out, nil
		}
	}

	res, err := p.Decoder.Decode(ctx, abs)
	if err != nil {
		logger.Error("processor.decode.failed", "path", abs, "err", err)
		p.recordFailure(ctx, run, err)
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(abs), err)
	}
	run.Status = string(constants.RunStatusDecoded)
	logger.Info("processor.decode.ok",
		"path", abs,
		"method", res.Method,
		"pages", len(res.Pages),
		"tokens", res.Tokens,
	)

	records := p.Extractor.Extract(res.Pages)
	run.Status = string(constants.RunStatusExtracted)
	run.Records = len(records)
	out := &Outcome{Run: run, Records: records, Method: res.Method}

	if p.Runs != nil {
		saved, dedup, err := p.Runs.SaveRun(ctx, run, records)
		if err != nil {
			logger.Error("processor.persist.failed", "path", abs, "err", err)
			return nil, fmt.Errorf("persist run: %w", err)
		}
		out.Run, out.Deduplicated = saved, dedup
	}

	logger.Info("processor.extract.ok",
		"path", abs,
		"records", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *Processor) fromStore(ctx context.Context, hash string) (*Outcome, bool, error) {
	stored, err := p.Runs.GetByHash(ctx, hash)
	if errors.Is(err, common.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup run: %w", err)
	}
	if stored.Status != string(constants.RunStatusExtracted) {
		return nil, false, nil
	}
	records, err := p.Runs.ListAssignments(ctx, stored.ID)
	if err != nil {
		return nil, false, fmt.Errorf("load stored records: %w", err)
	}
	return &Outcome{Run: stored, Records: records, Method: "stored", Deduplicated: true}, true, nil
}

func (p *Processor) recordFailure(ctx context.Context, run *entity.Run, cause error) {
	if p.Runs == nil {
		return
	}
	failed := *run
	failed.ErrorMessage = cause.Error()
	if _, err := p.Runs.RecordFailure(ctx, &failed); err != nil {
		common.LoggerFromContext(ctx, p.Logger).Error("processor.failure.persist_failed", "err", err)
	}
}

// HashFile returns the hex sha256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
