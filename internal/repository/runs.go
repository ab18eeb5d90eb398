package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/joseph-ayodele/sitzungsdienst/constants"
	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
	"github.com/joseph-ayodele/sitzungsdienst/internal/entity"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

type RunRepository interface {
	GetByHash(ctx context.Context, hash string) (*entity.Run, error)
	SaveRun(ctx context.Context, run *entity.Run, records []roster.AssignmentRecord) (*entity.Run, bool, error)
	RecordFailure(ctx context.Context, run *entity.Run) (*entity.Run, error)
	ListAssignments(ctx context.Context, runID uuid.UUID) ([]roster.AssignmentRecord, error)
	ListAssignmentsBetween(ctx context.Context, from, to string) ([]roster.AssignmentRecord, error)
}

type runRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewRunRepository(db *DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepo{db: db, logger: logger}
}

var runColumns = []string{"id", "source_path", "content_hash", "status", "records", "error_message", "created_at"}

// GetByHash returns the run stored for a content hash, or common.ErrNotFound.
func (r *runRepo) GetByHash(ctx context.Context, hash string) (*entity.Run, error) {
	run, err := r.getByHash(ctx, r.db.drv, hash)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, common.ErrNotFound
	}
	return run, nil
}

func (r *runRepo) getByHash(ctx context.Context, ex dialect.ExecQuerier, hash string) (*entity.Run, error) {
	b := entsql.Dialect(r.db.dialect)
	query, args := b.Select(runColumns...).
		From(b.Table(tableRuns)).
		Where(entsql.EQ("content_hash", hash)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := ex.Query(ctx, query, args, rows); err != nil {
		r.logger.Error("failed to get run by hash", "content_hash", hash, "error", err)
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var (
		id, createdAt string
		errMsg        *string
		run           entity.Run
	)
	if err := rows.Scan(&id, &run.SourcePath, &run.ContentHash, &run.Status, &run.Records, &errMsg, &createdAt); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse run created_at %q: %w", createdAt, err)
	}
	if errMsg != nil {
		run.ErrorMessage = *errMsg
	}
	return &run, nil
}

// SaveRun stores a successful run with its records in one transaction. When
// a successful run with the same content hash exists, it is returned with
// dedup=true and nothing is written. A failed run with that hash is replaced.
func (r *runRepo) SaveRun(ctx context.Context, run *entity.Run, records []roster.AssignmentRecord) (*entity.Run, bool, error) {
	tx, err := r.db.drv.Tx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := r.getByHash(ctx, tx, run.ContentHash)
	if err != nil {
		return nil, false, err
	}
	if existing != nil && existing.Status == string(constants.RunStatusExtracted) {
		r.logger.Info("run already stored", "run_id", existing.ID, "content_hash", run.ContentHash)
		return existing, true, nil
	}
	if existing != nil {
		if err := r.deleteRun(ctx, tx, existing.ID); err != nil {
			return nil, false, err
		}
	}

	saved := *run
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}
	saved.Status = string(constants.RunStatusExtracted)
	saved.Records = len(records)
	saved.ErrorMessage = ""

	if err := r.insertRun(ctx, tx, &saved); err != nil {
		return nil, false, err
	}
	if err := r.insertAssignments(ctx, tx, saved.ID, records); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit run: %w", err)
	}
	r.logger.Info("run stored", "run_id", saved.ID, "source_path", saved.SourcePath, "records", saved.Records)
	return &saved, false, nil
}

// RecordFailure stores a failed run. An existing successful run for the same
// hash wins and is returned unchanged.
func (r *runRepo) RecordFailure(ctx context.Context, run *entity.Run) (*entity.Run, error) {
	tx, err := r.db.drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := r.getByHash(ctx, tx, run.ContentHash)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == string(constants.RunStatusExtracted) {
		return existing, nil
	}
	if existing != nil {
		if err := r.deleteRun(ctx, tx, existing.ID); err != nil {
			return nil, err
		}
	}

	failed := *run
	if failed.ID == uuid.Nil {
		failed.ID = uuid.New()
	}
	if failed.CreatedAt.IsZero() {
		failed.CreatedAt = time.Now().UTC()
	}
	failed.Status = string(constants.RunStatusFailed)
	failed.Records = 0
	if err := r.insertRun(ctx, tx, &failed); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	r.logger.Warn("run failed", "run_id", failed.ID, "source_path", failed.SourcePath, "error", failed.ErrorMessage)
	return &failed, nil
}

func (r *runRepo) insertRun(ctx context.Context, ex dialect.ExecQuerier, run *entity.Run) error {
	var errMsg any
	if run.ErrorMessage != "" {
		errMsg = run.ErrorMessage
	}
	query, args := entsql.Dialect(r.db.dialect).
		Insert(tableRuns).
		Columns(runColumns...).
		Values(run.ID.String(), run.SourcePath, run.ContentHash, run.Status, run.Records, errMsg,
			run.CreatedAt.UTC().Format(time.RFC3339Nano)).
		Query()
	if err := ex.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to insert run", "source_path", run.SourcePath, "error", err)
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *runRepo) insertAssignments(ctx context.Context, ex dialect.ExecQuerier, runID uuid.UUID, records []roster.AssignmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	ins := entsql.Dialect(r.db.dialect).
		Insert(tableAssignments).
		Columns("id", "run_id", "position", "day", "slot", "who", "location", "docket")
	for i, rec := range records {
		ins.Values(uuid.NewString(), runID.String(), i, rec.Date, rec.When, rec.Who, rec.Where, rec.What)
	}
	query, args := ins.Query()
	if err := ex.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to insert assignments", "run_id", runID, "count", len(records), "error", err)
		return fmt.Errorf("insert assignments: %w", err)
	}
	return nil
}

func (r *runRepo) deleteRun(ctx context.Context, ex dialect.ExecQuerier, id uuid.UUID) error {
	b := entsql.Dialect(r.db.dialect)
	for _, q := range []entsql.Querier{
		b.Delete(tableAssignments).Where(entsql.EQ("run_id", id.String())),
		b.Delete(tableRuns).Where(entsql.EQ("id", id.String())),
	} {
		query, args := q.Query()
		if err := ex.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("delete run %s: %w", id, err)
		}
	}
	return nil
}

// ListAssignments returns the records of one run in extraction order.
func (r *runRepo) ListAssignments(ctx context.Context, runID uuid.UUID) ([]roster.AssignmentRecord, error) {
	b := entsql.Dialect(r.db.dialect)
	sel := b.Select("day", "slot", "who", "location", "docket").
		From(b.Table(tableAssignments)).
		Where(entsql.EQ("run_id", runID.String())).
		OrderBy("position")
	return r.queryRecords(ctx, sel)
}

// ListAssignmentsBetween returns the records of all runs whose date lies in
// [from, to], sorted. An empty bound is open.
func (r *runRepo) ListAssignmentsBetween(ctx context.Context, from, to string) ([]roster.AssignmentRecord, error) {
	b := entsql.Dialect(r.db.dialect)
	sel := b.Select("day", "slot", "who", "location", "docket").
		From(b.Table(tableAssignments))

	var preds []*entsql.Predicate
	if from != "" {
		preds = append(preds, entsql.GTE("day", from))
	}
	if to != "" {
		preds = append(preds, entsql.LTE("day", to))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}

	records, err := r.queryRecords(ctx, sel)
	if err != nil {
		return nil, err
	}
	// collation differs between backends, so order in Go
	roster.SortRecords(records)
	return records, nil
}

func (r *runRepo) queryRecords(ctx context.Context, sel *entsql.Selector) ([]roster.AssignmentRecord, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.db.drv.Query(ctx, query, args, rows); err != nil {
		r.logger.Error("failed to list assignments", "error", err)
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	records := []roster.AssignmentRecord{}
	for rows.Next() {
		var rec roster.AssignmentRecord
		if err := rows.Scan(&rec.Date, &rec.When, &rec.Who, &rec.Where, &rec.What); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return records, nil
}
