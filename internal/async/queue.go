package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/sitzungsdienst/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document waiting for extraction.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}

// Result is reported for every finished job.
type Result struct {
	Job     Job
	Outcome *pipeline.Outcome
	Err     error
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
