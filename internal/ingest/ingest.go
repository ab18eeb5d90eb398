package ingest

import (
	"context"

	"github.com/joseph-ayodele/sitzungsdienst/internal/pipeline"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

// FileResult is the per-file outcome of a directory run.
type FileResult struct {
	Path         string
	RunID        string
	Records      []roster.AssignmentRecord
	Deduplicated bool
	Err          string
}

// DirStats summarizes a directory run.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// FileProcessor is implemented by pipeline.Processor.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.Outcome, error)
}
