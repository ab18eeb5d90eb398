package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sitzungsdienst/internal/async"
	"github.com/joseph-ayodele/sitzungsdienst/internal/ingest"
	"github.com/joseph-ayodele/sitzungsdienst/internal/pipeline"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		flags      outputFlags
		skipHidden bool
	)
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Extract every roster below DIR into one export",
		Long: `Process every pdf/txt roster below DIR, merge the records of all
documents (dropping exact duplicates) and save one export. Files go through
the worker pool unless QUEUE_WORKERS=1. Runs are persisted when DB_URL is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			runs, closeStore, err := a.openStore(ctx, false)
			if err != nil {
				return err
			}
			defer closeStore()
			proc := a.newProcessor(runs)

			var (
				records         []roster.AssignmentRecord
				processed, fail int
			)
			if a.cfg.Queue.Workers == 1 {
				records, processed, fail, err = a.batchSequential(ctx, cmd.ErrOrStderr(), proc, args[0], skipHidden)
			} else {
				records, processed, fail, err = a.batchConcurrent(ctx, cmd.ErrOrStderr(), proc, args[0], skipHidden)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Processed %d file(s), %d failed.\n", processed, fail)
			records = roster.Dedupe(records)
			roster.SortRecords(records)
			return a.writeReport(ctx, out, records, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "Skip hidden files and directories.")
	return cmd
}

func (a *app) batchSequential(ctx context.Context, stderr io.Writer, proc *pipeline.Processor, root string, skipHidden bool) ([]roster.AssignmentRecord, int, int, error) {
	var records []roster.AssignmentRecord
	results, stats, err := ingest.ProcessDirectory(ctx, proc, root, skipHidden)
	if err != nil {
		return nil, 0, 0, err
	}
	for _, r := range results {
		if r.Err != "" {
			fmt.Fprintf(stderr, "%s: %s\n", r.Path, r.Err)
			continue
		}
		records = append(records, r.Records...)
	}
	return records, len(results), int(stats.Failed), nil
}

func (a *app) batchConcurrent(ctx context.Context, stderr io.Writer, proc *pipeline.Processor, root string, skipHidden bool) ([]roster.AssignmentRecord, int, int, error) {
	paths, stats, err := ingest.ScanDirectory(root, skipHidden)
	if err != nil {
		return nil, 0, 0, err
	}
	a.logger.Info("batch.scan", "root", root, "scanned", stats.Scanned, "matched", stats.Matched)

	var (
		mu      sync.Mutex
		records []roster.AssignmentRecord
		failed  int
	)
	queue := async.NewProcessorQueue(proc, a.logger,
		async.WithWorkers(a.cfg.Queue.Workers),
		async.WithQueueSize(a.cfg.Queue.Size),
		async.WithProcessTimeout(a.cfg.Queue.Timeout),
		async.WithResultHandler(func(r async.Result) {
			mu.Lock()
			defer mu.Unlock()
			if r.Err != nil {
				failed++
				fmt.Fprintf(stderr, "%s: %v\n", r.Job.Path, r.Err)
				return
			}
			records = append(records, r.Outcome.Records...)
		}),
	)
	for _, p := range paths {
		if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
			queue.Shutdown(context.Background())
			return nil, 0, 0, err
		}
	}
	queue.Shutdown(context.Background())
	return records, len(paths), failed, nil
}
