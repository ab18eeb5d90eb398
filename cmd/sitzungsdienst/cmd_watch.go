package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sitzungsdienst/internal/async"
	"github.com/joseph-ayodele/sitzungsdienst/internal/ingest"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		initial  bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch DIR...",
		Short: "Extract rosters as they appear below DIR and store them",
		Long: `Watch directories for new or changed rosters and process each one
through the worker pool into the database named by DB_URL. Runs until
interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runs, closeStore, err := a.openStore(ctx, true)
			if err != nil {
				return err
			}
			defer closeStore()

			queue := async.NewProcessorQueue(a.newProcessor(runs), a.logger,
				async.WithWorkers(a.cfg.Queue.Workers),
				async.WithQueueSize(a.cfg.Queue.Size),
				async.WithProcessTimeout(a.cfg.Queue.Timeout),
			)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Queue.Timeout)
				defer cancel()
				queue.Shutdown(shutdownCtx)
			}()

			events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       args,
				InitialScan: initial,
				SkipHidden:  true,
				Debounce:    debounce,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s ..\n", strings.Join(args, ", "))

			for {
				select {
				case path, ok := <-events:
					if !ok {
						return nil
					}
					if err := queue.Enqueue(ctx, async.Job{Path: path}); err != nil {
						a.logger.Error("enqueue failed", "path", path, "error", err)
					}
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					a.logger.Error("watch error", "error", err)
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
	cmd.Flags().BoolVar(&initial, "initial-scan", true, "Process rosters already present at startup.")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Wait this long for writes to settle.")
	return cmd
}
