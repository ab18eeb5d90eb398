package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sitzungsdienst/internal/async"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
	"github.com/joseph-ayodele/sitzungsdienst/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the RosterService over gRPC",
		Long: `Serve sitzungsdienst.v1.RosterService (Extract, ListAssignments,
SubmitFile) and the gRPC health service. ListAssignments and SubmitFile
need DB_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = a.cfg.Server.GRPCAddr
			}
			if !strings.Contains(addr, ":") {
				addr = ":" + addr
			}

			runs, closeStore, err := a.openStore(ctx, false)
			if err != nil {
				return err
			}
			defer closeStore()

			var queue async.Queue
			if runs != nil {
				q := async.NewProcessorQueue(a.newProcessor(runs), a.logger,
					async.WithWorkers(a.cfg.Queue.Workers),
					async.WithQueueSize(a.cfg.Queue.Size),
					async.WithProcessTimeout(a.cfg.Queue.Timeout),
				)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Queue.Timeout)
					defer cancel()
					q.Shutdown(shutdownCtx)
				}()
				queue = q
			}

			svc := server.NewRosterService(roster.NewExtractor(a.logger), runs, queue, a.logger)
			grpcServer, healthServer := server.NewGRPCServer(svc, a.logger)
			return server.Serve(ctx, grpcServer, healthServer, addr, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from GRPC_ADDR, \":8080\").")
	return cmd
}
