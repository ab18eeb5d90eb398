package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer builds a gRPC server exposing svc and the standard health
// service, with every unary call logged.
func NewGRPCServer(svc RosterServiceServer, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	RegisterRosterServiceServer(grpcServer, svc)

	// Register gRPC health service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	// empty string means overall server health
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(RosterServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}

// Serve listens on addr until ctx is done, then stops gracefully.
func Serve(ctx context.Context, grpcServer *grpc.Server, healthServer *health.Server, addr string, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		return err
	}

	errCh := make(chan error, 1)
	logger.Info("sitzungsdienst listening", "addr", lis.Addr().String())
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gRPC server")
	healthServer.Shutdown()
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		logger.Warn("graceful stop timed out, forcing")
		grpcServer.Stop()
	}
	return nil
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("rpc failed", "method", info.FullMethod, "elapsed_ms", time.Since(start).Milliseconds(), "error", err)
		} else {
			logger.Debug("rpc ok", "method", info.FullMethod, "elapsed_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}
