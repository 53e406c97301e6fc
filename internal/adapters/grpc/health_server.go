// Package grpc exposes the daemon's job health over the standard gRPC
// health checking protocol.
package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
)

// SchedulerService is the health service name covering every job together.
// Individual jobs are reported under their own names.
const SchedulerService = "wmd.scheduler"

// HealthSource exposes job health snapshots
type HealthSource = daemon.HealthSource

// HealthServer serves grpc.health.v1 and keeps the statuses in sync with the scheduler
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	source   HealthSource
	interval time.Duration
	logger   common.ContainerLogger
}

// NewHealthServer creates a health server that refreshes statuses every interval
func NewHealthServer(source HealthSource, interval time.Duration, logger common.ContainerLogger) *HealthServer {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}

	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	return &HealthServer{
		server:   server,
		health:   hs,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Refresh sets the status of every job and of the scheduler as a whole.
// The scheduler is NOT_SERVING while any job's last run failed.
func (s *HealthServer) Refresh() {
	overall := healthpb.HealthCheckResponse_SERVING
	for _, h := range s.source.Health() {
		status := healthpb.HealthCheckResponse_SERVING
		if !h.Healthy() {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus(h.Name, status)
	}
	s.health.SetServingStatus(SchedulerService, overall)
}

// Serve listens on addr until ctx is cancelled, then stops gracefully
func (s *HealthServer) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener serves on an existing listener, e.g. a bufconn in tests
func (s *HealthServer) ServeListener(ctx context.Context, listener net.Listener) error {
	s.Refresh()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.server.Serve(listener)
	}()

	s.logger.Log(common.LevelInfo, "gRPC health server listening", map[string]interface{}{
		"address": listener.Addr().String(),
	})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("gRPC server error: %w", err)
			}
			return nil
		case <-ticker.C:
			s.Refresh()
		case <-ctx.Done():
			s.health.Shutdown()
			s.server.GracefulStop()
			return nil
		}
	}
}
