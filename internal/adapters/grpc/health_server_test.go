package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
)

type mutableHealth struct {
	mu   sync.Mutex
	jobs []daemon.JobHealth
}

func (m *mutableHealth) Health() []daemon.JobHealth {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]daemon.JobHealth(nil), m.jobs...)
}

func (m *mutableHealth) set(jobs ...daemon.JobHealth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = jobs
}

func startHealthServer(t *testing.T, source HealthSource) healthpb.HealthClient {
	t.Helper()
	listener := bufconn.Listen(1 << 20)
	server := NewHealthServer(source, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.ServeListener(ctx, listener)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServer_ReportsJobStatus(t *testing.T) {
	source := &mutableHealth{}
	source.set(
		daemon.JobHealth{Name: "weapon_impacts", ExecutionCount: 3},
		daemon.JobHealth{Name: "mission_completion", ErrorCount: 1, LastError: "db down"},
	)
	client := startHealthServer(t, source)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, "weapon_impacts"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, "mission_completion"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, SchedulerService))
}

func TestHealthServer_RecoversAfterRefresh(t *testing.T) {
	source := &mutableHealth{}
	source.set(daemon.JobHealth{Name: "defense_maintenance", ErrorCount: 2, LastError: "timeout"})
	client := startHealthServer(t, source)

	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, SchedulerService))

	source.set(daemon.JobHealth{Name: "defense_maintenance", ErrorCount: 2, ExecutionCount: 1})
	assert.Eventually(t, func() bool {
		return check(t, client, SchedulerService) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)
}
