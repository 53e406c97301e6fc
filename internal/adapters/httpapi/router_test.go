package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	notificationQueries "github.com/fame0528/DarkFrame-sub009/internal/application/notification/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

type stubJobs struct {
	health []daemon.JobHealth
	runErr error
	ran    []string
}

func (s *stubJobs) Health() []daemon.JobHealth { return s.health }

func (s *stubJobs) RunNow(_ context.Context, name string) error {
	s.ran = append(s.ran, name)
	return s.runErr
}

type stubNotifications struct {
	events []notification.Event
	got    *notificationQueries.ListNotificationsQuery
}

func (s *stubNotifications) Handle(_ context.Context, request common.Request) (common.Response, error) {
	s.got = request.(*notificationQueries.ListNotificationsQuery)
	return &notificationQueries.ListNotificationsResponse{Events: s.events}, nil
}

func do(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	jobs := &stubJobs{health: []daemon.JobHealth{
		{Name: "weapon_impacts", Interval: 30 * time.Second, ExecutionCount: 4},
	}}
	router := NewRouter(Config{Jobs: jobs})

	rec := do(t, router, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, "30s", body.Jobs[0].Interval)
	assert.EqualValues(t, 4, body.Jobs[0].ExecutionCount)

	jobs.health = append(jobs.health, daemon.JobHealth{Name: "mission_completion", ErrorCount: 1, LastError: "boom"})
	rec = do(t, router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunJob(t *testing.T) {
	jobs := &stubJobs{}
	router := NewRouter(Config{Jobs: jobs})

	rec := do(t, router, http.MethodPost, "/jobs/weapon_impacts/run")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"weapon_impacts"}, jobs.ran)

	jobs.runErr = shared.NewPreconditionError(shared.ReasonJobRunning, "job weapon_impacts is already running")
	rec = do(t, router, http.MethodPost, "/jobs/weapon_impacts/run")
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "JOB_RUNNING", body.Reason)

	jobs.runErr = shared.NewNotFoundError(shared.ReasonJobNotFound, "no job named nope")
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/jobs/nope/run").Code)

	jobs.runErr = errors.New("disk on fire")
	assert.Equal(t, http.StatusInternalServerError, do(t, router, http.MethodPost, "/jobs/x/run").Code)
}

func TestNotifications(t *testing.T) {
	handler := &stubNotifications{events: []notification.Event{
		notification.NewActorEvent(notification.EventWeaponLaunched, notification.PriorityHigh,
			time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), nil, shared.MustNewActorID("alpha")),
	}}
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*notificationQueries.ListNotificationsQuery](m, handler))

	router := NewRouter(Config{Jobs: &stubJobs{}, Mediator: m})

	rec := do(t, router, http.MethodGet, "/actors/alpha/notifications?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, handler.got.Limit)
	assert.Equal(t, "alpha", handler.got.ActorID.String())

	var views []eventView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "WEAPON_LAUNCHED", views[0].Type)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/actors/alpha/notifications?limit=x").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "wmd_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	router := NewRouter(Config{Jobs: &stubJobs{}, Registry: registry})
	rec := do(t, router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wmd_test_total 1")

	disabled := NewRouter(Config{Jobs: &stubJobs{}})
	assert.Equal(t, http.StatusNotFound, do(t, disabled, http.MethodGet, "/metrics").Code)
}
