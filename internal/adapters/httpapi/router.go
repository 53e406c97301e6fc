// Package httpapi is the daemon's operational HTTP surface: job health,
// Prometheus metrics, stored notifications and the live notification socket.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	notificationQueries "github.com/fame0528/DarkFrame-sub009/internal/application/notification/queries"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// JobControl is the slice of the scheduler the HTTP surface needs
type JobControl = daemon.JobControl

// Config wires the router. Nil Registry disables /metrics, nil Hub disables /ws.
type Config struct {
	Jobs        JobControl
	Mediator    common.Mediator
	Hub         http.Handler
	Registry    *prometheus.Registry
	MetricsPath string
	Logger      common.ContainerLogger
}

type errorBody struct {
	Kind    string                 `json:"kind"`
	Reason  string                 `json:"reason"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type jobView struct {
	Name                 string     `json:"name"`
	Interval             string     `json:"interval"`
	LastRun              *time.Time `json:"last_run,omitempty"`
	NextRun              time.Time  `json:"next_run"`
	ExecutionCount       int64      `json:"execution_count"`
	ErrorCount           int64      `json:"error_count"`
	SkippedCount         int64      `json:"skipped_count"`
	AverageExecutionTime string     `json:"average_execution_time"`
	IsRunning            bool       `json:"is_running"`
	LastError            string     `json:"last_error,omitempty"`
	Healthy              bool       `json:"healthy"`
}

type healthView struct {
	Status string    `json:"status"`
	Jobs   []jobView `json:"jobs"`
}

type eventView struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Priority   string                 `json:"priority"`
	Scope      string                 `json:"scope"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewRouter builds the chi router
func NewRouter(cfg Config) http.Handler {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Logger == nil {
		cfg.Logger = common.LoggerFromContext(context.Background())
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(common.WithLogger(req.Context(), cfg.Logger)))
		})
	})

	r.Get("/healthz", healthHandler(cfg.Jobs))
	r.Post("/jobs/{name}/run", runJobHandler(cfg.Jobs))
	r.Get("/actors/{actorID}/notifications", notificationsHandler(cfg.Mediator))

	if cfg.Registry != nil {
		r.Handle(cfg.MetricsPath, promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}
	if cfg.Hub != nil {
		r.Handle("/ws", cfg.Hub)
	}

	return r
}

func healthHandler(jobs JobControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := healthView{Status: "ok", Jobs: []jobView{}}
		for _, h := range jobs.Health() {
			if !h.Healthy() {
				view.Status = "degraded"
			}
			view.Jobs = append(view.Jobs, jobView{
				Name:                 h.Name,
				Interval:             h.Interval.String(),
				LastRun:              h.LastRun,
				NextRun:              h.NextRun,
				ExecutionCount:       h.ExecutionCount,
				ErrorCount:           h.ErrorCount,
				SkippedCount:         h.SkippedCount,
				AverageExecutionTime: h.AverageExecutionTime.String(),
				IsRunning:            h.IsRunning,
				LastError:            h.LastError,
				Healthy:              h.Healthy(),
			})
		}

		status := http.StatusOK
		if view.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, view)
	}
}

func runJobHandler(jobs JobControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := jobs.RunNow(r.Context(), name); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"job": name, "status": "completed"})
	}
}

func notificationsHandler(m common.Mediator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := shared.NewActorID(chi.URLParam(r, "actorID"))
		if err != nil {
			writeError(w, err)
			return
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil {
				writeError(w, shared.NewValidationError(shared.ReasonInvalidArgument, "limit must be a number"))
				return
			}
		}

		resp, err := m.Send(r.Context(), &notificationQueries.ListNotificationsQuery{ActorID: actorID, Limit: limit})
		if err != nil {
			writeError(w, err)
			return
		}

		events := resp.(*notificationQueries.ListNotificationsResponse).Events
		views := make([]eventView, 0, len(events))
		for _, e := range events {
			views = append(views, eventView{
				ID:         e.ID,
				Type:       string(e.Type),
				Priority:   string(e.Priority),
				Scope:      string(e.Scope),
				Payload:    e.Payload,
				OccurredAt: e.OccurredAt,
			})
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// statusFor maps an error kind onto an HTTP status
func statusFor(kind shared.ErrorKind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindPrecondition, shared.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Kind: "INTERNAL", Message: err.Error()})
		return
	}
	writeJSON(w, statusFor(domainErr.Kind), errorBody{
		Kind:    string(domainErr.Kind),
		Reason:  string(domainErr.Reason),
		Message: domainErr.Message,
		Details: domainErr.Details,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Serve runs handler on addr until ctx is cancelled, then shuts down within timeout
func Serve(ctx context.Context, addr string, handler http.Handler, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
			return
		}
		errChan <- nil
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return <-errChan
	}
}
