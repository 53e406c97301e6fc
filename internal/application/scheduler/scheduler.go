// Package scheduler runs the periodic background jobs of the game core.
//
// Each job owns a goroutine with its own ticker. Ticks are dispatched
// asynchronously and pass through the job's re-entrancy guard, so a run that
// outlasts its interval is observed as a skip on the following tick rather
// than queueing. Panics and errors are confined to the job that raised them.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/daemon"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
)

// JobFunc is the work a job performs on each tick
type JobFunc func(ctx context.Context, now time.Time) error

// Observer receives run outcomes, e.g. for metrics
type Observer interface {
	JobFinished(name string, duration time.Duration, err error)
	JobSkipped(name string)
}

// Config tunes run and shutdown behaviour. Zero JobTimeout means no per-run timeout.
type Config struct {
	JobTimeout      time.Duration
	ShutdownTimeout time.Duration
}

type job struct {
	desc *daemon.JobDescriptor
	fn   JobFunc
	stop chan struct{}
	done chan struct{}
}

// Scheduler owns the registered jobs and their tick loops
type Scheduler struct {
	mu       sync.Mutex
	jobs     map[string]*job
	clock    shared.Clock
	config   Config
	observer Observer
	baseCtx  context.Context
	started  bool
	runs     sync.WaitGroup
}

// New creates a scheduler with no jobs
func New(config Config, clock shared.Clock) *Scheduler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	return &Scheduler{
		jobs:   make(map[string]*job),
		clock:  clock,
		config: config,
	}
}

// SetObserver installs a run observer. Call before StartAll.
func (s *Scheduler) SetObserver(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = observer
}

// Register adds a job. Registering after StartAll starts its loop immediately.
func (s *Scheduler) Register(name string, interval time.Duration, fn JobFunc) error {
	if fn == nil {
		return shared.NewValidationError(shared.ReasonInvalidArgument, "job %s: handler cannot be nil", name)
	}
	desc, err := daemon.NewJobDescriptor(name, interval, s.clock.Now())
	if err != nil {
		return shared.NewValidationError(shared.ReasonInvalidArgument, "%s", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return shared.NewValidationError(shared.ReasonInvalidArgument, "job %s is already registered", name)
	}
	j := &job{desc: desc, fn: fn}
	s.jobs[name] = j
	if s.started {
		s.startLoop(j)
	}
	return nil
}

// StartAll starts every registered job's tick loop. The context bounds every
// run; cancelling it stops the loops as well. Calling StartAll twice is a no-op.
func (s *Scheduler) StartAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.baseCtx = ctx
	s.started = true
	for _, j := range s.jobs {
		s.startLoop(j)
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Scheduler started", map[string]interface{}{
		"jobs": len(s.jobs),
	})
}

// startLoop must be called with s.mu held
func (s *Scheduler) startLoop(j *job) {
	j.stop = make(chan struct{})
	j.done = make(chan struct{})
	go s.loop(s.baseCtx, j, j.stop, j.done)
}

func (s *Scheduler) loop(ctx context.Context, j *job, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.desc.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			j.desc.ScheduleNext(s.clock.Now().Add(j.desc.Interval()))
			s.runs.Add(1)
			go func() {
				defer s.runs.Done()
				_ = s.tick(ctx, j)
			}()
		}
	}
}

// tick runs one guarded execution. It returns JOB_RUNNING when the guard
// rejected the tick, or the job's fault.
func (s *Scheduler) tick(ctx context.Context, j *job) error {
	name := j.desc.Name()
	ctx = common.WithLogFields(ctx, map[string]interface{}{"job": name})
	logger := common.LoggerFromContext(ctx)
	now := s.clock.Now()

	if !j.desc.TryBegin(now) {
		logger.Log(common.LevelWarn, "Job still running, tick skipped", nil)
		if obs := s.currentObserver(); obs != nil {
			obs.JobSkipped(name)
		}
		return shared.NewPreconditionError(shared.ReasonJobRunning, "job %s is still running", name)
	}

	started := time.Now()
	err := s.invoke(ctx, j, now)
	duration := time.Since(started)
	j.desc.Finish(duration, err)

	if obs := s.currentObserver(); obs != nil {
		obs.JobFinished(name, duration, err)
	}
	if err != nil {
		logger.Log(common.LevelError, "Job failed", map[string]interface{}{
			"duration": duration.String(),
			"error":    err.Error(),
		})
		return err
	}
	logger.Log(common.LevelDebug, "Job finished", map[string]interface{}{
		"duration": duration.String(),
	})
	return nil
}

// invoke is the recover boundary around a job function
func (s *Scheduler) invoke(ctx context.Context, j *job, now time.Time) (err error) {
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = shared.NewJobFaultError(j.desc.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	if runErr := j.fn(ctx, now); runErr != nil {
		return shared.NewJobFaultError(j.desc.Name(), runErr)
	}
	return nil
}

func (s *Scheduler) currentObserver() Observer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observer
}

// StopAll stops every tick loop and waits for in-flight runs up to the
// shutdown timeout. It is safe to call more than once.
func (s *Scheduler) StopAll() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	loops := make([]chan struct{}, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.stop == nil {
			continue
		}
		close(j.stop)
		j.stop = nil
		loops = append(loops, j.done)
	}
	s.mu.Unlock()

	for _, done := range loops {
		<-done
	}

	finished := make(chan struct{})
	go func() {
		s.runs.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(s.config.ShutdownTimeout):
		return fmt.Errorf("scheduler: in-flight jobs still running after %s", s.config.ShutdownTimeout)
	}
}

// RestartOne resets one job's statistics and timer. A run already in flight
// keeps its guard until it finishes.
func (s *Scheduler) RestartOne(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return shared.NewNotFoundError(shared.ReasonJobNotFound, "job %s is not registered", name)
	}
	running := s.started
	var done chan struct{}
	if running && j.stop != nil {
		close(j.stop)
		j.stop = nil
		done = j.done
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	j.desc.Reset(s.clock.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if running && s.started {
		s.startLoop(j)
	}
	return nil
}

// RunNow executes one tick synchronously through the same guard the loop uses
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return shared.NewNotFoundError(shared.ReasonJobNotFound, "job %s is not registered", name)
	}
	return s.tick(ctx, j)
}

// Health returns every job's snapshot sorted by name
func (s *Scheduler) Health() []daemon.JobHealth {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]daemon.JobHealth, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.desc.Health())
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// JobHealth returns one job's snapshot
func (s *Scheduler) JobHealth(name string) (daemon.JobHealth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[name]
	if !ok {
		return daemon.JobHealth{}, shared.NewNotFoundError(shared.ReasonJobNotFound, "job %s is not registered", name)
	}
	return j.desc.Health(), nil
}

var _ daemon.JobControl = (*Scheduler)(nil)
