package daemon

import (
	"fmt"
	"sync"
	"time"
)

// emaWeight is the share of the latest sample in the rolling execution average
const emaWeight = 0.1

// JobHealth is a point-in-time view of one scheduled job
type JobHealth struct {
	Name                 string
	Interval             time.Duration
	LastRun              *time.Time
	NextRun              time.Time
	ExecutionCount       int64
	ErrorCount           int64
	SkippedCount         int64
	AverageExecutionTime time.Duration
	LastDuration         time.Duration
	IsRunning            bool
	LastError            string
}

// Healthy reports whether the job's most recent run succeeded (or it has not run yet)
func (h JobHealth) Healthy() bool {
	return h.LastError == ""
}

// JobDescriptor is the scheduler's bookkeeping for one periodic job. It lives
// for the process lifetime and is never persisted.
type JobDescriptor struct {
	mu             sync.Mutex
	name           string
	interval       time.Duration
	lastRun        *time.Time
	nextRun        time.Time
	executionCount int64
	errorCount     int64
	skippedCount   int64
	average        time.Duration
	samples        int64
	lastDuration   time.Duration
	running        bool
	lastError      string
}

// NewJobDescriptor creates a never-run descriptor whose first tick is one interval away
func NewJobDescriptor(name string, interval time.Duration, now time.Time) (*JobDescriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("job name cannot be empty")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("job %s: interval must be positive, got %s", name, interval)
	}
	return &JobDescriptor{
		name:     name,
		interval: interval,
		nextRun:  now.Add(interval),
	}, nil
}

func (j *JobDescriptor) Name() string            { return j.name }
func (j *JobDescriptor) Interval() time.Duration { return j.interval }

// TryBegin claims the re-entrancy guard. It returns false, and counts a skip,
// when a previous run is still executing.
func (j *JobDescriptor) TryBegin(now time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		j.skippedCount++
		return false
	}
	j.running = true
	started := now
	j.lastRun = &started
	return true
}

// Finish releases the guard and records the run. A failed run increments the
// error count only; both outcomes feed the duration average.
func (j *JobDescriptor) Finish(duration time.Duration, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.running = false
	j.lastDuration = duration

	if err != nil {
		j.errorCount++
		j.lastError = err.Error()
	} else {
		j.executionCount++
		j.lastError = ""
	}

	if j.samples == 0 {
		j.average = duration
	} else {
		j.average = time.Duration((1-emaWeight)*float64(j.average) + emaWeight*float64(duration))
	}
	j.samples++
}

// ScheduleNext records when the next tick is expected
func (j *JobDescriptor) ScheduleNext(next time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.nextRun = next
}

// Reset clears statistics and reschedules one interval from now.
// An in-flight run keeps the guard until it finishes.
func (j *JobDescriptor) Reset(now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.lastRun = nil
	j.nextRun = now.Add(j.interval)
	j.executionCount = 0
	j.errorCount = 0
	j.skippedCount = 0
	j.average = 0
	j.samples = 0
	j.lastDuration = 0
	j.lastError = ""
}

// Health returns a snapshot safe to hand to other goroutines
func (j *JobDescriptor) Health() JobHealth {
	j.mu.Lock()
	defer j.mu.Unlock()

	var lastRun *time.Time
	if j.lastRun != nil {
		t := *j.lastRun
		lastRun = &t
	}

	return JobHealth{
		Name:                 j.name,
		Interval:             j.interval,
		LastRun:              lastRun,
		NextRun:              j.nextRun,
		ExecutionCount:       j.executionCount,
		ErrorCount:           j.errorCount,
		SkippedCount:         j.skippedCount,
		AverageExecutionTime: j.average,
		LastDuration:         j.lastDuration,
		IsRunning:            j.running,
		LastError:            j.lastError,
	}
}
