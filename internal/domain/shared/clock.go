package shared

import (
	"sync"
	"time"
)

// Clock supplies the current time. Every deadline the core stores (research
// start, impact, mission completion, repair, cooldown) is read from it so
// tests can move time instead of waiting.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock returns the wall clock in UTC
func NewRealClock() Clock {
	return realClock{}
}

// MockClock is a manually advanced clock, safe to read from scheduler goroutines
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockClock starts a mock clock at start. A zero start uses the wall clock.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward and returns the new time
func (m *MockClock) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

// SetTime jumps to t, backwards included
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Until is how long the clock must advance to reach t; zero once t has passed
func Until(c Clock, t time.Time) time.Duration {
	if d := t.Sub(c.Now()); d > 0 {
		return d
	}
	return 0
}
