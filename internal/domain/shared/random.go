package shared

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource yields uniformly distributed values in [0, 1).
// Outcome rolls go through it so tests can fix the sequence.
type RandomSource interface {
	Float64() float64
}

type lockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a goroutine-safe source. A zero seed uses the wall clock.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRandom{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// SequenceRandom replays a fixed list of rolls, cycling when exhausted
type SequenceRandom struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewSequenceRandom(values ...float64) *SequenceRandom {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &SequenceRandom{values: values}
}

func (s *SequenceRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Reset replaces the sequence and starts again from its first value
func (s *SequenceRandom) Reset(values ...float64) {
	if len(values) == 0 {
		values = []float64{0}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
	s.next = 0
}
