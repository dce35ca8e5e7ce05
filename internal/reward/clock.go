package reward

import (
	"math/rand"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Rand is the uniform random source for critical rolls.
type Rand interface {
	Float64() float64
}

type SystemRand struct{}

func (SystemRand) Float64() float64 { return rand.Float64() }

// FakeRand returns a fixed sequence of draws, then repeats the last one.
type FakeRand struct {
	mu    sync.Mutex
	draws []float64
	i     int
}

func NewFakeRand(draws ...float64) *FakeRand {
	return &FakeRand{draws: draws}
}

func (r *FakeRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.draws) == 0 {
		return 0
	}
	v := r.draws[r.i]
	if r.i < len(r.draws)-1 {
		r.i++
	}
	return v
}
