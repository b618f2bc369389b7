package source

import (
	"sync"
	"time"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// breaker stops hammering a source that keeps failing. While open, fetches
// for that source short-circuit to an empty result; after resetTimeout one
// probe request is let through. A maxFailures of zero disables it.
type breaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
	now      func() time.Time
}

func newBreaker(maxFailures int, resetTimeout time.Duration) *breaker {
	return &breaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
}

func (b *breaker) allow() bool {
	if b == nil || b.maxFailures <= 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.resetTimeout {
			return false
		}
		b.state = stateHalfOpen
		return true
	case stateHalfOpen:
		// a probe is already in flight
		return false
	default:
		return true
	}
}

func (b *breaker) record(err error) {
	if b == nil || b.maxFailures <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = stateClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.maxFailures {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}
