// Package circuitbreaker implements the circuit breaker guarding the Store
// (spec §4.9 step 4, §8 "Breaker monotonicity"), adapted from the teacher's
// internal/circuitbreaker package with atomics replaced by a single mutex
// (the Store's write path is already single-writer, so the extra atomics
// sophistication wasn't earning its keep here).
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State is one of the three circuit breaker states.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker thresholds (spec §9 Open Question 4: 5/60s/3).
type Config struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// Default returns the spec-pinned defaults.
func Default() Config {
	return Config{FailureThreshold: 5, SuccessThreshold: 3, Timeout: 60 * time.Second}
}

// Breaker is a circuit breaker. Zero value is not usable; use New.
type Breaker struct {
	cfg Config

	mu                   sync.Mutex
	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	lastFailure          time.Time

	totalRequests, totalFailures, totalRejections int64
}

// New creates a breaker with the given config.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Breaker{cfg: cfg, state: Closed}
}

// ErrOpen is returned by Allow when the breaker rejects a call outright.
var ErrOpen = errors.New("circuit breaker is open")

// Allow reports whether a call may proceed, transitioning Open->HalfOpen
// when the cooldown has elapsed.
func (b *Breaker) Allow() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true, 0
	case HalfOpen:
		return true, 0
	case Open:
		elapsed := time.Since(b.lastFailure)
		if elapsed >= b.cfg.Timeout {
			b.state = HalfOpen
			b.consecutiveSuccesses = 0
			return true, 0
		}
		b.totalRejections++
		return false, b.cfg.Timeout - elapsed
	default:
		return true, 0
	}
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.totalRequests++

	switch b.state {
	case Closed:
		b.consecutiveFailures = 0
	case HalfOpen:
		b.consecutiveSuccesses++
		if b.consecutiveSuccesses >= b.cfg.SuccessThreshold {
			b.state = Closed
			b.consecutiveFailures = 0
			b.consecutiveSuccesses = 0
		}
	}
}

// RecordFailure records a failed call.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.totalRequests++
	b.totalFailures++
	b.lastFailure = time.Now()

	switch b.state {
	case Closed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.cfg.FailureThreshold {
			b.state = Open
		}
	case HalfOpen:
		b.state = Open
		b.consecutiveSuccesses = 0
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats is a point-in-time snapshot for monitoring.
type Stats struct {
	State           State
	TotalRequests   int64
	TotalFailures   int64
	TotalRejections int64
}

// Stats returns current counters.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{b.state, b.totalRequests, b.totalFailures, b.totalRejections}
}

// Reset forces the breaker back to Closed (used by tests and admin tooling).
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Closed
	b.consecutiveFailures = 0
	b.consecutiveSuccesses = 0
}
