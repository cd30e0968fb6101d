// Package resilience provides reliability patterns for provider calls.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Breaker shields the planner from a misbehaving upstream provider. After
// maxFailures consecutive failures the circuit opens and calls are rejected
// outright until the cool-off elapses; the next call then probes the
// provider in half-open state.
type Breaker struct {
	mu          sync.Mutex
	state       state
	failures    int
	maxFailures int
	timeout     time.Duration
	openUntil   time.Time
	now         func() time.Time // for testing
}

// NewBreaker creates a circuit breaker that opens after maxFailures
// consecutive failures and cools off for the given timeout.
func NewBreaker(maxFailures int, timeout time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Execute runs fn unless the circuit is open, and feeds the outcome back
// into the state machine.
func (b *Breaker) Execute(fn func() error) error {
	if !b.admit() {
		return ErrCircuitOpen
	}

	err := fn()
	b.record(err)
	return err
}

// Do runs fn under the breaker with a per-call deadline. The deadline is the
// caller's single timeout budget for the external call; fn must honor ctx.
func (b *Breaker) Do(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	return b.Execute(func() error {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(callCtx)
	})
}

// admit reports whether a call may proceed, moving an expired open circuit
// to half-open.
func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen {
		if b.now().Before(b.openUntil) {
			return false
		}
		b.state = stateHalfOpen
	}
	return true
}

// record applies one call outcome. A half-open failure reopens immediately;
// a success fully closes the circuit.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.state = stateClosed
		return
	}

	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.maxFailures {
		b.state = stateOpen
		b.openUntil = b.now().Add(b.timeout)
	}
}
