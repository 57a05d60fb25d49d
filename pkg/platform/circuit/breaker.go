// Package circuit implements a counting circuit breaker for outbound
// dependencies. Callers record the outcome of each attempt; the breaker
// reports when to stop calling the primary and when it is safe to resume.
package circuit

import (
	"sync"
	"time"
)

// State is the breaker position.
type State int

const (
	// StateClosed means the primary is in use.
	StateClosed State = iota
	// StateOpen means consecutive failures exceeded the threshold and
	// callers should use their fallback.
	StateOpen
)

// StateChange reports a transition caused by the recorded outcome.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker tracks consecutive failures and successes for one dependency.
// Safe for concurrent use.
type Breaker struct {
	mu               sync.Mutex
	name             string
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	failures         int
	successes        int
	state            State
	lastProbe        time.Time
	now              func() time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) { b.failureThreshold = n }
}

// WithSuccessThreshold sets how many consecutive successes close an open
// circuit.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) { b.successThreshold = n }
}

// WithCooldown sets how long an open circuit waits before Allow admits a
// probe call toward the primary.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) { b.cooldown = d }
}

// New constructs a closed Breaker named after the dependency it guards.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 2,
		cooldown:         30 * time.Second,
		state:            StateClosed,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the dependency name the breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current breaker position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen reports whether callers should use their fallback.
func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// Allow reports whether a call toward the primary may proceed. A closed
// circuit always allows; an open circuit admits one probe per cooldown
// interval so the breaker can observe recovery and close again.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		return true
	}
	if b.now().Sub(b.lastProbe) >= b.cooldown {
		b.lastProbe = b.now()
		return true
	}
	return false
}

// RecordFailure registers a failed attempt. It returns whether the caller
// should now use the fallback, and whether this failure opened the circuit.
func (b *Breaker) RecordFailure() (useFallback bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		b.successes = 0
		b.lastProbe = b.now()
		return true, StateChange{}
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = StateOpen
		b.failures = 0
		b.successes = 0
		b.lastProbe = b.now()
		return true, StateChange{Opened: true}
	}
	return false, StateChange{}
}

// RecordSuccess registers a successful attempt. It returns whether the
// primary is usable, and whether this success closed the circuit.
func (b *Breaker) RecordSuccess() (usePrimary bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		b.failures = 0
		return true, StateChange{}
	}

	b.successes++
	if b.successes >= b.successThreshold {
		b.state = StateClosed
		b.failures = 0
		b.successes = 0
		return true, StateChange{Closed: true}
	}
	// A successful probe clears the cooldown so the next probe follows
	// immediately instead of waiting another interval.
	b.lastProbe = time.Time{}
	return false, StateChange{}
}

// Reset forces the breaker closed and clears both counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
}
