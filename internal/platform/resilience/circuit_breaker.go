package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards calls to an upstream provider. It opens after a run
// of consecutive failures, waits out a cooldown, then lets a bounded number
// of probe requests through before closing again.
type CircuitBreaker struct {
	mu sync.Mutex

	maxFailures int
	cooldown    time.Duration
	maxProbes   int

	state     CircuitState
	failures  int
	openedAt  time.Time
	probes    int
	probeOKs  int
	clock     func() time.Time
}

func NewCircuitBreaker(maxFailures int, cooldown time.Duration, maxProbes int) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	if cooldown <= 0 {
		cooldown = 15 * time.Second
	}
	if maxProbes < 1 {
		maxProbes = 1
	}

	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		maxProbes:   maxProbes,
		state:       CircuitStateClosed,
		clock:       time.Now,
	}
}

// Allow reports whether a request may proceed. Callers must pair every nil
// return with exactly one RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.clock().Sub(b.openedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.state = CircuitStateHalfOpen
		b.probes = 0
		b.probeOKs = 0
	}

	if b.state == CircuitStateHalfOpen {
		if b.probes >= b.maxProbes {
			return ErrCircuitOpen
		}
		b.probes++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.probeOKs++
		if b.probeOKs >= b.maxProbes {
			b.state = CircuitStateClosed
			b.failures = 0
			b.openedAt = time.Time{}
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.maxFailures {
			b.open()
		}
	case CircuitStateHalfOpen:
		b.open()
	case CircuitStateOpen:
		b.openedAt = b.clock()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.clock().Sub(b.openedAt) >= b.cooldown {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) open() {
	b.state = CircuitStateOpen
	b.openedAt = b.clock()
	b.probes = 0
	b.probeOKs = 0
}
