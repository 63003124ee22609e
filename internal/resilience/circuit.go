package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrCircuitOpen is returned when a call is rejected because the breaker is open.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// Breaker is a minimal circuit breaker guarding a single search backend.
// After FailureThreshold consecutive failures it rejects calls until
// ResetTimeout has elapsed, then lets one probe through.
type Breaker struct {
	FailureThreshold int
	ResetTimeout     time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
	open     bool
	nowFunc  func() time.Time
}

// NewBreaker creates a Breaker with the given threshold and reset timeout.
func NewBreaker(threshold int, reset time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if reset <= 0 {
		reset = 30 * time.Second
	}
	return &Breaker{
		FailureThreshold: threshold,
		ResetTimeout:     reset,
		nowFunc:          time.Now,
	}
}

// Allow reports whether a call may proceed. An open breaker past its reset
// timeout allows a single probe.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return true
	}
	if b.nowFunc().Sub(b.openedAt) >= b.ResetTimeout {
		// Half-open: let one probe through; Record decides what happens next.
		return true
	}
	return false
}

// Record feeds the outcome of a call back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.open = false
		return
	}

	b.failures++
	if b.failures >= b.FailureThreshold {
		b.open = true
		b.openedAt = b.nowFunc()
	}
}
