package resilience

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, b.Allow())
		b.Record(eris.New("fail"))
	}
	assert.False(t, b.Allow())
}

func TestBreaker_SuccessResets(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	b.Record(eris.New("fail"))
	b.Record(eris.New("fail"))
	b.Record(nil)
	b.Record(eris.New("fail"))
	b.Record(eris.New("fail"))

	assert.True(t, b.Allow())
}

func TestBreaker_HalfOpenProbeAfterReset(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	now := time.Now()
	b.nowFunc = func() time.Time { return now }

	b.Record(eris.New("fail"))
	assert.False(t, b.Allow())

	// Advance past the reset timeout; a probe is allowed.
	now = now.Add(2 * time.Minute)
	assert.True(t, b.Allow())

	// Successful probe closes the breaker.
	b.Record(nil)
	assert.True(t, b.Allow())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	now := time.Now()
	b.nowFunc = func() time.Time { return now }

	b.Record(eris.New("fail"))
	now = now.Add(2 * time.Minute)
	assert.True(t, b.Allow())

	b.Record(eris.New("probe fail"))
	assert.False(t, b.Allow())
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker(0, 0)
	assert.Equal(t, 5, b.FailureThreshold)
	assert.Equal(t, 30*time.Second, b.ResetTimeout)
}
