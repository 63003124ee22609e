package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDoVal_SucceedsFirstTry(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, Sleep: noSleep(&delays)}

	val, err := DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Empty(t, delays)
}

func TestDoVal_RetriesThenSucceeds(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		ShouldRetry: func(error) bool { return true },
		Sleep:       noSleep(&delays),
	}

	calls := 0
	val, err := DoVal(context.Background(), cfg, func(context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", eris.New("boom")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)

	// Linear backoff: the second delay must be at least as long as the first.
	require.Len(t, delays, 2)
	assert.Equal(t, 1*time.Second, delays[0])
	assert.Equal(t, 2*time.Second, delays[1])
	assert.GreaterOrEqual(t, delays[1], delays[0])
}

func TestDoVal_ExhaustsRetries(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		ShouldRetry: func(error) bool { return true },
		Sleep:       noSleep(&delays),
	}

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, eris.New("always fails")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestDoVal_NonTransientStopsImmediately(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: time.Millisecond}

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, eris.New("permanent failure")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal_CancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		ShouldRetry: func(error) bool { return true },
	}

	calls := 0
	_, err := DoVal(ctx, cfg, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, eris.New("fail")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal_TransientErrorRetried(t *testing.T) {
	var delays []time.Duration
	cfg := RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Sleep: noSleep(&delays)}

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(eris.New("status 503"), 503)
	})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_Wraps(t *testing.T) {
	err := Do(context.Background(), RetryConfig{MaxAttempts: 1}, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(eris.New("bad request")))
	assert.True(t, IsTransient(NewTransientError(eris.New("throttled"), 429)))
	assert.True(t, IsTransient(eris.New("dial tcp: i/o timeout")))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "code %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404} {
		assert.False(t, IsTransientHTTPStatus(code), "code %d", code)
	}
}
