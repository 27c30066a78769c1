package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestLinear(t *testing.T) {
	b := Linear(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, b(1))
	assert.Equal(t, 300*time.Millisecond, b(3))
	assert.Equal(t, time.Second, Constant(time.Second)(7))
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	var delays []time.Duration
	var seen []int

	result, attempts, err := Do(context.Background(), Policy{
		Attempts: 3,
		Backoff:  Linear(10 * time.Millisecond),
		OnError:  func(attempt int, _ error) { seen = append(seen, attempt) },
		Sleep:    recordingSleep(&delays),
	}, func(_ context.Context, attempt int) (string, error) {
		if attempt < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, delays)
}

func TestDoExhausts(t *testing.T) {
	var delays []time.Duration
	calls := 0
	last := errors.New("third")

	_, attempts, err := Do(context.Background(), Policy{
		Attempts: 3,
		Backoff:  Linear(time.Millisecond),
		Sleep:    recordingSleep(&delays),
	}, func(_ context.Context, attempt int) (int, error) {
		calls++
		if attempt == 3 {
			return 0, last
		}
		return 0, errors.New("earlier")
	})

	assert.ErrorIs(t, err, last)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2, "no sleep after the final attempt")
}

func TestDoPermanent(t *testing.T) {
	base := errors.New("not found")
	calls := 0

	_, attempts, err := Do(context.Background(), Policy{Attempts: 5}, func(context.Context, int) (int, error) {
		calls++
		return 0, Permanent(base)
	})

	assert.Same(t, base, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
	assert.Nil(t, Permanent(nil))
}

func TestDoContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, attempts, err := Do(ctx, Policy{Attempts: 3}, func(context.Context, int) (int, error) {
		calls++
		return 0, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
	assert.Zero(t, calls)
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, _, err := Do(context.Background(), Policy{}, func(context.Context, int) (int, error) {
		calls++
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), 0))
}
