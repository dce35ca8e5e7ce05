package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)
}

func TestDo_RecoversFromTransientFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := Do(context.Background(), fastPolicy(3), func() (int, error) {
		calls++
		return 0, boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls, "must stop at the attempt bound")
}

func TestDo_SingleAttemptPolicy(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(1), func() (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_BacksOffBetweenAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond}
	start := time.Now()
	_, err := Do(context.Background(), p, func() (int, error) {
		return 0, errors.New("always")
	})
	require.Error(t, err)
	// Waits of 20ms + 40ms separate the three attempts.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestDo_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := Do(ctx, Policy{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond}, func() (int, error) {
			calls++
			return 0, errors.New("keep going")
		})
		assert.Error(t, err)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not stop after context cancellation")
	}
	assert.Less(t, calls, 10)
}
