package queue_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"interpreting/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetingPayload struct {
	Name string `json:"name"`
}

func newManager(t *testing.T, lanes ...queue.Lane) *queue.Manager {
	t.Helper()
	if len(lanes) == 0 {
		lanes = []queue.Lane{{Name: "default"}}
	}
	m, err := queue.NewManager(slog.Default(), lanes...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func TestNewManager_Validation(t *testing.T) {
	_, err := queue.NewManager(nil, queue.Lane{Name: "a"})
	assert.Error(t, err)

	_, err = queue.NewManager(slog.Default())
	assert.Error(t, err)

	_, err = queue.NewManager(slog.Default(), queue.Lane{})
	assert.Error(t, err)

	_, err = queue.NewManager(slog.Default(), queue.Lane{Name: "a"}, queue.Lane{Name: "a"})
	assert.Error(t, err)
}

func TestManager_DeliversTypedPayload(t *testing.T) {
	m := newManager(t)

	received := make(chan greetingPayload, 1)
	err := queue.RegisterJSON(m, "greet", "default", func(_ context.Context, p greetingPayload) error {
		received <- p
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	require.NoError(t, m.Enqueue(context.Background(), "greet", greetingPayload{Name: "amira"}))

	select {
	case p := <-received:
		assert.Equal(t, "amira", p.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not delivered")
	}
}

func TestManager_EnqueueUnknownJobFails(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.Start())

	err := m.Enqueue(context.Background(), "missing", struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, queue.ErrUnknownJob)
}

func TestManager_RetriesUntilSuccess(t *testing.T) {
	m := newManager(t, queue.Lane{Name: "flaky", Backoff: 5 * time.Millisecond, MaxAttempts: 5})

	var attempts atomic.Int32
	done := make(chan struct{})
	err := queue.RegisterJSON(m, "flaky-job", "flaky", func(_ context.Context, _ struct{}) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	require.NoError(t, m.Enqueue(context.Background(), "flaky-job", struct{}{}))

	select {
	case <-done:
		assert.Equal(t, int32(3), attempts.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("job did not succeed within the retry window")
	}
}

func TestManager_DropsJobAfterAttemptCap(t *testing.T) {
	m := newManager(t, queue.Lane{Name: "doomed", Backoff: time.Millisecond, MaxAttempts: 3})

	var attempts atomic.Int32
	err := queue.RegisterJSON(m, "doomed-job", "doomed", func(_ context.Context, _ struct{}) error {
		attempts.Add(1)
		return errors.New("permanent")
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	require.NoError(t, m.Enqueue(context.Background(), "doomed-job", struct{}{}))

	assert.Eventually(t, func() bool {
		return attempts.Load() == 3
	}, 2*time.Second, 5*time.Millisecond)

	// No further attempts after the cap.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestManager_UndecodablePayloadIsDroppedWithoutRetry(t *testing.T) {
	m := newManager(t)

	var attempts atomic.Int32
	err := queue.RegisterJSON(m, "typed", "default", func(_ context.Context, _ greetingPayload) error {
		attempts.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	// A JSON number cannot decode into the struct payload.
	require.NoError(t, m.Enqueue(context.Background(), "typed", 42))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), attempts.Load())
}

func TestManager_SingleConcurrencyLaneDoesNotInterleave(t *testing.T) {
	m := newManager(t, queue.Lane{Name: "serial", Concurrency: 1})

	var mu sync.Mutex
	var running, maxRunning int
	var processed atomic.Int32

	err := queue.RegisterJSON(m, "serial-job", "serial", func(_ context.Context, _ struct{}) error {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		processed.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Enqueue(context.Background(), "serial-job", struct{}{}))
	}

	require.Eventually(t, func() bool {
		return processed.Load() == 5
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxRunning)
}

func TestManager_EnqueueAfterShutdownFails(t *testing.T) {
	m, err := queue.NewManager(slog.Default(), queue.Lane{Name: "default"})
	require.NoError(t, err)
	require.NoError(t, queue.RegisterJSON(m, "noop", "default", func(_ context.Context, _ struct{}) error {
		return nil
	}))
	require.NoError(t, m.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	err = m.Enqueue(context.Background(), "noop", struct{}{})
	assert.ErrorIs(t, err, queue.ErrQueueStopped)
}
