package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func TestScheduler_Every(t *testing.T) {
	t.Run("runs the job repeatedly", func(t *testing.T) {
		s := newScheduler(t)

		var runs atomic.Int32
		id, err := s.Every("refresh", 10*time.Millisecond, func() { runs.Add(1) })
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
		require.NoError(t, s.Remove(id))
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		s := newScheduler(t)

		_, err := s.Every("refresh", 0, func() {})
		require.Error(t, err)
	})

	t.Run("removing an unknown job is not an error", func(t *testing.T) {
		s := newScheduler(t)
		require.NoError(t, s.Remove(uuid.New()))
	})
}

func TestTicker_StartStop(t *testing.T) {
	s := newScheduler(t)
	ticker := s.NewTicker(10 * time.Millisecond)

	var ticks atomic.Int32
	require.NoError(t, ticker.Start(func() { ticks.Add(1) }))
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, ticker.Stop())
	time.Sleep(50 * time.Millisecond)
	stopped := ticks.Load()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, stopped, ticks.Load())

	require.NoError(t, ticker.Start(func() { ticks.Add(1) }))
	require.Eventually(t, func() bool { return ticks.Load() > stopped }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, ticker.Stop())
}

func TestTicker_StopFromInsideTick(t *testing.T) {
	s := newScheduler(t)
	ticker := s.NewTicker(10 * time.Millisecond)

	var ticks atomic.Int32
	require.NoError(t, ticker.Start(func() {
		ticks.Add(1)
		_ = ticker.Stop()
	}))

	require.Eventually(t, func() bool { return ticks.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), ticks.Load())
}
