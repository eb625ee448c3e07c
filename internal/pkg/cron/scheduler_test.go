package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob_Rejects(t *testing.T) {
	s := NewScheduler(nil)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.AddJob("purge", time.Minute, noop))
	assert.Error(t, s.AddJob("purge", time.Minute, noop), "duplicate name")
	assert.Error(t, s.AddJob("zero", 0, noop), "zero interval")

	s.Start(context.Background())
	defer s.Stop()
	assert.Error(t, s.AddJob("late", time.Minute, noop), "added after start")
}

func TestStart_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)
	var runs atomic.Int32
	started := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", time.Hour, func(context.Context) error {
		runs.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start(context.Background())
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestStart_ParentContextCancelsJobs(t *testing.T) {
	s := NewScheduler(nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.AddJob("tick", time.Hour, func(context.Context) error { return nil }))

	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after the parent context ended")
	}
}

func TestRunNow_NotifiesObserver(t *testing.T) {
	s := NewScheduler(nil)
	failure := errors.New("db down")
	require.NoError(t, s.AddJob("purge", time.Hour, func(context.Context) error { return failure }))

	var (
		mu   sync.Mutex
		seen []string
	)
	s.Observe(func(name string, _ time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, name)
		assert.ErrorIs(t, err, failure)
	})

	assert.ErrorIs(t, s.RunNow(context.Background(), "purge"), failure)
	assert.Error(t, s.RunNow(context.Background(), "missing"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"purge"}, seen)
}

func TestStop_WithoutStart(t *testing.T) {
	NewScheduler(nil).Stop()
}
