package scheduler

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

func TestNew_EmptyScheduleDisables(t *testing.T) {
	s, err := New("", Step{Name: "noop", Run: func(context.Context) error { return nil }})
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	s.Start()
	assert.NoError(t, s.Stop(context.Background()))
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every afternoon")
	assert.Error(t, err)
}

func TestNew_RequiresSeconds(t *testing.T) {
	// WHY: the default schedule has six fields; five-field schedules must be rejected, not misread.
	_, err := New("30 14 * * 1-5")
	assert.Error(t, err)

	s, err := New("0 30 14 * * 1-5")
	require.NoError(t, err)
	assert.True(t, s.Enabled())
}

func TestRun_StepsInOrderAndContinueAfterFailure(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(name string, err error) Step {
		return Step{Name: name, Run: func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return err
		}}
	}

	s, err := New("",
		record("prices", errors.New("feed down")),
		record("actions", nil),
		record("recalculate", nil),
	)
	require.NoError(t, err)

	s.Run(context.Background())
	assert.Equal(t, []string{"prices", "actions", "recalculate"}, order)
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	var calls atomic.Int32
	step := Step{Name: "count", Run: func(context.Context) error {
		calls.Add(1)
		return nil
	}}
	s, err := New("", step, step)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)
	assert.Equal(t, int32(0), calls.Load())
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	var calls atomic.Int32
	s, err := New("* * * * * *", Step{Name: "tick", Run: func(context.Context) error {
		calls.Add(1)
		return nil
	}})
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_StopCancelsRunningStep(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	s, err := New("* * * * * *", Step{Name: "slow", Run: func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	}})
	require.NoError(t, err)

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("step never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
