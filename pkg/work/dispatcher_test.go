package work

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatcher(t *testing.T) {
	testCases := []struct {
		name            string
		config          DispatcherConfig
		expectedWorkers int
	}{
		{name: "default config", config: DispatcherConfig{}, expectedWorkers: runtime.NumCPU()},
		{name: "custom config", config: DispatcherConfig{MaxWorkers: 8}, expectedWorkers: 8},
		{name: "negative workers defaults to CPU count", config: DispatcherConfig{MaxWorkers: -1}, expectedWorkers: runtime.NumCPU()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDispatcher(tc.config)
			if d == nil {
				t.Fatal("expected dispatcher to be created, got nil")
			}
			if d.Workers() != tc.expectedWorkers {
				t.Errorf("expected %d workers, got %d", tc.expectedWorkers, d.Workers())
			}
		})
	}
}

func TestRun_PreservesInputOrder(t *testing.T) {
	values := []int{5, 1, 4, 2, 3}
	items := Items(values, func(v int) string { return fmt.Sprintf("item-%d", v) })

	d := NewDispatcher(DispatcherConfig{MaxWorkers: 3})
	results, summary, err := Run(context.Background(), d, items, func(_ context.Context, v int) (int, error) {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * 10, nil
	})
	require.NoError(t, err)

	require.Len(t, results, len(values))
	for i, v := range values {
		assert.Equal(t, fmt.Sprintf("item-%d", v), results[i].ID)
		assert.Equal(t, v*10, results[i].Value)
		assert.NoError(t, results[i].Err)
	}
	assert.Equal(t, 5, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Workers)
}

func TestRun_FailuresDoNotStopBatch(t *testing.T) {
	items := Items([]string{"ok-1", "bad", "ok-2"}, func(s string) string { return s })
	boom := errors.New("boom")

	var calls []string
	d := NewDispatcher(DispatcherConfig{MaxWorkers: 1, ProgressCallback: func(id string, err error) {
		calls = append(calls, id)
	}})
	results, summary, err := Run(context.Background(), d, items, func(_ context.Context, s string) (string, error) {
		if s == "bad" {
			return "", boom
		}
		return s, nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, results[1].Err, boom)
	assert.Equal(t, "ok-2", results[2].Value)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.ElementsMatch(t, []string{"ok-1", "bad", "ok-2"}, calls)
}

func TestRun_RespectsLimit(t *testing.T) {
	var inFlight, peak int32
	items := Items(make([]int, 20), func(int) string { return "x" })

	d := NewDispatcher(DispatcherConfig{MaxWorkers: 2})
	_, _, err := Run(context.Background(), d, items, func(_ context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := Items([]int{1, 2}, func(v int) string { return fmt.Sprint(v) })
	results, summary, err := Run(ctx, NewDispatcher(DispatcherConfig{}), items, func(_ context.Context, v int) (int, error) {
		return v, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Equal(t, 2, summary.Failed)
}

func TestRun_Empty(t *testing.T) {
	results, summary, err := Run(context.Background(), NewDispatcher(DispatcherConfig{}), nil, func(_ context.Context, v int) (int, error) {
		return v, nil
	})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, summary.TotalItems)
}
