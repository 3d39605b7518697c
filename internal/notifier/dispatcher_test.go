package notifier

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherRunsSubmittedTasks(t *testing.T) {
	d := NewDispatcher(2, 16, zap.NewNop())
	d.Start(context.Background())

	var counter atomic.Int64
	for i := 0; i < 10; i++ {
		d.Submit(context.Background(), func(ctx context.Context) {
			counter.Add(1)
		})
	}

	d.Stop()
	require.Equal(t, int64(10), counter.Load())
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(1, 1, zap.NewNop())

	release := make(chan struct{})
	var done sync.WaitGroup

	// Workers are not started yet, so the single queue slot fills up
	// and further submits must drop instead of blocking.
	done.Add(1)
	d.Submit(context.Background(), func(ctx context.Context) {
		defer done.Done()
		<-release
	})

	var dropped atomic.Int64
	submitted := make(chan struct{})
	go func() {
		d.Submit(context.Background(), func(ctx context.Context) {
			dropped.Add(1)
		})
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	d.Start(context.Background())
	close(release)
	done.Wait()
	d.Stop()

	require.Equal(t, int64(0), dropped.Load())
}

func TestDispatcherRecoversFromPanics(t *testing.T) {
	d := NewDispatcher(1, 4, zap.NewNop())
	d.Start(context.Background())

	var after atomic.Bool
	d.Submit(context.Background(), func(ctx context.Context) {
		panic("boom")
	})
	d.Submit(context.Background(), func(ctx context.Context) {
		after.Store(true)
	})

	d.Stop()
	require.True(t, after.Load(), "worker should survive a panicking task")
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := NewDispatcher(1, 4, zap.NewNop())
	d.Start(context.Background())

	d.Stop()
	require.NotPanics(t, d.Stop)
}
