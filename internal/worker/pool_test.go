package worker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/fivetwenty-io/formula-cleaner/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	pool, err := worker.NewPool("test", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Cap())

	var (
		waitGroup sync.WaitGroup
		running   atomic.Int32
		peak      atomic.Int32
	)

	for range 10 {
		waitGroup.Add(1)

		err := pool.Submit(context.Background(), func(ctx context.Context) {
			defer waitGroup.Done()

			current := running.Add(1)
			for {
				old := peak.Load()
				if current <= old || peak.CompareAndSwap(old, current) {
					break
				}
			}

			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
		require.NoError(t, err)
	}

	waitGroup.Wait()
	pool.Release()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPool_CancelledContext(t *testing.T) {
	t.Parallel()

	pool, err := worker.NewPool("test", 1, nil)
	require.NoError(t, err)

	defer pool.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pool.Submit(ctx, func(context.Context) {
		t.Error("task must not run")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPool_RecoversPanics(t *testing.T) {
	t.Parallel()

	pool, err := worker.NewPool("test", 1, nil)
	require.NoError(t, err)

	done := make(chan struct{})

	require.NoError(t, pool.Submit(context.Background(), func(context.Context) {
		defer close(done)
		panic("boom")
	}))

	<-done

	var ran atomic.Bool

	finished := make(chan struct{})

	require.NoError(t, pool.Submit(context.Background(), func(context.Context) {
		ran.Store(true)
		close(finished)
	}))

	<-finished
	pool.Release()

	assert.True(t, ran.Load())
}

func TestPool_SubmitAfterRelease(t *testing.T) {
	t.Parallel()

	pool, err := worker.NewPool("test", 1, nil)
	require.NoError(t, err)

	pool.Release()

	err = pool.Submit(context.Background(), func(context.Context) {})
	require.ErrorIs(t, err, constants.ErrPoolClosed)
}
