// Package worker provides a bounded goroutine pool for API calls.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/formula-cleaner/internal/constants"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool   *ants.Pool
	name   string
	logger *zap.Logger
}

// NewPool creates a pool running at most size tasks at once. Submit blocks
// while the pool is full.
func NewPool(name string, size int, logger *zap.Logger) (*Pool, error) {
	if size < 1 {
		size = constants.DefaultConcurrencyLimit
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	panicHandler := func(p interface{}) {
		logger.Error(fmt.Sprintf("Worker panic recovered in %s pool: %v", name, p),
			zap.String("pool", name),
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}

	antsPool, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(constants.PoolExpiryDuration),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s pool: %w", name, err)
	}

	return &Pool{pool: antsPool, name: name, logger: logger}, nil
}

// Submit submits a task. If ctx is already cancelled, ctx.Err() is returned
// without submitting. A submitted task always runs and receives ctx, so it
// must handle cancellation at its blocking points.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := p.pool.Submit(func() {
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return constants.ErrPoolClosed
	}

	return err
}

// Release waits for running tasks, bounded by constants.PoolReleaseTimeout.
func (p *Pool) Release() {
	err := p.pool.ReleaseTimeout(constants.PoolReleaseTimeout)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("Worker pool %s shutdown timeout: %v", p.name, err), zap.String("pool", p.name), zap.Error(err))
	}
}

// Cap returns the pool size.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}
