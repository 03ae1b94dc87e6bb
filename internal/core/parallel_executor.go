package core

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// maxPoolWorkers caps the default pool size to avoid overwhelming the
// container runtime with concurrent pulls and runs.
const maxPoolWorkers = 8

// WorkerPool runs independent jobs on a bounded number of goroutines.
type WorkerPool struct {
	maxWorkers int
}

// NewWorkerPool creates a pool with the given number of workers.
// Zero or a negative value selects min(NumCPU, 8).
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = min(runtime.NumCPU(), maxPoolWorkers)
	}
	return &WorkerPool{maxWorkers: workers}
}

// Workers returns the configured worker count.
func (p *WorkerPool) Workers() int {
	return p.maxWorkers
}

// Run calls fn for every index in [0, n) using at most Workers goroutines
// and waits for all of them. A job whose turn comes after ctx is done is
// skipped and reports ctx.Err(). Errors of all jobs are joined.
func (p *WorkerPool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(min(p.maxWorkers, n))

	errs := make([]error, n)
	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // jobs never return errors to the group
	return errors.Join(errs...)
}
