package saavn

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// worker bounds cross-track download concurrency. Per-track mutual
// exclusion is handled separately by the status map guard.
type worker struct {
	sem *semaphore.Weighted
}

func newWorker(maxConcurrency int) *worker {
	return &worker{sem: semaphore.NewWeighted(int64(maxConcurrency))}
}

func (w *worker) acquire(ctx context.Context) error {
	if err := w.sem.Acquire(ctx, 1); nil != err {
		return fmt.Errorf("acquire download slot: %w", err)
	}

	return nil
}

func (w *worker) release() {
	w.sem.Release(1)
}
