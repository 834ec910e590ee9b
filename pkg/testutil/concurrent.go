package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	apierrors "authsession/pkg/api-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes  int32
	Rejections int32
	Failures   int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Rejections + r.Failures
}

// RunConcurrent executes fn in parallel goroutines and collects results.
// An error carrying ALREADY_LOADING counts as a rejection by the single-flight
// guard; any other error is a failure.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, rejections, failures atomic.Int32

	for i := range goroutines {
		wg.Go(func() {
			err := fn(i)
			switch {
			case err == nil:
				successes.Add(1)
			case apierrors.HasCode(err, apierrors.CodeAlreadyLoading):
				rejections.Add(1)
			default:
				failures.Add(1)
			}
		})
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:  successes.Load(),
		Rejections: rejections.Load(),
		Failures:   failures.Load(),
	}
}

// RunConcurrentCtx executes fn in parallel goroutines with context support.
func RunConcurrentCtx(ctx context.Context, goroutines int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(goroutines, func(idx int) error {
		return fn(ctx, idx)
	})
}

// RunConcurrentCollect executes fn in parallel and collects all errors.
// Use this when you need to inspect individual error codes.
func RunConcurrentCollect(goroutines int, fn func(idx int) error) (successes int32, errs []error) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successCount atomic.Int32
	collectedErrs := make([]error, 0)

	for i := range goroutines {
		wg.Go(func() {
			if err := fn(i); err != nil {
				mu.Lock()
				collectedErrs = append(collectedErrs, err)
				mu.Unlock()
			} else {
				successCount.Add(1)
			}
		})
	}

	wg.Wait()
	return successCount.Load(), collectedErrs
}
