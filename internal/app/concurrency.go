package app

import (
	"context"
	"sync"
)

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartialLimit executes functions with bounded concurrency and
// collects every result. A failing function never cancels its siblings.
//
// At most limit functions run at once; a non-positive limit runs them all
// concurrently. Functions not yet started when ctx is done are skipped and
// report ctx.Err().
//
// Example:
//
//	results := ParallelPartialLimit(ctx, 10, sends...)
//	for _, r := range results {
//	    if r.Err != nil {
//	        failed++
//	    }
//	}
func ParallelPartialLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) []PartialResult[T] {
	results := make([]PartialResult[T], len(fns))
	if len(fns) == 0 {
		return results
	}

	if limit <= 0 || limit > len(fns) {
		limit = len(fns)
	}

	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup

	for i, fn := range fns {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = PartialResult[T]{Err: ctx.Err()}
			continue
		}

		wg.Go(func() {
			defer func() { <-sem }()

			value, err := fn(ctx)
			results[i] = PartialResult[T]{Value: value, Err: err}
		})
	}

	wg.Wait()

	return results
}
