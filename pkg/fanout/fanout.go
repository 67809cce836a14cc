// Package fanout runs a function across a slice with bounded concurrency.
// Results keep the input order and carry per-item errors, so one failing
// item never hides the outcome of its siblings.
package fanout

import (
	"context"
	"sync"
)

// DefaultLimit bounds concurrent work when the caller does not specify
// a limit. Resolution work is network and subprocess heavy, so the
// ceiling stays deliberately low.
const DefaultLimit = 5

// Result holds the outcome for a single input item.
type Result[R any] struct {
	Value R
	Err   error
}

// Map applies fn to every item using at most limit workers. A limit of
// zero or less falls back to DefaultLimit. The returned slice is indexed
// like items. Once ctx is done, unstarted items fail with the context
// error; items already in flight run to completion.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}

	workers := limit
	if workers <= 0 {
		workers = DefaultLimit
	}
	if len(items) < workers {
		workers = len(items)
	}

	type job struct {
		index int
		item  T
	}
	work := make(chan job, len(items))
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range work {
				if err := ctx.Err(); err != nil {
					results[j.index] = Result[R]{Err: err}
					continue
				}
				value, err := fn(ctx, j.item)
				results[j.index] = Result[R]{Value: value, Err: err}
			}
		}()
	}

	for i, item := range items {
		work <- job{index: i, item: item}
	}
	close(work)

	wg.Wait()
	return results
}

// Errors collects the non-nil errors from results in input order.
func Errors[R any](results []Result[R]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
