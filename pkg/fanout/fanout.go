// Package fanout runs independent computations concurrently and collects
// their results in input order.
//
// Each goroutine writes to its own slot of a preallocated slice, so no
// locking is needed and the output never depends on completion order. The
// first error cancels the shared context; results of the other goroutines
// are discarded.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every item concurrently and returns the results in the
// order of items.
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, ctx.Err()
	}

	out := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Concat is Map for functions returning slices; the slices are joined in
// the order of items.
func Concat[T, R any](ctx context.Context, items []T, fn func(context.Context, T) ([]R, error)) ([]R, error) {
	parts, err := Map(ctx, items, fn)
	if err != nil {
		return nil, err
	}
	var out []R
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}
