// Package memo memoizes the outcome of expensive computations so that each
// one runs at most once, even when many goroutines ask for it concurrently.
//
// A [Map] memoizes per string key; a [Cell] memoizes a single value. Both
// keep the first outcome (value or error) until it is forgotten, and
// requests that arrive while the computation is in flight join it instead
// of starting their own:
//
//	var reads memo.Map[string]
//	content, err := reads.Do(ctx, path, func() (string, error) {
//	    return readFile(path)
//	})
//
// Errors satisfying the Transient predicate (context cancellation by
// default) are handed to every waiter of that flight but are not retained,
// so the next request computes again.
package memo

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	val V
	err error
}

// Map memoizes computations by key. The zero value is ready to use.
// Map must not be copied after first use.
type Map[V any] struct {
	// Transient reports errors that are returned but not retained.
	// A nil Transient uses IsContextError.
	Transient func(error) bool

	group singleflight.Group

	mu   sync.Mutex
	gen  uint64
	done map[string]entry[V]
}

// Do returns the memoized outcome for key, running fn if there is none.
// Concurrent calls for the same key share a single call of fn. If ctx ends
// while waiting, Do returns ctx.Err() without disturbing the flight.
//
// fn runs under the context of the caller that started the flight. When
// that caller goes away and fn fails with its cancellation, waiters whose
// own context is still live start a new flight instead of seeing the
// foreign cancellation.
func (m *Map[V]) Do(ctx context.Context, key string, fn func() (V, error)) (V, error) {
	for {
		if e, ok := m.lookup(key); ok {
			return e.val, e.err
		}

		m.mu.Lock()
		gen := m.gen
		m.mu.Unlock()

		ch := m.group.DoChan(key, func() (any, error) {
			// A flight that finished between lookup and DoChan already stored
			// its outcome.
			if e, ok := m.lookup(key); ok {
				return e.val, e.err
			}
			v, err := fn()
			if err != nil && ctx.Err() != nil && IsContextError(err) {
				return v, &abandonedError{err: err}
			}
			m.store(gen, key, v, err)
			return v, err
		})

		select {
		case res := <-ch:
			var ab *abandonedError
			if errors.As(res.Err, &ab) {
				if err := ctx.Err(); err != nil {
					var zero V
					return zero, err
				}
				continue
			}
			v, _ := res.Val.(V)
			return v, res.Err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
}

// abandonedError marks a flight that failed because the caller that
// started it was cancelled.
type abandonedError struct{ err error }

func (e *abandonedError) Error() string { return e.err.Error() }
func (e *abandonedError) Unwrap() error { return e.err }

// Forget drops the memoized outcome for key. A flight in progress for key
// still completes for its waiters but its outcome is not retained.
func (m *Map[V]) Forget(key string) {
	m.mu.Lock()
	m.gen++
	delete(m.done, key)
	m.mu.Unlock()
	m.group.Forget(key)
}

// Reset drops every memoized outcome.
func (m *Map[V]) Reset() {
	m.mu.Lock()
	m.gen++
	keys := make([]string, 0, len(m.done))
	for k := range m.done {
		keys = append(keys, k)
	}
	m.done = nil
	m.mu.Unlock()
	for _, k := range keys {
		m.group.Forget(k)
	}
}

// Len returns the number of retained outcomes.
func (m *Map[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.done)
}

func (m *Map[V]) lookup(key string) (entry[V], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.done[key]
	return e, ok
}

func (m *Map[V]) store(gen uint64, key string, v V, err error) {
	transient := m.Transient
	if transient == nil {
		transient = IsContextError
	}
	if err != nil && transient(err) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return
	}
	if m.done == nil {
		m.done = make(map[string]entry[V])
	}
	m.done[key] = entry[V]{val: v, err: err}
}

// cellKey is the only key a Cell uses.
const cellKey = "_"

// Cell memoizes a single computation. The zero value is ready to use.
type Cell[V any] struct {
	m Map[V]
}

// Do returns the memoized outcome, running fn if there is none.
func (c *Cell[V]) Do(ctx context.Context, fn func() (V, error)) (V, error) {
	return c.m.Do(ctx, cellKey, fn)
}

// Reset drops the memoized outcome so the next Do runs fn again.
func (c *Cell[V]) Reset() { c.m.Forget(cellKey) }

// Done reports whether an outcome is retained.
func (c *Cell[V]) Done() bool {
	_, ok := c.m.lookup(cellKey)
	return ok
}

// IsContextError reports whether err stems from context cancellation or
// an expired deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
