// Package asynctask is the asynchronous collaborator spec.md §6 calls for:
// a Task[T] future built on golang.org/x/sync/errgroup (already part of
// the module graph), and an async Stream[T] offering the same
// next/peek/push shape as stream.Stream[T] but fed from a goroutine. The
// parsing/serializing core stays single-threaded; this package is the one
// place a caller opts into concurrency.
package asynctask

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is a single-result future: exactly one of fn's (T, error) becomes
// available, observed through Await.
type Task[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Run starts fn in a goroutine managed by an errgroup.Group. An error
// returned by fn, or a panic inside it (recovered and turned into an
// error), is what Await returns, rather than crashing the caller.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("asynctask: panic: %v", r)
				t.err = err
			}
		}()
		v, err := fn(gctx)
		t.result, t.err = v, err
		return err
	})
	go func() {
		_ = g.Wait()
		close(t.done)
	}()
	return t
}

// Return builds an already-resolved Task, useful as the base case of a
// Then chain or in tests that don't need real concurrency.
func Return[T any](v T) *Task[T] {
	t := &Task[T]{done: make(chan struct{}), result: v}
	close(t.done)
	return t
}

// Await blocks until t resolves and returns its result.
func (t *Task[T]) Await() (T, error) {
	<-t.done
	return t.result, t.err
}

// Then chains fn onto t's result, short-circuiting on t's error.
func Then[T, U any](ctx context.Context, t *Task[T], fn func(T) (U, error)) *Task[U] {
	return Run(ctx, func(context.Context) (U, error) {
		v, err := t.Await()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Stream is an async producer/consumer sequence of T, backed by a
// goroutine feeding a buffered channel; Next/Peek/Push mirror
// stream.Stream[T]'s single-pushback contract so callers can treat it the
// same way once it's running.
type Stream[T any] struct {
	c       chan T
	g       *errgroup.Group
	pushed  T
	hasPush bool
	peeked  T
	hasPeek bool
	err     error
}

// New starts produce in a goroutine via errgroup, yielding into the
// returned Stream through the yield callback it's given; yield returns
// false once the consumer side (ctx cancellation) wants production to stop.
func New[T any](ctx context.Context, buffer int, produce func(ctx context.Context, yield func(T) bool) error) *Stream[T] {
	s := &Stream[T]{c: make(chan T, buffer)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(s.c)
		return produce(gctx, func(v T) bool {
			select {
			case s.c <- v:
				return true
			case <-gctx.Done():
				return false
			}
		})
	})
	s.g = g
	return s
}

// Next returns the next item, or ok=false once the producer is done.
func (s *Stream[T]) Next() (T, bool) {
	if s.hasPush {
		s.hasPush = false
		v := s.pushed
		var zero T
		s.pushed = zero
		return v, true
	}
	if s.hasPeek {
		s.hasPeek = false
		v := s.peeked
		var zero T
		s.peeked = zero
		return v, true
	}
	v, ok := <-s.c
	return v, ok
}

// Peek returns the next item without consuming it.
func (s *Stream[T]) Peek() (T, bool) {
	if s.hasPush {
		return s.pushed, true
	}
	if s.hasPeek {
		return s.peeked, true
	}
	v, ok := <-s.c
	if ok {
		s.peeked, s.hasPeek = v, true
	}
	return v, ok
}

// Push restores one item to the head of the stream.
func (s *Stream[T]) Push(v T) {
	s.pushed, s.hasPush = v, true
}

// Wait blocks until the producer goroutine finishes and returns its error,
// if any; safe to call after the stream has been fully drained.
func (s *Stream[T]) Wait() error {
	return s.g.Wait()
}
