// Package stream implements the lazy, pull-driven, single-consumer stream
// primitive that every layer of the parser/serializer pipeline is built on:
// one-item-at-a-time Next, non-consuming Peek, and a small set of
// combinators (Map, Filter, FilterMap, Fold, Iter, Drain). Nothing is
// produced before a consumer calls Next or Peek.
package stream

import "iter"

// Stream is a single-consumer, pull-driven sequence of T. It is not safe
// for concurrent use: a Stream may be pulled from one goroutine at a time.
type Stream[T any] struct {
	step     func() (T, bool)
	pushed   T
	hasPush  bool
	peeked   T
	hasPeek  bool
	failed   error
}

// New builds a Stream from a step function returning (item, true) for each
// element and (zero, false) at end.
func New[T any](step func() (T, bool)) *Stream[T] {
	return &Stream[T]{step: step}
}

// Func adapts a push-style generator — the func(yield func(T) bool) shape
// idiomatic Go code already produces via range-over-func — into a pull
// Stream by bridging it with iter.Pull, the standard library's own
// push-to-pull adapter.
func Func[T any](gen func(yield func(T) bool)) *Stream[T] {
	next, stop := iter.Pull(iter.Seq[T](gen))
	closed := false
	return New(func() (T, bool) {
		v, ok := next()
		if !ok && !closed {
			closed = true
			stop()
		}
		return v, ok
	})
}

// OfSlice builds a Stream that yields the elements of s in order.
func OfSlice[T any](s []T) *Stream[T] {
	i := 0
	return New(func() (T, bool) {
		if i >= len(s) {
			var zero T
			return zero, false
		}
		v := s[i]
		i++
		return v, true
	})
}

// Empty returns a Stream that is immediately at end.
func Empty[T any]() *Stream[T] {
	return New(func() (T, bool) { var zero T; return zero, false })
}

// Fail returns a Stream that is permanently failed from the start: every
// Next or Peek call panics with err.
func Fail[T any](err error) *Stream[T] {
	s := New[T](nil)
	s.failed = err
	return s
}

// SetFail marks s permanently failed; every subsequent Next/Peek raises err.
// Used by producers that hit an unrecoverable condition: the XML tree
// constructor when a caller's Report callback panics, and source.FromReader
// on a read error.
func (s *Stream[T]) SetFail(err error) {
	s.failed = err
}

// Next advances the stream and returns its next item, or ok=false at end.
// If a Report callback previously panicked through this stream, Next
// re-raises the same panic.
func (s *Stream[T]) Next() (T, bool) {
	if s.failed != nil {
		panic(s.failed)
	}
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
	return s.step()
}

// Peek returns the next item without advancing the stream. Calling Peek
// twice in a row returns the same item.
func (s *Stream[T]) Peek() (T, bool) {
	if s.failed != nil {
		panic(s.failed)
	}
	if s.hasPush {
		return s.pushed, true
	}
	if s.hasPeek {
		return s.peeked, true
	}
	v, ok := s.step()
	if ok {
		s.peeked = v
		s.hasPeek = true
	}
	return v, ok
}

// Push restores one item to the head of the stream, to be returned by the
// very next Next or Peek call. Only one pushed-back item is supported at a
// time — callers needing more must buffer themselves.
func (s *Stream[T]) Push(v T) {
	s.pushed = v
	s.hasPush = true
}

// Map returns a Stream applying f to every item of s.
func Map[T, U any](s *Stream[T], f func(T) U) *Stream[U] {
	return New(func() (U, bool) {
		v, ok := s.Next()
		if !ok {
			var zero U
			return zero, false
		}
		return f(v), true
	})
}

// Filter returns a Stream of the items of s for which keep returns true.
func Filter[T any](s *Stream[T], keep func(T) bool) *Stream[T] {
	return New(func() (T, bool) {
		for {
			v, ok := s.Next()
			if !ok {
				var zero T
				return zero, false
			}
			if keep(v) {
				return v, true
			}
		}
	})
}

// FilterMap returns a Stream of f(v) for each v of s where f's second
// result is true, skipping the rest.
func FilterMap[T, U any](s *Stream[T], f func(T) (U, bool)) *Stream[U] {
	return New(func() (U, bool) {
		for {
			v, ok := s.Next()
			if !ok {
				var zero U
				return zero, false
			}
			if u, keep := f(v); keep {
				return u, true
			}
		}
	})
}

// Fold consumes all of s, threading acc through f.
func Fold[T, A any](s *Stream[T], acc A, f func(A, T) A) A {
	for {
		v, ok := s.Next()
		if !ok {
			return acc
		}
		acc = f(acc, v)
	}
}

// Iter consumes all of s, calling f on each item in order.
func Iter[T any](s *Stream[T], f func(T)) {
	for {
		v, ok := s.Next()
		if !ok {
			return
		}
		f(v)
	}
}

// Drain consumes and discards the rest of s, e.g. to force side effects
// (error reporting) without caring about the values.
func Drain[T any](s *Stream[T]) {
	for {
		if _, ok := s.Next(); !ok {
			return
		}
	}
}

// ToSlice consumes all of s into a slice, in order.
func ToSlice[T any](s *Stream[T]) []T {
	var out []T
	Iter(s, func(v T) { out = append(out, v) })
	return out
}
