package pkg

import "iter"

// Option is a functional option that transforms a value of type T.
type Option[T any] func(T) T

// Make returns a zero value of T with the given options applied in order.
func Make[T any](opts ...Option[T]) T {
	var t T

	return Wrap(t, opts...)
}

// Wrap applies the given options to t in order and returns the result.
func Wrap[T any](t T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			t = opt(t)
		}
	}

	return t
}

// Map returns an iterator over s with each element converted by fn.
func Map[T, U any](s []T, fn func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for _, x := range s {
			if !yield(fn(x)) {
				return
			}
		}
	}
}
