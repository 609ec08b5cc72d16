// Package fn holds small generic helpers for slices, results, and traced
// processing stages.
package fn

// Predicate reports whether v should be kept.
type Predicate[T any] func(T) bool

// Filter returns a new slice with the elements where pred is true, in input
// order. The result is never nil, so it encodes as [] rather than null.
func Filter[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range items {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// And combines predicates; the result is true when every predicate is.
// With no predicates it accepts everything.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Take returns a copy of the first n elements (fewer if items is shorter).
func Take[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
