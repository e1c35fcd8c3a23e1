package thanosql

import "iter"

// Paginate groups the values produced by seq into pages of at most size
// elements, preserving order. A page is never empty: an exhausted input
// yields no pages at all, and only the final page may be shorter than
// size.
//
// The returned sequence is lazy and single-pass; it is restartable only
// if seq itself is. size must be positive, which the service entry
// points validate before calling.
func Paginate[T any](seq iter.Seq[T], size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		page := make([]T, 0, size)
		for v := range seq {
			page = append(page, v)
			if len(page) == size {
				if !yield(page) {
					return
				}
				page = make([]T, 0, size)
			}
		}
		if len(page) > 0 {
			yield(page)
		}
	}
}
