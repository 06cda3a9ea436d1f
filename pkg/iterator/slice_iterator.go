package iterator

import "io"

// SliceIterator provides a generic iterator over a slice of any type T.
// It is mostly used to feed prepared token lists into the splitter and in
// tests.
//
// Design Philosophy:
//   - Simple and lightweight: just wraps a slice with a read position
//   - No lifecycle management: always ready to use after construction
//   - Not thread-safe: use separate iterator per goroutine
//
// Example usage:
//
//	iter := NewSliceIterator(tokens)
//	stmts, err := splitter.Split(iter)
type SliceIterator[T any] struct {
	data         []T // The underlying slice to iterate over
	currentIndex int // Current position in the slice
}

// NewSliceIterator creates a new iterator over the given slice.
// The iterator is immediately ready to use - no lifecycle management needed.
func NewSliceIterator[T any](data []T) *SliceIterator[T] {
	return &SliceIterator[T]{
		data:         data,
		currentIndex: 0,
	}
}

// HasNext checks if there are more elements available. It never fails.
func (it *SliceIterator[T]) HasNext() (bool, error) {
	return it.currentIndex < len(it.data), nil
}

// Next returns the next element from the slice and advances the position.
// Returns io.EOF if there are no more elements.
func (it *SliceIterator[T]) Next() (T, error) {
	var zero T

	if it.currentIndex >= len(it.data) {
		return zero, io.EOF
	}

	element := it.data[it.currentIndex]
	it.currentIndex++
	return element, nil
}

// Peek returns the next element without advancing the position.
// Returns io.EOF if there are no more elements.
func (it *SliceIterator[T]) Peek() (T, error) {
	var zero T

	if it.currentIndex >= len(it.data) {
		return zero, io.EOF
	}

	return it.data[it.currentIndex], nil
}

// Rewind resets the iterator position to the beginning of the slice.
func (it *SliceIterator[T]) Rewind() error {
	it.currentIndex = 0
	return nil
}

// Len returns the total number of elements in the slice.
func (it *SliceIterator[T]) Len() int {
	return len(it.data)
}

// Remaining returns the number of elements left to iterate.
func (it *SliceIterator[T]) Remaining() int {
	if it.currentIndex >= len(it.data) {
		return 0
	}
	return len(it.data) - it.currentIndex
}
