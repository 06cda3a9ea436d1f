package iterator

// Iterate drives iter to completion, calling processFunc for every element.
// processFunc controls the loop:
// - Return (false, nil) to stop iteration early
// - Return (true, nil) to continue
// - Return (_, error) to stop with error
func Iterate[T any](iter Iterator[T], processFunc func(T) (continueLooping bool, err error)) error {
	for {
		hasNext, err := iter.HasNext()
		if err != nil {
			return err
		}
		if !hasNext {
			break
		}

		item, err := iter.Next()
		if err != nil {
			return err
		}

		shouldContinue, err := processFunc(item)
		if err != nil {
			return err
		}
		if !shouldContinue {
			break
		}
	}

	return nil
}

// ForEach applies processFunc to each element, stopping at the first error.
func ForEach[T any](iter Iterator[T], processFunc func(T) error) error {
	return Iterate(iter, func(item T) (bool, error) {
		return true, processFunc(item)
	})
}

// Take returns up to n elements.
func Take[T any](iter Iterator[T], n int) ([]T, error) {
	items := make([]T, 0, n)
	if n <= 0 {
		return items, nil
	}

	err := Iterate(iter, func(item T) (bool, error) {
		items = append(items, item)
		return len(items) < n, nil
	})

	return items, err
}

// Count returns the number of remaining elements. It consumes the iterator.
func Count[T any](iter Iterator[T]) (int, error) {
	count := 0
	err := Iterate(iter, func(T) (bool, error) {
		count++
		return true, nil
	})
	return count, err
}

// Collect returns all remaining elements as a slice.
// Note: This consumes the entire iterator and loads every element into memory.
func Collect[T any](iter Iterator[T]) ([]T, error) {
	var results []T

	err := Iterate(iter, func(item T) (bool, error) {
		results = append(results, item)
		return true, nil
	})

	return results, err
}
