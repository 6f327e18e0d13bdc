package lox

import "fmt"

// MapErr maps collection and stops at the first failing item, reporting its
// index.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	result := make([]R, len(collection))

	for i, item := range collection {
		r, err := iteratee(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		result[i] = r
	}

	return result, nil
}
