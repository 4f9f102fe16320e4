package utils

// FindIndex returns the position of the first occurrence of item, -1 if absent
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// ArgMax returns the position of the first strictly greatest value, -1 for an
// empty slice
func ArgMax[T int | float64](values []T) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
