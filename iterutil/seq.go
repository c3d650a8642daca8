package iterutil

func Map[T any, Slice ~[]E, E any](s Slice, f func(i int, v E) T) []T {
	result := make([]T, len(s))
	for i, v := range s {
		result[i] = f(i, v)
	}

	return result
}
