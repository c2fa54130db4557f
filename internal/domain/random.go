package domain

import "math/rand"

// Shuffle returns a Fisher-Yates shuffled copy of items. The input slice is
// never touched; the result is a fresh, independently owned sequence. Callers
// own the rand source so tests can fix the seed.
func Shuffle[T any](rnd *rand.Rand, items []T) []T {
	result := make([]T, len(items))
	copy(result, items)
	for i := len(result) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// RandomInt draws uniformly from [min, max], both ends inclusive.
func RandomInt(rnd *rand.Rand, min, max int) int {
	return rnd.Intn(max-min+1) + min
}
