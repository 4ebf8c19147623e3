package collide

// ForEachPair calls fn once for every unordered pair of items, in index
// order: (0,1), (0,2), ..., (1,2), ...
func ForEachPair[T any](items []T, fn func(a, b T)) {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			fn(items[i], items[j])
		}
	}
}

// ForEachPairIndex is ForEachPair over indices 0..n-1.
func ForEachPairIndex(n int, fn func(i, j int)) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			fn(i, j)
		}
	}
}

// PairCount is n(n-1)/2.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
