package listing

// PickRandom selects k distinct meals from pool uniformly without
// replacement. When k covers the pool, a copy of the whole pool is returned
// in its original order. Selection runs a partial Fisher-Yates over a sparse
// swap map, so cost is O(k) and pool is never reordered. Every call samples
// independently.
func (e *Engine) PickRandom(pool []Meal, k int) []Meal {
	n := len(pool)
	if k >= n {
		out := make([]Meal, n)
		copy(out, pool)
		return out
	}
	if k <= 0 {
		return []Meal{}
	}

	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	swapped := make(map[int]int, 2*k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]Meal, k)
	for i := 0; i < k; i++ {
		j := i + e.rng.IntN(n-i)
		vi, vj := at(i), at(j)
		swapped[j] = vi
		swapped[i] = vj
		out[i] = pool[vj]
	}
	return out
}
