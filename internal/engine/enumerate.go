package engine

// Combinations lazily enumerates every index combination of size
// 1..min(maxSize, n) over n elements. The generator is iterative
// (index-based, no recursion), finite and restartable; callers bound
// combinatorial cost by capping n or maxSize before construction.
type Combinations struct {
	n       int
	maxSize int
	size    int   // current combination size
	idx     []int // current combination, ascending indices
	started bool
	done    bool
}

// NewCombinations builds a generator over n elements with itemset sizes
// 1..min(maxSize, n). A zero n or maxSize yields an exhausted generator.
func NewCombinations(n, maxSize int) *Combinations {
	c := &Combinations{n: n, maxSize: maxSize}
	c.Reset()
	return c
}

// Reset rewinds the generator to the first combination.
func (c *Combinations) Reset() {
	c.size = 1
	c.started = false
	c.done = c.n < 1 || c.maxSize < 1
}

// Next yields the next combination as ascending indices into the element
// slice. The returned slice is reused between calls; callers must not
// retain it. The second result is false once the sequence is exhausted.
func (c *Combinations) Next() ([]int, bool) {
	if c.done {
		return nil, false
	}

	if !c.started {
		c.started = true
		c.idx = c.first(c.size)
		return c.idx, true
	}

	if c.advance() {
		return c.idx, true
	}

	// current size exhausted, move to the next one
	c.size++
	if c.size > c.maxSize || c.size > c.n {
		c.done = true
		return nil, false
	}
	c.idx = c.first(c.size)
	return c.idx, true
}

func (c *Combinations) first(size int) []int {
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// advance steps c.idx to the next combination of the current size,
// returning false when none remains: find the rightmost position that can
// still move, bump it, and reset everything after it.
func (c *Combinations) advance() bool {
	size := len(c.idx)
	i := size - 1
	for i >= 0 && c.idx[i] == c.n-size+i {
		i--
	}
	if i < 0 {
		return false
	}
	c.idx[i]++
	for j := i + 1; j < size; j++ {
		c.idx[j] = c.idx[j-1] + 1
	}
	return true
}
