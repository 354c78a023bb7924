package lang

// CombinationCount returns the number of selection vectors over the given
// per-position candidate counts. A position with no candidates counts as 1;
// empty input counts as 0.
func CombinationCount(counts []int) int {
	if len(counts) == 0 {
		return 0
	}
	total := 1
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		total *= c
	}
	return total
}

// GetCombinationCount returns the selection-vector count for a matching
// pass.
func GetCombinationCount(matches []*MatchedConcepts) int {
	counts := make([]int, len(matches))
	for i, m := range matches {
		if m != nil {
			counts[i] = len(m.Matches)
		}
	}
	return CombinationCount(counts)
}

// Combinations lazily produces one selection vector per Next call, one
// chosen candidate index per position, ordered so earlier vectors are
// overall more likely to be correct than later ones. A per-position index
// array is advanced odometer-style with each digit bounded by
// min(depthLevel, candidateCount); when the odometer wraps while
// combinations remain, the depth level widens so lower-ranked candidates
// become reachable. A vector is yielded exactly once, at the first depth
// level that can reach it. Callers may stop early.
type Combinations struct {
	counts  []int
	idx     []int
	depth   int
	total   int
	yielded int
	started bool
}

// NewCombinations builds a generator over the per-position candidate
// counts. Positions with no candidates are pinned to index 0.
func NewCombinations(counts []int) *Combinations {
	c := &Combinations{counts: make([]int, len(counts))}
	copy(c.counts, counts)
	c.Reset()
	return c
}

// NewCombinationsFor builds a generator for a matching pass.
func NewCombinationsFor(matches []*MatchedConcepts) *Combinations {
	counts := make([]int, len(matches))
	for i, m := range matches {
		if m != nil {
			counts[i] = len(m.Matches)
		}
	}
	return NewCombinations(counts)
}

// Reset restarts the generator from the first vector.
func (c *Combinations) Reset() {
	c.idx = make([]int, len(c.counts))
	c.depth = 2
	c.total = CombinationCount(c.counts)
	c.yielded = 0
	c.started = false
}

// Remaining returns how many vectors have not been yielded yet.
func (c *Combinations) Remaining() int { return c.total - c.yielded }

// Next returns the next selection vector, or false when every position has
// exhausted its candidates. The returned slice is owned by the caller.
func (c *Combinations) Next() ([]int, bool) {
	if c.total == 0 || c.yielded >= c.total {
		return nil, false
	}

	if !c.started {
		// The first vector always selects every position's best candidate.
		c.started = true
		c.yielded++
		return c.snapshot(), true
	}

	for {
		if !c.advance() {
			// Odometer wrapped at this depth with combinations remaining:
			// widen so deeper candidates become reachable.
			c.depth++
			continue
		}
		if c.newAtCurrentDepth() {
			c.yielded++
			return c.snapshot(), true
		}
	}
}

// advance increments the index array with carry propagation, each digit
// bounded by min(depth, count). Returns false when the odometer wraps.
func (c *Combinations) advance() bool {
	for pos := 0; pos < len(c.idx); pos++ {
		bound := c.bound(pos)
		c.idx[pos]++
		if c.idx[pos] < bound {
			return true
		}
		c.idx[pos] = 0
	}
	return false
}

func (c *Combinations) bound(pos int) int {
	count := c.counts[pos]
	if count <= 0 {
		return 1
	}
	if c.depth < count {
		return c.depth
	}
	return count
}

// newAtCurrentDepth reports whether the vector was unreachable at the
// previous depth level, which is exactly when some digit sits on the
// newly opened slot.
func (c *Combinations) newAtCurrentDepth() bool {
	for pos := range c.idx {
		if c.idx[pos] == c.depth-1 {
			return true
		}
	}
	return false
}

func (c *Combinations) snapshot() []int {
	out := make([]int, len(c.idx))
	copy(out, c.idx)
	return out
}
