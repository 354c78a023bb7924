package lang

import (
	"fmt"
	"testing"
)

func TestCombinationCount(t *testing.T) {
	tests := []struct {
		counts []int
		want   int
	}{
		{nil, 0},
		{[]int{}, 0},
		{[]int{1}, 1},
		{[]int{2, 3}, 6},
		{[]int{2, 1, 3}, 6},
		{[]int{0, 2}, 2}, // zero-candidate positions count as one
		{[]int{0, 0}, 1},
	}
	for _, tt := range tests {
		if got := CombinationCount(tt.counts); got != tt.want {
			t.Errorf("CombinationCount(%v) = %d, want %d", tt.counts, got, tt.want)
		}
	}
}

func TestCombinationsFirstIsAllZeros(t *testing.T) {
	gen := NewCombinations([]int{3, 2, 4})
	vec, ok := gen.Next()
	if !ok {
		t.Fatal("expected a first combination")
	}
	for pos, v := range vec {
		if v != 0 {
			t.Fatalf("first vector = %v, want all zeros (pos %d)", vec, pos)
		}
	}
}

func TestCombinationsYieldsExactlyAllDistinct(t *testing.T) {
	cases := [][]int{
		{1},
		{2, 3},
		{2, 1, 3},
		{4, 4},
		{1, 1, 1},
		{5},
		{0, 3, 2},
	}
	for _, counts := range cases {
		t.Run(fmt.Sprintf("%v", counts), func(t *testing.T) {
			want := CombinationCount(counts)
			gen := NewCombinations(counts)

			seen := make(map[string]bool)
			for {
				vec, ok := gen.Next()
				if !ok {
					break
				}
				for pos, v := range vec {
					max := counts[pos]
					if max == 0 {
						max = 1
					}
					if v < 0 || v >= max {
						t.Fatalf("vector %v out of range at pos %d", vec, pos)
					}
				}
				key := fmt.Sprint(vec)
				if seen[key] {
					t.Fatalf("duplicate vector %v", vec)
				}
				seen[key] = true
				if len(seen) > want {
					t.Fatalf("generator exceeded %d combinations", want)
				}
			}
			if len(seen) != want {
				t.Errorf("yielded %d combinations, want %d", len(seen), want)
			}
		})
	}
}

func TestCombinationsWidensDepthGradually(t *testing.T) {
	// the low indices of every position are explored before any high index
	gen := NewCombinations([]int{3, 3})

	var vecs [][]int
	for {
		vec, ok := gen.Next()
		if !ok {
			break
		}
		vecs = append(vecs, vec)
	}
	if len(vecs) != 9 {
		t.Fatalf("yielded %d vectors, want 9", len(vecs))
	}

	// all vectors confined to {0,1} must precede any vector containing 2
	firstDeep := -1
	lastShallow := -1
	for n, vec := range vecs {
		deep := false
		for _, v := range vec {
			if v >= 2 {
				deep = true
			}
		}
		if deep && firstDeep == -1 {
			firstDeep = n
		}
		if !deep {
			lastShallow = n
		}
	}
	if lastShallow > firstDeep && firstDeep != -1 {
		t.Errorf("shallow vector at %d after deep vector at %d", lastShallow, firstDeep)
	}
}

func TestCombinationsReset(t *testing.T) {
	gen := NewCombinations([]int{2, 2})
	gen.Next()
	gen.Next()
	gen.Reset()

	if gen.Remaining() != 4 {
		t.Errorf("Remaining after reset = %d, want 4", gen.Remaining())
	}
	vec, ok := gen.Next()
	if !ok || vec[0] != 0 || vec[1] != 0 {
		t.Errorf("first vector after reset = %v, %v", vec, ok)
	}
}

func TestCombinationsEmpty(t *testing.T) {
	gen := NewCombinations(nil)
	if vec, ok := gen.Next(); ok {
		t.Errorf("empty counts yielded %v", vec)
	}
}
