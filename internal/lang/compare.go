package lang

import (
	"math"
	"strings"
)

// CompareText scores the similarity of two strings in [0,1]. Either string
// being empty scores 1.0. Both are lower-cased and the shorter placed first;
// the scan then walks every contiguous substring of the shorter string in
// decreasing length order, claiming the first unclaimed occurrence inside
// the longer string. Claimed regions are consumed on both sides and cannot
// match again. Each match of length L at positions (i, j) contributes
//
//	((L/lenA + L/lenB) / 2) / 2^|i-j|
//
// so matches that land far apart when the strings are aligned score
// exponentially lower. The total is finally scaled by lenA/lenB, penalizing
// length mismatch. Pure and deterministic; the claim order is part of the
// contract since it decides ranking.
func CompareText(a, b string) float64 {
	if a == "" || b == "" {
		return 1.0
	}

	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	lenA := len(ra)
	lenB := len(rb)

	usedA := make([]bool, lenA)
	usedB := make([]bool, lenB)

	total := 0.0
	for size := lenA; size >= 1; size-- {
		for i := 0; i+size <= lenA; i++ {
			if anyClaimed(usedA, i, size) {
				continue
			}
			j, ok := findUnclaimed(ra[i:i+size], rb, usedB)
			if !ok {
				continue
			}
			claim(usedA, i, size)
			claim(usedB, j, size)

			dist := i - j
			if dist < 0 {
				dist = -dist
			}
			weight := (float64(size)/float64(lenA) + float64(size)/float64(lenB)) / 2
			total += weight / math.Pow(2, float64(dist))
		}
	}

	return total * float64(lenA) / float64(lenB)
}

func anyClaimed(used []bool, start, size int) bool {
	for k := start; k < start+size; k++ {
		if used[k] {
			return true
		}
	}
	return false
}

func claim(used []bool, start, size int) {
	for k := start; k < start+size; k++ {
		used[k] = true
	}
}

// findUnclaimed returns the first index of sub inside runes where no
// position is already claimed.
func findUnclaimed(sub, runes []rune, used []bool) (int, bool) {
	for j := 0; j+len(sub) <= len(runes); j++ {
		if anyClaimed(used, j, len(sub)) {
			continue
		}
		match := true
		for k := range sub {
			if runes[j+k] != sub[k] {
				match = false
				break
			}
		}
		if match {
			return j, true
		}
	}
	return 0, false
}
