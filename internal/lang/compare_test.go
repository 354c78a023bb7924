package lang

import (
	"math"
	"testing"
)

func TestCompareTextIdentical(t *testing.T) {
	for _, s := range []string{"a", "cat", "hello world"} {
		if got := CompareText(s, s); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("CompareText(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestCompareTextEmpty(t *testing.T) {
	if got := CompareText("", "anything"); got != 1.0 {
		t.Errorf("empty left = %v, want 1.0", got)
	}
	if got := CompareText("anything", ""); got != 1.0 {
		t.Errorf("empty right = %v, want 1.0", got)
	}
}

func TestCompareTextCaseInsensitive(t *testing.T) {
	if got := CompareText("Hello", "hello"); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("case-folded identical = %v, want 1.0", got)
	}
}

func TestCompareTextSymmetricArguments(t *testing.T) {
	// argument order must not matter: the shorter string is always scanned
	ab := CompareText("helo", "hello")
	ba := CompareText("hello", "helo")
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("order changed the score: %v vs %v", ab, ba)
	}
}

func TestCompareTextDisjoint(t *testing.T) {
	if got := CompareText("abc", "xyz"); got != 0 {
		t.Errorf("disjoint strings = %v, want 0", got)
	}
}

func TestCompareTextRanking(t *testing.T) {
	// a near-miss must outrank a distant relative
	typo := CompareText("helo", "hello")
	other := CompareText("world", "hello")
	if typo <= other {
		t.Errorf("ranking inverted: typo=%v other=%v", typo, other)
	}
	if typo <= 0.5 {
		t.Errorf("near-miss scored too low: %v", typo)
	}
}

func TestCompareTextLengthPenalty(t *testing.T) {
	// a shared prefix scores lower the longer the other string grows
	short := CompareText("cat", "cats")
	long := CompareText("cat", "catastrophe")
	if short <= long {
		t.Errorf("length penalty missing: %v vs %v", short, long)
	}
}

func TestCompareTextSingleRuneDistance(t *testing.T) {
	// "a" matches at offset 0 of "ab" but offset 1 of "ba"; the
	// displacement halves the contribution
	near := CompareText("a", "ab")
	far := CompareText("a", "ba")
	if math.Abs(near-2*far) > 1e-9 {
		t.Errorf("distance weighting off: near=%v far=%v", near, far)
	}
}
