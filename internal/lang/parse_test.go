package lang

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single word", "hello", []string{"hello"}},
		{"words and spaces", "hello world", []string{"hello", " ", "world"}},
		{"whitespace run collapses", "a  \t b", []string{"a", " ", "b"}},
		{"digits split from letters", "abc123", []string{"abc", "123"}},
		{"symbols are single tokens", "a+b", []string{"a", "+", "b"}},
		{"punctuation", "hi, there!", []string{"hi", ",", " ", "there", "!"}},
		{"quoted run kept whole", `say "hello world" now`, []string{"say", " ", "hello world", " ", "now"}},
		{"curly quotes", "“hello there”", []string{"hello there"}},
		{"unterminated quote degrades", `a "b`, []string{"a", " ", `"`, "b"}},
		{"empty quoted run", `""`, []string{""}},
		{"leading space", " hi", []string{" ", "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestGetKeyFromText(t *testing.T) {
	key, err := GetKeyFromText("Hello,  World")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "Hello, World" {
		t.Errorf("key = %q, want %q", key, "Hello, World")
	}

	if _, err := GetKeyFromText(""); err != ErrEmptyText {
		t.Errorf("empty text error = %v, want ErrEmptyText", err)
	}
}

func TestToGroupKey(t *testing.T) {
	if got := ToGroupKey("Hello World"); got != "hello world" {
		t.Errorf("group key = %q, want %q", got, "hello world")
	}
	// identity keys stay distinct while group keys collide
	a, _ := GetKeyFromText("Polish")
	b, _ := GetKeyFromText("polish")
	if a == b {
		t.Errorf("identity keys should differ: %q vs %q", a, b)
	}
	if ToGroupKey("Polish") != ToGroupKey("polish") {
		t.Error("group keys should collide for case variants")
	}
	if got := ToGroupKey(""); got != "" {
		t.Errorf("empty group key = %q", got)
	}
}
