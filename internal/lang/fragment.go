package lang

import "sync"

// TextFragment wraps a run of user-entered characters. The identity Key and
// the case-insensitive GroupKey are computed lazily and cached; fragments are
// deduplicated by Key inside a Dictionary and treated as immutable once
// created.
type TextFragment struct {
	text            string
	hadLeadingSpace bool

	mu           sync.Mutex
	key          string
	keyDone      bool
	groupKey     string
	groupKeyDone bool
}

// NewTextFragment creates a fragment for raw text. hadLeadingSpace records
// whether the fragment was preceded by whitespace in the original input.
func NewTextFragment(text string, hadLeadingSpace bool) *TextFragment {
	return &TextFragment{text: text, hadLeadingSpace: hadLeadingSpace}
}

// Text returns the raw text.
func (f *TextFragment) Text() string { return f.text }

// HadLeadingSpace reports whether the fragment followed whitespace.
func (f *TextFragment) HadLeadingSpace() bool { return f.hadLeadingSpace }

// Key returns the case-sensitive identity key: tokenized and rejoined with
// whitespace runs collapsed to single spaces.
func (f *TextFragment) Key() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.keyDone {
		key, err := GetKeyFromTextParts(Parse(f.text))
		if err != nil {
			key = ""
		}
		f.key = key
		f.keyDone = true
	}
	return f.key
}

// GroupKey returns the lower-cased grouping form of Key.
func (f *TextFragment) GroupKey() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.groupKeyDone {
		f.groupKey = ToGroupKey(f.text)
		f.groupKeyDone = true
	}
	return f.groupKey
}
