package lang

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyText is returned where a non-empty key or text is required.
var ErrEmptyText = errors.New("text must not be empty")

// quotePairs maps opening quote runes to their closing counterparts.
var quotePairs = map[rune]rune{
	'"':      '"',
	'\'':     '\'',
	'“': '”', // curly double
	'‘': '’', // curly single
}

// Parse splits text under a fixed lexical grammar: quoted runs (delimiters
// stripped), letter runs, digit runs, whitespace runs, or single symbol
// runes. Every whitespace run collapses to one single-space token. Returns
// an empty slice for empty input.
func Parse(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	var tokens []string

	for i := 0; i < len(runes); {
		r := runes[i]

		if closer, ok := quotePairs[r]; ok {
			if end := indexRune(runes, closer, i+1); end >= 0 {
				tokens = append(tokens, string(runes[i+1:end]))
				i = end + 1
				continue
			}
			// Unterminated quote degrades to a symbol token
			tokens = append(tokens, string(r))
			i++
			continue
		}

		switch {
		case unicode.IsSpace(r):
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			tokens = append(tokens, " ")
		case unicode.IsLetter(r):
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
		default:
			tokens = append(tokens, string(r))
			i++
		}
	}

	return tokens
}

func indexRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// GetKeyFromTextParts joins already-parsed parts into the case-sensitive
// identity key. Whitespace is assumed canonicalized by Parse.
func GetKeyFromTextParts(parts []string) (string, error) {
	if len(parts) == 0 {
		return "", ErrEmptyText
	}
	return strings.Join(parts, ""), nil
}

// GetKeyFromText parses text and joins the parts into the identity key.
func GetKeyFromText(text string) (string, error) {
	return GetKeyFromTextParts(Parse(text))
}

// ToGroupKey produces the case-insensitive grouping form of text: parse,
// rejoin, then lower-case. Script-confusable folding beyond lower-casing is
// not performed.
func ToGroupKey(text string) string {
	parts := Parse(text)
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(parts, ""))
}
