// Package tokenizer provides the token accounting used to frame the engine's
// unframed output stream. The engine emits no end-of-response marker; instead
// the number of countable tokens written in is matched against the number of
// countable tokens tagged back out.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// escapes maps the engine's escaped punctuation tokens back to their literal
// characters. The engine substitutes these in tagged output, so both sides of
// the accounting must see the same characters.
var escapes = map[string]string{
	"``":    "'",
	"''":    "'",
	"-LRB-": "(",
	"-RRB-": ")",
	"-LSB-": "[",
	"-RSB-": "]",
	"-LCB-": "{",
	"-RCB-": "}",
}

// Normalize recovers the literal character for an escaped punctuation token.
// Tokens outside the escape table are returned unchanged.
func Normalize(tok string) string {
	if lit, ok := escapes[tok]; ok {
		return lit
	}
	return tok
}

// Words splits plain text into word and punctuation tokens. Runs of letters,
// digits, hyphens and apostrophes form one token; any other non-space rune is
// emitted as a single-character token of its own.
func Words(text string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '\'':
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

// countable reports whether a token participates in stream accounting.
// Single-character tokens (typically punctuation) are excluded because the
// engine itself drops them from the tagged stream in some cases.
func countable(tok string) bool {
	return utf8.RuneCountInString(tok) > 1
}

// CountTokens returns the number of countable tokens in plain text.
func CountTokens(text string) int {
	n := 0
	for _, tok := range Words(text) {
		if countable(tok) {
			n++
		}
	}
	return n
}

// CountTaggedTokens returns the number of countable tokens in one line of
// word/TAG pairs. The tag suffix is stripped and escaped punctuation is
// normalized back to literal characters before the length filter, so the
// count lines up with CountTokens on the untagged sentence.
func CountTaggedTokens(line string) int {
	n := 0
	for _, field := range strings.Fields(line) {
		word := field
		if i := strings.LastIndex(field, "/"); i >= 0 {
			word = field[:i]
		}
		if countable(Normalize(word)) {
			n++
		}
	}
	return n
}
