// Package scan provides character-level delimiter helpers shared by the type
// expression parser and the declaration extractor: matching-close search and
// top-level splitting that respect nested parens/braces/brackets and quoted
// strings.
package scan

import (
	"errors"
	"fmt"
)

// ErrUnbalanced indicates a bracket, brace, paren or quote that is never
// closed. Callers wrap it with %w and positional context.
var ErrUnbalanced = errors.New("unbalanced delimiter")

// state tracks nesting depth for the three bracket kinds plus quoted-string
// context with a single backslash escape.
type state struct {
	paren, brace, bracket int
	quote                 byte // active quote char, 0 when outside strings
	escaped               bool
}

func (st *state) step(c byte) {
	if st.quote != 0 {
		switch {
		case st.escaped:
			st.escaped = false
		case c == '\\':
			st.escaped = true
		case c == st.quote:
			st.quote = 0
		}
		return
	}
	switch c {
	case '"', '\'':
		st.quote = c
	case '(':
		st.paren++
	case ')':
		st.paren--
	case '{':
		st.brace++
	case '}':
		st.brace--
	case '[':
		st.bracket++
	case ']':
		st.bracket--
	}
}

func (st *state) top() bool {
	return st.quote == 0 && st.paren == 0 && st.brace == 0 && st.bracket == 0
}

var closers = map[byte]byte{'(': ')', '{': '}', '[': ']'}

// MatchingClose returns the index of the delimiter closing the opener at
// s[open]. Quoted strings are skipped, so brackets inside them do not count.
// It fails with ErrUnbalanced when the text ends first.
func MatchingClose(s string, open int) (int, error) {
	if open < 0 || open >= len(s) {
		return 0, fmt.Errorf("%w: opener index %d out of range", ErrUnbalanced, open)
	}
	oc := s[open]
	cc, ok := closers[oc]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an opening delimiter", ErrUnbalanced, string(oc))
	}
	depth := 1
	var st state
	for i := open + 1; i < len(s); i++ {
		c := s[i]
		if st.quote != 0 {
			st.step(c)
			continue
		}
		switch c {
		case '"', '\'':
			st.step(c)
		case oc:
			depth++
		case cc:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	if st.quote != 0 {
		return 0, fmt.Errorf("%w: unterminated string after index %d", ErrUnbalanced, open)
	}
	return 0, fmt.Errorf("%w: %q at index %d never closed", ErrUnbalanced, string(oc), open)
}

// SplitTop splits s on any separator byte from seps that occurs at nesting
// depth zero outside quoted strings. Segments that are empty or all
// whitespace are dropped.
func SplitTop(s string, seps string) []string {
	var out []string
	var st state
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.top() && isSep(c, seps) {
			appendSegment(&out, s[start:i])
			start = i + 1
			continue
		}
		st.step(c)
	}
	appendSegment(&out, s[start:])
	return out
}

func isSep(c byte, seps string) bool {
	for i := 0; i < len(seps); i++ {
		if seps[i] == c {
			return true
		}
	}
	return false
}

func appendSegment(out *[]string, seg string) {
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		*out = append(*out, seg)
		return
	}
}

// ValueEnd scans a field value beginning at s[0] and returns the index just
// past its end. The value ends at a newline seen at depth zero outside quotes
// whose following text starts a new field assignment or block, as judged by
// next. Otherwise the newline belongs to the value.
func ValueEnd(s string, next func(rest string) bool) int {
	var st state
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' && st.top() {
			rest := trimLeftSpace(s[i+1:])
			if rest != "" && next(rest) {
				return i
			}
			continue
		}
		st.step(c)
	}
	return len(s)
}

func trimLeftSpace(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return s[i:]
	}
	return ""
}

// TopLevelIndex returns the index of the first occurrence of word at or
// after from that sits at depth zero outside quoted strings and has
// identifier boundaries on both sides. It returns -1 when there is none.
func TopLevelIndex(s, word string, from int) int {
	if word == "" {
		return -1
	}
	var st state
	for i := 0; i+len(word) <= len(s); i++ {
		if i >= from && st.top() && s[i:i+len(word)] == word &&
			(i == 0 || !wordByte(s[i-1])) &&
			(i+len(word) == len(s) || !wordByte(s[i+len(word)])) {
			return i
		}
		st.step(s[i])
	}
	return -1
}

func wordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Balanced reports whether all delimiters and quotes in s close by the end.
// The extractor uses it to reject declarations before attempting field
// extraction.
func Balanced(s string) bool {
	var st state
	for i := 0; i < len(s); i++ {
		st.step(s[i])
		if st.paren < 0 || st.brace < 0 || st.bracket < 0 {
			return false
		}
	}
	return st.top()
}
