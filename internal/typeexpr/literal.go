package typeexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tfskema/tfskema/internal/scan"
)

// ErrLiteral indicates literal text that could not be decoded. Callers omit
// the default rather than failing the declaration.
var ErrLiteral = errors.New("undecodable literal")

// ParseLiteral decodes Terraform literal text into its JSON-ready Go value:
// nil, bool, int64, float64, string, []any or map[string]any. Lists and maps
// nest recursively; element boundaries respect nesting and quotes.
func ParseLiteral(text string) (any, error) {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return nil, fmt.Errorf("%w: empty text", ErrLiteral)
	case t == "null":
		return nil, nil
	case t == "true":
		return true, nil
	case t == "false":
		return false, nil
	case t[0] == '"' || t[0] == '\'':
		return unquote(t)
	case t[0] == '[':
		return parseSeq(t)
	case t[0] == '{':
		return parseMapping(t)
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrLiteral, t)
}

// unquote decodes a quoted string honoring the single backslash escape.
func unquote(t string) (string, error) {
	q := t[0]
	if len(t) < 2 || t[len(t)-1] != q {
		return "", fmt.Errorf("%w: unterminated string %q", ErrLiteral, t)
	}
	body := t[1 : len(t)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	b := &strings.Builder{}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}

func parseSeq(t string) ([]any, error) {
	end, err := scan.MatchingClose(t, 0)
	if err != nil || strings.TrimSpace(t[end+1:]) != "" {
		return nil, fmt.Errorf("%w: %q", ErrLiteral, t)
	}
	out := []any{}
	for _, seg := range scan.SplitTop(t[1:end], ",\n") {
		v, err := ParseLiteral(seg)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseMapping(t string) (map[string]any, error) {
	end, err := scan.MatchingClose(t, 0)
	if err != nil || strings.TrimSpace(t[end+1:]) != "" {
		return nil, fmt.Errorf("%w: %q", ErrLiteral, t)
	}
	out := map[string]any{}
	for _, seg := range scan.SplitTop(t[1:end], ",\n") {
		key, val, ok := splitAssign(seg)
		if !ok {
			return nil, fmt.Errorf("%w: missing key separator in %q", ErrLiteral, seg)
		}
		k := strings.TrimSpace(key)
		if len(k) > 1 && (k[0] == '"' || k[0] == '\'') {
			uq, err := unquote(k)
			if err != nil {
				return nil, err
			}
			k = uq
		}
		v, err := ParseLiteral(val)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// splitAssign splits "key = value" (or "key : value") at the first top-level
// separator.
func splitAssign(seg string) (key, val string, ok bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '=', ':':
			if depth == 0 {
				return seg[:i], seg[i+1:], true
			}
		}
	}
	return "", "", false
}
