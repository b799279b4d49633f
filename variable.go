package tfskema

import (
	"regexp"
	"strings"

	"github.com/tfskema/tfskema/i18n"
	"github.com/tfskema/tfskema/internal/scan"
	"github.com/tfskema/tfskema/internal/typeexpr"
)

// ValidationRule is one validation block of a variable: a boolean condition
// expression and the message reported when it fails. The compiler mines
// conditions for enumerated-membership tests only.
type ValidationRule struct {
	Condition    string
	ErrorMessage string
}

// Variable is one extracted variable declaration. Type, Default and the rule
// conditions hold raw source text; parsing happens during Compile.
type Variable struct {
	Name        string
	Type        string
	Description string
	Default     string
	Rules       []ValidationRule
}

var (
	variableHeader = regexp.MustCompile(`variable\s+"([^"]+)"\s*\{`)
	fieldAssign    = regexp.MustCompile(`^\w+\s*=`)
	quotedValue    = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
)

// ExtractVariables locates variable blocks in raw .tf source text and
// extracts their type, description, default and validation sub-fields.
// Comments are stripped first. A block whose braces never balance is
// reported as an unbalanced_delimiter issue and stops the scan, since the
// rest of the file cannot be delimited reliably.
func ExtractVariables(src string) ([]Variable, Issues) {
	src = stripComments(src)
	var vars []Variable
	var iss Issues

	pos := 0
	for {
		loc := variableHeader.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			break
		}
		name := src[pos+loc[2] : pos+loc[3]]
		open := pos + loc[1] - 1
		end, err := scan.MatchingClose(src, open)
		if err != nil {
			iss = AppendIssues(iss, Issue{
				Variable: name,
				Code:     CodeUnbalancedDelimiter,
				Message:  i18n.T(CodeUnbalancedDelimiter, nil),
				Fragment: snippet(src[open:]),
				Cause:    err,
			})
			// The rest of the file cannot be delimited reliably.
			break
		}
		vars = append(vars, parseVariableBody(name, src[open+1:end]))
		pos = end + 1
	}
	return vars, iss
}

func parseVariableBody(name, body string) Variable {
	return Variable{
		Name:        name,
		Type:        extractField(body, "type"),
		Default:     extractField(body, "default"),
		Description: extractQuoted(body, "description"),
		Rules:       extractValidations(body),
	}
}

// extractField pulls the value of a top-level `field = ...` assignment. The
// value may span lines; it ends at a depth-0 line break followed by another
// field assignment or a validation block.
func extractField(body, field string) string {
	return extractFieldUntil(body, field, nextFieldStart)
}

// extractFieldUntil is extractField with a caller-chosen end-of-value
// predicate.
func extractFieldUntil(body, field string, next func(string) bool) string {
	idx := scan.TopLevelIndex(body, field, 0)
	for idx >= 0 {
		rest := body[idx+len(field):]
		j := 0
		for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
			j++
		}
		if j < len(rest) && rest[j] == '=' {
			val := rest[j+1:]
			end := scan.ValueEnd(val, next)
			return strings.TrimSpace(val[:end])
		}
		idx = scan.TopLevelIndex(body, field, idx+1)
	}
	return ""
}

func nextFieldStart(rest string) bool {
	return fieldAssign.MatchString(rest) || strings.HasPrefix(rest, "validation")
}

// extractQuoted pulls a single-line quoted-literal field such as description
// or error_message, with escapes decoded.
func extractQuoted(body, field string) string {
	idx := scan.TopLevelIndex(body, field, 0)
	for idx >= 0 {
		rest := body[idx+len(field):]
		j := 0
		for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
			j++
		}
		if j < len(rest) && rest[j] == '=' {
			m := quotedValue.FindString(rest[j+1:])
			if m == "" {
				return ""
			}
			s, err := typeexpr.ParseLiteral(m)
			if err != nil {
				return ""
			}
			if str, ok := s.(string); ok {
				return str
			}
			return ""
		}
		idx = scan.TopLevelIndex(body, field, idx+1)
	}
	return ""
}

// extractValidations parses every validation { ... } block into a rule. The
// condition runs up to the error_message field or the end of the block.
func extractValidations(body string) []ValidationRule {
	var rules []ValidationRule
	pos := 0
	for {
		idx := scan.TopLevelIndex(body, "validation", pos)
		if idx < 0 {
			break
		}
		j := idx + len("validation")
		for j < len(body) && (body[j] == ' ' || body[j] == '\t' || body[j] == '\n' || body[j] == '\r') {
			j++
		}
		if j >= len(body) || body[j] != '{' {
			pos = idx + 1
			continue
		}
		end, err := scan.MatchingClose(body, j)
		if err != nil {
			break
		}
		if r, ok := parseValidation(body[j+1 : end]); ok {
			rules = append(rules, r)
		}
		pos = end + 1
	}
	return rules
}

func parseValidation(block string) (ValidationRule, bool) {
	r := ValidationRule{
		Condition:    extractFieldUntil(block, "condition", isErrorMessage),
		ErrorMessage: extractQuoted(block, "error_message"),
	}
	return r, r.Condition != "" || r.ErrorMessage != ""
}

func isErrorMessage(rest string) bool {
	return strings.HasPrefix(rest, "error_message")
}

// stripComments removes # and // line comments outside quoted strings.
func stripComments(src string) string {
	b := &strings.Builder{}
	b.Grow(len(src))
	var quote byte
	escaped := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			quote = c
			b.WriteByte(c)
		case c == '#' || (c == '/' && i+1 < len(src) && src[i+1] == '/'):
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func snippet(s string) string {
	const max = 80
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
