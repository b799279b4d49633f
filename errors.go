package tfskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeUnbalancedDelimiter reports an unterminated bracket, brace, paren or
	// quote. It is fatal for the offending declaration.
	CodeUnbalancedDelimiter = "unbalanced_delimiter"
	// CodeMalformedType reports type-expression text that could not be
	// recognized. It is recoverable: the fragment degrades to an
	// unconstrained schema.
	CodeMalformedType = "malformed_type"
	// CodeLiteralParse reports default-value text that could not be decoded.
	// It is recoverable: the default is omitted.
	CodeLiteralParse = "literal_parse"
)

// Issue represents a single compilation problem tied to one declaration.
type Issue struct {
	Variable string // Name of the declaration the issue belongs to.
	Code     string // One of the codes listed above.
	Message  string
	Fragment string // Raw offending source text, best-effort.
	Cause    error  // Optional: underlying error.
}

// Issues is a collection of compilation problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unbalanced_delimiter in network_config
		fmt.Fprintf(b, "%s in %s", it.Code, it.Variable)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Fatal reports whether the issue set contains a problem that prevented a
// schema from being produced. Recoverable codes degrade output instead.
func (iss Issues) Fatal() bool {
	for _, it := range iss {
		if it.Code == CodeUnbalancedDelimiter {
			return true
		}
	}
	return false
}
