package gen

import (
	"strings"

	"github.com/tfskema/tfskema/internal/scan"
	"github.com/tfskema/tfskema/internal/typeexpr"
	"github.com/tfskema/tfskema/jsonschema"
)

// ApplyConditions mines validation conditions for enumerated-membership
// tests of the shape contains([<candidates>], <path>.<property>) and attaches
// the candidate set as an enum constraint to the matching property schema.
// Conditions that carry no such test are silently skipped.
func ApplyConditions(s *jsonschema.Schema, conditions []string) {
	for _, cond := range conditions {
		applyCondition(s, cond)
	}
}

func applyCondition(s *jsonschema.Schema, cond string) {
	cond = strings.TrimSpace(typeexpr.UnwrapInterpolation(cond))
	for _, m := range containsCalls(cond) {
		prop, vals := extractMembership(m)
		if prop == "" || len(vals) == 0 {
			continue
		}
		if attachEnum(s, prop, vals) {
			continue
		}
		// No named property matched; a scalar variable constrains itself.
		if s.Type == "string" || s.Type == "number" {
			s.Enum = vals
		}
	}
}

// containsCalls returns the argument text of every top-level or nested
// contains(...) call in cond, found by name with delimiter balancing rather
// than by grammar.
func containsCalls(cond string) []string {
	var out []string
	for i := 0; i+9 < len(cond); {
		j := strings.Index(cond[i:], "contains(")
		if j < 0 {
			break
		}
		j += i
		if j > 0 && isWordByte(cond[j-1]) {
			i = j + 1
			continue
		}
		open := j + len("contains")
		end, err := scan.MatchingClose(cond, open)
		if err != nil {
			break
		}
		out = append(out, cond[open+1:end])
		i = open + 1
	}
	return out
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// extractMembership splits one contains(...) argument list into the trailing
// property name of the path expression and the decoded candidate literals.
func extractMembership(args string) (string, []any) {
	parts := scan.SplitTop(args, ",")
	if len(parts) < 2 {
		return "", nil
	}
	list := strings.TrimSpace(parts[0])
	if !strings.HasPrefix(list, "[") {
		return "", nil
	}
	end, err := scan.MatchingClose(list, 0)
	if err != nil {
		return "", nil
	}
	var vals []any
	for _, seg := range scan.SplitTop(list[1:end], ",\n") {
		seg = strings.TrimSpace(seg)
		v, err := typeexpr.ParseLiteral(seg)
		if err != nil {
			// Bare candidates stay as raw text.
			v = seg
		}
		vals = append(vals, v)
	}

	// Only the trailing .property matters; the iterator or variable reference
	// in front of it is irrelevant.
	path := strings.TrimSpace(parts[len(parts)-1])
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 || dot == len(path)-1 {
		return "", nil
	}
	prop := path[dot+1:]
	for i := 0; i < len(prop); i++ {
		if !isWordByte(prop[i]) {
			return "", nil
		}
	}
	return prop, vals
}

// attachEnum searches the schema tree depth-first for a property named prop,
// descending into object properties, array items and map value schemas, and
// sets the enum on the first match.
func attachEnum(s *jsonschema.Schema, prop string, vals []any) bool {
	if s == nil {
		return false
	}
	if s.Properties != nil {
		if ps, ok := s.Properties.Get(prop); ok {
			ps.Enum = vals
			return true
		}
		for _, name := range s.Properties.Names() {
			child, _ := s.Properties.Get(name)
			if attachEnum(child, prop, vals) {
				return true
			}
		}
	}
	if attachEnum(s.Items, prop, vals) {
		return true
	}
	if ap, ok := s.AdditionalProperties.(*jsonschema.Schema); ok {
		return attachEnum(ap, prop, vals)
	}
	return false
}
