package tfskema

import (
	"strings"

	"github.com/tfskema/tfskema/i18n"
	"github.com/tfskema/tfskema/internal/gen"
	"github.com/tfskema/tfskema/internal/typeexpr"
	"github.com/tfskema/tfskema/jsonschema"
)

// Compile turns one extracted variable declaration into its schema. It is a
// pure function: no I/O, no shared state, safe to call concurrently. Only
// unbalanced delimiters are fatal; recoverable problems degrade the output
// (unknown types become unconstrained schemas, undecodable defaults are
// dropped). Use CompileWithIssues to observe recoverable problems too.
func Compile(v Variable) (*jsonschema.Schema, error) {
	s, iss := CompileWithIssues(v)
	if s == nil {
		return nil, iss
	}
	return s, nil
}

// CompileWithIssues compiles a declaration and reports every issue found,
// recoverable or not. The schema is nil only when a fatal issue prevented
// compilation.
func CompileWithIssues(v Variable) (*jsonschema.Schema, Issues) {
	var iss Issues

	node, iss := parseType(v, iss)
	if node == nil {
		return nil, iss
	}

	s := gen.FromType(node)
	if v.Description != "" {
		s.Description = v.Description
	}
	if d := strings.TrimSpace(v.Default); d != "" {
		val, err := typeexpr.ParseLiteral(d)
		if err != nil {
			iss = AppendIssues(iss, issue(v.Name, CodeLiteralParse, d, err))
		} else {
			s.Default = val
		}
	}

	conds := make([]string, 0, len(v.Rules))
	for _, r := range v.Rules {
		if r.Condition != "" {
			conds = append(conds, r.Condition)
		}
	}
	gen.ApplyConditions(s, conds)
	return s, iss
}

func parseType(v Variable, iss Issues) (typeexpr.Node, Issues) {
	expr := strings.TrimSpace(v.Type)
	if expr == "" {
		// A variable without a type constraint accepts anything.
		return &typeexpr.Primitive{Name: "any"}, iss
	}
	node, diag, err := typeexpr.Parse(expr)
	if err != nil {
		return nil, AppendIssues(iss, issue(v.Name, CodeUnbalancedDelimiter, expr, err))
	}
	for _, frag := range diag.Malformed {
		iss = AppendIssues(iss, issue(v.Name, CodeMalformedType, frag, nil))
	}
	for _, lit := range diag.BadLiterals {
		iss = AppendIssues(iss, issue(v.Name, CodeLiteralParse, lit, nil))
	}
	return node, iss
}

// CompileDocument extracts every variable declaration from src and assembles
// one document: a root object schema with each compiled variable as a named
// property. Top-level variables are never listed in the document's required
// set, and the root admits additional properties. Declarations that fail
// compile are reported and skipped; the rest of the batch proceeds.
func CompileDocument(src string) (*jsonschema.Schema, Issues) {
	vars, iss := ExtractVariables(src)
	doc := &jsonschema.Schema{
		SchemaURI:            jsonschema.Draft07,
		Type:                 "object",
		AdditionalProperties: true,
		Properties:           jsonschema.NewProperties(),
	}
	for _, v := range vars {
		s, vIss := CompileWithIssues(v)
		iss = AppendIssues(iss, vIss...)
		if s != nil {
			doc.Properties.Set(v.Name, s)
		}
	}
	return doc, iss
}

func issue(name, code, fragment string, cause error) Issue {
	return Issue{
		Variable: name,
		Code:     code,
		Message:  i18n.T(code, nil),
		Fragment: fragment,
		Cause:    cause,
	}
}
