package typeexpr_test

import (
	"errors"
	"testing"

	"github.com/tfskema/tfskema/internal/scan"
	"github.com/tfskema/tfskema/internal/typeexpr"
)

func mustParse(t *testing.T, expr string) typeexpr.Node {
	t.Helper()
	n, _, err := typeexpr.Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q) err: %v", expr, err)
	}
	return n
}

func TestParse_Primitives(t *testing.T) {
	for _, kw := range []string{"string", "number", "bool", "any"} {
		n := mustParse(t, kw)
		p, ok := n.(*typeexpr.Primitive)
		if !ok || p.Name != kw {
			t.Fatalf("Parse(%q) = %#v, want Primitive %q", kw, n, kw)
		}
	}
}

func TestParse_WhitespaceInsignificant(t *testing.T) {
	n := mustParse(t, "  list(\n  string\n  )  ")
	l, ok := n.(*typeexpr.List)
	if !ok {
		t.Fatalf("expected List, got %#v", n)
	}
	if p, ok := l.Elem.(*typeexpr.Primitive); !ok || p.Name != "string" {
		t.Fatalf("expected string element, got %#v", l.Elem)
	}
}

func TestParse_Interpolation(t *testing.T) {
	n := mustParse(t, "${list(number)}")
	if _, ok := n.(*typeexpr.List); !ok {
		t.Fatalf("expected List after unwrapping, got %#v", n)
	}
}

func TestParse_SetAndMap(t *testing.T) {
	n := mustParse(t, "set(string)")
	if _, ok := n.(*typeexpr.Set); !ok {
		t.Fatalf("expected Set, got %#v", n)
	}
	n = mustParse(t, "map(object({ size = number }))")
	m, ok := n.(*typeexpr.Map)
	if !ok {
		t.Fatalf("expected Map, got %#v", n)
	}
	if _, ok := m.Value.(*typeexpr.Object); !ok {
		t.Fatalf("expected object value, got %#v", m.Value)
	}
}

func TestParse_ObjectFieldsAndOptional(t *testing.T) {
	n := mustParse(t, `object({
		name = string
		size = optional(number, 10)
		tags = optional(map(string))
	})`)
	o, ok := n.(*typeexpr.Object)
	if !ok {
		t.Fatalf("expected Object, got %#v", n)
	}
	if len(o.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(o.Fields))
	}
	if o.Fields[0].Name != "name" || o.Fields[1].Name != "size" || o.Fields[2].Name != "tags" {
		t.Fatalf("field order lost: %#v", o.Fields)
	}

	size, ok := o.Fields[1].Type.(*typeexpr.Optional)
	if !ok {
		t.Fatalf("expected Optional for size, got %#v", o.Fields[1].Type)
	}
	if !size.HasDefault || size.Default != int64(10) {
		t.Fatalf("expected default 10, got %#v", size.Default)
	}

	tags, ok := o.Fields[2].Type.(*typeexpr.Optional)
	if !ok {
		t.Fatalf("expected Optional for tags, got %#v", o.Fields[2].Type)
	}
	if tags.HasDefault {
		t.Fatalf("omitted default should stay absent")
	}
	if _, ok := tags.Elem.(*typeexpr.Map); !ok {
		t.Fatalf("expected map element, got %#v", tags.Elem)
	}

	if _, ok := o.Optional["size"]; !ok {
		t.Fatalf("size not recorded optional: %#v", o.Optional)
	}
	if _, ok := o.Optional["tags"]; !ok {
		t.Fatalf("tags not recorded optional: %#v", o.Optional)
	}
	if _, ok := o.Optional["name"]; ok {
		t.Fatalf("name must not be optional")
	}
}

func TestParse_ColonFieldSeparator(t *testing.T) {
	n := mustParse(t, `object({ name : string })`)
	o := n.(*typeexpr.Object)
	if len(o.Fields) != 1 || o.Fields[0].Name != "name" {
		t.Fatalf("unexpected fields: %#v", o.Fields)
	}
}

func TestParse_NestedScopesIsolated(t *testing.T) {
	n := mustParse(t, `object({
		a = optional(string)
		b = object({ a = string })
	})`)
	outer := n.(*typeexpr.Object)
	if _, ok := outer.Optional["a"]; !ok {
		t.Fatalf("outer a should be optional")
	}
	inner := outer.Fields[1].Type.(*typeexpr.Object)
	if len(inner.Optional) != 0 {
		t.Fatalf("inner scope polluted: %#v", inner.Optional)
	}
}

func TestParse_OptionalObjectScope(t *testing.T) {
	// optional(object(...)) marks the field in the enclosing scope, not in
	// the scope the nested object opens.
	n := mustParse(t, `object({
		cfg = optional(object({ x = optional(number) }))
	})`)
	outer := n.(*typeexpr.Object)
	if _, ok := outer.Optional["cfg"]; !ok {
		t.Fatalf("cfg should be optional in outer scope")
	}
	opt := outer.Fields[0].Type.(*typeexpr.Optional)
	inner := opt.Elem.(*typeexpr.Object)
	if _, ok := inner.Optional["x"]; !ok {
		t.Fatalf("x should be optional in inner scope")
	}
	if _, ok := inner.Optional["cfg"]; ok {
		t.Fatalf("cfg leaked into inner scope")
	}
}

func TestParse_UnknownDegrades(t *testing.T) {
	n, diag, err := typeexpr.Parse("tuple([string, number])")
	if err != nil {
		t.Fatalf("unknown constructs must not fail: %v", err)
	}
	p, ok := n.(*typeexpr.Primitive)
	if !ok || p.Name != "unknown" {
		t.Fatalf("expected unknown primitive, got %#v", n)
	}
	if len(diag.Malformed) != 1 {
		t.Fatalf("expected one malformed fragment, got %#v", diag.Malformed)
	}
}

func TestParse_Unbalanced(t *testing.T) {
	for _, expr := range []string{"object({a = string", "list(string", `object({a = "oops})`} {
		_, _, err := typeexpr.Parse(expr)
		if !errors.Is(err, scan.ErrUnbalanced) {
			t.Fatalf("expected ErrUnbalanced for %q, got %v", expr, err)
		}
	}
}

func TestParse_BadDefaultDropped(t *testing.T) {
	n, diag, err := typeexpr.Parse(`object({ a = optional(string, var.nope) })`)
	if err != nil {
		t.Fatalf("bad default must be recoverable: %v", err)
	}
	o := n.(*typeexpr.Object)
	opt := o.Fields[0].Type.(*typeexpr.Optional)
	if opt.HasDefault {
		t.Fatalf("undecodable default should be dropped")
	}
	if len(diag.BadLiterals) != 1 || diag.BadLiterals[0] != "var.nope" {
		t.Fatalf("expected bad literal recorded, got %#v", diag.BadLiterals)
	}
	if _, ok := o.Optional["a"]; !ok {
		t.Fatalf("field must still be optional")
	}
}

func TestParse_Idempotent(t *testing.T) {
	const expr = `object({ a = optional(string, "x"), b = list(object({ c = number })) })`
	a := mustParse(t, expr)
	b := mustParse(t, expr)
	if !equalNodes(a, b) {
		t.Fatalf("two parses of the same text differ")
	}
}

func equalNodes(a, b typeexpr.Node) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *typeexpr.Primitive:
		y := b.(*typeexpr.Primitive)
		return x.Name == y.Name && x.Raw == y.Raw
	case *typeexpr.List:
		return equalNodes(x.Elem, b.(*typeexpr.List).Elem)
	case *typeexpr.Set:
		return equalNodes(x.Elem, b.(*typeexpr.Set).Elem)
	case *typeexpr.Map:
		return equalNodes(x.Value, b.(*typeexpr.Map).Value)
	case *typeexpr.Optional:
		y := b.(*typeexpr.Optional)
		return x.HasDefault == y.HasDefault && equalNodes(x.Elem, y.Elem)
	case *typeexpr.Object:
		y := b.(*typeexpr.Object)
		if len(x.Fields) != len(y.Fields) || len(x.Optional) != len(y.Optional) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !equalNodes(x.Fields[i].Type, y.Fields[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}
