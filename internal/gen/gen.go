// Package gen walks a type-expression AST and emits the equivalent JSON
// Schema tree: scalar schemas for primitives, array/object composition for
// collections, required-set computation per object scope, and synthetic id
// injection for top-level repeating groups. This package is internal and not
// part of the public API.
package gen

import (
	"github.com/tfskema/tfskema/internal/typeexpr"
	"github.com/tfskema/tfskema/jsonschema"
)

// SyntheticID is the identifier property injected into item schemas of
// top-level arrays. It is never listed in required.
const SyntheticID = "id"

// FromType compiles an AST node into a schema tree. The node is treated as a
// variable's top-level declared type for the purposes of synthetic id
// placement.
func FromType(n typeexpr.Node) *jsonschema.Schema {
	return compile(n, 0)
}

// depth counts structural nesting levels between the variable's top-level
// type and the node being compiled. The Optional wrapper is transparent.
func compile(n typeexpr.Node, depth int) *jsonschema.Schema {
	switch t := n.(type) {
	case *typeexpr.Primitive:
		return fromPrimitive(t)
	case *typeexpr.List:
		items := compile(t.Elem, depth+1)
		injectID(items, depth)
		return &jsonschema.Schema{Type: "array", Items: items}
	case *typeexpr.Set:
		items := compile(t.Elem, depth+1)
		injectID(items, depth)
		return &jsonschema.Schema{Type: "array", Items: items, UniqueItems: true}
	case *typeexpr.Map:
		return &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: compile(t.Value, depth+1),
		}
	case *typeexpr.Object:
		return fromObject(t, depth)
	case *typeexpr.Optional:
		s := compile(t.Elem, depth)
		switch {
		case t.HasDefault:
			s.Default = t.Default
		case t.Elem.Kind() == typeexpr.KindMap:
			// Optional maps without a declared default admit the empty map.
			s.Default = map[string]any{}
		}
		return s
	}
	return &jsonschema.Schema{}
}

func fromPrimitive(p *typeexpr.Primitive) *jsonschema.Schema {
	switch p.Name {
	case "string":
		return &jsonschema.Schema{Type: "string"}
	case "number":
		return &jsonschema.Schema{Type: "number"}
	case "bool":
		return &jsonschema.Schema{Type: "boolean"}
	case "any":
		return &jsonschema.Schema{}
	}
	return &jsonschema.Schema{Description: "Unknown type: " + p.Raw}
}

func fromObject(o *typeexpr.Object, depth int) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: true,
		Properties:           jsonschema.NewProperties(),
	}
	for _, f := range o.Fields {
		s.Properties.Set(f.Name, compile(f.Type, depth+1))
		if _, opt := o.Optional[f.Name]; opt || f.Name == SyntheticID {
			continue
		}
		s.Required = append(s.Required, f.Name)
	}
	return s
}

// injectID adds the hidden synthetic identifier to an array's item schema.
// Only arrays at the variable's top level or one nesting level below it
// qualify; deeper repeating groups stay untouched so nested lists do not
// accumulate duplicate identifiers. arrayDepth is the depth of the array
// node, not of the item schema.
func injectID(items *jsonschema.Schema, arrayDepth int) {
	if arrayDepth > 1 {
		return
	}
	if items == nil || items.Type != "object" || items.Properties == nil {
		return
	}
	if _, ok := items.Properties.Get(SyntheticID); ok {
		return
	}
	items.Properties.Set(SyntheticID, &jsonschema.Schema{
		Type:    "string",
		Format:  "uuid",
		Default: "",
		Options: &jsonschema.Options{Hidden: true},
	})
}
