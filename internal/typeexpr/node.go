// Package typeexpr parses Terraform type expressions such as
// list(object({ name = string, size = optional(number, 10) })) into a closed
// AST consumed by the schema generator. This package is internal and not part
// of the public API.
package typeexpr

// NodeKind identifies an AST node type.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindList
	KindSet
	KindMap
	KindObject
	KindOptional
)

// Node is the root AST node interface.
type Node interface {
	Kind() NodeKind
}

// Primitive represents string/number/bool/any. Unrecognized expressions are
// folded into a Primitive with Name "unknown" and the raw text preserved, so
// parsing never fails on unknown constructs.
type Primitive struct {
	Name string // "string" | "number" | "bool" | "any" | "unknown"
	Raw  string // original text, set only for "unknown"
}

func (p *Primitive) Kind() NodeKind { return KindPrimitive }

// List represents list(elem).
type List struct {
	Elem Node
}

func (l *List) Kind() NodeKind { return KindList }

// Set represents set(elem): a list with a uniqueness constraint.
type Set struct {
	Elem Node
}

func (s *Set) Kind() NodeKind { return KindSet }

// Map represents map(value). Keys are always strings with an unconstrained
// key set.
type Map struct {
	Value Node
}

func (m *Map) Kind() NodeKind { return KindMap }

// Field is one declared object property. A field is optional in its object
// iff Type is an *Optional node; the owning Object also records the name in
// its Optional set for required-list computation.
type Field struct {
	Name string
	Type Node
}

// Object represents object({ ... }) with properties in declaration order.
// Optional holds the field names recorded by optional(...) wrappers inside
// this object's scope only; nested objects carry their own set.
type Object struct {
	Fields   []Field
	Optional map[string]struct{}
}

func (o *Object) Kind() NodeKind { return KindObject }

// Optional wraps the declared type of an optional field, preserving the
// default literal when one was given. Presence of this wrapper is the sole
// source of optionality.
type Optional struct {
	Elem       Node
	HasDefault bool
	Default    any // decoded literal, valid only when HasDefault
}

func (o *Optional) Kind() NodeKind { return KindOptional }
