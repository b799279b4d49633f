// Package jsonschema defines the structural-validation document emitted by
// the compiler and its JSON encoding helpers.
package jsonschema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Draft07 is the $schema marker stamped onto assembled documents.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	SchemaURI   string `json:"$schema,omitempty"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// Object
	Properties           *Properties `json:"properties,omitempty"`
	Required             []string    `json:"required,omitempty"`
	AdditionalProperties any         `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// Display hints for schema-driven form renderers.
	Options *Options `json:"options,omitempty"`
}

// Options carries non-validating display hints.
type Options struct {
	Hidden bool `json:"hidden,omitempty"`
}

// Properties is an insertion-ordered name -> Schema mapping. JSON object keys
// have no defined order, but consumers of generated schemas (form renderers,
// diff tools) expect declaration order, so we keep it explicit.
type Properties struct {
	names []string
	m     map[string]*Schema
}

// NewProperties returns an empty ordered property set.
func NewProperties() *Properties {
	return &Properties{m: map[string]*Schema{}}
}

// Set adds or replaces a property, preserving first-insertion order.
func (p *Properties) Set(name string, s *Schema) {
	if p.m == nil {
		p.m = map[string]*Schema{}
	}
	if _, ok := p.m[name]; !ok {
		p.names = append(p.names, name)
	}
	p.m[name] = s
}

// Get returns the property schema for name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil || p.m == nil {
		return nil, false
	}
	s, ok := p.m[name]
	return s, ok
}

// Names returns property names in insertion order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// MarshalJSON emits properties as a JSON object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		v, err := json.Marshal(p.m[name])
		if err != nil {
			return nil, err
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Marshal encodes a schema document compactly.
func Marshal(s *Schema) ([]byte, error) { return json.Marshal(s) }

// MarshalIndent encodes a schema document for human consumption.
func MarshalIndent(s *Schema) ([]byte, error) { return json.MarshalIndent(s, "", "  ") }
