package tfskema

// Package tfskema compiles Terraform variable declarations into JSON Schema
// documents suitable for structural validation of variable values.
//
// It provides:
//
//   - Extraction of variable blocks (type, description, default, validation)
//     from raw .tf source text
//   - A recursive-descent parser for Terraform type expressions
//     (string/number/bool/any, list, set, map, object, optional)
//   - Schema generation with per-object required/optional tracking and
//     synthetic id injection for top-level repeating groups
//   - Enum mining from validation conditions of the form
//     contains([...], path.property)
//
// Design policy:
//   - Keep only public APIs in the root package; put detailed implementations
//     under internal/.
//   - Place the output document model under jsonschema/ and the CLI under
//     cmd/tfskema.
//   - The core is pure: no I/O and no shared mutable state, so it is safe to
//     compile many declarations concurrently.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	vars, iss := tfskema.ExtractVariables(src)
//	for _, v := range vars {
//		s, err := tfskema.Compile(v)
//		...
//	}
//
//	doc, iss := tfskema.CompileDocument(src)
//	out, err := jsonschema.MarshalIndent(doc)
