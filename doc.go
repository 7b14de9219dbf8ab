// Package mustache implements the logic-less Mustache template
// language: a byte-oriented scanner/parser that builds an element tree
// from a template source, and a stack-based renderer that walks that
// tree against a typed data context, writing escaped or unescaped text
// to an output sink under a bounded-memory contract.
//
// The renderer never inspects Go values directly. It talks to data
// through the narrow Value capability interface (see context.go); the
// internal/reflectvalue package is the reference adapter for ordinary
// Go structs, maps and slices, and internal/jsonvalue adapts
// already-decoded encoding/json trees.
package mustache
