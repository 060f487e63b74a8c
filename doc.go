// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package json implements conversion between Go values and JSON text with
// deliberately loose coercion rules in the style of configuration loaders:
// a numeral carried inside a string counts as a number, "true" counts as
// true, a lone value counts as a one-element collection, and object member
// names written in snake_case or camelCase match the same struct field.
//
// # Terminology
//
// This package uses the term "stringify" for rendering a Go value as JSON
// text, and "parse" for the whole journey from JSON text to a Go value.
// Parsing proceeds in two stages: the text is first parsed into a tree of
// jsontree.Value nodes, and the tree is then coerced onto the target Go
// value. The tree stage is strict in the sense of RFC 8259 grammar, so
// malformed text always fails with a SyntaxError carrying the line and
// column of the defect. The coercion stage is loose as described above;
// a value that still cannot be coerced fails with a ConversionError.
// Rendering failures are reported as a WriteError. All errors produced by
// this package match Error according to errors.Is.
//
// # Numbers
//
// JSON numbers are held in the tree as arbitrary-precision decimals, so
// integers beyond the 64-bit range and exact decimal fractions survive
// parsing. Coercing a number into an interface{} produces a float64 for
// compatibility with encoding/json; coerce into jsontree.Number, *big.Int,
// or *inf.Dec to keep the full precision.
//
// # Determinism
//
// Stringify output is deterministic. Map members render sorted by name in
// byte-wise order, struct fields render in declaration order, and numbers
// render in a canonical form, so rendering structurally equal values
// always yields identical text.
//
// # Null
//
// A JSON null coerces to nil for pointer, slice, map, and interface
// targets and fails for every other target; it never zeroes a value that
// cannot represent absence.
//
// # Extension
//
// Foreign value models plug in through RegisterCodec, which is consulted
// for every value encountered during a conversion. The protocodec
// subpackage registers such a codec for protocol buffer messages.
// Integer types gain symbolic names through RegisterEnum.
package json
