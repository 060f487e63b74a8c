// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsontree implements a tree representation of arbitrary JSON
// values together with the scanner and parser that produce it.
//
// A Value is one of exactly six variants: Null, Bool, Number, String,
// Array, or Object. Numbers are held as arbitrary-precision decimals so
// that integers beyond the 64-bit range and exact decimal fractions
// survive parsing without binary floating-point rounding. Objects keep
// the order in which members were inserted, but the textual rendering
// emits members sorted by name so that structurally equal values render
// identically.
package jsontree

import (
	"slices"
	"strconv"
	"strings"

	"github.com/loosejson/json/internal/jsonwire"
)

// Kind represents each possible JSON token or value kind with a single byte,
// which is conveniently the first byte of that kind's grammar with the
// restriction that numbers always be represented with '0':
//
//   - 'n': null
//   - 'f': false
//   - 't': true
//   - '"': string
//   - '0': number
//   - '{': object begin
//   - '}': object end
//   - '[': array begin
//   - ']': array end
//   - ':': member name separator
//   - ',': value separator
//
// The zero Kind marks the end of input.
type Kind byte

// EOF is the Kind reported once all input has been consumed.
const EOF Kind = 0

// String prints the kind in a humanly readable fashion.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case 'n':
		return "null"
	case 'f':
		return "false"
	case 't':
		return "true"
	case '"':
		return "string"
	case '0':
		return "number"
	case '{', '}', '[', ']', ':', ',':
		return "'" + string(byte(k)) + "'"
	default:
		return "<invalid jsontree.Kind: " + strconv.QuoteRune(rune(k)) + ">"
	}
}

// Value is a parsed JSON value.
// It is implemented by exactly the six variants Null, Bool, Number,
// String, Array, and Object; the set is closed.
type Value interface {
	// Kind reports the variant of the value.
	// Bool values report 't' or 'f' depending on their truth.
	Kind() Kind
	// String returns the canonical JSON rendering of the value.
	String() string

	append(dst []byte) []byte
}

// Append appends the canonical JSON rendering of v to dst.
// A nil Value renders as null.
func Append(dst []byte, v Value) []byte {
	if v == nil {
		return append(dst, "null"...)
	}
	return v.append(dst)
}

// Null is the JSON null value.
var Null Value = nullValue{}

type nullValue struct{}

func (nullValue) Kind() Kind               { return 'n' }
func (nullValue) String() string           { return "null" }
func (nullValue) append(dst []byte) []byte { return append(dst, "null"...) }

// Bool is a JSON boolean.
type Bool bool

func (b Bool) Kind() Kind {
	if b {
		return 't'
	}
	return 'f'
}
func (b Bool) String() string           { return strconv.FormatBool(bool(b)) }
func (b Bool) append(dst []byte) []byte { return strconv.AppendBool(dst, bool(b)) }

// String is a JSON string holding the decoded text, not the quoted form.
// Its String method, like that of every Value, returns the JSON rendering;
// use a plain conversion to obtain the text itself.
type String string

func (s String) Kind() Kind               { return '"' }
func (s String) String() string           { return string(s.append(nil)) }
func (s String) append(dst []byte) []byte { return jsonwire.AppendQuote(dst, string(s)) }

// Array is a JSON array. The order of elements is significant.
// A nil element renders as null.
type Array []Value

func (a Array) Kind() Kind     { return '[' }
func (a Array) String() string { return string(a.append(nil)) }
func (a Array) append(dst []byte) []byte {
	dst = append(dst, '[')
	for i, v := range a {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = Append(dst, v)
	}
	return append(dst, ']')
}

// Member is a single name/value pair within an Object.
type Member struct {
	Name  string
	Value Value
}

// Object is a JSON object: an insertion-ordered sequence of members.
// Names are unique within a well-formed Object; Set enforces this, and the
// parser resolves duplicate names in its input by overwriting the value at
// the position where the name first appeared.
type Object []Member

func (o Object) Kind() Kind     { return '{' }
func (o Object) String() string { return string(o.append(nil)) }

// append renders members sorted by name (byte-wise order) regardless of
// insertion order, so structurally equal objects render identically.
func (o Object) append(dst []byte) []byte {
	dst = append(dst, '{')
	for i, m := range o.Sorted() {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = jsonwire.AppendQuote(dst, m.Name)
		dst = append(dst, ':')
		dst = Append(dst, m.Value)
	}
	return append(dst, '}')
}

// Sorted returns a copy of the members sorted by name in byte-wise order,
// which is the order the textual rendering uses.
func (o Object) Sorted() []Member {
	ms := slices.Clone([]Member(o))
	slices.SortFunc(ms, func(a, b Member) int { return strings.Compare(a.Name, b.Name) })
	return ms
}

// Lookup returns the value of the member with the given name
// and reports whether such a member exists.
func (o Object) Lookup(name string) (Value, bool) {
	for _, m := range o {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Set sets the value of the member with the given name, overwriting an
// existing member in place if present and appending a new member otherwise.
func (o *Object) Set(name string, v Value) {
	for i := range *o {
		if (*o)[i].Name == name {
			(*o)[i].Value = v
			return
		}
	}
	*o = append(*o, Member{name, v})
}
