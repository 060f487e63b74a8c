// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/loosejson/json/internal/jsonwire"
	"github.com/loosejson/json/jsontree"
)

// addressableValue is a reflect.Value that is guaranteed to be addressable
// such that calling the Addr and Set methods do not panic.
//
// There is no compile magic that enforces this property,
// but rather the need to construct this type makes it easier to examine each
// construction site to ensure that this property is upheld.
type addressableValue struct{ reflect.Value }

// newAddressableValue constructs a new addressable value of type t.
func newAddressableValue(t reflect.Type) addressableValue {
	return addressableValue{reflect.New(t).Elem()}
}

// fieldByIndex descends a struct field index path, where intermediate hops
// may be embedded pointers to structs. A nil intermediate pointer is
// allocated if mayAlloc is specified and otherwise results in an invalid
// value being returned.
func (va addressableValue) fieldByIndex(index []int, mayAlloc bool) addressableValue {
	for _, i := range index {
		va = va.indirect(mayAlloc)
		if !va.IsValid() {
			return va
		}
		va = addressableValue{va.Field(i)} // addressable if struct value is addressable
	}
	return va
}

func (va addressableValue) indirect(mayAlloc bool) addressableValue {
	if va.Kind() == reflect.Pointer {
		if va.IsNil() {
			if !mayAlloc {
				return addressableValue{}
			}
			va.Set(reflect.New(va.Type().Elem()))
		}
		va = addressableValue{va.Elem()} // dereferenced pointer is always addressable
	}
	return va
}

// A converter holds the two directions of conversion for a single Go type:
// write renders a value of that type as JSON text and coerce populates a
// value of that type from a parsed JSON tree.
type converter struct {
	write  func(e *writeState, va addressableValue) error
	coerce func(v jsontree.Value, va addressableValue) error
}

var converters sync.Map // map[reflect.Type]*converter

func lookupConverter(t reflect.Type) *converter {
	if v, ok := converters.Load(t); ok {
		return v.(*converter)
	}

	// Construct the converter for this type.
	// It fails for recursive types without this being stored before the
	// construction recurses, which never happens since construction of
	// composite converters does not construct their element converters;
	// those are looked up on first use instead.
	fncs := makeConverter(t)
	if v, ok := converters.LoadOrStore(t, fncs); ok {
		return v.(*converter)
	}
	return fncs
}

func makeConverter(t reflect.Type) *converter {
	fncs := makeDefaultConverter(t)
	fncs = makeStreamConverter(fncs, t)
	fncs = makeMethodConverter(fncs, t)
	fncs = makeTimeConverter(fncs, t)
	fncs = makeWellKnownConverter(fncs, t)
	fncs = makeTreeConverter(fncs, t)
	return fncs
}

// makeMethodConverter overrides the behavior for types that control their
// own textual representation through encoding.TextMarshaler and
// encoding.TextUnmarshaler, which write and coerce as JSON strings.
func makeMethodConverter(fncs *converter, t reflect.Type) *converter {
	if t.Implements(textMarshalerType) {
		fncs.write = func(e *writeState, va addressableValue) error {
			if va.Kind() == reflect.Pointer && va.IsNil() {
				e.buf = append(e.buf, "null"...)
				return nil
			}
			b, err := va.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return &WriteError{GoType: t, Err: err}
			}
			e.buf = jsonwire.AppendQuote(e.buf, b)
			return nil
		}
	} else if reflect.PointerTo(t).Implements(textMarshalerType) {
		fncs.write = func(e *writeState, va addressableValue) error {
			b, err := va.Addr().Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return &WriteError{GoType: t, Err: err}
			}
			e.buf = jsonwire.AppendQuote(e.buf, b)
			return nil
		}
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			if err := va.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(coerceText(v))); err != nil {
				return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: err}
			}
			return nil
		}
	}
	return fncs
}

// writeValue renders a single Go value as JSON text. It is the entry
// point for every value encountered during writing, including those
// nested in composites. Registered codecs get the first look at any
// value that does not already render by its own rules.
func writeValue(e *writeState, va addressableValue) error {
	if codecs := registeredCodecs(); len(codecs) > 0 && !selfWriting(va) {
		v := va.Interface()
		for _, c := range codecs {
			if c.CanStringify(v) {
				tree, err := c.Stringify(v)
				if err != nil {
					return &WriteError{GoType: va.Type(), Err: err}
				}
				writeTree(e, tree)
				return nil
			}
		}
	}
	return lookupConverter(va.Type()).write(e, va)
}

// selfWriting reports values the codecs are never offered: a nil reference
// always renders as null and a jsontree value always renders structurally.
func selfWriting(va addressableValue) bool {
	switch va.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if va.IsNil() {
			return true
		}
	}
	return va.Type().Implements(treeValueType)
}

// coerceValue populates a single Go value from a parsed JSON tree. It is
// the entry point for every value encountered during coercion, including
// those nested in composites. Registered codecs get the first look at any
// target except the dynamic and jsontree types, whose mappings are fixed.
func coerceValue(v jsontree.Value, va addressableValue) error {
	if v == nil {
		v = jsontree.Null
	}
	t := va.Type()
	if codecs := registeredCodecs(); len(codecs) > 0 && t != anyType && !t.Implements(treeValueType) {
		for _, c := range codecs {
			if c.CanParse(v, t) {
				got, err := c.Parse(v, t)
				if err != nil {
					return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: err}
				}
				rv := reflect.ValueOf(got)
				if !rv.IsValid() || !rv.Type().AssignableTo(t) {
					return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: fmt.Errorf("codec produced incompatible value of type %T", got)}
				}
				va.Set(rv)
				return nil
			}
		}
	}
	return lookupConverter(t).coerce(v, va)
}

// coerceNullInto handles a JSON null for any target:
// nilable kinds reset to nil and every other kind rejects.
func coerceNullInto(va addressableValue) error {
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		va.SetZero()
		return nil
	}
	return &ConversionError{JSONKind: 'n', GoType: va.Type()}
}

func makeInvalidConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		return &WriteError{GoType: t}
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		return &ConversionError{JSONKind: v.Kind(), GoType: t}
	}
	return &fncs
}

const startDetectingCyclesAfter = 1000

type seenPointers map[typedPointer]struct{}

type typedPointer struct {
	typ reflect.Type
	// TODO: This breaks if Go ever switches to a moving garbage collector.
	// This should use unsafe.Pointer, but that requires importing unsafe.
	// We only use pointers for comparisons, and never for unsafe type casts.
	// See https://golang.org/cl/14137 and https://golang.org/issue/40592.
	ptr uintptr
}

// visit visits pointer p of type t, reporting an error if seen before.
// If successfully visited, then the caller must eventually call leave.
func (m *seenPointers) visit(v reflect.Value) error {
	p := typedPointer{v.Type(), v.Pointer()}
	if _, ok := (*m)[p]; ok {
		return &WriteError{GoType: p.typ, Err: errors.New("encountered a cycle")}
	}
	if *m == nil {
		*m = make(map[typedPointer]struct{})
	}
	(*m)[p] = struct{}{}
	return nil
}
func (m *seenPointers) leave(v reflect.Value) {
	p := typedPointer{v.Type(), v.Pointer()}
	delete(*m, p)
}

// writeState carries the output buffer and indentation state of a single
// Stringify call.
type writeState struct {
	buf    []byte
	prefix string
	indent string
	depth  int
	seen   seenPointers
}

func (e *writeState) indenting() bool { return e.prefix != "" || e.indent != "" }

// appendNewline starts a new line at the current depth when indenting
// and is a no-op otherwise.
func (e *writeState) appendNewline() {
	if !e.indenting() {
		return
	}
	e.buf = append(e.buf, '\n')
	e.buf = append(e.buf, e.prefix...)
	for range e.depth {
		e.buf = append(e.buf, e.indent...)
	}
}

// appendColon writes the member name separator,
// with a trailing space when indenting.
func (e *writeState) appendColon() {
	e.buf = append(e.buf, ':')
	if e.indenting() {
		e.buf = append(e.buf, ' ')
	}
}

// writeTree renders an already-built JSON tree, honoring the indentation
// state. Object members render sorted by name, matching jsontree.Append.
func writeTree(e *writeState, v jsontree.Value) {
	if v == nil {
		v = jsontree.Null
	}
	if !e.indenting() {
		e.buf = jsontree.Append(e.buf, v)
		return
	}
	switch v := v.(type) {
	case jsontree.Array:
		if len(v) == 0 {
			e.buf = append(e.buf, "[]"...)
			return
		}
		e.buf = append(e.buf, '[')
		e.depth++
		for i, elem := range v {
			if i > 0 {
				e.buf = append(e.buf, ',')
			}
			e.appendNewline()
			writeTree(e, elem)
		}
		e.depth--
		e.appendNewline()
		e.buf = append(e.buf, ']')
	case jsontree.Object:
		if len(v) == 0 {
			e.buf = append(e.buf, "{}"...)
			return
		}
		e.buf = append(e.buf, '{')
		e.depth++
		for i, m := range v.Sorted() {
			if i > 0 {
				e.buf = append(e.buf, ',')
			}
			e.appendNewline()
			e.buf = jsonwire.AppendQuote(e.buf, m.Name)
			e.appendColon()
			writeTree(e, m.Value)
		}
		e.depth--
		e.appendNewline()
		e.buf = append(e.buf, '}')
	default:
		e.buf = jsontree.Append(e.buf, v)
	}
}
