// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"errors"
	"reflect"

	"github.com/loosejson/json/jsontree"
)

// Stringify renders a Go value as compact JSON text.
//
// It fails with a WriteError for values that have no JSON form,
// such as channels, NaN floats, and cyclic data.
func Stringify(in any) (string, error) {
	return StringifyIndent(in, "", "")
}

// StringifyIndent renders a Go value as JSON text with each member or
// element on its own line, prefixed by prefix and further indented by one
// copy of indent per nesting level. With both strings empty it is
// equivalent to Stringify.
func StringifyIndent(in any, prefix, indent string) (string, error) {
	b := getBuffer()
	defer putBuffer(b)
	e := writeState{buf: b.buf, prefix: prefix, indent: indent}

	v := reflect.ValueOf(in)
	if !v.IsValid() {
		return "null", nil
	}
	// Copy the input to an addressable value. Pointers are not dereferenced
	// here so that codecs recognizing pointer types see them intact.
	va := newAddressableValue(v.Type())
	va.Set(v)
	err := writeValue(&e, va)
	b.buf = e.buf
	if err != nil {
		return "", err
	}
	return string(e.buf), nil
}

// Parse parses src as JSON text and coerces the result into a value of
// type T. Coercion is loose: numerals in strings count as numbers, lone
// values count as one-element collections, and object member names match
// struct fields across snake_case and camelCase spellings.
//
// A malformed input fails with a SyntaxError and a value that cannot be
// coerced fails with a ConversionError. Both match Error with errors.Is.
func Parse[T any](src string) (T, error) {
	var out T
	err := parseInto(src, addressableValue{reflect.ValueOf(&out).Elem()})
	return out, err
}

// ParseAs is like Parse but with the target type chosen at run time.
// The result holds a value of type t.
// ParseAs panics if t is nil.
func ParseAs(src string, t reflect.Type) (any, error) {
	if t == nil {
		panic("json: ParseAs with nil type")
	}
	va := newAddressableValue(t)
	if err := parseInto(src, va); err != nil {
		return nil, err
	}
	return va.Interface(), nil
}

// ParseInto parses src as JSON text and coerces the result into the value
// that the non-nil pointer out points to. Unlike Parse, the target keeps
// its current contents where the input is silent: object members absent
// from the input leave the corresponding struct fields untouched.
func ParseInto(src string, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return &ConversionError{GoType: reflect.TypeOf(out), Err: errors.New("target must be a non-nil pointer")}
	}
	return parseInto(src, addressableValue{v.Elem()})
}

func parseInto(src string, va addressableValue) error {
	v, err := jsontree.Parse(src)
	if err != nil {
		return err
	}
	return coerceValue(v, va)
}
