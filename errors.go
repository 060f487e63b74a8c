// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/loosejson/json/jsontree"
)

const errorPrefix = "json: "

// Error matches errors returned by this package according to errors.Is.
// It is the same sentinel as jsontree.Error, so an error from either
// package matches both.
const Error = jsontree.Error

// SyntaxError is a description of a JSON syntax error,
// including the line and column where it was detected.
type SyntaxError = jsontree.SyntaxError

// A ConversionError describes the failure to coerce a JSON value
// into a particular Go value.
//
// The contents of this error as produced by this package may change over time.
type ConversionError struct {
	// JSONKind is the kind of the JSON value that could not be handled.
	JSONKind jsontree.Kind // may be zero if unknown
	// GoType is the type of the Go value that could not be produced.
	GoType reflect.Type
	// Field is the JSON member name of the nearest enclosing struct field,
	// if the failure occurred while populating one.
	Field string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	b.WriteString(errorPrefix)
	b.WriteString("cannot parse JSON ")
	b.WriteString(kindNoun(e.JSONKind))
	b.WriteString(" into Go value of type ")
	if e.GoType != nil {
		b.WriteString(e.GoType.String())
	} else {
		b.WriteString("<nil>")
	}
	if e.Field != "" {
		b.WriteString(" for field ")
		b.WriteString(strconv.Quote(e.Field))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}
func (e *ConversionError) Is(target error) bool { return e == target || target == Error }
func (e *ConversionError) Unwrap() error        { return e.Err }

// A WriteError describes the failure to render a Go value as JSON text,
// such as a channel or a NaN float.
//
// The contents of this error as produced by this package may change over time.
type WriteError struct {
	// GoType is the type of the Go value that could not be rendered.
	GoType reflect.Type

	// Err is the underlying cause, if any.
	Err error
}

func (e *WriteError) Error() string {
	var b strings.Builder
	b.WriteString(errorPrefix)
	b.WriteString("cannot stringify Go value of type ")
	if e.GoType != nil {
		b.WriteString(e.GoType.String())
	} else {
		b.WriteString("<nil>")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}
func (e *WriteError) Is(target error) bool { return e == target || target == Error }
func (e *WriteError) Unwrap() error        { return e.Err }

// kindNoun names a JSON kind the way error messages refer to it.
func kindNoun(k jsontree.Kind) string {
	switch k {
	case 'n':
		return "null"
	case 'f', 't':
		return "boolean"
	case '"':
		return "string"
	case '0':
		return "number"
	case '{':
		return "object"
	case '[':
		return "array"
	default:
		return "value"
	}
}
