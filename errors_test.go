// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/loosejson/json/jsontree"
)

var (
	someSyntaxError  = &SyntaxError{Line: 1, Column: 2}
	otherSyntaxError = &SyntaxError{Line: 3, Column: 4}
	someConvError    = &ConversionError{GoType: intType, Err: io.ErrShortWrite}
	otherConvError   = &ConversionError{GoType: boolType}
	someWriteError   = &WriteError{GoType: chanIntType}
	otherWriteError  = &WriteError{GoType: float64Type, Err: io.ErrShortWrite}
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		err    error
		target error
		want   bool
	}{
		// Top-level Error should match itself (identity).
		{Error, Error, true},

		// All error kinds should match the top-level Error value,
		// and the jsontree sentinel is the same value.
		{someSyntaxError, Error, true},
		{someConvError, Error, true},
		{someWriteError, Error, true},
		{someSyntaxError, jsontree.Error, true},
		{someConvError, jsontree.Error, true},
		{someWriteError, jsontree.Error, true},

		// Top-level Error should not match any concrete error value.
		{Error, someSyntaxError, false},
		{Error, someConvError, false},
		{Error, someWriteError, false},

		// Concrete error values should match themselves (identity).
		{someSyntaxError, someSyntaxError, true},
		{someConvError, someConvError, true},
		{someWriteError, someWriteError, true},

		// Error values of different kinds should not match each other.
		{someSyntaxError, someConvError, false},
		{someConvError, someWriteError, false},
		{someWriteError, someSyntaxError, false},

		// Error values should not match other values of the same kind.
		{someSyntaxError, otherSyntaxError, false},
		{someConvError, otherConvError, false},
		{someWriteError, otherWriteError, false},

		// Error should not match any other random error.
		{Error, nil, false},
		{nil, Error, false},
		{io.ErrShortWrite, Error, false},
		{Error, io.ErrShortWrite, false},
	}

	for _, tt := range tests {
		got := errors.Is(tt.err, tt.target)
		if got != tt.want {
			t.Errorf("errors.Is(%#v, %#v) = %v, want %v", tt.err, tt.target, got, tt.want)
		}
		// If the type supports the Is method,
		// it should behave the same way if called directly.
		if iserr, ok := tt.err.(interface{ Is(error) bool }); ok {
			got := iserr.Is(tt.target)
			if got != tt.want {
				t.Errorf("%#v.Is(%#v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		}
	}

	// Wrapped causes are reachable through Unwrap rather than
	// through the Is methods themselves.
	if !errors.Is(someConvError, io.ErrShortWrite) {
		t.Errorf("errors.Is(%v, io.ErrShortWrite) = false, want true", someConvError)
	}
	if !errors.Is(otherWriteError, io.ErrShortWrite) {
		t.Errorf("errors.Is(%v, io.ErrShortWrite) = false, want true", otherWriteError)
	}
	if errors.Is(someWriteError, io.ErrShortWrite) {
		t.Errorf("errors.Is(%v, io.ErrShortWrite) = true, want false", someWriteError)
	}
}

func TestConversionErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ConversionError
		want string
	}{{
		name: "Full",
		err:  &ConversionError{JSONKind: '0', GoType: boolType, Field: "age", Err: errors.New("boom")},
		want: `json: cannot parse JSON number into Go value of type bool for field "age": boom`,
	}, {
		name: "NoFieldNoCause",
		err:  &ConversionError{JSONKind: '"', GoType: intType},
		want: `json: cannot parse JSON string into Go value of type int`,
	}, {
		name: "UnknownKindNilType",
		err:  &ConversionError{},
		want: `json: cannot parse JSON value into Go value of type <nil>`,
	}, {
		name: "Null",
		err:  &ConversionError{JSONKind: 'n', GoType: stringType},
		want: `json: cannot parse JSON null into Go value of type string`,
	}, {
		name: "True",
		err:  &ConversionError{JSONKind: 't', GoType: intType},
		want: `json: cannot parse JSON boolean into Go value of type int`,
	}, {
		name: "False",
		err:  &ConversionError{JSONKind: 'f', GoType: intType},
		want: `json: cannot parse JSON boolean into Go value of type int`,
	}, {
		name: "Object",
		err:  &ConversionError{JSONKind: '{', GoType: chanIntType},
		want: `json: cannot parse JSON object into Go value of type chan int`,
	}, {
		name: "Array",
		err:  &ConversionError{JSONKind: '[', GoType: structPointType},
		want: `json: cannot parse JSON array into Go value of type json.structPoint`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() mismatch:\ngot  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestWriteErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *WriteError
		want string
	}{{
		name: "TypeOnly",
		err:  &WriteError{GoType: chanIntType},
		want: `json: cannot stringify Go value of type chan int`,
	}, {
		name: "WithCause",
		err:  &WriteError{GoType: float64Type, Err: errors.New("invalid value: NaN")},
		want: `json: cannot stringify Go value of type float64: invalid value: NaN`,
	}, {
		name: "NilType",
		err:  &WriteError{Err: errors.New("boom")},
		want: `json: cannot stringify Go value of type <nil>: boom`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() mismatch:\ngot  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	_, syntaxErr := Parse[any](`{`)
	convErr := ParseInto(`"x"`, addr(0))
	_, writeErr := Stringify(make(chan int))
	for _, err := range []error{syntaxErr, convErr, writeErr} {
		if err == nil {
			t.Fatalf("expected an error, got nil")
		}
		if !errors.Is(err, Error) {
			t.Errorf("errors.Is(%v, Error) = false, want true", err)
		}
	}
	if want := "json: syntax error at line 1, column 2: "; !strings.HasPrefix(syntaxErr.Error(), want) {
		t.Errorf("syntax error = %s, want prefix %s", syntaxErr.Error(), want)
	}

	// The three kinds stay distinct under errors.As.
	var synt *SyntaxError
	var conv *ConversionError
	var wr *WriteError
	if !errors.As(syntaxErr, &synt) || errors.As(syntaxErr, &conv) || errors.As(syntaxErr, &wr) {
		t.Errorf("syntax error did not classify as exactly *SyntaxError: %v", syntaxErr)
	}
	if !errors.As(convErr, &conv) || errors.As(convErr, &synt) || errors.As(convErr, &wr) {
		t.Errorf("conversion error did not classify as exactly *ConversionError: %v", convErr)
	}
	if !errors.As(writeErr, &wr) || errors.As(writeErr, &synt) || errors.As(writeErr, &conv) {
		t.Errorf("write error did not classify as exactly *WriteError: %v", writeErr)
	}
	if got, want := Error.Error(), "json error"; got != want {
		t.Errorf("Error.Error() = %q, want %q", got, want)
	}
}
