// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"math/big"
	"net/url"
	"reflect"
	"regexp"

	"golang.org/x/text/currency"
	inf "gopkg.in/inf.v0"

	"github.com/loosejson/json/internal/jsonwire"
	"github.com/loosejson/json/jsontree"
)

var (
	bigIntType   = reflect.TypeOf((*big.Int)(nil)).Elem()
	infDecType   = reflect.TypeOf((*inf.Dec)(nil)).Elem()
	urlURLType   = reflect.TypeOf((*url.URL)(nil)).Elem()
	regexpType   = reflect.TypeOf((*regexp.Regexp)(nil)).Elem()
	currencyType = reflect.TypeOf((*currency.Unit)(nil)).Elem()
)

// makeWellKnownConverter overrides the behavior for a handful of widely
// used leaf types whose natural JSON form is not their Go structure.
// The big numeric types write as JSON numbers; the rest write as strings.
// Coercion accepts any JSON value, taking its textual form before parsing.
func makeWellKnownConverter(fncs *converter, t reflect.Type) *converter {
	switch t {
	case bigIntType:
		fncs.write = func(e *writeState, va addressableValue) error {
			i := va.Addr().Interface().(*big.Int)
			e.buf = i.Append(e.buf, 10)
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			n, ok := coerceNumber(v)
			if !ok {
				return &ConversionError{JSONKind: v.Kind(), GoType: t}
			}
			// Fractions truncate toward zero, as with the fixed-size
			// integer kinds; the magnitude is unbounded.
			va.Addr().Interface().(*big.Int).Set(n.BigInt())
			return nil
		}
	case infDecType:
		fncs.write = func(e *writeState, va addressableValue) error {
			n := jsontree.NewDec(va.Addr().Interface().(*inf.Dec))
			e.buf = append(e.buf, n.String()...)
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			n, ok := coerceNumber(v)
			if !ok {
				return &ConversionError{JSONKind: v.Kind(), GoType: t}
			}
			va.Addr().Interface().(*inf.Dec).Set(n.Dec())
			return nil
		}
	case urlURLType:
		fncs.write = func(e *writeState, va addressableValue) error {
			u := va.Addr().Interface().(*url.URL)
			e.buf = jsonwire.AppendQuote(e.buf, u.String())
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			u, err := url.Parse(coerceText(v))
			if err != nil {
				return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: err}
			}
			*va.Addr().Interface().(*url.URL) = *u
			return nil
		}
	case regexpType:
		fncs.write = func(e *writeState, va addressableValue) error {
			re := va.Addr().Interface().(*regexp.Regexp)
			e.buf = jsonwire.AppendQuote(e.buf, re.String())
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			re, err := regexp.Compile(coerceText(v))
			if err != nil {
				return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: err}
			}
			*va.Addr().Interface().(*regexp.Regexp) = *re
			return nil
		}
	case currencyType:
		fncs.write = func(e *writeState, va addressableValue) error {
			u := va.Addr().Interface().(*currency.Unit)
			e.buf = jsonwire.AppendQuote(e.buf, u.String())
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			u, err := currency.ParseISO(coerceText(v))
			if err != nil {
				return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: err}
			}
			*va.Addr().Interface().(*currency.Unit) = u
			return nil
		}
	}
	return fncs
}
