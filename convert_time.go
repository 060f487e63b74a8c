// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	inf "gopkg.in/inf.v0"

	"github.com/loosejson/json/internal/jsonwire"
	"github.com/loosejson/json/jsontree"
)

var (
	timeDurationType = reflect.TypeOf((*time.Duration)(nil)).Elem()
	timeTimeType     = reflect.TypeOf((*time.Time)(nil)).Elem()
	timeLocationType = reflect.TypeOf((*time.Location)(nil)) // locations travel as *time.Location
)

// makeTimeConverter overrides the behavior for the time types.
// Ideally, the time types would implement the conversion themselves,
// but that would incur a dependency on this package from package time.
func makeTimeConverter(fncs *converter, t reflect.Type) *converter {
	switch t {
	case timeDurationType:
		fncs.write = func(e *writeState, va addressableValue) error {
			td := *va.Addr().Interface().(*time.Duration)
			e.buf = append(e.buf, '"')
			e.buf = append(e.buf, td.String()...) // never contains special characters
			e.buf = append(e.buf, '"')
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			td := va.Addr().Interface().(*time.Duration)
			switch v := v.(type) {
			case jsontree.String:
				d, err := time.ParseDuration(string(v))
				if err != nil {
					return &ConversionError{JSONKind: '"', GoType: t, Err: err}
				}
				*td = d
				return nil
			case jsontree.Number:
				// A bare number is a count of nanoseconds.
				i, ok := v.Int64()
				if !ok {
					return &ConversionError{JSONKind: '0', GoType: t, Err: errors.New("duration out of range")}
				}
				*td = time.Duration(i)
				return nil
			}
			return &ConversionError{JSONKind: v.Kind(), GoType: t}
		}
	case timeTimeType:
		fncs.write = func(e *writeState, va addressableValue) error {
			tt := *va.Addr().Interface().(*time.Time)
			// Not all Go timestamps can be represented as valid RFC 3339.
			// See https://go.dev/issue/4556 and https://go.dev/issue/54580.
			if y := tt.Year(); y < 0 || y >= 10000 {
				return &WriteError{GoType: t, Err: fmt.Errorf("year %d outside of range [0,9999]", y)}
			}
			e.buf = append(e.buf, '"')
			e.buf = tt.AppendFormat(e.buf, time.RFC3339Nano)
			e.buf = append(e.buf, '"')
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			tt := va.Addr().Interface().(*time.Time)
			switch v := v.(type) {
			case jsontree.String:
				t2, err := time.Parse(time.RFC3339, string(v))
				if err != nil {
					return &ConversionError{JSONKind: '"', GoType: t, Err: err}
				}
				*tt = t2
				return nil
			case jsontree.Number:
				// A bare number is a count of milliseconds since the Unix
				// epoch; a fractional part carries sub-millisecond precision.
				d := v.Dec()
				d.SetScale(d.Scale() - 6) // milliseconds to nanoseconds
				var r inf.Dec
				r.Round(d, 0, inf.RoundDown)
				ns := r.UnscaledBig()
				if !ns.IsInt64() {
					return &ConversionError{JSONKind: '0', GoType: t, Err: errors.New("timestamp out of range")}
				}
				*tt = time.Unix(0, ns.Int64()).UTC()
				return nil
			}
			return &ConversionError{JSONKind: v.Kind(), GoType: t}
		}
	case timeLocationType:
		fncs.write = func(e *writeState, va addressableValue) error {
			loc := va.Interface().(*time.Location)
			if loc == nil {
				e.buf = append(e.buf, "null"...)
				return nil
			}
			e.buf = jsonwire.AppendQuote(e.buf, loc.String())
			return nil
		}
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			loc, err := time.LoadLocation(coerceText(v))
			if err != nil {
				return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: err}
			}
			va.Set(reflect.ValueOf(loc))
			return nil
		}
	}
	return fncs
}
