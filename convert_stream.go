// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"reflect"

	"github.com/loosejson/json/internal/jsonwire"
	"github.com/loosejson/json/jsontree"
)

// seqShape reports the yield signature of a push-style sequence shaped
// like iter.Seq[V] or iter.Seq2[K, V], and the number of values yielded.
// Any named type with the right underlying shape qualifies.
func seqShape(t reflect.Type) (yield reflect.Type, arity int) {
	if t.Kind() != reflect.Func || t.IsVariadic() || t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, 0
	}
	y := t.In(0)
	if y.Kind() != reflect.Func || y.IsVariadic() || y.NumOut() != 1 || y.Out(0).Kind() != reflect.Bool {
		return nil, 0
	}
	if n := y.NumIn(); n == 1 || n == 2 {
		return y, n
	}
	return nil, 0
}

// makeStreamConverter overrides the behavior for sequence-shaped func
// types. A one-value sequence converts as a JSON array and a two-value
// sequence as a JSON object keyed like a map. Writing drains the
// sequence; coerced sequences are backed by a slice and can be ranged
// over any number of times.
func makeStreamConverter(fncs *converter, t reflect.Type) *converter {
	y, arity := seqShape(t)
	switch arity {
	case 1:
		return makeSeqConverter(t, y)
	case 2:
		return makeSeq2Converter(t, y)
	}
	return fncs
}

func makeSeqConverter(t, yield reflect.Type) *converter {
	elem := yield.In(0)
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if va.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		e.buf = append(e.buf, '[')
		e.depth++
		var n int
		var err error
		ev := newAddressableValue(elem)
		yf := reflect.MakeFunc(yield, func(args []reflect.Value) []reflect.Value {
			if n > 0 {
				e.buf = append(e.buf, ',')
			}
			e.appendNewline()
			ev.Set(args[0])
			err = writeValue(e, ev)
			n++
			return []reflect.Value{reflect.ValueOf(err == nil)}
		})
		va.Call([]reflect.Value{yf})
		if err != nil {
			return err
		}
		e.depth--
		if n > 0 {
			e.appendNewline()
		}
		e.buf = append(e.buf, ']')
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			va.SetZero()
			return nil
		}
		arr, ok := v.(jsontree.Array)
		if !ok {
			arr = jsontree.Array{v}
		}
		slice := reflect.MakeSlice(reflect.SliceOf(elem), len(arr), len(arr))
		for i, ev := range arr {
			if err := coerceValue(ev, addressableValue{slice.Index(i)}); err != nil {
				return err
			}
		}
		va.Set(reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
			yf := args[0]
			for i := 0; i < slice.Len(); i++ {
				if !yf.Call([]reflect.Value{slice.Index(i)})[0].Bool() {
					break
				}
			}
			return nil
		}))
		return nil
	}
	return &fncs
}

func makeSeq2Converter(t, yield reflect.Type) *converter {
	kelem, velem := yield.In(0), yield.In(1)
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if va.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		// Members appear in yield order: unlike a map, a sequence is
		// ordered by nature, so its order is preserved rather than sorted.
		e.buf = append(e.buf, '{')
		e.depth++
		var n int
		var err error
		vv := newAddressableValue(velem)
		yf := reflect.MakeFunc(yield, func(args []reflect.Value) []reflect.Value {
			name, kerr := formatMapKey(args[0])
			if kerr != nil {
				err = &WriteError{GoType: t, Err: kerr}
				return []reflect.Value{reflect.ValueOf(false)}
			}
			if n > 0 {
				e.buf = append(e.buf, ',')
			}
			e.appendNewline()
			e.buf = jsonwire.AppendQuote(e.buf, name)
			e.appendColon()
			vv.Set(args[1])
			err = writeValue(e, vv)
			n++
			return []reflect.Value{reflect.ValueOf(err == nil)}
		})
		va.Call([]reflect.Value{yf})
		if err != nil {
			return err
		}
		e.depth--
		if n > 0 {
			e.appendNewline()
		}
		e.buf = append(e.buf, '}')
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			va.SetZero()
			return nil
		}
		obj, ok := v.(jsontree.Object)
		if !ok {
			return &ConversionError{JSONKind: v.Kind(), GoType: t}
		}
		keys := reflect.MakeSlice(reflect.SliceOf(kelem), len(obj), len(obj))
		vals := reflect.MakeSlice(reflect.SliceOf(velem), len(obj), len(obj))
		for i, m := range obj {
			if err := coerceValue(jsontree.String(m.Name), addressableValue{keys.Index(i)}); err != nil {
				return err
			}
			if err := coerceValue(m.Value, addressableValue{vals.Index(i)}); err != nil {
				return err
			}
		}
		va.Set(reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
			yf := args[0]
			for i := 0; i < keys.Len(); i++ {
				if !yf.Call([]reflect.Value{keys.Index(i), vals.Index(i)})[0].Bool() {
					break
				}
			}
			return nil
		}))
		return nil
	}
	return &fncs
}
