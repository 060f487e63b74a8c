// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"reflect"

	"github.com/loosejson/json/jsontree"
)

// coerceAny maps a JSON tree onto the five generic Go types:
// nil, bool, string, float64, []any, and map[string]any.
// Numbers lose their arbitrary precision here; callers that care
// coerce into jsontree.Number or a big numeric type instead.
func coerceAny(v jsontree.Value) any {
	switch v := v.(type) {
	case jsontree.Bool:
		return bool(v)
	case jsontree.String:
		return string(v)
	case jsontree.Number:
		return v.Float64()
	case jsontree.Array:
		arr := make([]any, len(v))
		for i, elem := range v {
			arr[i] = coerceAny(elem)
		}
		return arr
	case jsontree.Object:
		obj := make(map[string]any, len(v))
		for _, m := range v {
			obj[m.Name] = coerceAny(m.Value)
		}
		return obj
	}
	return nil // null
}

var (
	treeValueType  = reflect.TypeOf((*jsontree.Value)(nil)).Elem()
	treeBoolType   = reflect.TypeOf(jsontree.Bool(false))
	treeStringType = reflect.TypeOf(jsontree.String(""))
	treeNumberType = reflect.TypeOf(jsontree.Number{})
	treeArrayType  = reflect.TypeOf(jsontree.Array(nil))
	treeObjectType = reflect.TypeOf(jsontree.Object(nil))
)

// makeTreeConverter overrides the behavior for the jsontree types, which
// pass through both directions of conversion structurally untouched.
func makeTreeConverter(fncs *converter, t reflect.Type) *converter {
	writeSelf := func(e *writeState, va addressableValue) error {
		v, _ := va.Interface().(jsontree.Value)
		writeTree(e, v)
		return nil
	}
	switch t {
	case treeValueType:
		fncs.write = writeSelf
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			va.Set(reflect.ValueOf(v))
			return nil
		}
	case treeBoolType:
		fncs.write = writeSelf
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			b, ok := v.(jsontree.Bool)
			if !ok {
				return &ConversionError{JSONKind: v.Kind(), GoType: t}
			}
			va.Set(reflect.ValueOf(b))
			return nil
		}
	case treeStringType:
		fncs.write = writeSelf
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			s, ok := v.(jsontree.String)
			if !ok {
				return &ConversionError{JSONKind: v.Kind(), GoType: t}
			}
			va.Set(reflect.ValueOf(s))
			return nil
		}
	case treeNumberType:
		fncs.write = writeSelf
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			n, ok := coerceNumber(v)
			if !ok {
				return &ConversionError{JSONKind: v.Kind(), GoType: t}
			}
			va.Set(reflect.ValueOf(n))
			return nil
		}
	case treeArrayType:
		fncs.write = writeSelf
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			arr, ok := v.(jsontree.Array)
			if !ok {
				arr = jsontree.Array{v}
			}
			va.Set(reflect.ValueOf(arr))
			return nil
		}
	case treeObjectType:
		fncs.write = writeSelf
		fncs.coerce = func(v jsontree.Value, va addressableValue) error {
			if v.Kind() == 'n' {
				return coerceNullInto(va)
			}
			obj, ok := v.(jsontree.Object)
			if !ok {
				return &ConversionError{JSONKind: v.Kind(), GoType: t}
			}
			va.Set(reflect.ValueOf(obj))
			return nil
		}
	}
	return fncs
}
