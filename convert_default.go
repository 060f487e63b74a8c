// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/loosejson/json/internal/jsonwire"
	"github.com/loosejson/json/jsontree"
)

var (
	anyType         = reflect.TypeOf((*any)(nil)).Elem()
	bytesType       = reflect.TypeOf((*[]byte)(nil)).Elem()
	emptyStructType = reflect.TypeOf((*struct{})(nil)).Elem()

	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

func makeDefaultConverter(t reflect.Type) *converter {
	switch t.Kind() {
	case reflect.Bool:
		return makeBoolConverter(t)
	case reflect.String:
		return makeStringConverter(t)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return makeIntConverter(t)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return makeUintConverter(t)
	case reflect.Float32, reflect.Float64:
		return makeFloatConverter(t)
	case reflect.Map:
		return makeMapConverter(t)
	case reflect.Struct:
		return makeStructConverter(t)
	case reflect.Slice:
		if t.AssignableTo(bytesType) {
			return makeBytesConverter(t)
		}
		return makeSliceConverter(t)
	case reflect.Array:
		if reflect.SliceOf(t.Elem()).AssignableTo(bytesType) {
			return makeBytesConverter(t)
		}
		return makeArrayConverter(t)
	case reflect.Pointer:
		return makePointerConverter(t)
	case reflect.Interface:
		return makeInterfaceConverter(t)
	default:
		return makeInvalidConverter(t)
	}
}

func makeBoolConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		e.buf = strconv.AppendBool(e.buf, va.Bool())
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		switch v := v.(type) {
		case jsontree.Bool:
			va.SetBool(bool(v))
			return nil
		case jsontree.String:
			// Accept the spelled-out forms regardless of case.
			switch {
			case strings.EqualFold(string(v), "true"):
				va.SetBool(true)
			case strings.EqualFold(string(v), "false"):
				va.SetBool(false)
			default:
				return &ConversionError{JSONKind: '"', GoType: t, Err: fmt.Errorf("%q is not a boolean", string(v))}
			}
			return nil
		case jsontree.Number:
			// Accept the numeric encoding of truth, but nothing beyond it.
			if i, ok := v.Int64(); ok && (i == 0 || i == 1) && v.IsInt() {
				va.SetBool(i == 1)
				return nil
			}
			return &ConversionError{JSONKind: '0', GoType: t, Err: errors.New("only 0 and 1 coerce to a boolean")}
		}
		return &ConversionError{JSONKind: v.Kind(), GoType: t}
	}
	return &fncs
}

func makeStringConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		e.buf = jsonwire.AppendQuote(e.buf, va.String())
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		va.SetString(coerceText(v))
		return nil
	}
	return &fncs
}

// coerceText extracts the textual form of a JSON value: the content of a
// string verbatim, and the canonical rendering of any other value, so that
// stringifying a number or a whole object into a string field is legal.
func coerceText(v jsontree.Value) string {
	if s, ok := v.(jsontree.String); ok {
		return string(s)
	}
	return v.String()
}

// coerceNumber extracts the numeric payload of a JSON number or of a string
// holding a numeral, which loose coercion treats alike.
func coerceNumber(v jsontree.Value) (jsontree.Number, bool) {
	switch v := v.(type) {
	case jsontree.Number:
		return v, true
	case jsontree.String:
		n, err := jsontree.ParseNumber(string(v))
		if err != nil {
			return jsontree.Number{}, false
		}
		return n, true
	}
	return jsontree.Number{}, false
}

func makeIntConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if ns, ok := lookupEnum(t); ok {
			return writeEnum(e, ns, va.Int(), t)
		}
		e.buf = strconv.AppendInt(e.buf, va.Int(), 10)
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		if ns, ok := lookupEnum(t); ok {
			return coerceEnum(ns, v, va)
		}
		n, ok := coerceNumber(v)
		if !ok {
			return &ConversionError{JSONKind: v.Kind(), GoType: t}
		}
		// Fractions truncate toward zero; out-of-range values do not wrap.
		i, ok := n.Int64()
		if !ok || va.OverflowInt(i) {
			return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: fmt.Errorf("%s overflows %v", n, t)}
		}
		va.SetInt(i)
		return nil
	}
	return &fncs
}

func makeUintConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		u := va.Uint()
		if ns, ok := lookupEnum(t); ok {
			if u > math.MaxInt64 {
				return &WriteError{GoType: t, Err: fmt.Errorf("no name registered for ordinal %d", u)}
			}
			return writeEnum(e, ns, int64(u), t)
		}
		e.buf = strconv.AppendUint(e.buf, u, 10)
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		if ns, ok := lookupEnum(t); ok {
			return coerceEnum(ns, v, va)
		}
		n, ok := coerceNumber(v)
		if !ok {
			return &ConversionError{JSONKind: v.Kind(), GoType: t}
		}
		u, ok := n.Uint64()
		if !ok || va.OverflowUint(u) {
			return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: fmt.Errorf("%s overflows %v", n, t)}
		}
		va.SetUint(u)
		return nil
	}
	return &fncs
}

func makeFloatConverter(t reflect.Type) *converter {
	bits := 64
	if t.Kind() == reflect.Float32 {
		bits = 32
	}
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		f := va.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &WriteError{GoType: t, Err: fmt.Errorf("invalid value: %v", f)}
		}
		e.buf = jsonwire.AppendFloat(e.buf, f, bits)
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
		// Values beyond the range of the target saturate to an infinity,
		// like strconv.ParseFloat.
		f := n.Float64()
		if bits == 32 {
			f = float64(float32(f))
		}
		va.SetFloat(f)
		return nil
	}
	return &fncs
}

func makeBytesConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if t.Kind() == reflect.Slice && va.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		var b []byte
		if t.Kind() == reflect.Array {
			b = va.Slice(0, va.Len()).Bytes()
		} else {
			b = va.Bytes()
		}
		e.buf = append(e.buf, '"')
		e.buf = base64.StdEncoding.AppendEncode(e.buf, b)
		e.buf = append(e.buf, '"')
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		s, ok := v.(jsontree.String)
		if !ok {
			return &ConversionError{JSONKind: v.Kind(), GoType: t}
		}
		b, err := base64.StdEncoding.AppendDecode(nil, []byte(s))
		if err != nil {
			return &ConversionError{JSONKind: '"', GoType: t, Err: err}
		}
		if t.Kind() == reflect.Array {
			if len(b) != t.Len() {
				return &ConversionError{JSONKind: '"', GoType: t, Err: fmt.Errorf("decoded length %d does not match array length %d", len(b), t.Len())}
			}
			reflect.Copy(va.Value, reflect.ValueOf(b))
			return nil
		}
		va.SetBytes(b)
		return nil
	}
	return &fncs
}

func makeSliceConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if va.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		if e.depth > startDetectingCyclesAfter {
			if err := e.seen.visit(va.Value); err != nil {
				return err
			}
			defer e.seen.leave(va.Value)
		}
		return writeArrayElems(e, va)
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		arr, ok := v.(jsontree.Array)
		if !ok {
			// A lone value coerces as a one-element array.
			arr = jsontree.Array{v}
		}
		n := len(arr)
		va.Set(reflect.MakeSlice(t, n, n))
		for i, elem := range arr {
			if err := coerceValue(elem, addressableValue{va.Index(i)}); err != nil {
				return err
			}
		}
		return nil
	}
	return &fncs
}

func makeArrayConverter(t reflect.Type) *converter {
	n := t.Len()
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		return writeArrayElems(e, va)
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		arr, ok := v.(jsontree.Array)
		if !ok {
			arr = jsontree.Array{v}
		}
		if len(arr) != n {
			return &ConversionError{JSONKind: '[', GoType: t, Err: fmt.Errorf("JSON array of length %d does not match Go array of length %d", len(arr), n)}
		}
		va.SetZero()
		for i, elem := range arr {
			if err := coerceValue(elem, addressableValue{va.Index(i)}); err != nil {
				return err
			}
		}
		return nil
	}
	return &fncs
}

func writeArrayElems(e *writeState, va addressableValue) error {
	n := va.Len()
	if n == 0 {
		e.buf = append(e.buf, "[]"...)
		return nil
	}
	e.buf = append(e.buf, '[')
	e.depth++
	for i := range n {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.appendNewline()
		if err := writeValue(e, addressableValue{va.Index(i)}); err != nil {
			return err
		}
	}
	e.depth--
	e.appendNewline()
	e.buf = append(e.buf, ']')
	return nil
}

func makeMapConverter(t reflect.Type) *converter {
	// A map with struct{} or bool values doubles as a set,
	// which also accepts a JSON array of its keys.
	isSet := t.Elem() == emptyStructType || t.Elem().Kind() == reflect.Bool
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if va.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		if e.depth > startDetectingCyclesAfter {
			if err := e.seen.visit(va.Value); err != nil {
				return err
			}
			defer e.seen.leave(va.Value)
		}
		n := va.Len()
		if n == 0 {
			e.buf = append(e.buf, "{}"...)
			return nil
		}

		// Stringify the keys up front so members can be written in
		// sorted order, the same order the tree rendering uses.
		type member struct {
			name string
			val  reflect.Value
		}
		members := make([]member, 0, n)
		iter := va.MapRange()
		for iter.Next() {
			name, err := formatMapKey(iter.Key())
			if err != nil {
				return &WriteError{GoType: t, Err: err}
			}
			members = append(members, member{name, iter.Value()})
		}
		slices.SortFunc(members, func(a, b member) int { return strings.Compare(a.name, b.name) })

		e.buf = append(e.buf, '{')
		e.depth++
		vv := newAddressableValue(t.Elem())
		for i, m := range members {
			if i > 0 {
				e.buf = append(e.buf, ',')
			}
			e.appendNewline()
			e.buf = jsonwire.AppendQuote(e.buf, m.name)
			e.appendColon()
			vv.Set(m.val)
			if err := writeValue(e, vv); err != nil {
				return err
			}
		}
		e.depth--
		e.appendNewline()
		e.buf = append(e.buf, '}')
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		switch v := v.(type) {
		case jsontree.Object:
			va.Set(reflect.MakeMapWithSize(t, len(v)))
			k := newAddressableValue(t.Key())
			vv := newAddressableValue(t.Elem())
			for _, m := range v {
				k.SetZero()
				vv.SetZero()
				// Member names coerce into the key type as if they were
				// JSON strings, so numeric and textual keys both work.
				if err := coerceValue(jsontree.String(m.Name), k); err != nil {
					return err
				}
				if err := coerceValue(m.Value, vv); err != nil {
					return err
				}
				va.SetMapIndex(k.Value, vv.Value)
			}
			return nil
		case jsontree.Array:
			if isSet {
				return coerceSetInto(v, va, t)
			}
		default:
			if isSet {
				return coerceSetInto(jsontree.Array{v}, va, t)
			}
		}
		return &ConversionError{JSONKind: v.Kind(), GoType: t}
	}
	return &fncs
}

// coerceSetInto populates a set-shaped map from an array of its keys.
// Values are struct{}{} or true depending on the map's value type.
func coerceSetInto(arr jsontree.Array, va addressableValue, t reflect.Type) error {
	va.Set(reflect.MakeMapWithSize(t, len(arr)))
	member := reflect.Zero(t.Elem())
	if t.Elem().Kind() == reflect.Bool {
		member = reflect.ValueOf(true).Convert(t.Elem())
	}
	k := newAddressableValue(t.Key())
	for _, elem := range arr {
		k.SetZero()
		if err := coerceValue(elem, k); err != nil {
			return err
		}
		va.SetMapIndex(k.Value, member)
	}
	return nil
}

// formatMapKey renders a map key as a member name.
// Keys must be strings, integers, finite floats, or text marshalers.
func formatMapKey(k reflect.Value) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := k.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("invalid map key: %v", f)
		}
		bits := 64
		if k.Kind() == reflect.Float32 {
			bits = 32
		}
		return string(jsonwire.AppendFloat(nil, f, bits)), nil
	default:
		if k.Type().Implements(textMarshalerType) || reflect.PointerTo(k.Type()).Implements(textMarshalerType) {
			kk := newAddressableValue(k.Type())
			kk.Set(k)
			b, err := kk.Addr().Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
		return "", fmt.Errorf("unsupported map key type %v", k.Type())
	}
}

func makeStructConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		fields, err := cachedStructFields(t)
		if err != nil {
			return &WriteError{GoType: t, Err: err}
		}
		e.buf = append(e.buf, '{')
		e.depth++
		var wrote bool
		for i := range fields.flattened {
			f := &fields.flattened[i]
			v := addressableValue{va.Field(f.index[0])} // addressable if struct value is addressable
			if len(f.index) > 1 {
				v = v.fieldByIndex(f.index[1:], false)
				if !v.IsValid() {
					continue // implies a nil embedded pointer
				}
			}
			if f.omitzero && v.IsZero() {
				continue
			}
			if f.omitempty && isEmptyValue(v.Value) {
				continue
			}
			if wrote {
				e.buf = append(e.buf, ',')
			}
			e.appendNewline()
			e.buf = append(e.buf, f.quotedName...)
			e.appendColon()
			if err := writeValue(e, v); err != nil {
				return err
			}
			wrote = true
		}
		e.depth--
		if wrote {
			e.appendNewline()
		}
		e.buf = append(e.buf, '}')
		return nil
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			return coerceNullInto(va)
		}
		obj, ok := v.(jsontree.Object)
		if !ok {
			return &ConversionError{JSONKind: v.Kind(), GoType: t}
		}
		fields, err := cachedStructFields(t)
		if err != nil {
			return &ConversionError{JSONKind: '{', GoType: t, Err: err}
		}
		for i := range fields.flattened {
			f := &fields.flattened[i]
			mv, ok := lookupMember(obj, f)
			if !ok {
				continue // absent members leave the field untouched
			}
			fv := addressableValue{va.Field(f.index[0])}
			if len(f.index) > 1 {
				fv = fv.fieldByIndex(f.index[1:], true)
			}
			if err := coerceValue(mv, fv); err != nil {
				if ce, ok := err.(*ConversionError); ok && ce.Field == "" {
					ce.Field = f.name
				}
				return err
			}
		}
		return nil
	}
	return &fncs
}

// lookupMember finds the object member a struct field is populated from,
// trying the field's name variants in order and falling back to a
// case-insensitive match when the field opts into nocase.
func lookupMember(obj jsontree.Object, f *structField) (jsontree.Value, bool) {
	for _, name := range f.nameVariants {
		if v, ok := obj.Lookup(name); ok {
			return v, true
		}
	}
	if f.nocase {
		for _, m := range obj {
			if strings.EqualFold(m.Name, f.name) {
				return m.Value, true
			}
		}
	}
	return nil, false
}

func makePointerConverter(t reflect.Type) *converter {
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if va.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		if e.depth > startDetectingCyclesAfter {
			if err := e.seen.visit(va.Value); err != nil {
				return err
			}
			defer e.seen.leave(va.Value)
		}
		return writeValue(e, addressableValue{va.Elem()}) // dereferenced pointer is always addressable
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			va.SetZero()
			return nil
		}
		if va.IsNil() {
			va.Set(reflect.New(t.Elem()))
		}
		return coerceValue(v, addressableValue{va.Elem()})
	}
	return &fncs
}

func makeInterfaceConverter(t reflect.Type) *converter {
	isAny := t == anyType
	var fncs converter
	fncs.write = func(e *writeState, va addressableValue) error {
		if va.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		// Unwrap the dynamic value into an addressable copy so that the
		// codecs and converters see the concrete type.
		vv := newAddressableValue(va.Elem().Type())
		vv.Set(va.Elem())
		return writeValue(e, vv)
	}
	fncs.coerce = func(v jsontree.Value, va addressableValue) error {
		if v.Kind() == 'n' {
			va.SetZero()
			return nil
		}
		if isAny {
			va.Set(reflect.ValueOf(coerceAny(v)))
			return nil
		}
		return &ConversionError{JSONKind: v.Kind(), GoType: t, Err: errors.New("cannot determine concrete type for non-empty interface")}
	}
	return &fncs
}
