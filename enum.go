// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/loosejson/json/internal/jsonwire"
	"github.com/loosejson/json/jsontree"
)

// enumNames is the ordered set of JSON names for a registered enumeration
// type. The ordinal of a name is its index.
type enumNames []string

var enums sync.Map // map[reflect.Type]enumNames

// RegisterEnum associates the integer type E with a set of JSON names,
// one per ordinal starting at zero. Values of E are thereafter written as
// their name, and parsing accepts names (matched case-insensitively),
// numeric ordinals, and numeric strings. Ordinals outside the registered
// name list fail in both directions, so a value of E that round-trips
// always carries one of the registered names.
//
// RegisterEnum is expected to be called during initialization.
// It panics if E is not an integer type, if names is empty,
// or if E was already registered.
func RegisterEnum[E any](names ...string) {
	t := reflect.TypeFor[E]()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		panic(fmt.Sprintf("json: RegisterEnum: %v is not an integer type", t))
	}
	if len(names) == 0 {
		panic(fmt.Sprintf("json: RegisterEnum: no names provided for %v", t))
	}
	if _, loaded := enums.LoadOrStore(t, enumNames(slices.Clone(names))); loaded {
		panic(fmt.Sprintf("json: RegisterEnum: %v already registered", t))
	}
}

func lookupEnum(t reflect.Type) (enumNames, bool) {
	v, ok := enums.Load(t)
	if !ok {
		return nil, false
	}
	return v.(enumNames), true
}

// name returns the JSON name for ordinal i.
func (ns enumNames) name(i int64) (string, bool) {
	if i < 0 || i >= int64(len(ns)) {
		return "", false
	}
	return ns[i], true
}

// ordinal returns the ordinal for a JSON name, ignoring case.
func (ns enumNames) ordinal(name string) (int64, bool) {
	for i, n := range ns {
		if strings.EqualFold(n, name) {
			return int64(i), true
		}
	}
	return 0, false
}

// writeEnum appends the registered name for ordinal i.
func writeEnum(e *writeState, ns enumNames, i int64, t reflect.Type) error {
	name, ok := ns.name(i)
	if !ok {
		return &WriteError{GoType: t, Err: fmt.Errorf("no name registered for ordinal %d", i)}
	}
	e.buf = jsonwire.AppendQuote(e.buf, name)
	return nil
}

// coerceEnum resolves a JSON value against the registered names of the
// target type. Strings match names before numerals, numbers are ordinal
// indexes into the name list, and any other shape is rendered to text and
// matched as a name.
func coerceEnum(ns enumNames, v jsontree.Value, va addressableValue) error {
	switch v := v.(type) {
	case jsontree.String:
		if i, ok := ns.ordinal(string(v)); ok {
			return setEnumOrdinal(va, i, '"')
		}
		if n, err := jsontree.ParseNumber(string(v)); err == nil {
			return coerceEnumOrdinal(ns, n, '"', va)
		}
		return &ConversionError{JSONKind: '"', GoType: va.Type(), Err: fmt.Errorf("%q is not a registered name of %v", string(v), va.Type())}
	case jsontree.Number:
		return coerceEnumOrdinal(ns, v, '0', va)
	default:
		if i, ok := ns.ordinal(v.String()); ok {
			return setEnumOrdinal(va, i, v.Kind())
		}
		return &ConversionError{JSONKind: v.Kind(), GoType: va.Type()}
	}
}

// coerceEnumOrdinal stores the ordinal held by n, truncating fractions
// toward zero and rejecting indexes outside the registered name list.
func coerceEnumOrdinal(ns enumNames, n jsontree.Number, kind jsontree.Kind, va addressableValue) error {
	i, ok := n.Int64()
	if !ok || i < 0 || i >= int64(len(ns)) {
		return &ConversionError{JSONKind: kind, GoType: va.Type(), Err: fmt.Errorf("ordinal %s out of range [0, %d)", n, len(ns))}
	}
	return setEnumOrdinal(va, i, kind)
}

func setEnumOrdinal(va addressableValue, i int64, kind jsontree.Kind) error {
	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if va.OverflowInt(i) {
			return &ConversionError{JSONKind: kind, GoType: va.Type(), Err: fmt.Errorf("ordinal %d overflows %v", i, va.Type())}
		}
		va.SetInt(i)
	default:
		if va.OverflowUint(uint64(i)) {
			return &ConversionError{JSONKind: kind, GoType: va.Type(), Err: fmt.Errorf("ordinal %d overflows %v", i, va.Type())}
		}
		va.SetUint(uint64(i))
	}
	return nil
}
