// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/loosejson/json/internal/jsonwire"
)

// structFields is the JSON-relevant metadata for a Go struct type.
type structFields struct {
	// flattened lists every serializable field in declaration order,
	// with embedded structs expanded in place.
	flattened []structField
}

type structField struct {
	fieldOptions
	index        []int        // index path into the struct, one entry per embedding level
	typ          reflect.Type // type of the field
	quotedName   string       // name quoted and escaped, ready for writing
	nameVariants []string     // lookup candidates: the name itself, then snake_case and camelCase forms

	depth int // number of embedded structs above this field
	seq   int // position in the depth-first walk of the struct
}

var structFieldsCache sync.Map // map[reflect.Type]*structFields

// cachedStructFields is like makeStructFields but caches the result.
func cachedStructFields(t reflect.Type) (*structFields, error) {
	if v, ok := structFieldsCache.Load(t); ok {
		return v.(*structFields), nil
	}
	fs, err := makeStructFields(t)
	if err != nil {
		return nil, err
	}
	if v, ok := structFieldsCache.LoadOrStore(t, fs); ok {
		return v.(*structFields), nil
	}
	return fs, nil
}

// makeStructFields collects the serializable fields of a struct type,
// expanding embedded structs in place. A name claimed by fields at
// different embedding depths belongs to the shallowest; at equal depth a
// tag-named field beats an untagged one, and any remaining tie drops all
// contenders as ambiguous.
func makeStructFields(root reflect.Type) (*structFields, error) {
	var all []structField
	var seq int
	var walk func(t reflect.Type, prefix []int, depth int, visited map[reflect.Type]bool) error
	walk = func(t reflect.Type, prefix []int, depth int, visited map[reflect.Type]bool) error {
		if visited[t] {
			return nil // break cycles of recursively embedded structs
		}
		visited[t] = true
		defer delete(visited, t)
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			opts, err := parseFieldOptions(sf)
			if err != nil {
				if err == errIgnoredField {
					continue
				}
				return fmt.Errorf("%s: %v", root, err)
			}
			index := append(slices.Clone(prefix), i)
			if sf.Anonymous && !opts.hasName {
				// Embedded structs without an explicit name flatten in place.
				et := sf.Type
				if et.Kind() == reflect.Pointer {
					et = et.Elem()
				}
				if et.Kind() == reflect.Struct {
					if err := walk(et, index, depth+1, visited); err != nil {
						return err
					}
					continue
				}
			}
			all = append(all, structField{
				fieldOptions: opts,
				index:        index,
				typ:          sf.Type,
				depth:        depth,
				seq:          seq,
			})
			seq++
		}
		return nil
	}
	if err := walk(root, nil, 0, map[reflect.Type]bool{}); err != nil {
		return nil, err
	}

	// Resolve conflicts between fields that claim the same name.
	byName := make(map[string][]*structField)
	for i := range all {
		f := &all[i]
		byName[f.name] = append(byName[f.name], f)
	}
	var flattened []structField
	for _, group := range byName {
		if f := resolveNameConflict(group); f != nil {
			flattened = append(flattened, *f)
		}
	}
	slices.SortFunc(flattened, func(a, b structField) int { return a.seq - b.seq })

	for i := range flattened {
		f := &flattened[i]
		f.quotedName = string(jsonwire.AppendQuote(nil, f.name))
		f.nameVariants = nameVariants(f.name)
	}
	return &structFields{flattened: flattened}, nil
}

func resolveNameConflict(group []*structField) *structField {
	if len(group) == 1 {
		return group[0]
	}
	minDepth := group[0].depth
	for _, f := range group[1:] {
		minDepth = min(minDepth, f.depth)
	}
	var tagged, untagged []*structField
	for _, f := range group {
		if f.depth != minDepth {
			continue
		}
		if f.hasName {
			tagged = append(tagged, f)
		} else {
			untagged = append(untagged, f)
		}
	}
	if len(tagged) == 1 {
		return tagged[0]
	}
	if len(tagged) == 0 && len(untagged) == 1 {
		return untagged[0]
	}
	return nil // ambiguous
}

// nameVariants returns the member names a field answers to, in the order
// they are tried: the declared name first, then its snake_case and
// camelCase renderings when those differ.
func nameVariants(name string) []string {
	vs := []string{name}
	for _, v := range []string{snakeCase(name), camelCase(name)} {
		if !slices.Contains(vs, v) {
			vs = append(vs, v)
		}
	}
	return vs
}

// isEmptyValue reports whether a value would be omitted by omitempty:
// false, zero numbers, empty strings, and empty or nil containers.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
