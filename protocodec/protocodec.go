// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protocodec registers a json.Codec that converts protocol buffer
// messages through their canonical JSON mapping.
//
// Importing the package is enough to activate it:
//
//	import _ "github.com/loosejson/json/protocodec"
//
// json.Stringify then renders any proto.Message through protojson, and
// json.Parse populates message types encountered anywhere in the target,
// including messages nested inside ordinary Go structs, maps, and slices.
package protocodec

import (
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/loosejson/json"
	"github.com/loosejson/json/jsontree"
)

func init() {
	json.RegisterCodec(New(Options{}))
}

// Options configures a codec. The zero value uses the canonical JSON
// mapping with default settings.
type Options struct {
	// Marshal is applied when rendering messages.
	Marshal protojson.MarshalOptions
	// Unmarshal is applied when populating messages.
	Unmarshal protojson.UnmarshalOptions
}

// New returns a codec converting protocol buffer messages through their
// canonical JSON mapping. Importing this package registers a codec with
// default options already; New is for callers that need to register a
// configured one.
func New(o Options) json.Codec {
	return &codec{o}
}

type codec struct{ o Options }

var protoMessageType = reflect.TypeOf((*proto.Message)(nil)).Elem()

func (c *codec) CanStringify(v any) bool {
	_, ok := v.(proto.Message)
	return ok
}

func (c *codec) Stringify(v any) (jsontree.Value, error) {
	b, err := c.o.Marshal.Marshal(v.(proto.Message))
	if err != nil {
		return nil, err
	}
	// protojson output deliberately varies its whitespace; parsing it into
	// a tree normalizes the rendering.
	return jsontree.Parse(string(b))
}

func (c *codec) CanParse(v jsontree.Value, t reflect.Type) bool {
	// Null is left to the default rules, which produce a nil message pointer.
	return v.Kind() != 'n' && t.Kind() == reflect.Pointer && t.Implements(protoMessageType)
}

func (c *codec) Parse(v jsontree.Value, t reflect.Type) (any, error) {
	m := reflect.New(t.Elem()).Interface().(proto.Message)
	if err := c.o.Unmarshal.Unmarshal([]byte(v.String()), m); err != nil {
		return nil, err
	}
	return m, nil
}
