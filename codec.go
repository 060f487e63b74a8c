// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/loosejson/json/jsontree"
)

// A Codec extends Stringify and Parse with support for foreign value models,
// such as protocol buffer messages. A codec translates between Go values it
// recognizes and the JSON tree form; rendering the tree as text and coercing
// text into trees remain the job of this package.
//
// Codecs are consulted for every value encountered during a conversion,
// including values nested within structs, maps, and slices. Values with a
// fixed mapping are never offered to a codec: nil references always render
// as null, jsontree values always convert structurally, and untyped
// interface targets always receive the generic Go mapping.
// The first registered codec to claim a value wins.
type Codec interface {
	// CanStringify reports whether Stringify handles v.
	CanStringify(v any) bool
	// Stringify converts v into a JSON tree.
	Stringify(v any) (jsontree.Value, error)

	// CanParse reports whether Parse can produce a value of type t from v.
	CanParse(v jsontree.Value, t reflect.Type) bool
	// Parse converts v into a new value assignable to type t.
	Parse(v jsontree.Value, t reflect.Type) (any, error)
}

var (
	codecsMu     sync.Mutex
	atomicCodecs atomic.Value // []Codec
)

// RegisterCodec registers a codec for use by Stringify and Parse.
// It is typically called from the init function of a package
// implementing a foreign value model.
func RegisterCodec(c Codec) {
	if c == nil {
		panic("json: RegisterCodec with nil codec")
	}
	codecsMu.Lock()
	codecs, _ := atomicCodecs.Load().([]Codec)
	atomicCodecs.Store(append(codecs, c))
	codecsMu.Unlock()
}

func registeredCodecs() []Codec {
	codecs, _ := atomicCodecs.Load().([]Codec)
	return codecs
}
