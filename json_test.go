// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package json

import (
	"errors"
	"iter"
	"math"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/loosejson/json/jsontree"
)

func TestStringifyIndent(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		prefix string
		indent string
		want   string
	}{{
		name:   "Scalar",
		in:     5,
		indent: "  ",
		want:   `5`,
	}, {
		name:   "EmptyContainersStayFlat",
		in:     []any{[]int{}, map[string]int{}, struct{}{}},
		indent: "  ",
		want:   "[\n  [],\n  {},\n  {}\n]",
	}, {
		name:   "Struct",
		in:     structEmbeds{StructInner: &StructInner{Inner: "i"}, Outer: "o"},
		indent: "\t",
		want:   "{\n\t\"inner\": \"i\",\n\t\"outer\": \"o\"\n}",
	}, {
		name:   "NestedWithPrefix",
		in:     map[string]any{"a": []any{1, true}, "b": map[string]int{}},
		prefix: "> ",
		indent: "  ",
		want:   "{\n>   \"a\": [\n>     1,\n>     true\n>   ],\n>   \"b\": {}\n> }",
	}, {
		name:   "Tree",
		in:     jsontree.Object{{"b", mustNum("1")}, {"a", jsontree.Array{jsontree.Null}}},
		indent: "  ",
		want:   "{\n  \"a\": [\n    null\n  ],\n  \"b\": 1\n}",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringifyIndent(tt.in, tt.prefix, tt.indent)
			if err != nil {
				t.Fatalf("StringifyIndent error: %v", err)
			}
			if got != tt.want {
				t.Errorf("StringifyIndent output mismatch:\ngot  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func checkRoundTrip[T any](t *testing.T, in T) {
	t.Helper()
	s, err := Stringify(in)
	if err != nil {
		t.Fatalf("Stringify(%v) error: %v", in, err)
	}
	got, err := Parse[T](s)
	if err != nil {
		t.Fatalf("Parse[%T](%s) error: %v", in, s, err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip through %s:\ngot  %+v\nwant %+v", s, got, in)
	}
}

func TestRoundTrip(t *testing.T) {
	checkRoundTrip(t, true)
	checkRoundTrip(t, "hello, 世界")
	checkRoundTrip(t, int64(math.MinInt64))
	checkRoundTrip(t, uint64(math.MaxUint64))
	checkRoundTrip(t, 0.1)
	checkRoundTrip(t, []byte{1, 2, 3})
	checkRoundTrip(t, []int{1, 2, 3})
	checkRoundTrip(t, map[string][]int{"a": {1}, "b": nil})
	checkRoundTrip(t, map[int]string{1: "a", 10: "b"})
	checkRoundTrip(t, structPoint{X: -1, Y: 2})
	checkRoundTrip(t, addr(structPoint{X: 5}))
	checkRoundTrip(t, structEmbeds{StructInner: &StructInner{Inner: "i"}, Outer: "o"})
	checkRoundTrip(t, green)
	checkRoundTrip(t, 90*time.Minute)
	checkRoundTrip(t, time.Date(2006, 1, 2, 15, 4, 5, 123456789, time.UTC))
	checkRoundTrip(t, map[string]any{"k": []any{1.5, true, nil}})
	checkRoundTrip(t, jsontree.Value(jsontree.Object{{"a", mustNum("1.50")}}))
}

func TestStringifyDeterminism(t *testing.T) {
	in := map[string]int{"x": 1, "y": 2, "z": 3, "w": 4, "v": 5}
	first, err := Stringify(in)
	if err != nil {
		t.Fatalf("Stringify error: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := Stringify(in)
		if err != nil {
			t.Fatalf("Stringify error: %v", err)
		}
		if got != first {
			t.Fatalf("Stringify not deterministic:\nfirst %s\nthen  %s", first, got)
		}
	}

	// Structurally equal trees render identically regardless of
	// member insertion order.
	a := jsontree.Object{{"x", mustNum("1")}, {"y", mustNum("2")}}
	b := jsontree.Object{{"y", mustNum("2")}, {"x", mustNum("1")}}
	sa, _ := Stringify(a)
	sb, _ := Stringify(b)
	if sa != sb {
		t.Errorf("insertion order leaked into output:\n%s\n%s", sa, sb)
	}
}

func TestParseIdempotence(t *testing.T) {
	docs := []string{
		`{"b": [1, 2.50, {"x": null}], "a": "s"}`,
		`[[],{},"",0,false]`,
		`{"dup": 1, "dup": 2}`,
	}
	for _, doc := range docs {
		v1, err := Parse[jsontree.Value](doc)
		if err != nil {
			t.Fatalf("Parse(%s) error: %v", doc, err)
		}
		s1, err := Stringify(v1)
		if err != nil {
			t.Fatalf("Stringify error: %v", err)
		}
		v2, err := Parse[jsontree.Value](s1)
		if err != nil {
			t.Fatalf("Parse(%s) error: %v", s1, err)
		}
		s2, err := Stringify(v2)
		if err != nil {
			t.Fatalf("Stringify error: %v", err)
		}
		if s1 != s2 {
			t.Errorf("rendering not stable for %s:\nfirst  %s\nsecond %s", doc, s1, s2)
		}
	}
}

func TestParseInto(t *testing.T) {
	// Members absent from the input leave the target's fields untouched.
	p := structPoint{X: 1, Y: 2}
	if err := ParseInto(`{"y": 9}`, &p); err != nil {
		t.Fatalf("ParseInto error: %v", err)
	}
	if want := (structPoint{X: 1, Y: 9}); p != want {
		t.Errorf("ParseInto = %+v, want %+v", p, want)
	}

	wantErr := &ConversionError{GoType: structPointType, Err: errors.New("target must be a non-nil pointer")}
	if err := ParseInto(`1`, structPoint{}); !reflect.DeepEqual(err, wantErr) {
		t.Errorf("ParseInto(non-pointer) error mismatch:\ngot  %v\nwant %v", err, wantErr)
	}
	wantErr = &ConversionError{GoType: reflect.TypeOf((*int)(nil)), Err: errors.New("target must be a non-nil pointer")}
	if err := ParseInto(`1`, (*int)(nil)); !reflect.DeepEqual(err, wantErr) {
		t.Errorf("ParseInto(nil pointer) error mismatch:\ngot  %v\nwant %v", err, wantErr)
	}
}

func TestParseAs(t *testing.T) {
	got, err := ParseAs(`{"x": 1}`, structPointType)
	if err != nil {
		t.Fatalf("ParseAs error: %v", err)
	}
	if want := (structPoint{X: 1}); got != any(want) {
		t.Errorf("ParseAs = %+v, want %+v", got, want)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("ParseAs(nil type) did not panic")
		}
	}()
	ParseAs(`1`, nil)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse[int](`{`)
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse error is %T, want *SyntaxError", err)
	}
	if serr.Line != 1 || serr.Column != 2 {
		t.Errorf("error at line %d, column %d; want line 1, column 2", serr.Line, serr.Column)
	}
	if !errors.Is(err, Error) {
		t.Errorf("errors.Is(%v, Error) = false, want true", err)
	}
}

func TestSequences(t *testing.T) {
	var seq iter.Seq[int] = func(yield func(int) bool) {
		for _, v := range []int{1, 2, 3} {
			if !yield(v) {
				return
			}
		}
	}
	got, err := Stringify(seq)
	if err != nil {
		t.Fatalf("Stringify error: %v", err)
	}
	if want := `[1,2,3]`; got != want {
		t.Errorf("Stringify(seq) = %s, want %s", got, want)
	}

	parsed, err := Parse[iter.Seq[int]](`[1, 2, 3]`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	// A coerced sequence can be ranged over more than once.
	for i := 0; i < 2; i++ {
		if got := slices.Collect(parsed); !slices.Equal(got, []int{1, 2, 3}) {
			t.Errorf("pass %d: collected %v, want [1 2 3]", i, got)
		}
	}

	wrapped, err := Parse[iter.Seq[int]](`5`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := slices.Collect(wrapped); !slices.Equal(got, []int{5}) {
		t.Errorf("collected %v, want [5]", got)
	}

	none, err := Parse[iter.Seq[int]](`null`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if none != nil {
		t.Errorf("Parse(null) = non-nil sequence")
	}
}

func TestSequencePairs(t *testing.T) {
	// Unlike maps, sequences write in yield order.
	var seq2 iter.Seq2[string, int] = func(yield func(string, int) bool) {
		if !yield("b", 1) {
			return
		}
		yield("a", 2)
	}
	got, err := Stringify(seq2)
	if err != nil {
		t.Fatalf("Stringify error: %v", err)
	}
	if want := `{"b":1,"a":2}`; got != want {
		t.Errorf("Stringify(seq2) = %s, want %s", got, want)
	}

	parsed, err := Parse[iter.Seq2[string, int]](`{"b": 1, "a": 2}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	var names []string
	var vals []int
	for k, v := range parsed {
		names = append(names, k)
		vals = append(vals, v)
	}
	if !slices.Equal(names, []string{"b", "a"}) || !slices.Equal(vals, []int{1, 2}) {
		t.Errorf("collected (%v, %v), want ([b a], [1 2])", names, vals)
	}
}

func TestStringifyDrainsSequenceOnce(t *testing.T) {
	var calls int
	var seq iter.Seq[int] = func(yield func(int) bool) {
		calls++
		yield(calls)
	}
	if got, _ := Stringify(seq); got != `[1]` {
		t.Errorf("first Stringify = %s, want [1]", got)
	}
	if got, _ := Stringify(seq); got != `[2]` {
		t.Errorf("second Stringify = %s, want [2]; writing drains the sequence", got)
	}
}
