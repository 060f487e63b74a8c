// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Value
		wantStr string // canonical rendering; in if empty
	}{{
		name: "Null",
		in:   ` null `,
		want: Null, wantStr: `null`,
	}, {
		name: "Bools/False",
		in:   `false`,
		want: Bool(false),
	}, {
		name: "Bools/True",
		in:   `true`,
		want: Bool(true),
	}, {
		name: "Strings/Empty",
		in:   `""`,
		want: String(""),
	}, {
		name: "Strings/Escaped",
		in:   `"aA\nb"`,
		want: String("aA\nb"), wantStr: `"aA\nb"`,
	}, {
		name: "Numbers/Integer",
		in:   `-123`,
		want: mustNum("-123"),
	}, {
		name: "Numbers/Fraction",
		in:   `0.123456789`,
		want: mustNum("0.123456789"),
	}, {
		name: "Numbers/BeyondInt64",
		in:   `123456789012345678901234567890`,
		want: mustNum("123456789012345678901234567890"),
	}, {
		name: "Arrays/Empty",
		in:   `[ ]`,
		want: Array{}, wantStr: `[]`,
	}, {
		name: "Arrays/Flat",
		in:   `[1, "two", false, null]`,
		want: Array{mustNum("1"), String("two"), Bool(false), Null},
		wantStr: `[1,"two",false,null]`,
	}, {
		name: "Arrays/Nested",
		in:   `[[0],[[]]]`,
		want: Array{Array{mustNum("0")}, Array{Array{}}},
	}, {
		name: "Objects/Empty",
		in:   `{ }`,
		want: Object{}, wantStr: `{}`,
	}, {
		name: "Objects/InsertionOrderKept",
		in:   `{"b": 1, "a": 2}`,
		want: Object{{"b", mustNum("1")}, {"a", mustNum("2")}},
		wantStr: `{"a":2,"b":1}`,
	}, {
		name: "Objects/DuplicateNames",
		in:   `{"a": 1, "b": 2, "a": 3}`,
		want: Object{{"a", mustNum("3")}, {"b", mustNum("2")}},
		wantStr: `{"a":3,"b":2}`,
	}, {
		name: "Objects/Nested",
		in:   `{"outer": {"inner": [true]}}`,
		want: Object{{"outer", Object{{"inner", Array{Bool(true)}}}}},
		wantStr: `{"outer":{"inner":[true]}}`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, equateNumbers); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
			wantStr := tt.wantStr
			if wantStr == "" {
				wantStr = tt.in
			}
			if gotStr := got.String(); gotStr != wantStr {
				t.Errorf("rendering mismatch:\ngot  %s\nwant %s", gotStr, wantStr)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{{
		name:    "Empty",
		in:      ``,
		wantErr: newSyntaxError(1, 1, `unexpected end of input, expecting a JSON value`),
	}, {
		name:    "TrailingValue",
		in:      `true false`,
		wantErr: newSyntaxError(1, 6, `unexpected false after top-level value`),
	}, {
		name:    "TrailingComma",
		in:      `[1,]`,
		wantErr: newSyntaxError(1, 4, `unexpected ']', expecting a JSON value`),
	}, {
		name:    "UnclosedArray",
		in:      `[true`,
		wantErr: newSyntaxError(1, 6, `unexpected end of input, expecting ',' or ']' after array element`),
	}, {
		name:    "MissingColon",
		in:      `{"a" 1}`,
		wantErr: newSyntaxError(1, 6, `unexpected number, expecting ':' after object member name`),
	}, {
		name:    "MissingComma",
		in:      `{"a":1 "b":2}`,
		wantErr: newSyntaxError(1, 8, `unexpected string, expecting ',' or '}' after object member value`),
	}, {
		name:    "NonStringName",
		in:      `{1:2}`,
		wantErr: newSyntaxError(1, 2, `unexpected number, expecting a string (object member name)`),
	}, {
		name:    "LexicalError",
		in:      `{"a": truu}`,
		wantErr: newSyntaxError(1, 10, `invalid character 'u' within literal true (expecting 'e')`),
	}, {
		name:    "ExcessiveNesting",
		in:      strings.Repeat(`[`, maxNestingDepth+1),
		wantErr: newSyntaxError(1, maxNestingDepth+2, `exceeded maximum nesting depth`),
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := Parse(tt.in)
			if got != nil {
				t.Errorf("Parse = %v, want nil", got)
			}
			if !reflect.DeepEqual(gotErr, tt.wantErr) {
				t.Errorf("Parse error mismatch:\ngot  %v\nwant %v", gotErr, tt.wantErr)
			}
		})
	}
}

func TestParseDeeplyNested(t *testing.T) {
	// The depth limit must reject runaway inputs, not legitimate ones
	// right at the boundary.
	in := strings.Repeat(`[`, maxNestingDepth) + strings.Repeat(`]`, maxNestingDepth)
	if _, err := Parse(in); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
}
