// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonwire

import (
	"math"
	"testing"
)

func TestEscapeASCII(t *testing.T) {
	for c := range escapeASCII {
		want := c < 0x20 || c == '"' || c == '\\'
		if got := needEscapeASCII(byte(c)); got != want {
			t.Errorf("needEscapeASCII(%q) = %v, want %v", byte(c), got, want)
		}
	}
}

func TestAppendQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"hello, world!", `"hello, world!"`},
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"\x7f", "\"\x7f\""}, // DEL needs no escaping
		{"жизнь", "\"жизнь\""},
		{"😀", "\"😀\""}, // non-ASCII passes through raw
		{"\xff", "\"�\""},
		{"a\xffb", "\"a�b\""},
	}
	for _, tt := range tests {
		if got := string(AppendQuote(nil, tt.in)); got != tt.want {
			t.Errorf("AppendQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAppendFloat(t *testing.T) {
	tests := []struct {
		in   float64
		bits int
		want string
	}{
		{0, 64, "0"},
		{math.Copysign(0, -1), 64, "-0"},
		{1, 64, "1"},
		{-1, 64, "-1"},
		{0.1, 64, "0.1"},
		{12345.6789, 64, "12345.6789"},
		{1e20, 64, "100000000000000000000"},
		{1e21, 64, "1e+21"},
		{1e-6, 64, "0.000001"},
		{1e-7, 64, "1e-7"},
		{5e-324, 64, "5e-324"},
		{math.MaxFloat64, 64, "1.7976931348623157e+308"},
		{0.1, 32, "0.1"},
		{math.MaxFloat32, 32, "3.4028235e+38"},
	}
	for _, tt := range tests {
		if got := string(AppendFloat(nil, tt.in, tt.bits)); got != tt.want {
			t.Errorf("AppendFloat(%v, %d) = %s, want %s", tt.in, tt.bits, got, tt.want)
		}
	}
}
