// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"math"
	"testing"

	inf "gopkg.in/inf.v0"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string // rendering of the parsed number
		wantErr bool
	}{
		{in: `0`, want: `0`},
		{in: `-0`, want: `0`},
		{in: `1.50`, want: `1.50`}, // scale is preserved
		{in: `1.5`, want: `1.5`},
		{in: `123.456`, want: `123.456`},
		{in: `1e2`, want: `100`},
		{in: `1E+2`, want: `100`},
		{in: `5e-1`, want: `0.5`},
		{in: `1.5e-100`, want: `15e-101`},
		{in: `1e100`, want: `1e100`},
		{in: `123456789012345678901234567890`, want: `123456789012345678901234567890`},

		// More lenient than the JSON grammar; the scanner enforces that.
		{in: `+1`, want: `1`},
		{in: `.5`, want: `0.5`},
		{in: `5.`, want: `5`},
		{in: `007`, want: `7`},

		{in: ``, wantErr: true},
		{in: `x`, wantErr: true},
		{in: `1e`, wantErr: true},
		{in: `--1`, wantErr: true},
		{in: `1.2.3`, wantErr: true},
		{in: `1e999999999999`, wantErr: true}, // exponent out of range
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseNumber(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNumber(%q) error: %v", tt.in, err)
			continue
		}
		if gotStr := got.String(); gotStr != tt.want {
			t.Errorf("ParseNumber(%q).String() = %v, want %v", tt.in, gotStr, tt.want)
		}
	}
}

func TestNumberInt64(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{`0`, 0, true},
		{`3.99`, 3, true}, // truncates toward zero
		{`-3.99`, -3, true},
		{`9223372036854775807`, math.MaxInt64, true},
		{`-9223372036854775808`, math.MinInt64, true},
		{`9223372036854775808`, 0, false},
		{`1e20`, 0, false},
	}
	for _, tt := range tests {
		got, ok := mustNum(tt.in).Int64()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Number(%v).Int64() = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNumberUint64(t *testing.T) {
	tests := []struct {
		in     string
		want   uint64
		wantOK bool
	}{
		{`0`, 0, true},
		{`18446744073709551615`, math.MaxUint64, true},
		{`18446744073709551616`, 0, false},
		{`-1`, 0, false},
		{`-0.5`, 0, true}, // truncates toward zero
	}
	for _, tt := range tests {
		got, ok := mustNum(tt.in).Uint64()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Number(%v).Uint64() = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNumberFloat64(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`0.1`, 0.1},
		{`-123.456`, -123.456},
		{`123456789012345678901234567890`, 1.2345678901234568e+29},
		{`1e1000`, math.Inf(+1)}, // saturates beyond the float64 range
		{`-1e1000`, math.Inf(-1)},
	}
	for _, tt := range tests {
		if got := mustNum(tt.in).Float64(); got != tt.want {
			t.Errorf("Number(%v).Float64() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNumberBigInt(t *testing.T) {
	n := mustNum(`123456789012345678901234567890.99`)
	if got, want := n.BigInt().String(), `123456789012345678901234567890`; got != want {
		t.Errorf("BigInt() = %v, want %v", got, want)
	}
}

func TestNumberIsInt(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`5`, true},
		{`5.0`, true},
		{`5.1`, false},
		{`1e2`, true},
		{`5e-1`, false},
		{`-0.5`, false},
	}
	for _, tt := range tests {
		if got := mustNum(tt.in).IsInt(); got != tt.want {
			t.Errorf("Number(%v).IsInt() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNumberEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{`1.50`, `1.5`, true},
		{`1e2`, `100`, true},
		{`-0`, `0`, true},
		{`1`, `2`, false},
		{`0.1`, `0.10001`, false},
	}
	for _, tt := range tests {
		if got := mustNum(tt.a).Equal(mustNum(tt.b)); got != tt.want {
			t.Errorf("Number(%v).Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNumberConstructors(t *testing.T) {
	if got, want := Int(-5).String(), `-5`; got != want {
		t.Errorf("Int(-5).String() = %v, want %v", got, want)
	}
	if got, want := Uint(math.MaxUint64).String(), `18446744073709551615`; got != want {
		t.Errorf("Uint(MaxUint64).String() = %v, want %v", got, want)
	}
	if got, want := Float(0.1).String(), `0.1`; got != want {
		t.Errorf("Float(0.1).String() = %v, want %v", got, want)
	}
	if got, want := Float(1e21).String(), `1000000000000000000000`; got != want {
		t.Errorf("Float(1e21).String() = %v, want %v", got, want)
	}
}

func TestFloatPanics(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(+1), math.Inf(-1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Float(%v) did not panic", f)
				}
			}()
			Float(f)
		}()
	}
}

func TestNewDecCopies(t *testing.T) {
	d := inf.NewDec(150, 2)
	n := NewDec(d)
	d.SetUnscaled(999) // must not affect n
	if got, want := n.String(), `1.50`; got != want {
		t.Errorf("NewDec copy violated: String() = %v, want %v", got, want)
	}
	n.Dec().SetUnscaled(7) // Dec returns a copy as well
	if got, want := n.String(), `1.50`; got != want {
		t.Errorf("Dec copy violated: String() = %v, want %v", got, want)
	}
}
