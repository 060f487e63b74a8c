// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	inf "gopkg.in/inf.v0"

	"github.com/loosejson/json/internal/jsonwire"
)

// Number is a JSON number held exactly as an arbitrary-precision decimal
// (an integer coefficient scaled by a power of ten), so integers beyond
// the 64-bit range and decimal fractions such as 0.1 are preserved without
// binary floating-point rounding. The zero Number is the number 0.
//
// The scale of the input is preserved: parsing "1.50" and "1.5" yields
// Numbers that render differently but compare Equal.
type Number struct {
	dec inf.Dec
}

func (n Number) Kind() Kind { return '0' }

// String returns the canonical JSON numeral for n.
func (n Number) String() string { return string(n.append(nil)) }

func (n Number) append(dst []byte) []byte {
	s := int(n.dec.Scale())
	u := n.dec.UnscaledBig()
	if u.Sign() == 0 {
		return append(dst, '0')
	}
	// Keep the plain form while its zero padding stays reasonable;
	// beyond that, exponent form is equally valid JSON and far shorter.
	const maxPadding = 27
	if digits := len(u.String()); s < -maxPadding || s-digits > maxPadding {
		dst = append(dst, u.String()...)
		dst = append(dst, 'e')
		return strconv.AppendInt(dst, int64(-s), 10)
	}
	return append(dst, n.dec.String()...)
}

// Int returns the Number for i.
func Int(i int64) Number {
	var n Number
	n.dec.SetUnscaled(i)
	return n
}

// Uint returns the Number for u.
func Uint(u uint64) Number {
	var n Number
	if u <= math.MaxInt64 {
		n.dec.SetUnscaled(int64(u))
	} else {
		n.dec.SetUnscaledBig(new(big.Int).SetUint64(u))
	}
	return n
}

// Float returns the Number for f using the shortest decimal representation
// that round-trips through a float64.
// It panics if f is a NaN or an infinity, which have no JSON numeral.
func Float(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("jsontree: no JSON numeral for %v", f))
	}
	n, err := ParseNumber(string(jsonwire.AppendFloat(nil, f, 64)))
	if err != nil {
		panic(err)
	}
	return n
}

// NewDec returns the Number for the decimal d, which is copied.
func NewDec(d *inf.Dec) Number {
	var n Number
	n.dec.Set(d)
	return n
}

// ParseNumber parses a decimal numeral, including the exponent form.
// It is slightly more lenient than the JSON grammar: a leading '+',
// a bare leading or trailing decimal point, and redundant leading zeros
// are all accepted. The scanner enforces the strict grammar itself.
func ParseNumber(s string) (Number, error) {
	mant, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return Number{}, fmt.Errorf("invalid number %q", s)
		}
		mant, exp = s[:i], e
	}
	var n Number
	if _, ok := n.dec.SetString(mant); !ok {
		return Number{}, fmt.Errorf("invalid number %q", s)
	}
	if exp != 0 {
		scale := int64(n.dec.Scale()) - int64(exp)
		if scale < math.MinInt32 || scale > math.MaxInt32 {
			return Number{}, fmt.Errorf("exponent in number %q out of range", s)
		}
		n.dec.SetScale(inf.Scale(scale))
	}
	return n, nil
}

// Equal reports whether two Numbers have the same numeric value,
// ignoring representation, so 1e2 equals 100 and 1.50 equals 1.5.
func (n Number) Equal(m Number) bool { return n.dec.Cmp(&m.dec) == 0 }

// Dec returns a copy of n as an arbitrary-precision decimal.
func (n Number) Dec() *inf.Dec { return new(inf.Dec).Set(&n.dec) }

// BigInt returns n truncated toward zero as an arbitrary-precision integer.
func (n Number) BigInt() *big.Int {
	return new(big.Int).Set(n.bigTrunc())
}

// Int64 returns n truncated toward zero
// and reports whether the truncated value fits in an int64.
func (n Number) Int64() (int64, bool) {
	i := n.bigTrunc()
	if !i.IsInt64() {
		return 0, false
	}
	return i.Int64(), true
}

// Uint64 returns n truncated toward zero
// and reports whether the truncated value fits in a uint64.
func (n Number) Uint64() (uint64, bool) {
	i := n.bigTrunc()
	if !i.IsUint64() {
		return 0, false
	}
	return i.Uint64(), true
}

// Float64 returns the float64 nearest to n.
// Values beyond the float64 range saturate to an infinity.
func (n Number) Float64() float64 {
	f, _ := strconv.ParseFloat(n.String(), 64)
	return f
}

// IsInt reports whether n has no fractional part.
func (n Number) IsInt() bool {
	var r inf.Dec
	r.Round(&n.dec, 0, inf.RoundDown)
	return r.Cmp(&n.dec) == 0
}

func (n Number) bigTrunc() *big.Int {
	var r inf.Dec
	r.Round(&n.dec, 0, inf.RoundDown)
	return r.UnscaledBig()
}
