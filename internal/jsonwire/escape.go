// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonwire

import "unicode/utf8"

// escapeASCII marks the single-byte characters that must be escaped within
// a JSON string: the quotation mark, the backslash, and every control
// character below 0x20 (RFC 8259, section 7). All other characters,
// including all multi-byte runes, pass through verbatim since the minimal
// escaping form emits raw UTF-8.
// Validity of this table is checked in TestEscapeASCII.
var escapeASCII = [utf8.RuneSelf]int8{
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	00, 00, -1, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00,
	00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00,
	00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00,
	00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, -1, 00, 00, 00,
	00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00,
	00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00, 00,
}

// needEscapeASCII reports whether c must be escaped.
// It assumes c < utf8.RuneSelf.
func needEscapeASCII(c byte) bool {
	return escapeASCII[c] != 0
}
