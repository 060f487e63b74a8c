// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"fmt"
	"strconv"
	"strings"
)

// Error matches every error produced by this library according to errors.Is.
const Error = jsonError("json error")

type jsonError string

func (e jsonError) Error() string        { return string(e) }
func (e jsonError) Is(target error) bool { return e == target || target == Error }

// SyntaxError describes malformed JSON text.
//
// The contents of this error as produced by this package may change over time.
type SyntaxError struct {
	// Line and Column locate the offending byte, both 1-based.
	// Columns count bytes since the start of the line, not runes.
	Line, Column int

	str string
}

func newSyntaxError(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Column: col, str: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json: syntax error at line %d, column %d: %s", e.Line, e.Column, e.str)
}
func (e *SyntaxError) Is(target error) bool { return e == target || target == Error }

// quoteChar formats c as a single-quoted character for error messages.
func quoteChar(c byte) string {
	switch c {
	case '\'':
		return `'\''`
	case '"':
		return `'"'`
	default:
		return "'" + strings.TrimPrefix(strings.TrimSuffix(strconv.Quote(string([]byte{c})), `"`), `"`) + "'"
	}
}
