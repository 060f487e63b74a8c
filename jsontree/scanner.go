// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// A Token is a single lexical element of a JSON document.
type Token struct {
	// Kind classifies the token. String and number tokens are reported
	// as '"' and '0'; the end of input is reported as EOF.
	Kind Kind
	// Str is the decoded text of a string token.
	Str string
	// Num is the exact value of a number token.
	Num Number
	// Line and Column locate the first byte of the token, both 1-based.
	// Columns count bytes, not runes.
	Line, Column int
}

// A Scanner tokenizes a JSON document one token at a time.
// The zero Scanner is not usable; obtain one from NewScanner.
type Scanner struct {
	src  string
	pos  int
	line int
	col  int
	tok  Token
}

// NewScanner returns a Scanner reading from src.
// The first token is not available until Next has been called.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

// Token returns the token most recently scanned by Next.
func (s *Scanner) Token() Token { return s.tok }

// Pos returns the current position of the scanner:
// the 1-based line and byte column just past the current token.
func (s *Scanner) Pos() (line, col int) { return s.line, s.col }

// Next advances to the next token in the input.
// Once the input is exhausted the current token has Kind EOF and further
// calls keep reporting it. A lexical error is returned as a *SyntaxError
// carrying the position of the offending byte.
func (s *Scanner) Next() error {
	s.skipWhitespace()
	line, col := s.line, s.col
	if s.pos >= len(s.src) {
		s.tok = Token{Kind: EOF, Line: line, Column: col}
		return nil
	}
	switch c := s.src[s.pos]; c {
	case '{', '}', '[', ']', ':', ',':
		s.advance(1)
		s.tok = Token{Kind: Kind(c), Line: line, Column: col}
	case '"':
		str, err := s.scanString()
		if err != nil {
			return err
		}
		s.tok = Token{Kind: '"', Str: str, Line: line, Column: col}
	case 't':
		if err := s.scanLiteral("true"); err != nil {
			return err
		}
		s.tok = Token{Kind: 't', Line: line, Column: col}
	case 'f':
		if err := s.scanLiteral("false"); err != nil {
			return err
		}
		s.tok = Token{Kind: 'f', Line: line, Column: col}
	case 'n':
		if err := s.scanLiteral("null"); err != nil {
			return err
		}
		s.tok = Token{Kind: 'n', Line: line, Column: col}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		num, err := s.scanNumber()
		if err != nil {
			return err
		}
		s.tok = Token{Kind: '0', Num: num, Line: line, Column: col}
	default:
		return s.syntaxErrorf("invalid character %s at start of token", quoteChar(c))
	}
	return nil
}

// advance consumes n bytes, none of which may be a newline.
func (s *Scanner) advance(n int) {
	s.pos += n
	s.col += n
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r':
			s.pos++
			s.col++
		case '\n':
			s.pos++
			s.line++
			s.col = 1
		default:
			return
		}
	}
}

func (s *Scanner) syntaxErrorf(format string, args ...any) *SyntaxError {
	return newSyntaxError(s.line, s.col, format, args...)
}

func (s *Scanner) scanLiteral(lit string) error {
	for i := 0; i < len(lit); i++ {
		if s.pos >= len(s.src) {
			return s.syntaxErrorf("unexpected end of input within literal %s", lit)
		}
		if c := s.src[s.pos]; c != lit[i] {
			return s.syntaxErrorf("invalid character %s within literal %s (expecting %s)",
				quoteChar(c), lit, quoteChar(lit[i]))
		}
		s.advance(1)
	}
	return nil
}

// scanString decodes a string token with the cursor on the opening quote.
// The result aliases the source text unless an escape sequence forced a copy.
func (s *Scanner) scanString() (string, error) {
	s.advance(1)
	start := s.pos
	var buf []byte // lazily allocated upon the first escape sequence
	for {
		if s.pos >= len(s.src) {
			return "", s.syntaxErrorf("unexpected end of input within string")
		}
		switch c := s.src[s.pos]; {
		case c == '"':
			s.advance(1)
			if buf == nil {
				return s.src[start : s.pos-1], nil
			}
			return string(buf), nil
		case c == '\\':
			if buf == nil {
				buf = append(buf, s.src[start:s.pos]...)
			}
			r, err := s.scanEscape()
			if err != nil {
				return "", err
			}
			buf = utf8.AppendRune(buf, r)
		case c < 0x20:
			return "", s.syntaxErrorf("invalid character %s within string (expecting non-control character)", quoteChar(c))
		case c < utf8.RuneSelf:
			s.advance(1)
			if buf != nil {
				buf = append(buf, c)
			}
		default:
			r, rn := utf8.DecodeRuneInString(s.src[s.pos:])
			if r == utf8.RuneError && rn == 1 {
				return "", s.syntaxErrorf("invalid UTF-8 within string")
			}
			if buf != nil {
				buf = append(buf, s.src[s.pos:s.pos+rn]...)
			}
			s.advance(rn)
		}
	}
}

// scanEscape decodes one escape sequence with the cursor on the backslash.
// An unpaired surrogate is reported at the backslash of the escape that
// introduced it.
func (s *Scanner) scanEscape() (rune, error) {
	line, col := s.line, s.col
	s.advance(1)
	if s.pos >= len(s.src) {
		return 0, s.syntaxErrorf("unexpected end of input within escape sequence")
	}
	c := s.src[s.pos]
	switch c {
	case '"', '\\', '/':
		s.advance(1)
		return rune(c), nil
	case 'b':
		s.advance(1)
		return '\b', nil
	case 'f':
		s.advance(1)
		return '\f', nil
	case 'n':
		s.advance(1)
		return '\n', nil
	case 'r':
		s.advance(1)
		return '\r', nil
	case 't':
		s.advance(1)
		return '\t', nil
	case 'u':
		r1, err := s.scanHexRune()
		if err != nil {
			return 0, err
		}
		if !utf16.IsSurrogate(r1) {
			return r1, nil
		}
		if r1 >= 0xdc00 {
			return 0, newSyntaxError(line, col, `invalid unpaired surrogate \u%04x within string`, r1)
		}
		line2, col2 := s.line, s.col
		if !strings.HasPrefix(s.src[s.pos:], `\u`) {
			return 0, newSyntaxError(line, col, `invalid unpaired surrogate \u%04x within string`, r1)
		}
		s.advance(1)
		r2, err := s.scanHexRune()
		if err != nil {
			return 0, err
		}
		if r2 < 0xdc00 || r2 > 0xdfff {
			return 0, newSyntaxError(line2, col2, `invalid surrogate pair \u%04x\u%04x within string`, r1, r2)
		}
		return utf16.DecodeRune(r1, r2), nil
	default:
		return 0, s.syntaxErrorf("invalid escape sequence %s within string", quoteChar(c))
	}
}

// scanHexRune consumes "uXXXX" with the cursor on the 'u'.
func (s *Scanner) scanHexRune() (rune, error) {
	s.advance(1)
	var r rune
	for i := 0; i < 4; i++ {
		if s.pos >= len(s.src) {
			return 0, s.syntaxErrorf("unexpected end of input within escape sequence")
		}
		c := s.src[s.pos]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, s.syntaxErrorf(`invalid character %s within \u escape sequence (expecting hex digit)`, quoteChar(c))
		}
		r = r<<4 | rune(d)
		s.advance(1)
	}
	return r, nil
}

// scanNumber validates a numeral under the strict JSON grammar
// with the cursor on its first byte ('-' or a digit).
func (s *Scanner) scanNumber() (Number, error) {
	start := s.pos
	if s.src[s.pos] == '-' {
		s.advance(1)
	}
	switch {
	case s.pos >= len(s.src):
		return Number{}, s.syntaxErrorf("unexpected end of input within number")
	case s.src[s.pos] == '0':
		s.advance(1)
		if s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			return Number{}, s.syntaxErrorf("invalid character %s within number (leading zeros are not permitted)", quoteChar(s.src[s.pos]))
		}
	case isDigit(s.src[s.pos]):
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.advance(1)
		}
	default:
		return Number{}, s.syntaxErrorf("invalid character %s within number (expecting digit)", quoteChar(s.src[s.pos]))
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.advance(1)
		if err := s.scanDigits("after decimal point"); err != nil {
			return Number{}, err
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		s.advance(1)
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.advance(1)
		}
		if err := s.scanDigits("in exponent"); err != nil {
			return Number{}, err
		}
	}
	n, err := ParseNumber(s.src[start:s.pos])
	if err != nil {
		// The grammar was validated above, so only an exponent too large
		// to represent can fail here.
		return Number{}, s.syntaxErrorf("%v", err)
	}
	return n, nil
}

func (s *Scanner) scanDigits(where string) error {
	if s.pos >= len(s.src) {
		return s.syntaxErrorf("unexpected end of input within number")
	}
	if !isDigit(s.src[s.pos]) {
		return s.syntaxErrorf("invalid character %s within number (expecting digit %s)", quoteChar(s.src[s.pos]), where)
	}
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.advance(1)
	}
	return nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
