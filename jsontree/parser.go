// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontree

// maxNestingDepth is the maximum depth of nested objects and arrays.
// Inputs beyond it report a syntax error rather than exhausting the stack.
const maxNestingDepth = 10000

// Parse parses src as a single JSON document and returns its tree.
// Anything other than whitespace after the top-level value is an error.
func Parse(src string) (Value, error) {
	p := parser{s: NewScanner(src)}
	if err := p.next(); err != nil {
		return nil, err
	}
	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != EOF {
		return nil, newSyntaxError(p.tok.Line, p.tok.Column, "unexpected %s after top-level value", p.tok.Kind)
	}
	return v, nil
}

type parser struct {
	s     *Scanner
	tok   Token
	names stringCache
}

func (p *parser) next() error {
	if err := p.s.Next(); err != nil {
		return err
	}
	p.tok = p.s.Token()
	return nil
}

func (p *parser) unexpected(expecting string) *SyntaxError {
	if p.tok.Kind == EOF {
		return newSyntaxError(p.tok.Line, p.tok.Column, "unexpected end of input, expecting %s", expecting)
	}
	return newSyntaxError(p.tok.Line, p.tok.Column, "unexpected %s, expecting %s", p.tok.Kind, expecting)
}

func (p *parser) parseValue(depth int) (Value, error) {
	if depth > maxNestingDepth {
		return nil, newSyntaxError(p.tok.Line, p.tok.Column, "exceeded maximum nesting depth")
	}
	var v Value
	switch p.tok.Kind {
	case 'n':
		v = Null
	case 't', 'f':
		v = Bool(p.tok.Kind == 't')
	case '"':
		v = String(p.tok.Str)
	case '0':
		v = p.tok.Num
	case '[':
		return p.parseArray(depth)
	case '{':
		return p.parseObject(depth)
	default:
		return nil, p.unexpected("a JSON value")
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *parser) parseArray(depth int) (Value, error) {
	if err := p.next(); err != nil { // consume '['
		return nil, err
	}
	a := Array{}
	if p.tok.Kind == ']' {
		return a, p.next()
	}
	for {
		v, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		a = append(a, v)
		switch p.tok.Kind {
		case ',':
			if err := p.next(); err != nil {
				return nil, err
			}
		case ']':
			return a, p.next()
		default:
			return nil, p.unexpected("',' or ']' after array element")
		}
	}
}

func (p *parser) parseObject(depth int) (Value, error) {
	if err := p.next(); err != nil { // consume '{'
		return nil, err
	}
	o := Object{}
	if p.tok.Kind == '}' {
		return o, p.next()
	}
	for {
		if p.tok.Kind != '"' {
			return nil, p.unexpected("a string (object member name)")
		}
		name := p.names.make(p.tok.Str)
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.Kind != ':' {
			return nil, p.unexpected("':' after object member name")
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		v, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		// A duplicate name overwrites the earlier value but keeps the
		// position where the name first appeared.
		o.Set(name, v)
		switch p.tok.Kind {
		case ',':
			if err := p.next(); err != nil {
				return nil, err
			}
		case '}':
			return o, p.next()
		default:
			return nil, p.unexpected("',' or '}' after object member value")
		}
	}
}
