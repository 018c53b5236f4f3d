// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr evaluates the restricted arithmetic expressions that GDML
// allows in numeric attributes and define values, such as "pi/2",
// "1.5*TWOPI" or "2*sin(30*deg)".
//
// Supported are numbers, identifiers, unary + and -, the binary operators
// + - * / and the power operators ^ and ** (binding tighter than * and /,
// right associative), parentheses and calls to a fixed set of math functions.
// Identifiers are looked up in a [Scope]; evaluation has no side effects.
package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrUndefinedConstant is returned when an expression references
	// a name that is not defined (yet) in its scope.
	ErrUndefinedConstant = errors.New("undefined constant")

	// ErrSyntax is returned for an expression that cannot be parsed.
	ErrSyntax = errors.New("expression syntax error")
)

// Scope resolves identifiers to values.
type Scope interface {
	Lookup(name string) (float64, bool)
}

// Builtins are the names always defined: pi and its multiples,
// e, and the CLHEP length and angle unit symbols, in millimeters and radians.
var Builtins = map[string]float64{
	"pi":     math.Pi,
	"PI":     math.Pi,
	"twopi":  2 * math.Pi,
	"TWOPI":  2 * math.Pi,
	"halfpi": math.Pi / 2,
	"HALFPI": math.Pi / 2,
	"e":      math.E,

	"nm": 1e-6,
	"um": 1e-3,
	"mm": 1,
	"cm": 10,
	"dm": 100,
	"m":  1000,
	"km": 1e6,

	"rad":    1,
	"mrad":   1e-3,
	"deg":    math.Pi / 180,
	"degree": math.Pi / 180,
}

// functions are the callable math functions, keyed by name.
var functions = map[string]struct {
	nargs int
	fn    func(a []float64) float64
}{
	"sin":   {1, func(a []float64) float64 { return math.Sin(a[0]) }},
	"cos":   {1, func(a []float64) float64 { return math.Cos(a[0]) }},
	"tan":   {1, func(a []float64) float64 { return math.Tan(a[0]) }},
	"asin":  {1, func(a []float64) float64 { return math.Asin(a[0]) }},
	"acos":  {1, func(a []float64) float64 { return math.Acos(a[0]) }},
	"atan":  {1, func(a []float64) float64 { return math.Atan(a[0]) }},
	"atan2": {2, func(a []float64) float64 { return math.Atan2(a[0], a[1]) }},
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"pow":   {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"exp":   {1, func(a []float64) float64 { return math.Exp(a[0]) }},
	"log":   {1, func(a []float64) float64 { return math.Log(a[0]) }},
	"log10": {1, func(a []float64) float64 { return math.Log10(a[0]) }},
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"fabs":  {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"min":   {2, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	"max":   {2, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
}

// Eval evaluates the expression in the given scope, which may be nil.
// Builtins are consulted after the scope.
func Eval(s string, scope Scope) (float64, error) {
	p := &parser{src: s, scope: scope}
	if err := p.lex(); err != nil {
		return 0, err
	}
	if len(p.toks) == 0 {
		return 0, fmt.Errorf("expr: empty expression: %w", ErrSyntax)
	}
	v, err := p.sum()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.toks) {
		return 0, p.errorf("unexpected %q", p.toks[p.pos].text)
	}
	return v, nil
}

// ParseFloat parses a plain number quickly, falling back to [Eval]
// for anything that is not a number.
func ParseFloat(s string, scope Scope) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	return Eval(s, scope)
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type parser struct {
	src   string
	scope Scope
	toks  []token
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("expr: %q: %s: %w", p.src, fmt.Sprintf(format, args...), ErrSyntax)
}

func (p *parser) lex() error {
	rs := []rune(p.src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			st := i
			for i < len(rs) && (unicode.IsDigit(rs[i]) || rs[i] == '.') {
				i++
			}
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					i = j
					for i < len(rs) && unicode.IsDigit(rs[i]) {
						i++
					}
				}
			}
			txt := string(rs[st:i])
			v, err := strconv.ParseFloat(txt, 64)
			if err != nil {
				return p.errorf("bad number %q", txt)
			}
			p.toks = append(p.toks, token{kind: tokNumber, text: txt, num: v})
		case unicode.IsLetter(r) || r == '_':
			st := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			p.toks = append(p.toks, token{kind: tokIdent, text: string(rs[st:i])})
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			p.toks = append(p.toks, token{kind: tokOp, text: "^"})
			i += 2
		case strings.ContainsRune("+-*/^(),", r):
			p.toks = append(p.toks, token{kind: tokOp, text: string(r)})
			i++
		default:
			return p.errorf("unexpected character %q", r)
		}
	}
	return nil
}

func (p *parser) peekOp(ops string) (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	t := p.toks[p.pos]
	if t.kind != tokOp || !strings.Contains(ops, t.text) {
		return "", false
	}
	return t.text, true
}

// sum = product { (+|-) product }
func (p *parser) sum() (float64, error) {
	v, err := p.product()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("+-")
		if !ok {
			return v, nil
		}
		p.pos++
		w, err := p.product()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			v += w
		} else {
			v -= w
		}
	}
}

// product = unary { (*|/) unary }
func (p *parser) product() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("*/")
		if !ok {
			return v, nil
		}
		p.pos++
		w, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			v *= w
		} else {
			v /= w
		}
	}
}

// unary = (+|-) unary | power
func (p *parser) unary() (float64, error) {
	if op, ok := p.peekOp("+-"); ok {
		p.pos++
		v, err := p.unary()
		if op == "-" {
			v = -v
		}
		return v, err
	}
	return p.power()
}

// power = primary [ ^ unary ]
func (p *parser) power() (float64, error) {
	v, err := p.primary()
	if err != nil {
		return 0, err
	}
	if _, ok := p.peekOp("^"); ok {
		p.pos++
		w, err := p.unary()
		if err != nil {
			return 0, err
		}
		return math.Pow(v, w), nil
	}
	return v, nil
}

func (p *parser) primary() (float64, error) {
	if p.pos >= len(p.toks) {
		return 0, p.errorf("unexpected end")
	}
	t := p.toks[p.pos]
	p.pos++
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokIdent:
		if _, ok := p.peekOp("("); ok {
			return p.call(t.text)
		}
		return p.lookup(t.text)
	}
	if t.text == "(" {
		v, err := p.sum()
		if err != nil {
			return 0, err
		}
		if _, ok := p.peekOp(")"); !ok {
			return 0, p.errorf("missing )")
		}
		p.pos++
		return v, nil
	}
	return 0, p.errorf("unexpected %q", t.text)
}

func (p *parser) call(name string) (float64, error) {
	f, ok := functions[name]
	if !ok {
		return 0, fmt.Errorf("expr: %q: function %q: %w", p.src, name, ErrUndefinedConstant)
	}
	p.pos++ // (
	var args []float64
	if _, ok := p.peekOp(")"); !ok {
		for {
			v, err := p.sum()
			if err != nil {
				return 0, err
			}
			args = append(args, v)
			if _, ok := p.peekOp(","); !ok {
				break
			}
			p.pos++
		}
	}
	if _, ok := p.peekOp(")"); !ok {
		return 0, p.errorf("missing ) after arguments to %s", name)
	}
	p.pos++
	if len(args) != f.nargs {
		return 0, p.errorf("%s takes %d arguments, got %d", name, f.nargs, len(args))
	}
	return f.fn(args), nil
}

func (p *parser) lookup(name string) (float64, error) {
	if p.scope != nil {
		if v, ok := p.scope.Lookup(name); ok {
			return v, nil
		}
	}
	if v, ok := Builtins[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("expr: %q: %q: %w", p.src, name, ErrUndefinedConstant)
}
