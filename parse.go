package symx

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseExpr parses the s-expression form produced by Expr.String:
//
//	(const 5 32)
//	(var x 32)
//	(neg (var x 32))
//	(add (var x 32) (const 1 32))
//	(ucast (var x 8) 32)
//
// Parsed nodes are built verbatim, without constructor folding, so a parsed
// tree reflects exactly what was written.
func ParseExpr(s string) (*Expr, error) {
	p := &exprParser{src: s}
	expr, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if tok := p.next(); tok != "" {
		return nil, p.errorf("trailing input %q", tok)
	}
	return expr, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) parseNode() (*Expr, error) {
	if tok := p.next(); tok != "(" {
		return nil, p.errorf("expected '(', found %q", tok)
	}

	name := p.next()
	switch name {
	case "const":
		value, err := p.parseUint()
		if err != nil {
			return nil, err
		}
		width, err := p.parseWidth()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &Expr{Value: value & bitmask(width), Width: width}, nil

	case "var":
		ident := p.next()
		if ident == "" || ident == "(" || ident == ")" {
			return nil, p.errorf("expected identifier")
		}
		width, err := p.parseWidth()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &Expr{Ident: ident, Width: width}, nil
	}

	op, ok := OpByName(name)
	if !ok || !op.IsAlgebra() {
		return nil, p.errorf("unknown operator %q", name)
	}

	switch {
	case op.IsCast():
		src, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		width, err := p.parseWidth()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &Expr{Op: op, LHS: src, Width: width}, nil

	case op.IsUnary():
		rhs, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &Expr{Op: op, RHS: rhs, Width: rhs.Width}, nil

	default:
		lhs, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		width := lhs.Width
		if op.IsCompare() {
			width = WidthBool
		}
		return &Expr{Op: op, LHS: lhs, RHS: rhs, Width: width}, nil
	}
}

func (p *exprParser) parseUint() (uint64, error) {
	tok := p.next()
	v, err := strconv.ParseUint(tok, 0, 64)
	if err != nil {
		return 0, p.errorf("expected number, found %q", tok)
	}
	return v, nil
}

func (p *exprParser) parseWidth() (uint, error) {
	v, err := p.parseUint()
	if err != nil {
		return 0, err
	}
	if v == 0 || v > Width64 {
		return 0, p.errorf("invalid width %d", v)
	}
	return uint(v), nil
}

func (p *exprParser) expect(tok string) error {
	if found := p.next(); found != tok {
		return p.errorf("expected %q, found %q", tok, found)
	}
	return nil
}

// next returns the next token: "(", ")", or an atom. Returns an empty string
// at end of input.
func (p *exprParser) next() string {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return ""
	}
	if c := p.src[p.pos]; c == '(' || c == ')' {
		p.pos++
		return string(c)
	}

	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("() \t\n", rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *exprParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("parse expr: offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}
