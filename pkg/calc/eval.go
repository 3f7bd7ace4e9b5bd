// Package calc evaluates the small arithmetic grammar used for chat math:
// numbers, parentheses, unary + and -, and the binary operators
// + - * / // % **.
//
// Precedence from loosest to tightest: additive, multiplicative, unary,
// power. Power is right-associative and its right operand may itself carry
// a unary sign, so -2**2 is -4 and 2**-1 is 0.5. Division always yields a
// float; // and % use floored semantics.
package calc

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("numeric overflow")
	ErrDomain         = errors.New("math domain error")
)

// maxPowerBits bounds exact integer powers.
const maxPowerBits = 1 << 16

// Evaluate parses and evaluates expr.
func Evaluate(expr string) (Number, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return Number{}, err
	}
	p := &parser{tokens: tokens}
	n, err := p.parseSum()
	if err != nil {
		return Number{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return Number{}, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, tok.text, tok.pos)
	}
	if !n.isInt && (math.IsInf(n.f, 0) || math.IsNaN(n.f)) {
		return Number{}, ErrOverflow
	}
	return n, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(ops ...string) bool {
	tok := p.peek()
	if tok.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if tok.text == op {
			return true
		}
	}
	return false
}

// sum := term (('+' | '-') term)*
func (p *parser) parseSum() (Number, error) {
	left, err := p.parseTerm()
	if err != nil {
		return Number{}, err
	}
	for p.isOp("+", "-") {
		op := p.next().text
		right, err := p.parseTerm()
		if err != nil {
			return Number{}, err
		}
		if left, err = apply(op, left, right); err != nil {
			return Number{}, err
		}
	}
	return left, nil
}

// term := factor (('*' | '/' | '//' | '%') factor)*
func (p *parser) parseTerm() (Number, error) {
	left, err := p.parseFactor()
	if err != nil {
		return Number{}, err
	}
	for p.isOp("*", "/", "//", "%") {
		op := p.next().text
		right, err := p.parseFactor()
		if err != nil {
			return Number{}, err
		}
		if left, err = apply(op, left, right); err != nil {
			return Number{}, err
		}
	}
	return left, nil
}

// factor := ('+' | '-') factor | power
func (p *parser) parseFactor() (Number, error) {
	if p.isOp("+", "-") {
		op := p.next().text
		n, err := p.parseFactor()
		if err != nil {
			return Number{}, err
		}
		if op == "-" {
			return negate(n), nil
		}
		return n, nil
	}
	return p.parsePower()
}

// power := primary ['**' factor]
func (p *parser) parsePower() (Number, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return Number{}, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	p.next()
	exp, err := p.parseFactor()
	if err != nil {
		return Number{}, err
	}
	return pow(base, exp)
}

// primary := number | '(' sum ')'
func (p *parser) parsePrimary() (Number, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return parseNumber(tok.text)
	case tokLParen:
		n, err := p.parseSum()
		if err != nil {
			return Number{}, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return Number{}, fmt.Errorf("%w: expected ')' at %d", ErrSyntax, closing.pos)
		}
		return n, nil
	default:
		return Number{}, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, tok.text, tok.pos)
	}
}

func negate(n Number) Number {
	if n.isInt {
		return Number{isInt: true, i: new(big.Int).Neg(n.i)}
	}
	return Float(-n.f)
}

func apply(op string, a, b Number) (Number, error) {
	if op == "/" {
		return divide(a, b)
	}
	if a.isInt && b.isInt {
		return applyInt(op, a.i, b.i)
	}
	x, err := a.Float64()
	if err != nil {
		return Number{}, err
	}
	y, err := b.Float64()
	if err != nil {
		return Number{}, err
	}
	switch op {
	case "+":
		return Float(x + y), nil
	case "-":
		return Float(x - y), nil
	case "*":
		return Float(x * y), nil
	case "//":
		if y == 0 {
			return Number{}, ErrDivisionByZero
		}
		return Float(math.Floor(x / y)), nil
	case "%":
		if y == 0 {
			return Number{}, ErrDivisionByZero
		}
		return Float(floorMod(x, y)), nil
	}
	return Number{}, fmt.Errorf("%w: unknown operator %q", ErrSyntax, op)
}

func applyInt(op string, a, b *big.Int) (Number, error) {
	r := new(big.Int)
	switch op {
	case "+":
		r.Add(a, b)
	case "-":
		r.Sub(a, b)
	case "*":
		r.Mul(a, b)
	case "//", "%":
		if b.Sign() == 0 {
			return Number{}, ErrDivisionByZero
		}
		q, m := new(big.Int).QuoRem(a, b, new(big.Int))
		if m.Sign() != 0 && m.Sign() != b.Sign() {
			q.Sub(q, big.NewInt(1))
			m.Add(m, b)
		}
		if op == "//" {
			r = q
		} else {
			r = m
		}
	default:
		return Number{}, fmt.Errorf("%w: unknown operator %q", ErrSyntax, op)
	}
	return Number{isInt: true, i: r}, nil
}

func divide(a, b Number) (Number, error) {
	if b.isZero() {
		return Number{}, ErrDivisionByZero
	}
	if a.isInt && b.isInt {
		f, _ := new(big.Rat).SetFrac(a.i, b.i).Float64()
		if math.IsInf(f, 0) {
			return Number{}, ErrOverflow
		}
		return Float(f), nil
	}
	x, err := a.Float64()
	if err != nil {
		return Number{}, err
	}
	y, err := b.Float64()
	if err != nil {
		return Number{}, err
	}
	return Float(x / y), nil
}

func pow(base, exp Number) (Number, error) {
	if base.isInt && exp.isInt && exp.i.Sign() >= 0 {
		if base.i.CmpAbs(big.NewInt(1)) > 0 {
			if !exp.i.IsInt64() || int64(base.i.BitLen())*exp.i.Int64() > maxPowerBits {
				return Number{}, ErrOverflow
			}
		}
		return Number{isInt: true, i: new(big.Int).Exp(base.i, exp.i, nil)}, nil
	}
	x, err := base.Float64()
	if err != nil {
		return Number{}, err
	}
	y, err := exp.Float64()
	if err != nil {
		return Number{}, err
	}
	if x == 0 && y < 0 {
		return Number{}, ErrDivisionByZero
	}
	if x < 0 && y != math.Trunc(y) {
		return Number{}, ErrDomain
	}
	r := math.Pow(x, y)
	if math.IsInf(r, 0) {
		return Number{}, ErrOverflow
	}
	return Float(r), nil
}

func floorMod(x, y float64) float64 {
	m := math.Mod(x, y)
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m
}
