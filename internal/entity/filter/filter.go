package filter

import (
	"fmt"
	"strconv"

	"github.com/allisson/tablegate/internal/entity/domain"
	apperrors "github.com/allisson/tablegate/internal/errors"
)

// Expr is a compiled filter expression evaluated against individual records.
type Expr interface {
	// Eval reports whether the record matches the expression.
	Eval(record domain.Record) bool
}

// Parse compiles a filter expression. An empty input yields an expression
// matching every record. Parse errors wrap ErrInvalidFilter so transports can
// reject them as client errors before any store I/O.
func Parse(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	p := &exprParser{tokens: tokens}
	if p.peek().kind == tokenEOF {
		return matchAll{}, nil
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, apperrors.Wrap(domain.ErrInvalidFilter,
			fmt.Sprintf("unexpected %q at position %d", tok.text, tok.pos))
	}
	return expr, nil
}

// comparison operators
const (
	opEq = "eq"
	opNe = "ne"
	opGt = "gt"
	opGe = "ge"
	opLt = "lt"
	opLe = "le"
)

var validOps = map[string]bool{
	opEq: true, opNe: true, opGt: true, opGe: true, opLt: true, opLe: true,
}

type matchAll struct{}

func (matchAll) Eval(domain.Record) bool { return true }

type orExpr struct {
	left, right Expr
}

func (e orExpr) Eval(r domain.Record) bool { return e.left.Eval(r) || e.right.Eval(r) }

type andExpr struct {
	left, right Expr
}

func (e andExpr) Eval(r domain.Record) bool { return e.left.Eval(r) && e.right.Eval(r) }

// comparison compares a record field against a literal. A missing field never
// matches, whatever the operator: absence is not comparable, not "less than".
type comparison struct {
	field   string
	op      string
	literal string
}

func (e comparison) Eval(r domain.Record) bool {
	value, ok := r[e.field]
	if !ok {
		return false
	}
	return compare(value, e.op, e.literal)
}

// compare applies the operator. When both sides parse as numbers the
// comparison is numeric, otherwise lexicographic.
func compare(value, op, literal string) bool {
	if lv, errL := strconv.ParseFloat(value, 64); errL == nil {
		if rv, errR := strconv.ParseFloat(literal, 64); errR == nil {
			return compareOrdered(lv, rv, op)
		}
	}
	return compareOrdered(value, literal, op)
}

func compareOrdered[T float64 | string](left, right T, op string) bool {
	switch op {
	case opEq:
		return left == right
	case opNe:
		return left != right
	case opGt:
		return left > right
	case opGe:
		return left >= right
	case opLt:
		return left < right
	case opLe:
		return left <= right
	default:
		return false
	}
}

// exprParser is a recursive descent parser over the token stream.
type exprParser struct {
	tokens []token
	pos    int
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *exprParser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenIdent && p.peek().text == "or" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenIdent && p.peek().text == "and" {
		p.next()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parsePrimary() (Expr, error) {
	tok := p.next()

	if tok.kind == tokenLParen {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, apperrors.Wrap(domain.ErrInvalidFilter,
				fmt.Sprintf("expected ')' at position %d", closing.pos))
		}
		return expr, nil
	}

	if tok.kind != tokenIdent {
		return nil, apperrors.Wrap(domain.ErrInvalidFilter,
			fmt.Sprintf("expected field name at position %d", tok.pos))
	}
	field := tok.text

	opTok := p.next()
	if opTok.kind != tokenIdent || !validOps[opTok.text] {
		return nil, apperrors.Wrap(domain.ErrInvalidFilter,
			fmt.Sprintf("expected comparison operator after %q at position %d", field, opTok.pos))
	}

	litTok := p.next()
	if litTok.kind != tokenString && litTok.kind != tokenNumber {
		return nil, apperrors.Wrap(domain.ErrInvalidFilter,
			fmt.Sprintf("expected literal at position %d", litTok.pos))
	}

	return comparison{field: field, op: opTok.text, literal: litTok.text}, nil
}
