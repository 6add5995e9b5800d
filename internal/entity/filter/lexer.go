// Package filter parses and evaluates query filter expressions.
//
// The grammar is a small comparison language over record fields:
//
//	expr    := andExpr { "or" andExpr }
//	andExpr := primary { "and" primary }
//	primary := "(" expr ")" | field op literal
//	op      := "eq" | "ne" | "gt" | "ge" | "lt" | "le"
//	literal := single-quoted string | number
//
// Inside string literals a doubled quote ('') escapes a single quote.
// Evaluation happens client-side against individual records.
package filter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/allisson/tablegate/internal/entity/domain"
	apperrors "github.com/allisson/tablegate/internal/errors"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a filter expression into tokens.
func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := rune(input[i])

		switch {
		case unicode.IsSpace(c):
			i++

		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++

		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++

		case c == '\'':
			text, next, err := lexString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: text, pos: i})
			i = next

		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentPart(rune(input[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: input[start:i], pos: start})

		case unicode.IsDigit(c) || c == '-' || c == '+':
			start := i
			i++
			for i < len(input) && (unicode.IsDigit(rune(input[i])) || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: input[start:i], pos: start})

		default:
			return nil, apperrors.Wrap(domain.ErrInvalidFilter,
				fmt.Sprintf("unexpected character %q at position %d", c, i))
		}
	}
	return append(tokens, token{kind: tokenEOF, pos: len(input)}), nil
}

// lexString reads a single-quoted string literal starting at pos.
// A doubled quote inside the literal escapes a single quote.
func lexString(input string, pos int) (text string, next int, err error) {
	var sb strings.Builder
	i := pos + 1
	for i < len(input) {
		if input[i] == '\'' {
			if i+1 < len(input) && input[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			return sb.String(), i + 1, nil
		}
		sb.WriteByte(input[i])
		i++
	}
	return "", 0, apperrors.Wrap(domain.ErrInvalidFilter,
		fmt.Sprintf("unterminated string literal at position %d", pos))
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}
