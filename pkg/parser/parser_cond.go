package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/token"
)

// Condition validation.
//
// Grammar:
//
//	condition  → term ((AND | OR) term)*
//	term       → "(" condition ")" | name comparator value
//	comparator → "==" | "!=" | ">" | "<" | ">=" | "<=" | LIKE
//
// The validator only accepts; it does not decide grouping. The accepted token
// span is handed to the condition package, which owns evaluation order.

// parseCondition validates a condition and returns its token span.
func (p *Parser) parseCondition() *Condition {
	start := p.pos
	depth := 0
	if !p.parseConditionExpr(&depth) {
		return nil
	}
	if p.check(token.RPAREN) {
		p.addError(ErrUnbalanced)
		return nil
	}
	span := make([]token.Token, p.pos-start)
	copy(span, p.tokens[start:p.pos])
	return &Condition{Tokens: span}
}

func (p *Parser) parseConditionExpr(depth *int) bool {
	if !p.parseConditionTerm(depth) {
		return false
	}
	for p.check(token.AND) || p.check(token.OR) {
		op := p.advance()
		switch p.token().Type {
		case token.SEMICOLON, token.EOF, token.RPAREN:
			p.addError(fmt.Sprintf(ErrDanglingOperator, op.Type))
			return false
		}
		if !p.parseConditionTerm(depth) {
			return false
		}
	}
	return true
}

func (p *Parser) parseConditionTerm(depth *int) bool {
	if p.match(token.LPAREN) {
		*depth++
		if !p.parseConditionExpr(depth) {
			return false
		}
		if !p.check(token.RPAREN) {
			if p.check(token.SEMICOLON) || p.check(token.EOF) {
				p.addError(ErrUnbalanced)
			} else {
				p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token(), "AND, OR or )"))
			}
			return false
		}
		p.advance()
		*depth--
		return true
	}

	if _, ok := p.parseName(); !ok {
		return false
	}
	if !token.IsComparator(p.token().Type) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token(), "a comparator"))
		return false
	}
	p.advance()
	_, ok := p.parseValue()
	return ok
}
