package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/token"
)

// IsPlainName reports whether s is usable as a database, table, or attribute
// name: one or more ASCII letters and digits that do not spell a keyword.
func IsPlainName(s string) bool {
	if s == "" || token.IsReserved(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// parseName parses a plain name. An all-digit name lexes as NUMBER and is
// accepted; signed or decimal numbers are not.
func (p *Parser) parseName() (string, bool) {
	tok := p.token()
	switch tok.Type {
	case token.WORD, token.NUMBER:
		if !IsPlainName(tok.Literal) {
			p.addError(fmt.Sprintf(ErrInvalidName, tok.Literal))
			return "", false
		}
	default:
		if token.IsKeyword(tok.Type) {
			p.addError(fmt.Sprintf(ErrReservedName, tok.Literal))
		} else {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, tok, "a name"))
		}
		return "", false
	}
	p.advance()
	return tok.Literal, true
}
