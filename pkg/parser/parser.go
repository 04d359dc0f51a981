// Package parser provides lexing and grammar validation for the leapdb
// command language.
//
// # Usage
//
//	stmt, err := parser.Parse("SELECT * FROM people WHERE age > 30;")
//	if err != nil {
//	    // err is a *parser.SyntaxError
//	}
//
// # Grammar Overview
//
// The parser is a recursive-descent acceptor with one rule per statement
// keyword. Keywords are case-insensitive; every statement ends with ";".
//
//	statement  → use | create | drop | alter | insert | select
//	             | update | delete | join
//	use        → USE name ";"
//	create     → CREATE DATABASE name ";"
//	           | CREATE TABLE name ["(" name ("," name)* ")"] ";"
//	drop       → DROP (DATABASE | TABLE) name ";"
//	alter      → ALTER TABLE name (ADD | DROP) name ";"
//	insert     → INSERT INTO name VALUES "(" value ("," value)* ")" ";"
//	select     → SELECT ("*" | name ("," name)*) FROM name [WHERE condition] ";"
//	update     → UPDATE name SET name "=" value ("," name "=" value)* WHERE condition ";"
//	delete     → DELETE FROM name WHERE condition ";"
//	join       → JOIN name AND name ON name AND name ";"
//	value      → string | number | TRUE | FALSE | NULL
//
// See parser_cond.go for the condition grammar.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/token"
)

// Parser walks a token sequence. Position is internal; rules only use the
// check/match/expect helpers.
type Parser struct {
	tokens []token.Token
	pos    int
	eof    token.Token

	// category of the statement being validated, used in errors
	stmt string

	errors []error
}

// NewParser creates a parser over an already tokenized command.
func NewParser(tokens []token.Token) *Parser {
	eof := token.Token{Type: token.EOF}
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		eof.Pos = token.Position{
			Line:   last.Pos.Line,
			Column: last.Pos.Column + len(last.Literal),
			Offset: last.Pos.Offset + len(last.Literal),
		}
	} else {
		eof.Pos = token.Position{Line: 1, Column: 1}
	}
	return &Parser{tokens: tokens, eof: eof}
}

// Parse validates input as exactly one statement.
func Parse(input string) (Statement, error) {
	toks := Tokenize(input)
	stmt, n, err := ParseTokens(toks)
	if err != nil {
		return nil, err
	}
	if n < len(toks) {
		return nil, &SyntaxError{
			Pos:       toks[n].Pos,
			Statement: stmt.Kind(),
			Message:   fmt.Sprintf(ErrTrailingInput, toks[n]),
		}
	}
	return stmt, nil
}

// ParseTokens validates the statement at the head of tokens. It returns the
// statement and the number of tokens it consumed, ";" included.
func ParseTokens(tokens []token.Token) (Statement, int, error) {
	p := NewParser(tokens)
	stmt := p.parseStatement()
	if len(p.errors) > 0 {
		return nil, 0, p.errors[0]
	}
	return stmt, p.pos, nil
}

// ParseScript validates a sequence of statements. Each statement's span
// records where it starts in input.
func ParseScript(input string) ([]Statement, error) {
	toks := Tokenize(input)
	var stmts []Statement
	for offset := 0; offset < len(toks); {
		stmt, n, err := ParseTokens(toks[offset:])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		offset += n
	}
	return stmts, nil
}

// ---------- Token Helpers ----------

// token returns the current token.
func (p *Parser) token() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.eof
}

// peek returns the token after the current one.
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.eof
}

// advance consumes the current token and returns it.
func (p *Parser) advance() token.Token {
	tok := p.token()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token().Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token(), t))
	return false
}

// failed reports whether a rule has already been violated.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// addError adds a syntax error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &SyntaxError{
		Pos:       p.token().Pos,
		Statement: p.stmt,
		Message:   msg,
	})
}

// ---------- Statements ----------

// parseStatement dispatches on the leading keyword.
func (p *Parser) parseStatement() Statement {
	start := p.token()
	p.stmt = start.Type.String()

	var stmt Statement
	switch start.Type {
	case token.USE:
		stmt = p.parseUse()
	case token.CREATE:
		stmt = p.parseCreate()
	case token.DROP:
		stmt = p.parseDrop()
	case token.ALTER:
		stmt = p.parseAlter()
	case token.INSERT:
		stmt = p.parseInsert()
	case token.SELECT:
		stmt = p.parseSelect()
	case token.UPDATE:
		stmt = p.parseUpdate()
	case token.DELETE:
		stmt = p.parseDelete()
	case token.JOIN:
		stmt = p.parseJoin()
	default:
		p.stmt = ""
		if start.Type == token.EOF {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, start, "a statement"))
		} else {
			p.addError(fmt.Sprintf(ErrUnknownStatement, start))
		}
		return nil
	}
	if p.failed() {
		return nil
	}

	end := p.token()
	if !p.expect(token.SEMICOLON) {
		return nil
	}
	setSpan(stmt, token.Span{Start: start.Pos, End: end.Pos})
	return stmt
}

func setSpan(stmt Statement, span token.Span) {
	switch s := stmt.(type) {
	case *UseStmt:
		s.Span = span
	case *CreateDatabaseStmt:
		s.Span = span
	case *CreateTableStmt:
		s.Span = span
	case *DropStmt:
		s.Span = span
	case *AlterStmt:
		s.Span = span
	case *InsertStmt:
		s.Span = span
	case *SelectStmt:
		s.Span = span
	case *UpdateStmt:
		s.Span = span
	case *DeleteStmt:
		s.Span = span
	case *JoinStmt:
		s.Span = span
	}
}
