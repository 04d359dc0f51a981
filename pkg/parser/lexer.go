package parser

import (
	"github.com/leapstack-labs/leapdb/pkg/token"
)

// Lexer tokenizes one command.
//
// Quoted string literals are taken verbatim, delimiters included. Outside of
// quotes the punctuation ( ) , ; and the comparators are always isolated, and
// everything else is split on runs of whitespace.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Tokenize returns every token of input, without the trailing EOF token.
// It never fails: malformed input shows up as ILLEGAL tokens for the
// parser to reject.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.currentPos()
	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	switch l.ch {
	case '\'':
		return l.readString(pos)
	case '(':
		return l.single(token.LPAREN, pos)
	case ')':
		return l.single(token.RPAREN, pos)
	case ',':
		return l.single(token.COMMA, pos)
	case ';':
		return l.single(token.SEMICOLON, pos)
	case '=':
		if l.peekChar() == '=' {
			return l.double(token.EQ, pos)
		}
		return l.single(token.ASSIGN, pos)
	case '<':
		if l.peekChar() == '=' {
			return l.double(token.LE, pos)
		}
		return l.single(token.LT, pos)
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE, pos)
		}
		return l.single(token.GT, pos)
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NE, pos)
		}
	}

	word := l.readWord()
	return token.Token{Type: classifyWord(word), Literal: word, Pos: pos}
}

func (l *Lexer) single(t token.TokenType, pos token.Position) token.Token {
	lit := l.input[l.pos : l.pos+1]
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

func (l *Lexer) double(t token.TokenType, pos token.Position) token.Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && isSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a single-quoted literal including both delimiters.
// An unterminated literal becomes an ILLEGAL token holding the rest of the
// input.
func (l *Lexer) readString(pos token.Position) token.Token {
	start := l.pos
	l.readChar() // opening quote
	for !l.atEOF() && l.ch != '\'' {
		l.readChar()
	}
	if l.atEOF() {
		return token.Token{Type: token.ILLEGAL, Literal: l.input[start:], Pos: pos}
	}
	l.readChar() // closing quote
	return token.Token{Type: token.STRING, Literal: l.input[start:l.pos], Pos: pos}
}

// readWord reads up to the next whitespace, quote, or isolated symbol.
func (l *Lexer) readWord() string {
	start := l.pos
	for !l.atEOF() && !isSpace(l.ch) && !l.atBoundary() {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) atBoundary() bool {
	switch l.ch {
	case '\'', '(', ')', ',', ';', '=', '<', '>':
		return true
	case '!':
		return l.peekChar() == '='
	}
	return false
}

func classifyWord(word string) token.TokenType {
	if word == "*" {
		return token.STAR
	}
	if token.IsNumber(word) {
		return token.NUMBER
	}
	return token.LookupWord(word)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
