// Package token defines the token types of the leapdb command language.
//
// The language is small and fixed, so every keyword is a builtin constant.
// Keywords are matched case-insensitively and are reserved: they can never be
// used as database, table, or attribute names.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	WORD   // name or any other bare word
	NUMBER // 12, -3, 4.50
	STRING // 'hello' (delimiters kept in Literal)

	// Punctuation and operators
	STAR      // *
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	ASSIGN    // =
	EQ        // ==
	NE        // !=
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=

	// Keywords (alphabetical)
	ADD
	ALTER
	AND
	CREATE
	DATABASE
	DELETE
	DROP
	FALSE
	FROM
	INSERT
	INTO
	JOIN
	LIKE
	NULL
	ON
	OR
	SELECT
	SET
	TABLE
	TRUE
	UPDATE
	USE
	VALUES
	WHERE
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "end of input",
	ILLEGAL: "ILLEGAL",

	WORD:   "WORD",
	NUMBER: "NUMBER",
	STRING: "STRING",

	STAR:      "*",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	ASSIGN:    "=",
	EQ:        "==",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",

	ADD:      "ADD",
	ALTER:    "ALTER",
	AND:      "AND",
	CREATE:   "CREATE",
	DATABASE: "DATABASE",
	DELETE:   "DELETE",
	DROP:     "DROP",
	FALSE:    "FALSE",
	FROM:     "FROM",
	INSERT:   "INSERT",
	INTO:     "INTO",
	JOIN:     "JOIN",
	LIKE:     "LIKE",
	NULL:     "NULL",
	ON:       "ON",
	OR:       "OR",
	SELECT:   "SELECT",
	SET:      "SET",
	TABLE:    "TABLE",
	TRUE:     "TRUE",
	UPDATE:   "UPDATE",
	USE:      "USE",
	VALUES:   "VALUES",
	WHERE:    "WHERE",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"add":      ADD,
	"alter":    ALTER,
	"and":      AND,
	"create":   CREATE,
	"database": DATABASE,
	"delete":   DELETE,
	"drop":     DROP,
	"false":    FALSE,
	"from":     FROM,
	"insert":   INSERT,
	"into":     INTO,
	"join":     JOIN,
	"like":     LIKE,
	"null":     NULL,
	"on":       ON,
	"or":       OR,
	"select":   SELECT,
	"set":      SET,
	"table":    TABLE,
	"true":     TRUE,
	"update":   UPDATE,
	"use":      USE,
	"values":   VALUES,
	"where":    WHERE,
}

// LookupWord returns the keyword token type for word, or WORD when word is
// not a reserved keyword. Matching is case-insensitive.
func LookupWord(word string) TokenType {
	if tok, ok := keywords[strings.ToLower(word)]; ok {
		return tok
	}
	return WORD
}

// IsReserved reports whether word collides case-insensitively with a keyword.
func IsReserved(word string) bool {
	return LookupWord(word) != WORD
}

// Keywords returns every reserved keyword in upper case.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for t := ADD; t <= WHERE; t++ {
		out = append(out, tokenNames[t])
	}
	return out
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= ADD && t <= WHERE
}

// IsComparator returns true if the token type compares two values.
func IsComparator(t TokenType) bool {
	return (t >= EQ && t <= GE) || t == LIKE
}

// IsBoolOp returns true for the boolean connectives AND and OR.
func IsBoolOp(t TokenType) bool {
	return t == AND || t == OR
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case ILLEGAL:
		return fmt.Sprintf("illegal input %q", t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

// IsValue reports whether the token is a literal usable as a cell value.
func (t Token) IsValue() bool {
	switch t.Type {
	case STRING, NUMBER, TRUE, FALSE, NULL:
		return true
	}
	return false
}

// ValueText returns the stored text of a value token: string literals lose
// their delimiters and keyword literals are normalized to upper case.
func (t Token) ValueText() string {
	switch t.Type {
	case STRING:
		return Unquote(t.Literal)
	case TRUE, FALSE, NULL:
		return strings.ToUpper(t.Literal)
	}
	return t.Literal
}

// Unquote strips one pair of surrounding single quotes, if present.
func Unquote(lit string) string {
	if len(lit) >= 2 && lit[0] == '\'' && lit[len(lit)-1] == '\'' {
		return lit[1 : len(lit)-1]
	}
	return lit
}

// IsNumber matches an optionally signed integer or decimal such as 12, -3 or
// 4.50. Exponents, hex forms, inf and NaN are not numbers.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	digits, dot := 0, false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.' && !dot && digits > 0 && i < len(s)-1:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}
