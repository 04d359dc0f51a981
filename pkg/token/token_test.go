package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupWord(t *testing.T) {
	assert.Equal(t, SELECT, LookupWord("select"))
	assert.Equal(t, SELECT, LookupWord("SeLeCt"))
	assert.Equal(t, LIKE, LookupWord("LIKE"))
	assert.Equal(t, WORD, LookupWord("people"))
	assert.Equal(t, WORD, LookupWord("id"))
}

func TestIsReserved(t *testing.T) {
	for _, kw := range Keywords() {
		assert.True(t, IsReserved(kw), kw)
		assert.True(t, IsKeyword(LookupWord(kw)), kw)
	}
	assert.False(t, IsReserved("name"))
	assert.Len(t, Keywords(), len(keywords))
}

func TestClassifiers(t *testing.T) {
	for _, tt := range []TokenType{EQ, NE, LT, GT, LE, GE, LIKE} {
		assert.True(t, IsComparator(tt), tt.String())
	}
	assert.False(t, IsComparator(ASSIGN))
	assert.False(t, IsComparator(AND))
	assert.True(t, IsBoolOp(AND))
	assert.True(t, IsBoolOp(OR))
	assert.False(t, IsBoolOp(LIKE))
}

func TestValueText(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: STRING, Literal: "'Bob'"}, "Bob"},
		{Token{Type: STRING, Literal: "''"}, ""},
		{Token{Type: TRUE, Literal: "true"}, "TRUE"},
		{Token{Type: NULL, Literal: "Null"}, "NULL"},
		{Token{Type: NUMBER, Literal: "-4.50"}, "-4.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.tok.ValueText(), tt.tok.Literal)
		assert.True(t, tt.tok.IsValue())
	}
	assert.False(t, Token{Type: WORD, Literal: "x"}.IsValue())
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "abc", Unquote("'abc'"))
	assert.Equal(t, "abc", Unquote("abc"))
	assert.Equal(t, "'", Unquote("'"))
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "1:5", Position{Line: 1, Column: 5}.String())
	assert.Equal(t, "-", Position{}.String())
}

func TestIsNumber(t *testing.T) {
	valid := []string{"0", "12", "-3", "+4", "4.50", "-0.5"}
	invalid := []string{"", "-", "1.", ".5", "1.2.3", "1e5", "abc", "12a",
		"inf", "+Inf", "Infinity", "NaN", "0x10", "0x1p4", "1_000"}
	for _, s := range valid {
		assert.True(t, IsNumber(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsNumber(s), s)
	}
}
