package parser

import (
	"testing"

	"github.com/leapstack-labs/leapdb/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literals(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Literal
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple select",
			input: "SELECT * FROM people;",
			want:  []string{"SELECT", "*", "FROM", "people", ";"},
		},
		{
			name:  "punctuation isolated without spaces",
			input: "INSERT INTO t VALUES('a',1,TRUE);",
			want:  []string{"INSERT", "INTO", "t", "VALUES", "(", "'a'", ",", "1", ",", "TRUE", ")", ";"},
		},
		{
			name:  "comparators isolated",
			input: "a==1 AND b>=2 OR c<=3 AND d!=4",
			want:  []string{"a", "==", "1", "AND", "b", ">=", "2", "OR", "c", "<=", "3", "AND", "d", "!=", "4"},
		},
		{
			name:  "single char comparators and assignment",
			input: "SET x=5 WHERE y>2 AND z<1",
			want:  []string{"SET", "x", "=", "5", "WHERE", "y", ">", "2", "AND", "z", "<", "1"},
		},
		{
			name:  "string literal kept verbatim",
			input: "name == 'Bob (the; builder), ok'",
			want:  []string{"name", "==", "'Bob (the; builder), ok'"},
		},
		{
			name:  "empty string literal",
			input: "x == ''",
			want:  []string{"x", "==", "''"},
		},
		{
			name:  "runs of whitespace",
			input: "  USE \t  shop \n ;  ",
			want:  []string{"USE", "shop", ";"},
		},
		{
			name:  "brackets around conditions",
			input: "((a==1))",
			want:  []string{"(", "(", "a", "==", "1", ")", ")"},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := literals(Tokenize(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeNeverEmpty(t *testing.T) {
	for _, input := range []string{"a  b", "( ) , ;", "x=='' AND y==''", "!!"} {
		for _, tok := range Tokenize(input) {
			if tok.Type == token.STRING {
				continue
			}
			assert.NotEmpty(t, tok.Literal, "input %q", input)
		}
	}
}

func TestTokenTypes(t *testing.T) {
	toks := Tokenize("select Name, 12 -3.5 'x' true NULL like * !x")
	types := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []token.TokenType{
		token.SELECT, token.WORD, token.COMMA, token.NUMBER, token.NUMBER,
		token.STRING, token.TRUE, token.NULL, token.LIKE, token.STAR, token.WORD,
	}, types)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	toks := Tokenize("INSERT INTO t VALUES ('abc);")
	require.NotEmpty(t, toks)
	last := toks[len(toks)-1]
	assert.Equal(t, token.ILLEGAL, last.Type)
	assert.Equal(t, "'abc);", last.Literal)
}

func TestTokenPositions(t *testing.T) {
	toks := Tokenize("USE db;\nSELECT")
	require.Len(t, toks, 4)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 5, Offset: 4}, toks[1].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 7, Offset: 6}, toks[2].Pos)
	assert.Equal(t, 2, toks[3].Pos.Line)
	assert.Equal(t, 1, toks[3].Pos.Column)
}
