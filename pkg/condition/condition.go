// Package condition evaluates WHERE conditions against table rows.
//
// A condition arrives as the token span accepted by the parser. Compile turns
// it into a tree using a fixed splitting rule:
//
//  1. If one pair of brackets encloses the whole span, and removing it leaves
//     balanced brackets inside, strip it.
//  2. Otherwise split at the first AND or OR found at bracket depth zero,
//     scanning left to right, and compile both sides.
//  3. Otherwise the span must be a single comparison: name comparator value.
//
// AND and OR have equal precedence. "a==1 AND b==2 OR c==3" groups as
// "a==1 AND (b==2 OR c==3)". Use brackets to force another grouping.
package condition

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/token"
)

// Row exposes the cells of one table row by attribute name.
type Row interface {
	// Value returns the text of the named attribute, matching names
	// case-insensitively. ok is false if the attribute does not exist.
	Value(attribute string) (text string, ok bool)
}

// Node is a compiled condition.
type Node interface {
	Eval(row Row) (bool, error)
	String() string
}

// Error reports an evaluation or compilation failure.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("condition error at %s: %s", e.Pos, e.Message)
	}
	return "condition error: " + e.Message
}

func errorf(pos token.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Binary combines two conditions with AND or OR.
type Binary struct {
	Op    token.Token
	Left  Node
	Right Node
}

// Eval evaluates both sides, then combines them.
func (b *Binary) Eval(row Row) (bool, error) {
	left, err := b.Left.Eval(row)
	if err != nil {
		return false, err
	}
	right, err := b.Right.Eval(row)
	if err != nil {
		return false, err
	}
	switch b.Op.Type {
	case token.AND:
		return left && right, nil
	case token.OR:
		return left || right, nil
	}
	return false, errorf(b.Op.Pos, "unknown boolean operator %q", b.Op.Literal)
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, strings.ToUpper(b.Op.Literal), b.Right)
}

// Comparison is an atomic "attribute comparator value" test.
type Comparison struct {
	Attribute token.Token
	Op        token.Token
	Literal   token.Token
}

// Eval resolves the attribute in row and compares it against the literal.
func (c *Comparison) Eval(row Row) (bool, error) {
	text, ok := row.Value(c.Attribute.Literal)
	if !ok {
		return false, errorf(c.Attribute.Pos, "unknown attribute %q", c.Attribute.Literal)
	}
	return compare(text, c.Op, c.Literal.ValueText())
}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Attribute.Literal, c.Op.Literal, c.Literal.Literal)
}

// Compile builds the evaluation tree for a validated condition span.
func Compile(tokens []token.Token) (Node, error) {
	if len(tokens) == 0 {
		return nil, &Error{Message: "empty condition"}
	}

	if inner, ok := stripEnclosing(tokens); ok {
		return Compile(inner)
	}

	if i := firstTopLevelOp(tokens); i >= 0 {
		left, err := Compile(tokens[:i])
		if err != nil {
			return nil, err
		}
		right, err := Compile(tokens[i+1:])
		if err != nil {
			return nil, err
		}
		return &Binary{Op: tokens[i], Left: left, Right: right}, nil
	}

	return compileComparison(tokens)
}

func compileComparison(tokens []token.Token) (Node, error) {
	if len(tokens) != 3 {
		return nil, errorf(tokens[0].Pos, "malformed comparison %q", joinLiterals(tokens))
	}
	attr, op, lit := tokens[0], tokens[1], tokens[2]
	if !token.IsComparator(op.Type) {
		return nil, errorf(op.Pos, "unknown comparator %q", op.Literal)
	}
	if strings.EqualFold(attr.Literal, lit.Literal) {
		return nil, errorf(attr.Pos, "attribute %q cannot be compared with itself", attr.Literal)
	}
	return &Comparison{Attribute: attr, Op: op, Literal: lit}, nil
}

// stripEnclosing removes one bracket pair that wraps the entire span.
func stripEnclosing(tokens []token.Token) ([]token.Token, bool) {
	n := len(tokens)
	if n < 2 || tokens[0].Type != token.LPAREN || tokens[n-1].Type != token.RPAREN {
		return nil, false
	}
	inner := tokens[1 : n-1]
	depth := 0
	for _, tok := range inner {
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth < 0 {
				return nil, false
			}
		}
	}
	return inner, depth == 0
}

// firstTopLevelOp returns the index of the first AND/OR at depth zero, or -1.
func firstTopLevelOp(tokens []token.Token) int {
	depth := 0
	for i, tok := range tokens {
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.AND, token.OR:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Attributes returns the attribute names referenced by n, in order of
// appearance, without duplicates.
func Attributes(n Node) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(Node)
	walk = func(n Node) {
		switch c := n.(type) {
		case *Binary:
			walk(c.Left)
			walk(c.Right)
		case *Comparison:
			key := strings.ToLower(c.Attribute.Literal)
			if !seen[key] {
				seen[key] = true
				out = append(out, c.Attribute.Literal)
			}
		}
	}
	walk(n)
	return out
}

func joinLiterals(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Literal
	}
	return strings.Join(parts, " ")
}
