package condition

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/token"
)

// compare applies op to a cell and a literal, both as stored text.
//
// == and != compare text exactly. The ordering comparators parse both sides
// as integers or decimals and are false when either side is not one. LIKE
// tests substring containment.
func compare(cell string, op token.Token, literal string) (bool, error) {
	switch op.Type {
	case token.EQ:
		return cell == literal, nil
	case token.NE:
		return cell != literal, nil
	case token.LIKE:
		return strings.Contains(cell, literal), nil
	case token.GT, token.LT, token.GE, token.LE:
		if !token.IsNumber(cell) || !token.IsNumber(literal) {
			return false, nil
		}
		a, errA := strconv.ParseFloat(cell, 64)
		b, errB := strconv.ParseFloat(literal, 64)
		if errA != nil || errB != nil {
			return false, nil
		}
		switch op.Type {
		case token.GT:
			return a > b, nil
		case token.LT:
			return a < b, nil
		case token.GE:
			return a >= b, nil
		default:
			return a <= b, nil
		}
	}
	return false, errorf(op.Pos, "unknown comparator %q", op.Literal)
}
