package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/token"
)

// SyntaxError reports the first grammar violation of a command.
// Statement names the statement category being validated, or is empty when
// the command did not start with a known keyword.
type SyntaxError struct {
	Pos       token.Position
	Statement string
	Message   string
}

func (e *SyntaxError) Error() string {
	if e.Statement == "" {
		return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("invalid %s statement at %s: %s", e.Statement, e.Pos, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken  = "unexpected %s, expected %s"
	ErrUnknownStatement = "unknown statement %s"
	ErrReservedName     = "%q is a reserved keyword and cannot be used as a name"
	ErrInvalidName      = "%q is not a valid name (letters and digits only)"
	ErrInvalidValue     = "unexpected %s, expected a value (string, number, TRUE, FALSE or NULL)"
	ErrUnbalanced       = "unbalanced brackets in condition"
	ErrDanglingOperator = "condition cannot end with %s"
	ErrTrailingInput    = "unexpected %s after end of statement"
	ErrTabInString      = "string literals cannot contain tabs or line breaks"
)
