package engine

import (
	"errors"

	"github.com/leapstack-labs/leapdb/internal/storage"
	"github.com/leapstack-labs/leapdb/pkg/parser"
)

// ErrNoDatabase is returned for table statements before USE.
var ErrNoDatabase = errors.New("no database selected; run USE <database> first")

// Kind classifies a failed statement.
type Kind int

// Error kinds.
const (
	// KindSemantic covers references to missing objects, collisions, the
	// id rule, insert arity and invalid conditions.
	KindSemantic Kind = iota
	// KindSyntax is a grammar violation.
	KindSyntax
	// KindStorage is a filesystem failure.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindStorage:
		return "storage"
	default:
		return "semantic"
	}
}

// Error is a classified statement failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func classify(err error) error {
	var engErr *Error
	if errors.As(err, &engErr) {
		return err
	}
	return &Error{Kind: kindOf(err), Err: err}
}

func kindOf(err error) Kind {
	var synErr *parser.SyntaxError
	var ioErr *storage.IOError
	switch {
	case errors.As(err, &synErr):
		return KindSyntax
	case errors.As(err, &ioErr):
		return KindStorage
	default:
		return KindSemantic
	}
}

// KindOf returns the kind of a response error.
func KindOf(err error) Kind {
	var engErr *Error
	if errors.As(err, &engErr) {
		return engErr.Kind
	}
	return kindOf(err)
}
