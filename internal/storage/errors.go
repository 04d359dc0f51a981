package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; messages are written
// so that "<object> <sentinel>" reads naturally, e.g. `table "t" does not exist`.
var (
	ErrNotFound    = errors.New("does not exist")
	ErrExists      = errors.New("already exists")
	ErrIDColumn    = errors.New("the id attribute is system-managed and cannot be changed")
	ErrArity       = errors.New("wrong number of values")
	ErrInvalidName = errors.New("is not a valid name")
	ErrCorrupt     = errors.New("corrupt table file")
)

// IOError wraps a filesystem failure on a backing file or directory.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

func notFound(kind, name string) error {
	return fmt.Errorf("%s %q %w", kind, name, ErrNotFound)
}

func exists(kind, name string) error {
	return fmt.Errorf("%s %q %w", kind, name, ErrExists)
}

func corrupt(path, format string, args ...any) error {
	return fmt.Errorf("%w %s: %s", ErrCorrupt, path, fmt.Sprintf(format, args...))
}
