package storage

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/parser"
	"golang.org/x/text/cases"
)

// IDColumn is the name of the system-managed first attribute of every table.
const IDColumn = "id"

// key folds a name for case-insensitive lookups. A fresh Caser is used per
// call because Casers are stateful.
func key(name string) string {
	return cases.Fold().String(name)
}

// SameName reports whether two names are equal ignoring case.
func SameName(a, b string) bool {
	return key(a) == key(b)
}

func checkName(kind, name string) error {
	if !parser.IsPlainName(name) {
		return fmt.Errorf("%s name %q %w", kind, name, ErrInvalidName)
	}
	return nil
}
