// Package result builds row-major result tables from stored columns, for
// plain selects, filtered selects and inner joins, and renders them.
package result

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapdb/internal/storage"
)

// ErrEmptyJoin is returned when a join would project no attributes.
var ErrEmptyJoin = errors.New("join has no attributes to project")

// Table is a header row plus data rows of text.
type Table struct {
	Header []string
	Rows   [][]string
}

// New returns an empty table with the given header.
func New(header ...string) *Table {
	return &Table{Header: header}
}

// Append adds one row.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Filter reports whether a stored row belongs in a result.
type Filter func(row storage.Row) (bool, error)

// Select converts the given columns of tbl to row-major form, one result
// row per stored row that passes keep. A nil keep selects every row. The
// header is always present.
func Select(tbl *storage.Table, columns []*storage.Column, keep Filter) (*Table, error) {
	header := make([]string, len(columns))
	for i, col := range columns {
		if col.Table() != tbl {
			return nil, fmt.Errorf("attribute %q does not belong to table %q", col.Name, tbl.Name)
		}
		header[i] = col.Name
	}
	out := New(header...)

	for _, row := range tbl.Rows() {
		if keep != nil {
			ok, err := keep(row)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = col.Cell(row.Index()).Text
		}
		out.Append(cells...)
	}
	return out, nil
}

// Join builds the inner equi-join of two tables on leftKey == rightKey.
//
// The header is a fresh id followed by table.attribute for every column of
// both tables except their id and join columns. Each matching pair of rows
// yields one output row, numbered from 1, so duplicate keys on either side
// produce their full cross-product. Output follows left row order, then
// right row order within each left row.
func Join(leftKey, rightKey *storage.Column) (*Table, error) {
	left, right := leftKey.Table(), rightKey.Table()
	leftCols := projected(left, leftKey)
	rightCols := projected(right, rightKey)
	if len(leftCols)+len(rightCols) == 0 {
		return nil, ErrEmptyJoin
	}

	header := []string{storage.IDColumn}
	for _, col := range leftCols {
		header = append(header, left.Name+"."+col.Name)
	}
	for _, col := range rightCols {
		header = append(header, right.Name+"."+col.Name)
	}
	out := New(header...)

	// Index the right side by key text, keeping row order per key.
	matches := make(map[string][]int, rightKey.Len())
	for i, cell := range rightKey.Cells() {
		matches[cell.Text] = append(matches[cell.Text], i)
	}

	next := 1
	for li, cell := range leftKey.Cells() {
		for _, ri := range matches[cell.Text] {
			row := make([]string, 0, len(header))
			row = append(row, strconv.Itoa(next))
			for _, col := range leftCols {
				row = append(row, col.Cell(li).Text)
			}
			for _, col := range rightCols {
				row = append(row, col.Cell(ri).Text)
			}
			out.Append(row...)
			next++
		}
	}
	return out, nil
}

// projected returns the columns of t other than id and key.
func projected(t *storage.Table, key *storage.Column) []*storage.Column {
	var cols []*storage.Column
	for _, col := range t.Columns() {
		if col.IsID() || col == key {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}
