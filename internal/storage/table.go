package storage

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Table is an ordered list of columns, the first of which is always id.
// Every mutating method rewrites the backing file before returning; if the
// rewrite fails the in-memory table is restored to its previous state.
type Table struct {
	Name    string
	db      *Database
	columns []*Column
	nextID  int
}

func newTable(db *Database, name string) *Table {
	t := &Table{Name: name, db: db, nextID: 1}
	t.columns = []*Column{{Name: IDColumn, table: t}}
	return t
}

// Database returns the owning database.
func (t *Table) Database() *Database {
	return t.db
}

// Path returns the backing file path.
func (t *Table) Path() string {
	return filepath.Join(t.db.Dir(), t.Name+"."+t.db.catalog.ext)
}

// NextID returns the id the next inserted row will receive.
func (t *Table) NextID() int {
	return t.nextID
}

// Columns returns the table's columns in order, id first.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// ColumnNames returns the column names in order, id first.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by case-insensitive name.
func (t *Table) Column(name string) (*Column, bool) {
	i := t.columnIndex(name)
	if i < 0 {
		return nil, false
	}
	return t.columns[i], true
}

func (t *Table) columnIndex(name string) int {
	k := key(name)
	for i, col := range t.columns {
		if key(col.Name) == k {
			return i
		}
	}
	return -1
}

func (t *Table) idColumn() *Column {
	return t.columns[0]
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.idColumn().Len()
}

// RowIDs returns a snapshot of the row ids in row order.
func (t *Table) RowIDs() []int {
	ids := make([]int, t.Len())
	for i, cell := range t.idColumn().cells {
		ids[i] = cell.RowID
	}
	return ids
}

// Rows returns a view of every row in order.
func (t *Table) Rows() []Row {
	rows := make([]Row, t.Len())
	for i := range rows {
		rows[i] = Row{table: t, index: i}
	}
	return rows
}

// Row returns the row at index i.
func (t *Table) Row(i int) Row {
	return Row{table: t, index: i}
}

func (t *Table) rowIndex(id int) int {
	for i, cell := range t.idColumn().cells {
		if cell.RowID == id {
			return i
		}
	}
	return -1
}

// AddColumn appends a column, back-filling existing rows with empty text.
func (t *Table) AddColumn(name string) error {
	if err := checkName("attribute", name); err != nil {
		return err
	}
	if t.columnIndex(name) >= 0 {
		return exists("attribute", name)
	}
	return t.commit(func() error {
		col := &Column{Name: name, table: t}
		for _, id := range t.RowIDs() {
			col.append(id, "")
		}
		t.columns = append(t.columns, col)
		return nil
	})
}

// DropColumn removes a column and all of its cells. The id column cannot be
// dropped.
func (t *Table) DropColumn(name string) error {
	i := t.columnIndex(name)
	if i < 0 {
		return notFound("attribute", name)
	}
	if t.columns[i].IsID() {
		return fmt.Errorf("cannot drop %q: %w", name, ErrIDColumn)
	}
	return t.commit(func() error {
		t.columns = append(t.columns[:i:i], t.columns[i+1:]...)
		return nil
	})
}

// InsertRow appends a row and returns its id. values holds one text per
// non-id column, in column order.
func (t *Table) InsertRow(values []string) (int, error) {
	if want := len(t.columns) - 1; len(values) != want {
		return 0, fmt.Errorf("%w: table %q expects %d values, got %d", ErrArity, t.Name, want, len(values))
	}
	var id int
	err := t.commit(func() error {
		id = t.nextID
		t.nextID++
		t.idColumn().append(id, strconv.Itoa(id))
		for i, v := range values {
			t.columns[i+1].append(id, v)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Assignment sets one attribute to a new text.
type Assignment struct {
	Attribute string
	Text      string
}

// UpdateCell sets one cell of the row with the given id.
func (t *Table) UpdateCell(rowID int, attribute, text string) error {
	n, err := t.UpdateRows([]int{rowID}, []Assignment{{Attribute: attribute, Text: text}})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("row", strconv.Itoa(rowID))
	}
	return nil
}

// UpdateRows applies the assignments to every listed row and returns the
// number of rows changed. Unknown or id attributes fail before any change.
func (t *Table) UpdateRows(rowIDs []int, assignments []Assignment) (int, error) {
	targets := make([]int, len(assignments))
	for i, a := range assignments {
		ci := t.columnIndex(a.Attribute)
		if ci < 0 {
			return 0, notFound("attribute", a.Attribute)
		}
		if t.columns[ci].IsID() {
			return 0, fmt.Errorf("cannot update %q: %w", a.Attribute, ErrIDColumn)
		}
		targets[i] = ci
	}

	var n int
	err := t.commit(func() error {
		for _, id := range rowIDs {
			ri := t.rowIndex(id)
			if ri < 0 {
				continue
			}
			for i, ci := range targets {
				t.columns[ci].cells[ri].Text = assignments[i].Text
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteRow removes the row with the given id from every column.
func (t *Table) DeleteRow(rowID int) error {
	n, err := t.DeleteRows([]int{rowID})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("row", strconv.Itoa(rowID))
	}
	return nil
}

// DeleteRows removes every listed row and returns how many were removed.
// Ids are never reused.
func (t *Table) DeleteRows(rowIDs []int) (int, error) {
	drop := make(map[int]bool, len(rowIDs))
	for _, id := range rowIDs {
		drop[id] = true
	}

	var n int
	err := t.commit(func() error {
		for _, col := range t.columns {
			kept := make([]*Cell, 0, len(col.cells))
			for _, cell := range col.cells {
				if !drop[cell.RowID] {
					kept = append(kept, cell)
				}
			}
			n = len(col.cells) - len(kept)
			col.cells = kept
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// commit applies mutate and rewrites the backing file, restoring the
// previous contents when either step fails.
func (t *Table) commit(mutate func() error) error {
	prev := t.snapshot()
	if err := mutate(); err != nil {
		t.restore(prev)
		return err
	}
	if err := t.save(prev.nextID); err != nil {
		t.restore(prev)
		return err
	}
	return nil
}

// Row is a read-only view of one row of a table.
type Row struct {
	table *Table
	index int
}

// ID returns the row id.
func (r Row) ID() int {
	return r.table.idColumn().cells[r.index].RowID
}

// Index returns the row's position in the table.
func (r Row) Index() int {
	return r.index
}

// Value returns the cell text of the named attribute.
func (r Row) Value(attribute string) (string, bool) {
	col, ok := r.table.Column(attribute)
	if !ok {
		return "", false
	}
	return col.cells[r.index].Text, true
}
