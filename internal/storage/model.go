package storage

// Cell is one stored value. Its text is untyped; numeric and boolean
// interpretation only happens when a condition compares it.
type Cell struct {
	RowID  int
	Text   string
	column *Column
}

// Column returns the attribute the cell belongs to.
func (c *Cell) Column() *Column {
	return c.column
}

// Column is a named attribute holding one cell per row, index-aligned with
// every other column of its table.
type Column struct {
	Name  string
	table *Table
	cells []*Cell
}

// Table returns the owning table.
func (c *Column) Table() *Table {
	return c.table
}

// IsID reports whether this is the system-managed id column.
func (c *Column) IsID() bool {
	return SameName(c.Name, IDColumn)
}

// Len returns the number of cells (rows).
func (c *Column) Len() int {
	return len(c.cells)
}

// Cell returns the cell at row index i.
func (c *Column) Cell(i int) *Cell {
	return c.cells[i]
}

// Cells returns the column's cells in row order. The slice must not be
// modified.
func (c *Column) Cells() []*Cell {
	return c.cells
}

// Texts returns a copy of the column's cell texts in row order.
func (c *Column) Texts() []string {
	out := make([]string, len(c.cells))
	for i, cell := range c.cells {
		out[i] = cell.Text
	}
	return out
}

func (c *Column) append(rowID int, text string) {
	c.cells = append(c.cells, &Cell{RowID: rowID, Text: text, column: c})
}

// tableState is a restorable copy of a table's contents.
type tableState struct {
	columns []*Column
	cells   [][]*Cell
	texts   [][]string
	nextID  int
}

func (t *Table) snapshot() tableState {
	s := tableState{
		columns: append([]*Column(nil), t.columns...),
		cells:   make([][]*Cell, len(t.columns)),
		texts:   make([][]string, len(t.columns)),
		nextID:  t.nextID,
	}
	for i, col := range t.columns {
		s.cells[i] = append([]*Cell(nil), col.cells...)
		s.texts[i] = col.Texts()
	}
	return s
}

func (t *Table) restore(s tableState) {
	t.columns = s.columns
	for i, col := range t.columns {
		col.cells = s.cells[i]
		for j, cell := range col.cells {
			cell.Text = s.texts[i][j]
		}
	}
	t.nextID = s.nextID
}
