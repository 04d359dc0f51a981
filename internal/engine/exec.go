package engine

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapdb/internal/result"
	"github.com/leapstack-labs/leapdb/internal/storage"
	"github.com/leapstack-labs/leapdb/pkg/condition"
	"github.com/leapstack-labs/leapdb/pkg/parser"
)

// exec dispatches a statement. Callers hold e.mu.
func (e *Engine) exec(s *Session, stmt parser.Statement) (*result.Table, error) {
	switch st := stmt.(type) {
	case *parser.UseStmt:
		return nil, e.execUse(s, st)
	case *parser.CreateDatabaseStmt:
		_, err := e.catalog.CreateDatabase(st.Name)
		return nil, err
	case *parser.CreateTableStmt:
		return nil, e.execCreateTable(s, st)
	case *parser.DropStmt:
		return nil, e.execDrop(s, st)
	case *parser.AlterStmt:
		return nil, e.execAlter(s, st)
	case *parser.InsertStmt:
		return nil, e.execInsert(s, st)
	case *parser.SelectStmt:
		return e.execSelect(s, st)
	case *parser.UpdateStmt:
		return nil, e.execUpdate(s, st)
	case *parser.DeleteStmt:
		return nil, e.execDelete(s, st)
	case *parser.JoinStmt:
		return e.execJoin(s, st)
	default:
		return nil, fmt.Errorf("unsupported statement %T", stmt)
	}
}

// database resolves the session's selected database by name, so a database
// dropped by another session is reported instead of used.
func (e *Engine) database(s *Session) (*storage.Database, error) {
	if s.database == "" {
		return nil, ErrNoDatabase
	}
	db, err := e.catalog.Database(s.database)
	if err != nil {
		s.database = ""
		return nil, fmt.Errorf("selected %w", err)
	}
	return db, nil
}

func (e *Engine) table(s *Session, name string) (*storage.Table, error) {
	db, err := e.database(s)
	if err != nil {
		return nil, err
	}
	return db.Table(name)
}

func column(t *storage.Table, name string) (*storage.Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("attribute %q %w in table %q", name, storage.ErrNotFound, t.Name)
	}
	return col, nil
}

func (e *Engine) execUse(s *Session, st *parser.UseStmt) error {
	db, err := e.catalog.Database(st.Database)
	if err != nil {
		return err
	}
	s.database = db.Name
	return nil
}

// execCreateTable creates the table and then its attributes one by one. If
// an attribute fails, the half-built table is dropped again.
func (e *Engine) execCreateTable(s *Session, st *parser.CreateTableStmt) error {
	db, err := e.database(s)
	if err != nil {
		return err
	}
	t, err := db.CreateTable(st.Name)
	if err != nil {
		return err
	}
	for _, attr := range st.Attributes {
		if err := t.AddColumn(attr); err != nil {
			if dropErr := db.DropTable(t.Name); dropErr != nil {
				return errors.Join(err, fmt.Errorf("rolling back table %q: %w", t.Name, dropErr))
			}
			return err
		}
	}
	return nil
}

func (e *Engine) execDrop(s *Session, st *parser.DropStmt) error {
	if st.Object == parser.ObjectDatabase {
		db, err := e.catalog.Database(st.Name)
		if err != nil {
			return err
		}
		name := db.Name
		if err := e.catalog.DropDatabase(name); err != nil {
			return err
		}
		for _, other := range e.sessions {
			if storage.SameName(other.database, name) {
				other.database = ""
			}
		}
		if storage.SameName(s.database, name) {
			s.database = ""
		}
		return nil
	}

	db, err := e.database(s)
	if err != nil {
		return err
	}
	return db.DropTable(st.Name)
}

func (e *Engine) execAlter(s *Session, st *parser.AlterStmt) error {
	t, err := e.table(s, st.Table)
	if err != nil {
		return err
	}
	if st.Action == parser.AlterAdd {
		return t.AddColumn(st.Attribute)
	}
	return t.DropColumn(st.Attribute)
}

func (e *Engine) execInsert(s *Session, st *parser.InsertStmt) error {
	t, err := e.table(s, st.Table)
	if err != nil {
		return err
	}
	values := make([]string, len(st.Values))
	for i, v := range st.Values {
		values[i] = v.Text
	}
	_, err = t.InsertRow(values)
	return err
}

func (e *Engine) execSelect(s *Session, st *parser.SelectStmt) (*result.Table, error) {
	t, err := e.table(s, st.Table)
	if err != nil {
		return nil, err
	}

	var cols []*storage.Column
	if st.Wildcard {
		cols = t.Columns()
	} else {
		for _, name := range st.Attributes {
			col, err := column(t, name)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		}
	}

	var keep result.Filter
	if st.Where != nil {
		node, err := compileWhere(t, st.Where)
		if err != nil {
			return nil, err
		}
		keep = func(row storage.Row) (bool, error) {
			return node.Eval(row)
		}
	}
	return result.Select(t, cols, keep)
}

func (e *Engine) execUpdate(s *Session, st *parser.UpdateStmt) error {
	t, err := e.table(s, st.Table)
	if err != nil {
		return err
	}
	assignments := make([]storage.Assignment, len(st.Assignments))
	for i, a := range st.Assignments {
		assignments[i] = storage.Assignment{Attribute: a.Attribute, Text: a.Value.Text}
	}
	ids, err := matchingRows(t, st.Where)
	if err != nil {
		return err
	}
	_, err = t.UpdateRows(ids, assignments)
	return err
}

func (e *Engine) execDelete(s *Session, st *parser.DeleteStmt) error {
	t, err := e.table(s, st.Table)
	if err != nil {
		return err
	}
	ids, err := matchingRows(t, st.Where)
	if err != nil {
		return err
	}
	_, err = t.DeleteRows(ids)
	return err
}

func (e *Engine) execJoin(s *Session, st *parser.JoinStmt) (*result.Table, error) {
	left, err := e.table(s, st.LeftTable)
	if err != nil {
		return nil, err
	}
	right, err := e.table(s, st.RightTable)
	if err != nil {
		return nil, err
	}
	leftKey, err := column(left, st.LeftAttribute)
	if err != nil {
		return nil, err
	}
	rightKey, err := column(right, st.RightAttribute)
	if err != nil {
		return nil, err
	}
	return result.Join(leftKey, rightKey)
}

// compileWhere compiles a condition and checks that every attribute it
// names exists, so an unknown attribute fails even on an empty table.
func compileWhere(t *storage.Table, where *parser.Condition) (condition.Node, error) {
	node, err := condition.Compile(where.Tokens)
	if err != nil {
		return nil, err
	}
	for _, name := range condition.Attributes(node) {
		if _, err := column(t, name); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// matchingRows evaluates the condition over a snapshot of the table and
// returns the ids of matching rows. A nil condition matches every row.
func matchingRows(t *storage.Table, where *parser.Condition) ([]int, error) {
	if where == nil {
		return t.RowIDs(), nil
	}
	node, err := compileWhere(t, where)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, row := range t.Rows() {
		ok, err := node.Eval(row)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, row.ID())
		}
	}
	return ids, nil
}
