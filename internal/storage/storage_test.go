package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCatalog(t *testing.T, root string) *Catalog {
	t.Helper()
	c, err := Open(Options{Root: root, AtomicWrites: true, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return c
}

// peopleTable creates shop.people(id, name, age) with three rows.
func peopleTable(t *testing.T, c *Catalog) *Table {
	t.Helper()
	db, err := c.CreateDatabase("shop")
	require.NoError(t, err)
	tbl, err := db.CreateTable("people")
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn("name"))
	require.NoError(t, tbl.AddColumn("age"))
	for _, row := range [][]string{{"Bob", "21"}, {"Alice", "30"}, {"Carol", "44"}} {
		_, err := tbl.InsertRow(row)
		require.NoError(t, err)
	}
	return tbl
}

func TestOpenCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	c := openCatalog(t, root)
	assert.Equal(t, root, c.Root())
	assert.Equal(t, DefaultExtension, c.Extension())
	assert.True(t, testutil.Exists(t, root))
	assert.Empty(t, c.Databases())
}

func TestOpenRejectsBadOptions(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)

	_, err = Open(Options{Root: t.TempDir(), Extension: "a/b"})
	assert.Error(t, err)
}

func TestTableFileFormat(t *testing.T) {
	root := t.TempDir()
	tbl := peopleTable(t, openCatalog(t, root))

	content := testutil.ReadFile(t, filepath.Join(root, "shop", "people.tab"))
	assert.Equal(t, "id\tname\tage\n1\tBob\t21\n2\tAlice\t30\n3\tCarol\t44\n", content)
	assert.Equal(t, "4\n", testutil.ReadFile(t, filepath.Join(root, "shop", ".people.seq")))
	assert.Equal(t, tbl.Path(), filepath.Join(root, "shop", "people.tab"))
	assert.False(t, testutil.Exists(t, tbl.Path()+tmpExt))
}

func TestReloadReproducesRows(t *testing.T) {
	root := t.TempDir()
	peopleTable(t, openCatalog(t, root))

	c := openCatalog(t, root)
	db, err := c.Database("SHOP")
	require.NoError(t, err)
	tbl, err := db.Table("People")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "age"}, tbl.ColumnNames())
	assert.Equal(t, []int{1, 2, 3}, tbl.RowIDs())
	name, _ := tbl.Column("name")
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, name.Texts())
	assert.Equal(t, 4, tbl.NextID())
}

func TestIDsNeverReused(t *testing.T) {
	root := t.TempDir()
	tbl := peopleTable(t, openCatalog(t, root))

	require.NoError(t, tbl.DeleteRow(3))
	require.NoError(t, tbl.DeleteRow(2))
	id, err := tbl.InsertRow([]string{"Dan", "5"})
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	// Delete the highest row and restart: the sequence survives.
	require.NoError(t, tbl.DeleteRow(4))
	c := openCatalog(t, root)
	db, err := c.Database("shop")
	require.NoError(t, err)
	tbl, err = db.Table("people")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, tbl.RowIDs())

	id, err = tbl.InsertRow([]string{"Eve", "7"})
	require.NoError(t, err)
	assert.Equal(t, 5, id)
	assert.Equal(t, []int{1, 5}, tbl.RowIDs())
}

func TestSequenceWithoutSidecar(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"shop/people.tab": "id\tname\n2\tBob\n7\tAlice\n",
	})
	c := openCatalog(t, root)
	db, err := c.Database("shop")
	require.NoError(t, err)
	tbl, err := db.Table("people")
	require.NoError(t, err)
	assert.Equal(t, 8, tbl.NextID())
}

func TestDropAndRecreateTableRestartsIDs(t *testing.T) {
	root := t.TempDir()
	tbl := peopleTable(t, openCatalog(t, root))
	db := tbl.Database()

	require.NoError(t, db.DropTable("PEOPLE"))
	assert.False(t, testutil.Exists(t, tbl.Path()))
	assert.False(t, testutil.Exists(t, filepath.Join(root, "shop", ".people.seq")))

	_, err := db.Table("people")
	require.ErrorIs(t, err, ErrNotFound)

	tbl, err = db.CreateTable("people")
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn("name"))
	id, err := tbl.InsertRow([]string{"Zed"})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestCreateCollisions(t *testing.T) {
	c := openCatalog(t, t.TempDir())
	tbl := peopleTable(t, c)

	_, err := c.CreateDatabase("SHOP")
	assert.ErrorIs(t, err, ErrExists)
	assert.EqualError(t, err, `database "SHOP" already exists`)

	_, err = tbl.Database().CreateTable("People")
	assert.ErrorIs(t, err, ErrExists)

	assert.ErrorIs(t, tbl.AddColumn("NAME"), ErrExists)
	assert.ErrorIs(t, tbl.AddColumn("ID"), ErrExists)

	_, err = c.CreateDatabase("bad-name")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = c.CreateDatabase("select")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestAddColumnBackfills(t *testing.T) {
	tbl := peopleTable(t, openCatalog(t, t.TempDir()))
	require.NoError(t, tbl.AddColumn("email"))

	email, ok := tbl.Column("EMAIL")
	require.True(t, ok)
	assert.Equal(t, []string{"", "", ""}, email.Texts())
	assert.Equal(t, tbl, email.Table())
	for i, cell := range email.Cells() {
		assert.Equal(t, tbl.RowIDs()[i], cell.RowID)
		assert.Equal(t, email, cell.Column())
	}
	assert.Equal(t, "id\tname\tage\temail\n1\tBob\t21\t\n2\tAlice\t30\t\n3\tCarol\t44\t\n",
		testutil.ReadFile(t, tbl.Path()))
}

func TestDropColumn(t *testing.T) {
	tbl := peopleTable(t, openCatalog(t, t.TempDir()))

	require.NoError(t, tbl.DropColumn("Age"))
	assert.Equal(t, []string{"id", "name"}, tbl.ColumnNames())
	assert.Equal(t, "id\tname\n1\tBob\n2\tAlice\n3\tCarol\n", testutil.ReadFile(t, tbl.Path()))

	assert.ErrorIs(t, tbl.DropColumn("id"), ErrIDColumn)
	assert.ErrorIs(t, tbl.DropColumn("age"), ErrNotFound)
}

func TestInsertArity(t *testing.T) {
	tbl := peopleTable(t, openCatalog(t, t.TempDir()))

	_, err := tbl.InsertRow([]string{"only"})
	assert.ErrorIs(t, err, ErrArity)
	_, err = tbl.InsertRow([]string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrArity)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 4, tbl.NextID())
}

func TestUpdateRows(t *testing.T) {
	tbl := peopleTable(t, openCatalog(t, t.TempDir()))

	n, err := tbl.UpdateRows([]int{1, 3, 99}, []Assignment{{Attribute: "AGE", Text: "50"}, {Attribute: "name", Text: "X"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	age, _ := tbl.Column("age")
	assert.Equal(t, []string{"50", "30", "50"}, age.Texts())

	_, err = tbl.UpdateRows([]int{1}, []Assignment{{Attribute: "id", Text: "9"}})
	assert.ErrorIs(t, err, ErrIDColumn)
	_, err = tbl.UpdateRows([]int{1}, []Assignment{{Attribute: "name", Text: "Y"}, {Attribute: "nope", Text: "1"}})
	assert.ErrorIs(t, err, ErrNotFound)

	name, _ := tbl.Column("name")
	assert.Equal(t, []string{"X", "Alice", "X"}, name.Texts(), "failed update must not apply earlier assignments")

	require.NoError(t, tbl.UpdateCell(2, "name", "Al"))
	assert.ErrorIs(t, tbl.UpdateCell(42, "name", "Al"), ErrNotFound)
}

func TestRowView(t *testing.T) {
	tbl := peopleTable(t, openCatalog(t, t.TempDir()))
	rows := tbl.Rows()
	require.Len(t, rows, 3)

	v, ok := rows[1].Value("NAME")
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)
	assert.Equal(t, 2, rows[1].ID())
	assert.Equal(t, 1, rows[1].Index())

	_, ok = rows[1].Value("missing")
	assert.False(t, ok)
}

func TestDeleteRows(t *testing.T) {
	tbl := peopleTable(t, openCatalog(t, t.TempDir()))

	n, err := tbl.DeleteRows([]int{1, 3, 8})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{2}, tbl.RowIDs())
	for _, col := range tbl.Columns() {
		assert.Equal(t, 1, col.Len(), col.Name)
	}
	assert.ErrorIs(t, tbl.DeleteRow(1), ErrNotFound)
}

func TestDropDatabaseRemovesDirectory(t *testing.T) {
	root := t.TempDir()
	c := openCatalog(t, root)
	peopleTable(t, c)
	testutil.WriteTree(t, root, map[string]string{"shop/notes.txt": "stray"})

	require.NoError(t, c.DropDatabase("Shop"))
	assert.False(t, testutil.Exists(t, filepath.Join(root, "shop")))
	_, err := c.Database("shop")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.DropDatabase("shop"), ErrNotFound)
}

func TestRollbackWhenWriteFails(t *testing.T) {
	tbl := peopleTable(t, openCatalog(t, t.TempDir()))
	require.NoError(t, os.RemoveAll(tbl.Database().Dir()))

	_, err := tbl.InsertRow([]string{"Dan", "1"})
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 4, tbl.NextID())

	require.Error(t, tbl.AddColumn("email"))
	assert.Equal(t, []string{"id", "name", "age"}, tbl.ColumnNames())

	_, err = tbl.UpdateRows([]int{1}, []Assignment{{Attribute: "name", Text: "Zed"}})
	require.Error(t, err)
	v, _ := tbl.Row(0).Value("name")
	assert.Equal(t, "Bob", v)

	_, err = tbl.DeleteRows([]int{1, 2})
	require.Error(t, err)
	assert.Equal(t, []int{1, 2, 3}, tbl.RowIDs())

	require.Error(t, tbl.DropColumn("age"))
	assert.Equal(t, []string{"id", "name", "age"}, tbl.ColumnNames())
}

func TestFailedTableWriteRestoresSequence(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		name := "atomic"
		if !atomic {
			name = "direct"
		}
		t.Run(name, func(t *testing.T) {
			c, err := Open(Options{Root: t.TempDir(), AtomicWrites: atomic, Logger: testutil.NewTestLogger(t)})
			require.NoError(t, err)
			tbl := peopleTable(t, c)
			seq := filepath.Join(tbl.Database().Dir(), ".people.seq")
			require.Equal(t, "4\n", testutil.ReadFile(t, seq))

			// A non-empty directory where the table file belongs fails the
			// table write after the sequence was written.
			require.NoError(t, os.Remove(tbl.Path()))
			testutil.WriteTree(t, tbl.Path(), map[string]string{"blocker": "x"})

			_, err = tbl.InsertRow([]string{"Dan", "1"})
			var ioErr *IOError
			require.ErrorAs(t, err, &ioErr)
			assert.Equal(t, 3, tbl.Len())
			assert.Equal(t, 4, tbl.NextID())
			assert.Equal(t, "4\n", testutil.ReadFile(t, seq))
			assert.False(t, testutil.Exists(t, tbl.Path()+".tmp"))
		})
	}
}

func TestCreateTableFailureLeavesNoSequence(t *testing.T) {
	c := openCatalog(t, t.TempDir())
	db, err := c.CreateDatabase("shop")
	require.NoError(t, err)
	testutil.WriteTree(t, filepath.Join(db.Dir(), "people.tab"), map[string]string{"blocker": "x"})

	_, err = db.CreateTable("people")
	require.Error(t, err)
	assert.False(t, testutil.Exists(t, filepath.Join(db.Dir(), ".people.seq")))
	_, err = db.Table("people")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNonAtomicWrites(t *testing.T) {
	root := t.TempDir()
	c, err := Open(Options{Root: root, Extension: "tsv", Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	tbl := peopleTable(t, c)
	assert.Equal(t, filepath.Join(root, "shop", "people.tsv"), tbl.Path())
	assert.Contains(t, testutil.ReadFile(t, tbl.Path()), "3\tCarol\t44\n")
}

func TestLoadSkipsUnrelatedEntries(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"shop/people.tab":     "id\tname\n1\tBob\n",
		"shop/notes.txt":      "not a table",
		"shop/people.tab.tmp": "garbage",
		"shop/nested/x.tab":   "garbage",
		".hidden/t.tab":       "garbage",
		"README":              "root file",
		"empty/.placeholder":  "",
	})

	c := openCatalog(t, root)
	dbs := c.Databases()
	require.Len(t, dbs, 2)
	assert.Equal(t, "empty", dbs[0].Name)
	assert.Equal(t, "shop", dbs[1].Name)
	require.Len(t, dbs[1].Tables(), 1)
	assert.Equal(t, "people", dbs[1].Tables()[0].Name)
}

func TestLoadRejectsCorruptFiles(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{"invalid table name", map[string]string{"shop/bad-name.tab": "id\n"}, ErrInvalidName},
		{"keyword table name", map[string]string{"shop/select.tab": "id\n"}, ErrInvalidName},
		{"invalid database name", map[string]string{"my shop/t.tab": "id\n"}, ErrInvalidName},
		{"empty file", map[string]string{"shop/t.tab": ""}, ErrCorrupt},
		{"header without id", map[string]string{"shop/t.tab": "name\tid\n"}, ErrCorrupt},
		{"duplicate attribute", map[string]string{"shop/t.tab": "id\tname\tNAME\n"}, ErrCorrupt},
		{"non-integer id", map[string]string{"shop/t.tab": "id\tname\nx\tBob\n"}, ErrCorrupt},
		{"negative id", map[string]string{"shop/t.tab": "id\tname\n-1\tBob\n"}, ErrCorrupt},
		{"duplicate id", map[string]string{"shop/t.tab": "id\tname\n1\tBob\n1\tAl\n"}, ErrCorrupt},
		{"ragged row", map[string]string{"shop/t.tab": "id\tname\n1\tBob\textra\n"}, ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			testutil.WriteTree(t, root, tt.files)
			_, err := Open(Options{Root: root})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadAcceptsZeroIDAndCRLF(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"shop/t.tab": "ID\tname\r\n0\tBob\r\n\r\n3\t\r\n",
	})
	c := openCatalog(t, root)
	db, err := c.Database("shop")
	require.NoError(t, err)
	tbl, err := db.Table("t")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, tbl.RowIDs())
	assert.Equal(t, 4, tbl.NextID())
	assert.True(t, tbl.Columns()[0].IsID())
	v, _ := tbl.Row(1).Value("name")
	assert.Equal(t, "", v)
}
