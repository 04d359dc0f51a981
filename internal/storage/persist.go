package storage

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	fieldSep = "\t"
	tmpExt   = ".tmp"
)

// seqPath is the hidden sidecar holding the next id, so ids stay unused
// after the highest rows are deleted and the process restarts.
func (t *Table) seqPath() string {
	return filepath.Join(t.db.Dir(), "."+t.Name+".seq")
}

// encode renders the table as a header line followed by one line per row.
func (t *Table) encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(t.ColumnNames(), fieldSep))
	buf.WriteByte('\n')
	fields := make([]string, len(t.columns))
	for i := 0; i < t.Len(); i++ {
		for c, col := range t.columns {
			fields[c] = col.cells[i].Text
		}
		buf.WriteString(strings.Join(fields, fieldSep))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// save rewrites the id sequence and then the table file. When the table file
// cannot be written the sequence goes back to prevNextID, or is removed when
// prevNextID is zero, so the files keep matching the restored table.
func (t *Table) save(prevNextID int) error {
	c := t.db.catalog
	path := t.Path()
	if err := t.writeSeq(t.nextID); err != nil {
		return err
	}
	if err := writeFile(path, t.encode(), c.atomic); err != nil {
		if prevNextID > 0 {
			_ = t.writeSeq(prevNextID)
		} else {
			_ = removeIfExists(t.seqPath())
		}
		return err
	}
	c.logger.Debug("wrote table", "path", path, "rows", t.Len(), "columns", len(t.columns))
	return nil
}

func (t *Table) writeSeq(next int) error {
	return writeFile(t.seqPath(), []byte(strconv.Itoa(next)+"\n"), t.db.catalog.atomic)
}

func writeFile(path string, data []byte, atomic bool) error {
	if !atomic {
		return ioErr("write", path, os.WriteFile(path, data, 0o640))
	}
	tmp := path + tmpExt
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		_ = os.Remove(tmp)
		return ioErr("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return ioErr("rename", tmp, err)
	}
	return nil
}

// remove deletes the table file and its sequence sidecar.
func (t *Table) remove() error {
	if err := os.Remove(t.Path()); err != nil {
		return ioErr("remove", t.Path(), err)
	}
	return removeIfExists(t.seqPath())
}

// loadTable reads and validates one table file.
func loadTable(d *Database, name string) (*Table, error) {
	t := &Table{Name: name, db: d, nextID: 1}
	path := t.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErr("read", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, corrupt(path, "missing header line")
	}

	header := strings.Split(lines[0], fieldSep)
	if !SameName(header[0], IDColumn) {
		return nil, corrupt(path, "first attribute is %q, want %q", header[0], IDColumn)
	}
	for i, h := range header {
		if i > 0 {
			if err := checkName("attribute", h); err != nil {
				return nil, corrupt(path, "%v", err)
			}
		}
		if t.columnIndex(h) >= 0 {
			return nil, corrupt(path, "duplicate attribute %q", h)
		}
		t.columns = append(t.columns, &Column{Name: h, table: t})
	}

	seen := make(map[int]bool)
	maxID := 0
	for n, line := range lines[1:] {
		fields := strings.Split(line, fieldSep)
		if len(fields) != len(header) {
			return nil, corrupt(path, "row %d has %d fields, want %d", n+1, len(fields), len(header))
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil || id < 0 {
			return nil, corrupt(path, "row %d: id %q is not a non-negative integer", n+1, fields[0])
		}
		if seen[id] {
			return nil, corrupt(path, "row %d: duplicate id %d", n+1, id)
		}
		seen[id] = true
		maxID = max(maxID, id)
		for i, col := range t.columns {
			col.append(id, fields[i])
		}
	}

	seq, err := readSeq(t.seqPath())
	if err != nil {
		return nil, err
	}
	t.nextID = max(maxID+1, seq, 1)
	return t, nil
}

// readSeq returns the stored next id, or 0 when there is no usable sidecar.
func readSeq(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, ioErr("read", path, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, nil
	}
	return n, nil
}
