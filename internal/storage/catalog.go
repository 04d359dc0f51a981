// Package storage holds the database, table, column and cell graph and
// mirrors every table to a tab-separated file under a storage root.
//
// The package has no internal synchronization. Callers that share a Catalog
// between goroutines must serialize access.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtension is the table file extension used when none is configured.
const DefaultExtension = "tab"

// Options configures a Catalog.
type Options struct {
	// Root is the storage root; one subdirectory per database.
	Root string
	// Extension is the table file extension without the dot.
	Extension string
	// AtomicWrites writes table files to a temporary file and renames it
	// over the original.
	AtomicWrites bool
	Logger       *slog.Logger
}

// Catalog is the set of databases under one storage root.
type Catalog struct {
	root      string
	ext       string
	atomic    bool
	logger    *slog.Logger
	databases map[string]*Database
}

// Open creates the storage root if needed and loads every database in it.
func Open(opts Options) (*Catalog, error) {
	if opts.Root == "" {
		return nil, errors.New("storage root is required")
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if strings.ContainsAny(opts.Extension, `./\`) {
		return nil, fmt.Errorf("invalid table extension %q", opts.Extension)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Catalog{
		root:      opts.Root,
		ext:       opts.Extension,
		atomic:    opts.AtomicWrites,
		logger:    logger,
		databases: make(map[string]*Database),
	}
	if err := os.MkdirAll(c.root, 0o750); err != nil {
		return nil, ioErr("create storage root", c.root, err)
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) load() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return ioErr("read storage root", c.root, err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := e.Name()
		if err := checkName("database", name); err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Join(c.root, name), err)
		}
		if _, dup := c.databases[key(name)]; dup {
			return fmt.Errorf("loading %s: %w", filepath.Join(c.root, name), exists("database", name))
		}
		db := newDatabase(c, name)
		if err := db.load(); err != nil {
			return err
		}
		c.databases[key(name)] = db
	}
	c.logger.Debug("catalog loaded", "root", c.root, "databases", len(c.databases))
	return nil
}

// Root returns the storage root directory.
func (c *Catalog) Root() string {
	return c.root
}

// Extension returns the table file extension.
func (c *Catalog) Extension() string {
	return c.ext
}

// Database looks up a database by case-insensitive name.
func (c *Catalog) Database(name string) (*Database, error) {
	db, ok := c.databases[key(name)]
	if !ok {
		return nil, notFound("database", name)
	}
	return db, nil
}

// Databases returns every database sorted by name.
func (c *Catalog) Databases() []*Database {
	out := make([]*Database, 0, len(c.databases))
	for _, db := range c.databases {
		out = append(out, db)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].Name) < key(out[j].Name) })
	return out
}

// CreateDatabase creates an empty database and its directory.
func (c *Catalog) CreateDatabase(name string) (*Database, error) {
	if err := checkName("database", name); err != nil {
		return nil, err
	}
	if _, ok := c.databases[key(name)]; ok {
		return nil, exists("database", name)
	}
	db := newDatabase(c, name)
	if err := os.Mkdir(db.Dir(), 0o750); err != nil {
		return nil, ioErr("create database directory", db.Dir(), err)
	}
	c.databases[key(name)] = db
	c.logger.Debug("created database", "database", name)
	return db, nil
}

// DropDatabase removes every table of the database and then its directory.
// Tables removed before a failure stay removed.
func (c *Catalog) DropDatabase(name string) error {
	db, err := c.Database(name)
	if err != nil {
		return err
	}
	for _, t := range db.Tables() {
		if err := db.DropTable(t.Name); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(db.Dir()); err != nil {
		return ioErr("remove database directory", db.Dir(), err)
	}
	delete(c.databases, key(name))
	c.logger.Debug("dropped database", "database", db.Name)
	return nil
}

// Database is a named set of tables stored in one directory.
type Database struct {
	Name    string
	catalog *Catalog
	tables  map[string]*Table
}

func newDatabase(c *Catalog, name string) *Database {
	return &Database{Name: name, catalog: c, tables: make(map[string]*Table)}
}

// Dir returns the database directory.
func (d *Database) Dir() string {
	return filepath.Join(d.catalog.root, d.Name)
}

// Table looks up a table by case-insensitive name.
func (d *Database) Table(name string) (*Table, error) {
	t, ok := d.tables[key(name)]
	if !ok {
		return nil, notFound("table", name)
	}
	return t, nil
}

// Tables returns every table sorted by name.
func (d *Database) Tables() []*Table {
	out := make([]*Table, 0, len(d.tables))
	for _, t := range d.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].Name) < key(out[j].Name) })
	return out
}

// CreateTable creates a table holding only the id column and writes its file.
func (d *Database) CreateTable(name string) (*Table, error) {
	if err := checkName("table", name); err != nil {
		return nil, err
	}
	if _, ok := d.tables[key(name)]; ok {
		return nil, exists("table", name)
	}
	t := newTable(d, name)
	// A sequence left behind by an earlier table of the same name must not
	// carry over.
	if err := removeIfExists(t.seqPath()); err != nil {
		return nil, err
	}
	if err := t.save(0); err != nil {
		return nil, err
	}
	d.tables[key(name)] = t
	d.catalog.logger.Debug("created table", "database", d.Name, "table", name)
	return t, nil
}

// DropTable removes a table and its backing files.
func (d *Database) DropTable(name string) error {
	t, err := d.Table(name)
	if err != nil {
		return err
	}
	if err := t.remove(); err != nil {
		return err
	}
	delete(d.tables, key(name))
	d.catalog.logger.Debug("dropped table", "database", d.Name, "table", t.Name)
	return nil
}

func (d *Database) load() error {
	entries, err := os.ReadDir(d.Dir())
	if err != nil {
		return ioErr("read database directory", d.Dir(), err)
	}
	suffix := "." + d.catalog.ext
	for _, e := range entries {
		fname := e.Name()
		if e.IsDir() || strings.HasPrefix(fname, ".") || !strings.HasSuffix(fname, suffix) {
			continue
		}
		name := strings.TrimSuffix(fname, suffix)
		path := filepath.Join(d.Dir(), fname)
		if err := checkName("table", name); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		if _, dup := d.tables[key(name)]; dup {
			return fmt.Errorf("loading %s: %w", path, exists("table", name))
		}
		t, err := loadTable(d, name)
		if err != nil {
			return err
		}
		d.tables[key(name)] = t
		d.catalog.logger.Debug("loaded table", "database", d.Name, "table", name, "rows", t.Len(), "next_id", t.nextID)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ioErr("remove", path, err)
	}
	return nil
}
