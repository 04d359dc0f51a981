package commands

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/leapdb/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// catalogDump is the YAML shape printed by the catalog command.
type catalogDump struct {
	Root      string         `yaml:"root"`
	Extension string         `yaml:"extension"`
	Databases []databaseDump `yaml:"databases"`
}

type databaseDump struct {
	Name   string      `yaml:"name"`
	Tables []tableDump `yaml:"tables"`
}

type tableDump struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns,flow"`
	Rows    int      `yaml:"rows"`
	NextID  int      `yaml:"next_id"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the databases and tables of the storage root",
		Long: `Print every database and table found under the storage root as YAML,
with column names, row counts and the next row id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			var dump catalogDump
			err = cc.Engine.View(func(c *storage.Catalog) error {
				dump = dumpCatalog(c)
				return nil
			})
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), dump)
		},
	}

	return cmd
}

func dumpCatalog(c *storage.Catalog) catalogDump {
	dump := catalogDump{
		Root:      c.Root(),
		Extension: c.Extension(),
		Databases: []databaseDump{},
	}
	for _, d := range c.Databases() {
		db := databaseDump{Name: d.Name, Tables: []tableDump{}}
		for _, t := range d.Tables() {
			db.Tables = append(db.Tables, tableDump{
				Name:    t.Name,
				Columns: t.ColumnNames(),
				Rows:    t.Len(),
				NextID:  t.NextID(),
			})
		}
		dump.Databases = append(dump.Databases, db)
	}
	return dump
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}
