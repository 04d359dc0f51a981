// Package main provides tests for the LeapDB CLI.
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapdb/internal/cli"
	"github.com/leapstack-labs/leapdb/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) testutil.Result {
	t.Helper()
	return testutil.Run(t, cli.NewRootCmd(), "", args...)
}

func TestVersionCommand(t *testing.T) {
	res := run(t, "version")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "LeapDB")
}

func TestHelpCommand(t *testing.T) {
	res := run(t, "--help")
	require.NoError(t, res.Err)

	for _, expected := range []string{"exec", "shell", "serve", "client", "catalog", "version"} {
		assert.Contains(t, res.Out, expected)
	}
}

func TestExecPersistsAcrossRuns(t *testing.T) {
	root := t.TempDir()

	res := run(t, "exec", "--root", root,
		"CREATE DATABASE shop; USE shop; CREATE TABLE people (name, age); "+
			"INSERT INTO people VALUES ('Bob', 21); INSERT INTO people VALUES ('Alice', 30);")
	require.NoError(t, res.Err, res.ErrOut)
	assert.Equal(t, 5, strings.Count(res.Out, "[OK]"))

	data, err := os.ReadFile(filepath.Join(root, "shop", "people.tab"))
	require.NoError(t, err)
	assert.Equal(t, "id\tname\tage\n1\tBob\t21\n2\tAlice\t30\n", string(data))

	res = run(t, "exec", "--root", root, "--use", "shop", "-o", "json",
		"SELECT name FROM people WHERE age > 25;")
	require.NoError(t, res.Err, res.ErrOut)

	var got struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
	assert.Equal(t, []string{"name"}, got.Columns)
	assert.Equal(t, [][]string{{"Alice"}}, got.Rows)
}

func TestExecFailureExitsWithError(t *testing.T) {
	res := run(t, "exec", "--root", t.TempDir(), "SELECT * FROM people;")
	require.Error(t, res.Err)
	assert.Contains(t, res.Out, "[ERROR]")
}

func TestCatalogCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, run(t, "exec", "--root", root, "CREATE DATABASE shop; USE shop; CREATE TABLE people (name);").Err)

	res := run(t, "catalog", "--root", root)
	require.NoError(t, res.Err, res.ErrOut)
	assert.Contains(t, res.Out, "name: shop")
	assert.Contains(t, res.Out, "columns: [id, name]")
}

func TestInvalidConfig(t *testing.T) {
	res := run(t, "exec", "--root", t.TempDir(), "--output", "xml", "USE shop;")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "invalid configuration")
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			res := run(t, "completion", shell)
			require.NoError(t, res.Err)
			assert.NotEmpty(t, res.Out)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	res := run(t, "unknown-command")
	assert.Error(t, res.Err)
}
