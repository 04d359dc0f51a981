package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leapdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("root", "", "")
	flags.String("listen", "", "")
	flags.String("output", "", "")
	flags.String("log-level", "", "")
	flags.Bool("atomic-writes", true, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultStorageRoot, cfg.StorageRoot)
	assert.Equal(t, DefaultTableExt, cfg.TableExt)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Empty(t, cfg.HTTPListen)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.True(t, cfg.AtomicWrites)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, filepath.Join(DefaultStorageRoot, DefaultHistoryName), cfg.HistoryFile)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `
storage_root: /data/from-file
listen: 0.0.0.0:9000
output: csv
log_level: debug
atomic_writes: false
shutdown_timeout: 2s
`)

	tests := []struct {
		name   string
		env    map[string]string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "file overrides defaults",
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/from-file", cfg.StorageRoot)
				assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
				assert.Equal(t, "csv", cfg.OutputFormat)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.False(t, cfg.AtomicWrites)
				assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, DefaultTableExt, cfg.TableExt)
			},
		},
		{
			name: "env overrides file",
			env:  map[string]string{"LEAPDB_STORAGE_ROOT": "/data/from-env", "LEAPDB_TABLE_EXT": "tsv"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/from-env", cfg.StorageRoot)
				assert.Equal(t, "tsv", cfg.TableExt)
				assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
			},
		},
		{
			name: "flags override env",
			env:  map[string]string{"LEAPDB_STORAGE_ROOT": "/data/from-env"},
			args: []string{"--root", "/data/from-flag", "--output", "json", "--atomic-writes=true"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/from-flag", cfg.StorageRoot)
				assert.Equal(t, "json", cfg.OutputFormat)
				assert.True(t, cfg.AtomicWrites)
				assert.Equal(t, filepath.Join("/data/from-flag", DefaultHistoryName), cfg.HistoryFile)
			},
		},
		{
			name: "unset flags do not override",
			args: []string{},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/from-file", cfg.StorageRoot)
				assert.False(t, cfg.AtomicWrites)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := testFlags()
			require.NoError(t, flags.Parse(tt.args))

			cfg, err := LoadConfig(path, flags)
			require.NoError(t, err)
			assert.Equal(t, path, GetConfigFileUsed())
			tt.verify(t, cfg)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, "output: xml\nlog_format: xml\ntable_ext: a.b\n")
	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	for _, want := range []string{"output format", "log_format", "table_ext"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty root", func(c *Config) { c.StorageRoot = "" }, "storage_root is required"},
		{"ext with slash", func(c *Config) { c.TableExt = "a/b" }, "table_ext"},
		{"empty ext", func(c *Config) { c.TableExt = "" }, "table_ext"},
		{"markdown alias", func(c *Config) { c.OutputFormat = "md" }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"json logs", func(c *Config) { c.LogFormat = "JSON" }, ""},
		{"negative timeout", func(c *Config) { c.ShutdownTimeout = -time.Second }, "shutdown_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "warn"
	logger := NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "k=v")

	buf.Reset()
	cfg.LogFormat = "json"
	cfg.LogLevel = "debug"
	NewLogger(cfg, &buf).Debug("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx))
	assert.Equal(t, Default(), FromContext(ctx))

	cfg := Default()
	cfg.StorageRoot = "elsewhere"
	assert.Same(t, cfg, FromContext(WithConfig(ctx, cfg)))
}
