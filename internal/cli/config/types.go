// Package config provides configuration management for the leapdb CLI.
//
// Values are layered, lowest to highest precedence: built-in defaults, the
// YAML config file, LEAPDB_* environment variables, and explicitly set
// command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	// StorageRoot holds one directory per database.
	StorageRoot string `koanf:"storage_root" yaml:"storage_root"`
	// TableExt is the table file extension without the dot.
	TableExt string `koanf:"table_ext" yaml:"table_ext"`
	// Listen is the TCP address served by "leapdb serve" and dialed by
	// "leapdb client".
	Listen string `koanf:"listen" yaml:"listen"`
	// HTTPListen enables the HTTP transport when set.
	HTTPListen      string        `koanf:"http_listen" yaml:"http_listen"`
	LogLevel        string        `koanf:"log_level" yaml:"log_level"`
	LogFormat       string        `koanf:"log_format" yaml:"log_format"`
	OutputFormat    string        `koanf:"output" yaml:"output"`
	HistoryFile     string        `koanf:"history_file" yaml:"history_file"`
	AtomicWrites    bool          `koanf:"atomic_writes" yaml:"atomic_writes"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default configuration values
const (
	DefaultStorageRoot     = "databases"
	DefaultTableExt        = "tab"
	DefaultListen          = "127.0.0.1:8888"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultOutput          = "text"
	DefaultHistoryName     = ".leapdb_history"
	DefaultShutdownTimeout = 5 * time.Second
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StorageRoot:     DefaultStorageRoot,
		TableExt:        DefaultTableExt,
		Listen:          DefaultListen,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		OutputFormat:    DefaultOutput,
		AtomicWrites:    true,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}
