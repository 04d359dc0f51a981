package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapdb/internal/result"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.StorageRoot == "" {
		errs = append(errs, errors.New("storage_root is required"))
	}
	if c.TableExt == "" || strings.ContainsAny(c.TableExt, `./\`) {
		errs = append(errs, fmt.Errorf("table_ext %q must be a non-empty extension without dots or path separators", c.TableExt))
	}
	if _, err := result.ParseFormat(c.OutputFormat); err != nil {
		errs = append(errs, err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("unknown log_level %q (want debug, info, warn or error)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must not be negative"))
	}

	return errors.Join(errs...)
}
