// Package config describes a tinybinder render job: which template to
// render, with which assets and functions, and where to write the result.
//
// Configuration is read from a YAML, TOML or JSON file, then overridden by
// TINYBINDER_* environment variables and finally by command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrFormat is returned by Load for files with an unsupported extension.
var ErrFormat = errors.New("unsupported config format")

// Config holds a render job.
type Config struct {
	// Template is a path to the template file or literal template text.
	// Required.
	Template string `json:"template" yaml:"template" toml:"template" jsonschema:"description=Path to the template file or literal template text"`

	// Output is the file the rendered document is written to.
	// Empty means stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty" jsonschema:"description=File to write the rendered document to (stdout when empty)"`

	// Debug keeps unresolved placeholders in the output.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty" toml:"debug,omitempty" jsonschema:"description=Keep unresolved placeholders visible in the output"`

	// Assets are the values bound to variable placeholders.
	Assets map[string]any `json:"assets,omitempty" yaml:"assets,omitempty" toml:"assets,omitempty" jsonschema:"description=Values bound to {{ $name }} placeholders"`

	// FuncDirs are fragment directories; each file backs one function.
	FuncDirs []string `json:"func_dirs,omitempty" yaml:"func_dirs,omitempty" toml:"func_dirs,omitempty" jsonschema:"description=Directories whose files back {{ @name }} placeholders"`

	// Definitions are snippet definition files (YAML, TOML or JSON).
	Definitions []string `json:"definitions,omitempty" yaml:"definitions,omitempty" toml:"definitions,omitempty" jsonschema:"description=Snippet definition files mapping function names to text"`

	// Builtins registers the clock helpers (year, date, datetime, timestamp).
	Builtins bool `json:"builtins,omitempty" yaml:"builtins,omitempty" toml:"builtins,omitempty" jsonschema:"description=Register the year/date/datetime/timestamp functions"`

	// Watch re-renders whenever the template or a definitions file changes.
	// Requires Output.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch,omitempty" jsonschema:"description=Re-render when the template or definitions change"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`

	// LogFormat is text or json.
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" toml:"log_format,omitempty" jsonschema:"enum=text,enum=json"`
}

// DefaultConfig returns a Config with defaults applied.
// Template must still be set before use.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads a config file over DefaultConfig. The format follows the
// extension (.yaml, .yml, .toml, .json). Relative paths in the file are
// resolved against the file's directory; a relative Template is only
// rewritten when a file exists at the resolved location, so literal
// template text is left alone.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	if c.Template != "" && !filepath.IsAbs(c.Template) {
		if _, err := os.Stat(join(c.Template)); err == nil {
			c.Template = join(c.Template)
		}
	}
	c.Output = join(c.Output)
	for i := range c.FuncDirs {
		c.FuncDirs[i] = join(c.FuncDirs[i])
	}
	for i := range c.Definitions {
		c.Definitions[i] = join(c.Definitions[i])
	}
}

// LoadFromEnv populates config fields from environment variables.
// Variables use the TINYBINDER_ prefix and take precedence over existing
// values.
//
// Supported variables:
//   - TINYBINDER_TEMPLATE: Template path or text
//   - TINYBINDER_OUTPUT: Output file
//   - TINYBINDER_DEBUG: Debug mode (bool)
//   - TINYBINDER_BUILTINS: Register clock helpers (bool)
//   - TINYBINDER_WATCH: Watch mode (bool)
//   - TINYBINDER_LOG_LEVEL: Log level
//   - TINYBINDER_LOG_FORMAT: Log format
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("TINYBINDER_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("TINYBINDER_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("TINYBINDER_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv("TINYBINDER_BUILTINS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Builtins = b
		}
	}
	if v := os.Getenv("TINYBINDER_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch = b
		}
	}
	if v := os.Getenv("TINYBINDER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TINYBINDER_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Template == "" {
		return fmt.Errorf("template is required")
	}
	if c.Watch {
		if c.Output == "" {
			return fmt.Errorf("watch requires an output file")
		}
		if info, err := os.Stat(c.Template); err != nil || info.IsDir() {
			return fmt.Errorf("watch requires a template file, got %q", c.Template)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
