package funcs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/tinybinder/binder"
)

// Definitions loads a snippet definitions file and returns a table of
// static functions, one per entry. The format follows the extension:
// .yaml/.yml, .toml or .json.
func Definitions(path string) (binder.FuncTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}

	snippets, err := ParseDefinitions(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	table := make(binder.FuncTable, len(snippets))
	for name, text := range snippets {
		table[name] = binder.Static(text)
	}
	return table, nil
}

// ParseDefinitions decodes a flat name to snippet mapping. ext selects the
// decoder and may be given with or without the leading dot.
func ParseDefinitions(data []byte, ext string) (map[string]string, error) {
	snippets := make(map[string]string)

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &snippets); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &snippets); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &snippets); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}

	return snippets, nil
}
