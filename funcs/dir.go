package funcs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/randalmurphal/tinybinder/binder"
)

// Dir returns a table with one function per regular file in dir.
// The function name is the file name without its extension. Hidden files
// and subdirectories are skipped. Each call reads the file again, so edits
// show up on the next render.
func Dir(dir string) (binder.FuncTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fragments dir: %w", err)
	}

	table := make(binder.FuncTable)
	sources := make(map[string]string)
	for _, entry := range entries {
		base := entry.Name()
		if strings.HasPrefix(base, ".") || !entry.Type().IsRegular() {
			continue
		}

		name := strings.TrimSuffix(base, filepath.Ext(base))
		if name == "" {
			continue
		}
		if prev, ok := sources[name]; ok {
			return nil, fmt.Errorf("%w: %q from %s and %s", ErrDuplicate, name, prev, base)
		}
		sources[name] = base
		table[name] = fragment(filepath.Join(dir, base))
	}

	return table, nil
}

func fragment(path string) binder.Func {
	return func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read fragment: %w", err)
		}
		return string(data), nil
	}
}
