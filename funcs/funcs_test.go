package funcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tinybinder/binder"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func call(t *testing.T, table binder.FuncTable, name string) string {
	t.Helper()
	fn, ok := table[name]
	require.True(t, ok, "function %q not registered", name)
	out, err := fn()
	require.NoError(t, err)
	return out
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "footer.html"), "<footer></footer>")
	writeFile(t, filepath.Join(dir, "nav.tmpl"), "<nav></nav>")
	writeFile(t, filepath.Join(dir, "LICENSE"), "MIT")
	writeFile(t, filepath.Join(dir, ".hidden.html"), "secret")
	writeFile(t, filepath.Join(dir, "nested", "inner.html"), "inner")

	table, err := Dir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"LICENSE", "footer", "nav"}, table.Names())
	assert.Equal(t, "<footer></footer>", call(t, table, "footer"))
	assert.Equal(t, "<nav></nav>", call(t, table, "nav"))
	assert.Equal(t, "MIT", call(t, table, "LICENSE"))
}

func TestDir_ReadsOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banner.html")
	writeFile(t, path, "v1")

	table, err := Dir(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1", call(t, table, "banner"))

	writeFile(t, path, "v2")
	assert.Equal(t, "v2", call(t, table, "banner"))

	require.NoError(t, os.Remove(path))
	_, err = table["banner"]()
	assert.Error(t, err)
}

func TestDir_Duplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "footer.html"), "a")
	writeFile(t, filepath.Join(dir, "footer.txt"), "b")

	_, err := Dir(dir)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestDir_Missing(t *testing.T) {
	_, err := Dir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestDir_WithEngine(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "footer.html"), "<footer>{{ $year }}</footer>")

	table, err := Dir(dir)
	require.NoError(t, err)

	got, err := binder.FromString("<main></main>{{ @footer }}", binder.WithFuncs(table)).
		AddAsset("year", 2024).
		Render()
	require.NoError(t, err)
	// Function output is not fed back into the variable pass.
	assert.Equal(t, "<main></main><footer>{{ $year }}</footer>", got)
}

func TestDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    "snippets.yaml",
			content: "footer: \"<footer></footer>\"\nnav: <nav></nav>\n",
		},
		{
			name:    "yml",
			file:    "snippets.yml",
			content: "footer: \"<footer></footer>\"\nnav: <nav></nav>\n",
		},
		{
			name:    "toml",
			file:    "snippets.toml",
			content: "footer = \"<footer></footer>\"\nnav = '<nav></nav>'\n",
		},
		{
			name:    "json",
			file:    "snippets.json",
			content: `{"footer": "<footer></footer>", "nav": "<nav></nav>"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			table, err := Definitions(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"footer", "nav"}, table.Names())
			assert.Equal(t, "<footer></footer>", call(t, table, "footer"))
			assert.Equal(t, "<nav></nav>", call(t, table, "nav"))
		})
	}
}

func TestDefinitions_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Definitions(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "snippets.ini")
		writeFile(t, path, "footer=x")
		_, err := Definitions(path)
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		writeFile(t, path, "footer: [unclosed")
		_, err := Definitions(path)
		require.Error(t, err)
	})

	t.Run("nested toml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		writeFile(t, path, "[footer]\ntext = \"x\"\n")
		_, err := Definitions(path)
		require.Error(t, err)
	})
}

func TestParseDefinitions_ExtensionForms(t *testing.T) {
	for _, ext := range []string{"yaml", ".yaml", "YAML", ".YML"} {
		got, err := ParseDefinitions([]byte("a: b"), ext)
		require.NoError(t, err, ext)
		assert.Equal(t, map[string]string{"a": "b"}, got, ext)
	}
}

func TestBuiltins(t *testing.T) {
	fixed := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	table := Builtins(func() time.Time { return fixed })

	assert.Equal(t, "2024", call(t, table, "year"))
	assert.Equal(t, "2024-03-05", call(t, table, "date"))
	assert.Equal(t, "2024-03-05T14:30:00Z", call(t, table, "datetime"))
	assert.Equal(t, "1709649000", call(t, table, "timestamp"))
}

func TestBuiltins_DefaultClock(t *testing.T) {
	table := Builtins(nil)
	assert.Len(t, call(t, table, "year"), 4)
}

func TestMerge(t *testing.T) {
	a := binder.FuncTable{"x": binder.Static("a"), "y": binder.Static("a")}
	b := binder.FuncTable{"y": binder.Static("b"), "z": binder.Static("b")}

	merged := Merge(a, nil, b)
	assert.Equal(t, []string{"x", "y", "z"}, merged.Names())
	assert.Equal(t, "a", call(t, merged, "x"))
	assert.Equal(t, "b", call(t, merged, "y"))
	assert.Equal(t, "b", call(t, merged, "z"))
	assert.Len(t, a, 2, "inputs must not be modified")
}
