package binder

import (
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"

	"github.com/randalmurphal/tinybinder/logging"
)

// Engine binds assets and function results into a single HTML template.
// An Engine is meant for sequential use by one owner: construct, configure,
// render. It is not safe for concurrent use.
type Engine struct {
	html   string
	assets map[string]any
	funcs  FuncTable
	debug  bool
	fsys   fs.FS
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFuncs sets the table consulted for function placeholders.
func WithFuncs(funcs FuncTable) Option {
	return func(e *Engine) {
		e.funcs = funcs
	}
}

// WithFS makes New resolve template paths against fsys instead of the
// host file system.
func WithFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.fsys = fsys
	}
}

// WithLogger sets the logger that records unresolved placeholders at
// debug level. The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine from input. If input names an existing file its
// content becomes the template; otherwise input itself is the template.
// An existing path that cannot be read returns an error wrapping ErrRead.
func New(input string, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	html, err := e.load(input)
	if err != nil {
		return nil, err
	}
	e.html = html

	return e, nil
}

// FromString creates an engine whose template is text, without consulting
// any file system.
func FromString(text string, opts ...Option) *Engine {
	e := newEngine(opts)
	e.html = text
	return e
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		assets: make(map[string]any),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Make renders input with the given assets in one call.
// It is equivalent to New, SetDebug, AddAssets and Render in sequence.
func Make(input string, assets map[string]any, debug bool, opts ...Option) (string, error) {
	e, err := New(input, opts...)
	if err != nil {
		return "", err
	}
	return e.SetDebug(debug).AddAssets(assets).Render()
}

func (e *Engine) load(input string) (string, error) {
	if e.fsys != nil {
		if _, statErr := fs.Stat(e.fsys, input); statErr != nil {
			return input, nil
		}
		data, readErr := fs.ReadFile(e.fsys, input)
		if readErr != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrRead, input, readErr)
		}
		return string(data), nil
	}

	if _, statErr := os.Stat(input); statErr != nil {
		return input, nil
	}
	data, readErr := os.ReadFile(input)
	if readErr != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRead, input, readErr)
	}
	return string(data), nil
}

// AddAsset sets a single asset, replacing any previous value for name.
func (e *Engine) AddAsset(name string, value any) *Engine {
	e.assets[name] = value
	return e
}

// AddAssets merges assets into the engine. Entries in assets replace
// existing entries with the same name; other entries are kept.
func (e *Engine) AddAssets(assets map[string]any) *Engine {
	maps.Copy(e.assets, assets)
	return e
}

// Assets returns a copy of the current asset map.
func (e *Engine) Assets() map[string]any {
	return maps.Clone(e.assets)
}

// SetDebug toggles debug mode. In debug mode unresolved placeholders are
// left in the output instead of being removed.
func (e *Engine) SetDebug(debug bool) *Engine {
	e.debug = debug
	return e
}

// Debug reports whether debug mode is enabled.
func (e *Engine) Debug() bool {
	return e.debug
}

// Text returns the stored template text without rendering it.
func (e *Engine) Text() string {
	return e.html
}

// Placeholders returns the variable and function names still present in
// the stored text, deduplicated in order of first appearance.
func (e *Engine) Placeholders() (vars, funcs []string) {
	return extractNames(variablePattern, e.html), extractNames(functionPattern, e.html)
}

// Render substitutes variables, then functions, and returns the result.
// The result replaces the stored text, so a second call operates on
// already rendered output.
//
// A failing function aborts the render with an error wrapping ErrFunc.
// The stored text then holds the output of the variable pass.
func (e *Engine) Render() (string, error) {
	if err := e.replaceVariables(); err != nil {
		return "", err
	}
	if err := e.replaceFunctions(); err != nil {
		return "", err
	}
	return e.html, nil
}

// HTML is an alias for Render.
func (e *Engine) HTML() (string, error) {
	return e.Render()
}

func (e *Engine) replaceVariables() error {
	html, err := replacePass(variablePattern, e.html, e.debug, func(name string) (string, bool, error) {
		value, ok := e.assets[name]
		if !ok {
			return "", false, nil
		}
		return stringify(value), true, nil
	}, func(name string) {
		e.logger.Debug("unresolved variable placeholder", "name", name, "debug", e.debug)
	})
	if err != nil {
		return err
	}

	e.html = html
	return nil
}

func (e *Engine) replaceFunctions() error {
	html, err := replacePass(functionPattern, e.html, e.debug, func(name string) (string, bool, error) {
		fn, ok := e.funcs[name]
		if !ok || fn == nil {
			return "", false, nil
		}
		out, callErr := fn()
		if callErr != nil {
			return "", true, fmt.Errorf("%w: %s: %w", ErrFunc, name, callErr)
		}
		return out, true, nil
	}, func(name string) {
		e.logger.Debug("unresolved function placeholder", "name", name, "debug", e.debug)
	})
	if err != nil {
		return err
	}

	e.html = html
	return nil
}
