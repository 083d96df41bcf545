package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/tinybinder/binder"
	"github.com/randalmurphal/tinybinder/config"
	"github.com/randalmurphal/tinybinder/funcs"
	"github.com/randalmurphal/tinybinder/logging"
	"github.com/randalmurphal/tinybinder/watch"
)

// renderFlags holds all flags for the render command.
type renderFlags struct {
	configPath  string
	output      string
	debug       bool
	assets      []string
	funcDirs    []string
	definitions []string
	builtins    bool
	watch       bool
	logLevel    string
	logFormat   string
}

func newRenderCmd() *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Render a template to stdout or a file",
		Long: `Render a template file, or literal template text, with the given assets
and functions. Unresolved placeholders are removed unless --debug is set.`,
		Example: `  # Render with assets from flags
  tinybinder render page.html -a title="Demo Page" -a heading="<h1>Demo</h1>"

  # Use fragment files as functions: partials/footer.html backs {{ @footer }}
  tinybinder render page.html --funcs partials -o public/index.html

  # Run a job file and re-render on every change
  tinybinder render -c site.yaml --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, args)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Render job file (YAML, TOML or JSON)")
	flags.StringVarP(&f.output, "output", "o", "", "Write the result to this file instead of stdout")
	flags.BoolVar(&f.debug, "debug", false, "Keep unresolved placeholders in the output")
	flags.StringArrayVarP(&f.assets, "asset", "a", nil, "Asset as key=value (repeatable)")
	flags.StringArrayVar(&f.funcDirs, "funcs", nil, "Fragment directory; each file backs one function (repeatable)")
	flags.StringArrayVar(&f.definitions, "defs", nil, "Snippet definitions file (repeatable)")
	flags.BoolVar(&f.builtins, "builtins", false, "Register the year, date, datetime and timestamp functions")
	flags.BoolVar(&f.watch, "watch", false, "Re-render when the template, a definitions file or a fragment changes (requires --output)")
	flags.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&f.logFormat, "log-format", "", "Log format (text, json)")

	return cmd
}

// resolveConfig layers the job file, the environment and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, f *renderFlags, args []string) (config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.LoadFromEnv()

	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Template = args[0]
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("debug") {
		cfg.Debug = f.debug
	}
	if flags.Changed("builtins") {
		cfg.Builtins = f.builtins
	}
	if flags.Changed("watch") {
		cfg.Watch = f.watch
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	cfg.FuncDirs = append(cfg.FuncDirs, f.funcDirs...)
	cfg.Definitions = append(cfg.Definitions, f.definitions...)

	for _, kv := range f.assets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return cfg, fmt.Errorf("invalid asset %q: want key=value", kv)
		}
		if cfg.Assets == nil {
			cfg.Assets = make(map[string]any)
		}
		cfg.Assets[key] = value
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runRender(ctx context.Context, stdout, stderr io.Writer, cfg config.Config) error {
	logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)

	if err := renderOnce(stdout, cfg, logger); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := []string{cfg.Template}
	paths = append(paths, cfg.Definitions...)
	paths = append(paths, cfg.FuncDirs...)
	logger.Info("watching for changes", "paths", paths)

	err := watch.Watch(ctx, paths, watch.Options{Logger: logger}, func(path string) {
		logger.Info("change detected, re-rendering", "path", path)
		if err := renderOnce(stdout, cfg, logger); err != nil {
			logger.Error("render failed", "error", err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// buildFuncs assembles the function table. Definitions override fragment
// directories, which override builtins.
func buildFuncs(cfg config.Config) (binder.FuncTable, error) {
	tables := make([]binder.FuncTable, 0, 1+len(cfg.FuncDirs)+len(cfg.Definitions))
	if cfg.Builtins {
		tables = append(tables, funcs.Builtins(nil))
	}
	for _, dir := range cfg.FuncDirs {
		table, err := funcs.Dir(dir)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	for _, path := range cfg.Definitions {
		table, err := funcs.Definitions(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return funcs.Merge(tables...), nil
}

func renderOnce(stdout io.Writer, cfg config.Config, logger *slog.Logger) error {
	table, err := buildFuncs(cfg)
	if err != nil {
		return err
	}

	engine, err := binder.New(cfg.Template, binder.WithFuncs(table), binder.WithLogger(logger))
	if err != nil {
		return err
	}
	html, err := engine.SetDebug(cfg.Debug).AddAssets(cfg.Assets).Render()
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err = io.WriteString(stdout, html)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := atomic.WriteFile(cfg.Output, strings.NewReader(html)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("rendered", "output", cfg.Output, "bytes", len(html))
	return nil
}
