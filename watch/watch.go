// Package watch re-runs a callback when any of a set of files changes.
// A watched directory counts as changed when any file directly inside it
// changes.
//
// It follows files through editors that save by writing a temporary file
// and renaming it over the original, because it watches the parent
// directories rather than the files themselves. When a file system watcher
// cannot be created it falls back to polling modification times.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/randalmurphal/tinybinder/logging"
)

// ErrNoPaths is returned when Watch is called without any paths.
var ErrNoPaths = errors.New("no paths to watch")

// Default timings.
const (
	DefaultDebounce     = 100 * time.Millisecond
	DefaultPollInterval = 500 * time.Millisecond
)

// Options tunes Watch.
type Options struct {
	// Debounce coalesces bursts of events per file. Default: DefaultDebounce.
	Debounce time.Duration

	// PollInterval is the polling period used when fsnotify is unavailable.
	// Default: DefaultPollInterval.
	PollInterval time.Duration

	// Logger receives watcher diagnostics. Default: no-op.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

// Watch blocks until ctx is done, calling onChange with the cleaned path of
// each watched file that was written, created or renamed into place. For a
// watched directory the directory's own path is reported, once per burst.
// Callbacks run on the watching goroutine, one at a time. Watch returns
// ctx.Err() on cancellation.
func Watch(ctx context.Context, paths []string, opts Options, onChange func(path string)) error {
	if len(paths) == 0 {
		return ErrNoPaths
	}
	opts = opts.withDefaults()

	// targets maps each watched path to whether it is a directory.
	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			targets[abs] = true
			dirs[abs] = true
			continue
		}
		targets[abs] = false
		dirs[filepath.Dir(abs)] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		opts.Logger.Warn("file watcher unavailable, polling", "error", err)
		return poll(ctx, targets, opts, onChange)
	}
	defer watcher.Close()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			opts.Logger.Warn("cannot watch directory, polling", "dir", dir, "error", err)
			watcher.Close()
			return poll(ctx, targets, opts, onChange)
		}
	}

	return watchEvents(ctx, watcher, targets, opts, onChange)
}

func watchEvents(ctx context.Context, watcher *fsnotify.Watcher, targets map[string]bool, opts Options, onChange func(string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return ctx.Err()
			}
			name, ok := match(targets, filepath.Clean(event.Name))
			if !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			opts.Logger.Debug("file event", "path", name, "op", event.Op.String())
			pending[name] = true
			timer.Reset(opts.Debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			flush(pending, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return ctx.Err()
			}
			opts.Logger.Warn("file watcher error", "error", err)
		}
	}
}

// match reports the watched path an event on name belongs to: name itself
// when it is a watched file, or its parent when that is a watched directory.
func match(targets map[string]bool, name string) (string, bool) {
	if isDir, ok := targets[name]; ok && !isDir {
		return name, true
	}
	if parent := filepath.Dir(name); targets[parent] {
		return parent, true
	}
	return "", false
}

// flush calls onChange for every pending path in sorted order and clears
// the set.
func flush(pending map[string]bool, onChange func(string)) {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		delete(pending, name)
		onChange(name)
	}
}

type fileState struct {
	modTime time.Time
	size    int64
	entries int
	exists  bool
}

// stat snapshots path. A directory is summarized by its regular files: the
// latest modification time, the total size and the file count.
func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	if !info.IsDir() {
		return fileState{modTime: info.ModTime(), size: info.Size(), exists: true}
	}

	state := fileState{exists: true}
	entries, err := os.ReadDir(path)
	if err != nil {
		return state
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		state.entries++
		state.size += fi.Size()
		if fi.ModTime().After(state.modTime) {
			state.modTime = fi.ModTime()
		}
	}
	return state
}

func poll(ctx context.Context, targets map[string]bool, opts Options, onChange func(string)) error {
	states := make(map[string]fileState, len(targets))
	for path := range targets {
		states[path] = stat(path)
	}

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for path, prev := range states {
				cur := stat(path)
				if cur == prev {
					continue
				}
				states[path] = cur
				if cur.exists {
					pending[path] = true
				}
			}
			flush(pending, onChange)
		}
	}
}
