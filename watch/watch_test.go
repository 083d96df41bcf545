package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.paths {
		if p == path {
			return true
		}
	}
	return false
}

func startWatch(t *testing.T, run func(ctx context.Context) error) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("watch did not stop after cancellation")
			return nil
		}
	}
}

func TestWatch_NoPaths(t *testing.T) {
	err := Watch(context.Background(), nil, Options{}, func(string) {})
	require.ErrorIs(t, err, ErrNoPaths)
}

func TestWatch_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")
	other := filepath.Join(dir, "other.html")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o644))

	rec := &recorder{}
	stop := startWatch(t, func(ctx context.Context) error {
		return Watch(ctx, []string{target}, Options{Debounce: 10 * time.Millisecond}, rec.record)
	})

	n := 0
	require.Eventually(t, func() bool {
		n++
		_ = os.WriteFile(other, []byte(strconv.Itoa(n)), 0o644)
		_ = os.WriteFile(target, []byte(strconv.Itoa(n)), 0o644)
		return rec.seen(target)
	}, 5*time.Second, 50*time.Millisecond)

	err := stop()
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.False(t, rec.seen(other), "unwatched file reported")
}

func TestWatch_NotifiesOnRenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o644))

	rec := &recorder{}
	stop := startWatch(t, func(ctx context.Context) error {
		return Watch(ctx, []string{target}, Options{Debounce: 10 * time.Millisecond}, rec.record)
	})

	n := 0
	require.Eventually(t, func() bool {
		n++
		tmp := filepath.Join(dir, ".page.html.tmp")
		_ = os.WriteFile(tmp, []byte(strconv.Itoa(n)), 0o644)
		_ = os.Rename(tmp, target)
		return rec.seen(target)
	}, 5*time.Second, 50*time.Millisecond)

	require.ErrorIs(t, stop(), context.Canceled)
}

func TestPoll_NotifiesOnChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o644))

	rec := &recorder{}
	opts := Options{PollInterval: 10 * time.Millisecond}.withDefaults()
	stop := startWatch(t, func(ctx context.Context) error {
		return poll(ctx, map[string]bool{target: true}, opts, rec.record)
	})

	n := 0
	require.Eventually(t, func() bool {
		n++
		// Growing content changes the size even when mtime granularity is coarse.
		_ = os.WriteFile(target, []byte("v"+strconv.Itoa(n)+string(make([]byte, n))), 0o644)
		return rec.seen(target)
	}, 5*time.Second, 50*time.Millisecond)

	require.ErrorIs(t, stop(), context.Canceled)
}

func TestWatch_DirectoryReportsFileInside(t *testing.T) {
	dir := t.TempDir()
	partials := filepath.Join(dir, "partials")
	require.NoError(t, os.Mkdir(partials, 0o755))
	outside := filepath.Join(dir, "outside.html")

	rec := &recorder{}
	stop := startWatch(t, func(ctx context.Context) error {
		return Watch(ctx, []string{partials}, Options{Debounce: 10 * time.Millisecond}, rec.record)
	})

	n := 0
	require.Eventually(t, func() bool {
		n++
		_ = os.WriteFile(outside, []byte(strconv.Itoa(n)), 0o644)
		_ = os.WriteFile(filepath.Join(partials, "footer.html"), []byte(strconv.Itoa(n)), 0o644)
		return rec.seen(partials)
	}, 5*time.Second, 50*time.Millisecond)

	require.ErrorIs(t, stop(), context.Canceled)
	assert.False(t, rec.seen(outside), "file outside the directory reported")
	assert.False(t, rec.seen(filepath.Join(partials, "footer.html")), "directory events report the directory")
}

func TestPoll_DirectoryNotifiesOnNewFile(t *testing.T) {
	partials := t.TempDir()

	rec := &recorder{}
	opts := Options{PollInterval: 10 * time.Millisecond}.withDefaults()
	stop := startWatch(t, func(ctx context.Context) error {
		return poll(ctx, map[string]bool{partials: true}, opts, rec.record)
	})

	n := 0
	require.Eventually(t, func() bool {
		n++
		_ = os.WriteFile(filepath.Join(partials, "nav"+strconv.Itoa(n)+".html"), []byte("x"), 0o644)
		return rec.seen(partials)
	}, 5*time.Second, 50*time.Millisecond)

	require.ErrorIs(t, stop(), context.Canceled)
}

func TestMatch(t *testing.T) {
	targets := map[string]bool{"/site/page.html": false, "/site/partials": true}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"/site/page.html", "/site/page.html", true},
		{"/site/partials/footer.html", "/site/partials", true},
		{"/site/other.html", "", false},
		{"/site/partials/nested/deep.html", "", false},
		{"/site/page.html/child", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := match(targets, tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlush_SortedAndCleared(t *testing.T) {
	pending := map[string]bool{"/b": true, "/a": true, "/c": true}
	var got []string

	flush(pending, func(p string) { got = append(got, p) })

	assert.Equal(t, []string{"/a", "/b", "/c"}, got)
	assert.Empty(t, pending)
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultDebounce, opts.Debounce)
	assert.Equal(t, DefaultPollInterval, opts.PollInterval)
	assert.NotNil(t, opts.Logger)
}
