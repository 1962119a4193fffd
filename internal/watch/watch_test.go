package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, targets []string, opts Options) *Watcher {
	t.Helper()
	w, err := New(targets, opts)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_Accepts(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "sources")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "annexes"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, ".git"), 0755))

	single := filepath.Join(dir, "code.txt")
	touch(t, single, "Art. 1 A.")

	w := newTestWatcher(t, []string{single, srcDir}, Options{Extensions: []string{"txt", ".TXT"}})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"named file", single, true},
		{"sibling of named file", filepath.Join(dir, "other.txt"), false},
		{"file in watched dir", filepath.Join(srcDir, "annexe.txt"), true},
		{"upper case extension", filepath.Join(srcDir, "ANNEXE.TXT"), true},
		{"file in nested dir", filepath.Join(srcDir, "annexes", "deep.txt"), true},
		{"wrong extension", filepath.Join(srcDir, "notes.md"), false},
		{"hidden dir skipped", filepath.Join(srcDir, ".git", "x.txt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.accepts(tt.path))
		})
	}
}

func TestWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	w := newTestWatcher(t, []string{dir}, Options{Debounce: time.Second, Extensions: []string{".txt"}})

	start := time.Now()
	w.record(fsnotify.Event{Name: b, Op: fsnotify.Write}, start)
	w.record(fsnotify.Event{Name: a, Op: fsnotify.Create}, start)
	w.record(fsnotify.Event{Name: filepath.Join(dir, "c.md"), Op: fsnotify.Write}, start)
	w.record(fsnotify.Event{Name: a, Op: fsnotify.Chmod}, start.Add(900*time.Millisecond))

	assert.Empty(t, w.due(start.Add(500*time.Millisecond)), "nothing is due before the delay")

	// A later write to b restarts its quiet period.
	w.record(fsnotify.Event{Name: b, Op: fsnotify.Write}, start.Add(800*time.Millisecond))

	assert.Equal(t, []string{a}, w.due(start.Add(time.Second)))
	assert.Empty(t, w.due(start.Add(time.Second)), "due paths are removed")
	assert.Equal(t, []string{b}, w.due(start.Add(2*time.Second)))
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.txt")
	touch(t, path, "Art. 1 A.")

	w := newTestWatcher(t, []string{path}, Options{Debounce: 50 * time.Millisecond, Extensions: []string{".txt"}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, p string) {
			handled <- p
		})
	}()

	touch(t, path, "Art. 1 A.\nArt. 2 B.")
	touch(t, path, "Art. 1 A.\nArt. 2 B.\nArt. 3 C.")

	select {
	case got := <-handled:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("change was not handled")
	}

	// Both writes collapse into one call.
	select {
	case extra := <-handled:
		t.Fatalf("unexpected second call for %s", extra)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
