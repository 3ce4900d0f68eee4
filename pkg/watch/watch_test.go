package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/borgmon/soc-alerts/pkg/watch"
	"github.com/moby/sys/atomicwriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changes struct {
	mu    sync.Mutex
	paths []string
}

func (c *changes) record(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

func (c *changes) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func TestWatcher_ReportsAtomicReplaceOnce(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "alerts_jdoe.json")
	other := filepath.Join(dir, "unrelated.json")

	got := &changes{}
	w, err := watch.New([]string{target}, 50*time.Millisecond, got.record, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, atomicwriter.WriteFile(target, []byte(`{"alerts": []}`), 0o644))
	}

	require.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	paths := got.snapshot()
	require.Len(t, paths, 1)
	abs, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, abs, paths[0])
}

func TestWatcher_CreatesMissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config", "clipboard_jdoe.json")

	got := &changes{}
	w, err := watch.New([]string{target}, 20*time.Millisecond, got.record, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Dir(target))
		return err == nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
