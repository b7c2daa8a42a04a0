package reload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	mu       sync.Mutex
	err      error
	calls    []string
	infos    []string
	warnings []string
}

func (f *fakeTarget) Reconfigure(configPath, logDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, configPath+" -> "+logDir)
	return f.err
}

func (f *fakeTarget) Info(messageFmt string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos = append(f.infos, fmt.Sprintf(messageFmt, args...))
}

func (f *fakeTarget) Warning(messageFmt string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, fmt.Sprintf(messageFmt, args...))
}

func (f *fakeTarget) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTarget) Warnings() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.warnings...)
}

const testDebounce = 100 * time.Millisecond

func startWatcher(t *testing.T, target *fakeTarget) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("formatters: {}\n"), 0644))

	w := NewWatcher(target, path, "/var/log/rovers", testDebounce)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return w, path
}

func TestNewWatcher_Defaults(t *testing.T) {
	w := NewWatcher(&fakeTarget{}, "config.yaml", "logs", 0)

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.True(t, filepath.IsAbs(w.configPath))
	assert.Equal(t, "config.yaml", filepath.Base(w.configPath))
}

func TestWatcher_ReloadsOnceAfterBurst(t *testing.T) {
	target := &fakeTarget{}
	_, path := startWatcher(t, target)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("# edit %d\n", i)), 0644))
	}

	assert.Eventually(t, func() bool { return target.Calls() == 1 }, 2*time.Second, 10*time.Millisecond)
	// Nothing else arrives once the burst has settled.
	time.Sleep(4 * testDebounce)
	assert.Equal(t, 1, target.Calls())

	target.mu.Lock()
	defer target.mu.Unlock()
	assert.Equal(t, path+" -> /var/log/rovers", target.calls[0])
	assert.Contains(t, target.infos[len(target.infos)-1], "Reloaded logging configuration")
}

func TestWatcher_FollowsReplacedFile(t *testing.T) {
	target := &fakeTarget{}
	_, path := startWatcher(t, target)

	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("loggers: {}\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return target.Calls() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	target := &fakeTarget{}
	_, path := startWatcher(t, target)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0644))

	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, target.Calls())
}

func TestWatcher_FailedReloadWarns(t *testing.T) {
	target := &fakeTarget{err: errors.New("bad document")}
	w, _ := startWatcher(t, target)

	err := w.Reload()
	require.Error(t, err)

	warnings := target.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "bad document")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	target := &fakeTarget{}
	w, path := startWatcher(t, target)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	require.NoError(t, os.WriteFile(path, []byte("# after stop\n"), 0644))
	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, target.Calls())
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	w := NewWatcher(&fakeTarget{}, filepath.Join(t.TempDir(), "missing", "config.yaml"), "logs", testDebounce)
	assert.Error(t, w.Start(context.Background()))
}

func TestWatcher_ContextCancelStopsLoop(t *testing.T) {
	target := &fakeTarget{}
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(target, path, dir, testDebounce)
	require.NoError(t, w.Start(ctx))
	cancel()

	require.NoError(t, w.Stop())
}
