package reload

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

// DefaultDebounce is used when NewWatcher is given a zero interval.
const DefaultDebounce = 500 * time.Millisecond

// Target is what a Watcher reconfigures. *logging.Facade satisfies it.
type Target interface {
	Reconfigure(configPath, logDir string) error
	Info(messageFmt string, args ...interface{})
	Warning(messageFmt string, args ...interface{})
}

// Watcher reapplies a logging configuration whenever its file changes.
//
// It watches the directory containing the file rather than the file itself,
// so editors that replace the file on save are followed too. Bursts of events
// are debounced into one reload.
type Watcher struct {
	mu sync.Mutex

	target     Target
	configPath string
	logDir     string

	// debounce is how long to wait for further changes before reloading
	debounce time.Duration
	timer    *time.Timer

	watcher *fsnotify.Watcher
	group   singleflight.Group

	stopCh  chan struct{}
	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher for configPath. Reloads always apply the
// file into logDir.
func NewWatcher(target Target, configPath, logDir string, debounce time.Duration) *Watcher {
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		configPath = abs
	}

	return &Watcher{
		target:     target,
		configPath: filepath.Clean(configPath),
		logDir:     logDir,
		debounce:   debounce,
	}
}

// Start begins watching. It returns once the watch is in place; events are
// processed in the background until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.configPath)); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh, w.done)

	w.target.Info("Watching %s for logging configuration changes", w.configPath)
	return nil
}

// Stop ends the watch and waits for the event loop to exit. A reload that
// is already running is not interrupted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	watcher, done := w.watcher, w.done
	w.watcher = nil
	w.mu.Unlock()

	err := watcher.Close()
	<-done
	return err
}

// Reload reapplies the configuration now. Concurrent calls share a single
// Reconfigure.
func (w *Watcher) Reload() error {
	_, err, _ := w.group.Do(w.configPath, func() (interface{}, error) {
		return nil, w.target.Reconfigure(w.configPath, w.logDir)
	})
	if err != nil {
		w.target.Warning("Failed to reload logging configuration from %s: %v", w.configPath, err)
		return err
	}
	w.target.Info("Reloaded logging configuration from %s", w.configPath)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return

		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.schedule()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				w.target.Warning("Logging configuration watcher error: %v", err)
				continue
			}
			// Events were lost, the file may have changed.
			w.schedule()
		}
	}
}

// relevant reports whether event may have changed the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.configPath {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		running := w.running
		w.mu.Unlock()

		if running {
			_ = w.Reload()
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
