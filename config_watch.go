package arbor

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher keeps a Config in sync with a YAML file on disk. The game
// loop reads Config once per frame; a background goroutine reloads the file
// whenever it is written. A file that fails to parse leaves the previous
// config in place and is reported by Err.
type ConfigWatcher struct {
	path string
	fsw  *fsnotify.Watcher

	cfg     atomic.Pointer[Config]
	version atomic.Uint64

	mu  sync.Mutex
	err error

	done chan struct{}
	wg   sync.WaitGroup
}

// WatchConfig loads path and starts watching it. A missing file yields
// DefaultConfig until the file is created.
func WatchConfig(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	cfg, err := LoadConfig(abs)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	// Watch the directory so editors that replace the file atomically are
	// still seen.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}

	w := &ConfigWatcher{path: abs, fsw: fsw, done: make(chan struct{})}
	w.cfg.Store(&cfg)
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *ConfigWatcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.setErr(err)
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.setErr(err)
		return
	}
	w.setErr(nil)
	w.cfg.Store(&cfg)
	w.version.Add(1)
}

func (w *ConfigWatcher) setErr(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

// Config returns the most recently loaded config.
func (w *ConfigWatcher) Config() Config {
	return *w.cfg.Load()
}

// Version counts successful reloads. Compare it across frames to notice a
// change without comparing configs.
func (w *ConfigWatcher) Version() uint64 {
	return w.version.Load()
}

// Err returns the error of the last reload attempt, if it failed.
func (w *ConfigWatcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close stops watching. It is safe to call more than once.
func (w *ConfigWatcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
