package mustache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ReloadCallback is invoked after a watched partial is recompiled,
// successfully or not.
type ReloadCallback func(name string, template *Template, err error)

// Watcher keeps a directory of partial templates compiled and
// up to date, recompiling a file as soon as fsnotify reports it
// changed rather than polling modification times. It implements
// PartialsResolver so it can be handed straight to WithPartials.
type Watcher struct {
	mu        sync.RWMutex
	dir       string
	ext       string
	opts      []Option
	templates map[string]*Template
	callbacks []ReloadCallback

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher compiles every file under dir matching ext (e.g. ".mustache")
// as a partial named by its base filename without extension, then
// watches dir for further changes.
func NewWatcher(dir, ext string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("mustache: creating watcher: %w", err)
	}
	w := &Watcher{
		dir:       dir,
		ext:       ext,
		opts:      opts,
		templates: make(map[string]*Template),
		watcher:   fw,
		done:      make(chan struct{}),
	}
	if err := w.loadAll(); err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("mustache: watching %q: %w", dir, err)
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loadAll() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("mustache: reading %q: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), w.ext) {
			continue
		}
		if err := w.compile(entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) compile(filename string) error {
	name := partialName(filename, w.ext)
	path := filepath.Join(w.dir, filename)
	t, err := ParseFile(path, w.opts...)
	if err != nil {
		DefaultLogger().WithField("partial", name).Error("recompile failed: %v", err)
		w.notify(name, nil, err)
		return err
	}
	w.mu.Lock()
	w.templates[name] = t
	w.mu.Unlock()
	DefaultLogger().WithField("partial", name).Debug("recompiled")
	w.notify(name, t, nil)
	return nil
}

func (w *Watcher) remove(filename string) {
	name := partialName(filename, w.ext)
	w.mu.Lock()
	delete(w.templates, name)
	w.mu.Unlock()
}

func partialName(filename, ext string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, ext)
}

// AddCallback registers a function called whenever a watched partial
// is (re)compiled.
func (w *Watcher) AddCallback(cb ReloadCallback) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, cb)
	w.mu.Unlock()
}

func (w *Watcher) notify(name string, t *Template, err error) {
	w.mu.RLock()
	cbs := append([]ReloadCallback(nil), w.callbacks...)
	w.mu.RUnlock()
	for _, cb := range cbs {
		cb(name, t, err)
	}
}

// Partial implements PartialsResolver.
func (w *Watcher) Partial(name string) (*Template, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.templates[name]
	return t, ok
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, w.ext) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.compile(filepath.Base(ev.Name))
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.remove(filepath.Base(ev.Name))
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops watching and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
