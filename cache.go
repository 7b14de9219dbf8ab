package mustache

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Cache is an in-memory compiled-template cache keyed by source
// string, sized so a long-running server can compile a template once
// per distinct body instead of once per request.
type Cache struct {
	mu        sync.RWMutex
	templates map[string]*Template
	maxSize   int
}

// NewCache returns a Cache holding at most maxSize compiled templates.
func NewCache(maxSize int) *Cache {
	return &Cache{templates: make(map[string]*Template), maxSize: maxSize}
}

// Compile returns the cached Template for src, parsing and storing it
// on a miss. Options are only honored on the first compile of a given
// source; a later call with different options against an already
// cached source still returns the cached result.
func (c *Cache) Compile(src string, opts ...Option) (*Template, error) {
	c.mu.RLock()
	t, ok := c.templates[src]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := ParseString(src, opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.templates) >= c.maxSize {
		for k := range c.templates {
			delete(c.templates, k)
			break
		}
	}
	c.templates[src] = t
	c.mu.Unlock()
	return t, nil
}

// FileCache compiles templates from disk, revalidating against the
// file's modification time so an edited template is recompiled on its
// next use without the caller managing invalidation by hand.
type FileCache struct {
	mu        sync.RWMutex
	templates map[string]*cachedFile
	maxSize   int
}

type cachedFile struct {
	template *Template
	modTime  time.Time
}

// NewFileCache returns a FileCache holding at most maxSize compiled
// templates.
func NewFileCache(maxSize int) *FileCache {
	return &FileCache{templates: make(map[string]*cachedFile), maxSize: maxSize}
}

// CompileFile compiles the template at path, reusing the cached
// version unless the file's modification time has advanced.
func (fc *FileCache) CompileFile(path string, opts ...Option) (*Template, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("mustache: stat %q: %w", path, err)
	}

	fc.mu.RLock()
	cached, ok := fc.templates[path]
	fc.mu.RUnlock()
	if ok && !cached.modTime.Before(info.ModTime()) {
		return cached.template, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mustache: reading %q: %w", path, err)
	}
	if _, named := hasName(opts); !named {
		opts = append(opts, WithName(path))
	}
	t, err := Parse(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("mustache: parsing %q: %w", path, err)
	}

	fc.mu.Lock()
	if len(fc.templates) >= fc.maxSize {
		for k := range fc.templates {
			delete(fc.templates, k)
			break
		}
	}
	fc.templates[path] = &cachedFile{template: t, modTime: info.ModTime()}
	fc.mu.Unlock()
	return t, nil
}

// Invalidate drops path's cached entry, if any.
func (fc *FileCache) Invalidate(path string) {
	fc.mu.Lock()
	delete(fc.templates, path)
	fc.mu.Unlock()
}

// Clear empties the cache.
func (fc *FileCache) Clear() {
	fc.mu.Lock()
	fc.templates = make(map[string]*cachedFile)
	fc.mu.Unlock()
}
