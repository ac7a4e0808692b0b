// Package local loads packages that are installed on the local filesystem.
//
// A [Cache] hands out exactly one [*Package] per canonical root directory.
// Packages load lazily and memoize their disk reads: the descriptor is read
// once and the sources are assembled once per load cycle, however many
// goroutines ask for them. [Package.Unload] (or [Cache.Reset]) starts a new
// cycle while the instance, and so its identity, is kept.
//
//	cache := local.NewCache()
//	pkg, err := cache.Load(ctx, "node_modules/bonzo")
//	if err != nil {
//	    return err
//	}
//	if err := pkg.LoadSources(ctx); err != nil {
//	    return err
//	}
//	fmt.Println(pkg.ID(), pkg.Main(), len(pkg.Sources()))
package local

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ender-js/ender-package/pkg/descriptor"
	"github.com/ender-js/ender-package/pkg/files"
)

// Cache maps canonical roots to their packages. It is safe for concurrent use.
type Cache struct {
	fs         files.FS
	classifier descriptor.Classifier
	logger     *log.Logger

	mu   sync.Mutex
	pkgs map[string]*Package
}

// Option configures a Cache.
type Option func(*Cache)

// WithFS sets the filesystem packages are read from. Defaults to [files.OS].
func WithFS(fsys files.FS) Option {
	return func(c *Cache) { c.fs = fsys }
}

// WithClassifier sets the descriptor conventions.
func WithClassifier(cl descriptor.Classifier) Option {
	return func(c *Cache) { c.classifier = cl }
}

// WithLogger sets the logger for debug output. Defaults to discarding.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// NewCache returns an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{pkgs: make(map[string]*Package)}
	for _, opt := range opts {
		opt(c)
	}
	if c.fs == nil {
		c.fs = files.OS{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// FS returns the filesystem the cache reads from.
func (c *Cache) FS() files.FS { return c.fs }

// Classifier returns the descriptor conventions in use.
func (c *Cache) Classifier() descriptor.Classifier { return c.classifier }

// Logger returns the cache's logger.
func (c *Cache) Logger() *log.Logger { return c.logger }

// Get returns the package rooted at root, creating an unloaded one if the
// root was not seen before. Roots that differ only in spelling ("a/b/",
// "./a/b", an absolute form) share one instance.
func (c *Cache) Get(root string) *Package {
	root = Canonical(root)

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pkgs[root]; ok {
		return p
	}
	p := &Package{root: root, cache: c}
	c.pkgs[root] = p
	return p
}

// Load returns the package at root with its descriptor loaded.
func (c *Cache) Load(ctx context.Context, root string) (*Package, error) {
	p := c.Get(root)
	if err := p.LoadDescriptor(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset unloads the package at root, if the cache holds one.
func (c *Cache) Reset(root string) {
	root = Canonical(root)

	c.mu.Lock()
	p, ok := c.pkgs[root]
	c.mu.Unlock()
	if ok {
		p.Unload()
	}
}

// Roots returns the roots of all packages handed out so far, sorted.
func (c *Cache) Roots() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	roots := make([]string, 0, len(c.pkgs))
	for r := range c.pkgs {
		roots = append(roots, r)
	}
	slices.Sort(roots)
	return roots
}

// Canonical returns the absolute, cleaned form of root.
func Canonical(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return filepath.Clean(root)
}
