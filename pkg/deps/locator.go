package deps

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/ender-js/ender-package/pkg/descriptor"
	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	"github.com/ender-js/ender-package/pkg/local"
	"github.com/ender-js/ender-package/pkg/memo"
)

// Locator finds packages by specifier.
type Locator struct {
	cache  *local.Cache
	dir    string
	logger *log.Logger
}

// NewLocator returns a locator loading packages through cache. dir is the
// working directory: relative paths resolve against it and top-level
// package names are searched from it. An empty dir means the process
// working directory.
func NewLocator(cache *local.Cache, dir string) *Locator {
	if dir == "" {
		dir = "."
	}
	return &Locator{cache: cache, dir: local.Canonical(dir), logger: cache.Logger()}
}

// Dir returns the canonical working directory.
func (l *Locator) Dir() string { return l.dir }

// Cache returns the package cache the locator loads through.
func (l *Locator) Cache() *local.Cache { return l.cache }

// Find locates the package named by name, searching upward from root for
// package names. An empty root searches from the working directory.
func (l *Locator) Find(ctx context.Context, name, root string) (*local.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch l.cache.Classifier().Classify(name) {
	case descriptor.KindPath:
		return l.cache.Load(ctx, l.resolvePath(name))

	case descriptor.KindPackage:
		if root == "" {
			root = l.dir
		} else if !filepath.IsAbs(root) {
			root = filepath.Join(l.dir, root)
		}
		return l.search(ctx, name, filepath.Clean(root))
	}

	return nil, pkgerrors.PackageNotLocal(name)
}

func (l *Locator) resolvePath(name string) string {
	if name == "~" || strings.HasPrefix(name, "~/") || strings.HasPrefix(name, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, name[1:])
		}
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.dir, name)
}

// search looks for name at root and in root's modules directory, then
// repeats in each parent until the filesystem root.
func (l *Locator) search(ctx context.Context, name, root string) (*local.Package, error) {
	cl := l.cache.Classifier()
	for {
		for _, dir := range []string{root, cl.ChildRoot(name, root)} {
			pkg, err := l.candidate(ctx, dir)
			if err != nil {
				return nil, err
			}
			if pkg != nil && pkg.OriginalName() == name {
				l.logger.Debug("found package", "name", name, "root", pkg.Root())
				return pkg, nil
			}
		}

		parent := filepath.Dir(root)
		if parent == root {
			return nil, pkgerrors.PackageNotFound(name)
		}
		root = parent
	}
}

// candidate loads the package at dir. A directory whose descriptor cannot
// be loaded, for whatever reason, is not a match and yields nil. Only
// cancellation is returned.
func (l *Locator) candidate(ctx context.Context, dir string) (*local.Package, error) {
	pkg, err := l.cache.Load(ctx, dir)
	if err == nil {
		return pkg, nil
	}
	if memo.IsContextError(err) {
		return nil, err
	}
	if !isAbsent(err) {
		l.logger.Debug("skipping candidate", "root", dir, "err", err)
	}
	return nil, nil
}

func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
