// Package watch keeps a package cache fresh while files change on disk.
//
// A [Watcher] watches the roots of a walk recursively. Events are
// coalesced over a debounce window; when the window closes every changed
// path is mapped to the deepest cached package root containing it, those
// roots are reset in the cache, and the OnChange callback runs with them.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/ender-js/ender-package/pkg/local"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 250 * time.Millisecond

var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Cache is reset for every root that changes. Required.
	Cache *local.Cache
	// Roots are the directories to watch recursively.
	Roots []string
	// Ignore adds doublestar patterns, matched against slash-separated
	// absolute paths, to the built-in ignores.
	Ignore []string
	// Debounce is the quiet period after the last event before roots are
	// reset.
	Debounce time.Duration
	// OnChange runs after the reset with the roots that changed, sorted.
	OnChange func(ctx context.Context, roots []string) error
	// Logger receives watch diagnostics. Nil discards them.
	Logger *log.Logger
}

// Watcher watches package roots. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	debounce time.Duration
	logger   *log.Logger
	started  atomic.Bool

	mu      sync.Mutex
	watched map[string]bool
}

// New validates cfg and registers every non-ignored directory under the
// roots.
func New(cfg Config) (*Watcher, error) {
	if cfg.Cache == nil {
		return nil, errors.New("watch: cache is required")
	}
	for _, p := range cfg.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", p)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		logger:   logger,
		watched:  make(map[string]bool),
	}

	for _, root := range topLevel(cfg.Roots) {
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Add starts watching more roots, such as the packages of a newer walk.
func (w *Watcher) Add(roots ...string) error {
	for _, root := range topLevel(roots) {
		if err := w.addTree(root); err != nil {
			return err
		}
	}
	return nil
}

// WatchedDirs returns the registered directories, sorted.
func (w *Watcher) WatchedDirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.watched))
	for d := range w.watched {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}

// Run processes events until ctx ends. It returns nil on cancellation and
// an error if the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 {
			return
		}

		roots := w.resetOwners(changed)
		if len(roots) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, roots); err != nil {
			w.logger.Warn("watch callback failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if w.isIgnored(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			w.logger.Debug("change", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// resetOwners resets the owning root of every changed path and returns
// those roots.
func (w *Watcher) resetOwners(changed []string) []string {
	known := w.cfg.Cache.Roots()
	seen := make(map[string]bool)
	for _, p := range changed {
		root, ok := Owner(known, p)
		if !ok || seen[root] {
			continue
		}
		seen[root] = true
		w.cfg.Cache.Reset(root)
		w.logger.Debug("reset", "root", root)
	}

	roots := make([]string, 0, len(seen))
	for r := range seen {
		roots = append(roots, r)
	}
	slices.Sort(roots)
	return roots
}

// Owner returns the deepest root that contains path.
func Owner(roots []string, path string) (string, bool) {
	best := ""
	for _, r := range roots {
		if within(r, path) && len(r) > len(best) {
			best = r
		}
	}
	return best, best != ""
}

func within(root, path string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// topLevel drops roots nested in other roots, since trees are watched
// recursively.
func topLevel(roots []string) []string {
	var out []string
	for _, r := range roots {
		r = local.Canonical(r)
		nested := slices.ContainsFunc(roots, func(o string) bool {
			o = local.Canonical(o)
			return o != r && within(o, r)
		})
		if !nested && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.isIgnored(path) || w.isIgnored(path+"/") {
			return filepath.SkipDir
		}
		return w.add(path)
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch: add directory %q: %w", dir, err)
	}
	w.watched[dir] = true
	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("add new directory", "path", path, "err", err)
	}
}

func (w *Watcher) isIgnored(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, pat := range w.ignores {
		if ok, err := doublestar.Match(pat, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// isFatal reports resource exhaustion, after which the watcher cannot
// recover.
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
