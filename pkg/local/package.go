package local

import (
	"context"
	"maps"
	"path/filepath"
	"sync"
	"time"

	"github.com/ender-js/ender-package/pkg/descriptor"
	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	"github.com/ender-js/ender-package/pkg/memo"
	"github.com/ender-js/ender-package/pkg/observability"
)

// Package is a package installed at a root directory. Obtain one from
// [Cache.Get] or [Cache.Load]; the zero value is not usable.
//
// Accessors return zero values until the matching load has completed:
// descriptor fields need [Package.LoadDescriptor], sources need
// [Package.LoadSources].
type Package struct {
	root  string
	cache *Cache

	descCell memo.Cell[*descriptor.Descriptor]
	srcCell  memo.Cell[int]

	mu      sync.RWMutex
	gen     uint64 // bumped by Unload; stale loads do not publish
	desc    *descriptor.Descriptor
	sources map[string]string
	main    string
	bridge  string
}

// Root returns the canonical root directory.
func (p *Package) Root() string { return p.root }

// Descriptor returns the loaded descriptor, or nil.
func (p *Package) Descriptor() *descriptor.Descriptor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.desc
}

// Loaded reports whether the descriptor is loaded in the current cycle.
func (p *Package) Loaded() bool { return p.Descriptor() != nil }

// Name returns the display name (the override name when declared).
func (p *Package) Name() string {
	if d := p.Descriptor(); d != nil {
		return d.Name()
	}
	return ""
}

// OriginalName returns the descriptor's own name, ignoring overrides.
func (p *Package) OriginalName() string {
	if d := p.Descriptor(); d != nil {
		return d.RawName
	}
	return ""
}

// Version returns the declared version, or "".
func (p *Package) Version() string {
	if d := p.Descriptor(); d != nil {
		return d.Version()
	}
	return ""
}

// Description returns the declared description, or "".
func (p *Package) Description() string {
	if d := p.Descriptor(); d != nil {
		return d.Description()
	}
	return ""
}

// Bare reports whether the descriptor sets a truthy "bare" flag.
func (p *Package) Bare() bool {
	if d := p.Descriptor(); d != nil {
		return d.Bare()
	}
	return false
}

// ID identifies the package as originalName@version.
func (p *Package) ID() string {
	return p.OriginalName() + "@" + p.Version()
}

// Dependencies returns the declared dependency names, versions stripped,
// in declaration order.
func (p *Package) Dependencies() []string {
	d := p.Descriptor()
	if d == nil {
		return nil
	}
	entries := d.Dependencies()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = p.cache.classifier.ExtractName(e)
	}
	return names
}

// Externs returns the declared extern files joined onto the root.
func (p *Package) Externs() []string {
	d := p.Descriptor()
	if d == nil {
		return nil
	}
	var out []string
	for _, e := range d.Externs() {
		out = append(out, filepath.Join(p.root, filepath.FromSlash(e)))
	}
	return out
}

// ExtendExterns returns existing followed by this package's externs.
// existing is returned unchanged when the package declares none.
func (p *Package) ExtendExterns(existing []string) []string {
	ext := p.Externs()
	if len(ext) == 0 {
		return existing
	}
	out := make([]string, 0, len(existing)+len(ext))
	out = append(out, existing...)
	return append(out, ext...)
}

// Sources returns a copy of the assembled sources, keyed by logical name.
func (p *Package) Sources() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.sources)
}

// Source returns one assembled source.
func (p *Package) Source(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sources[name]
	return s, ok
}

// Main returns the sources key of the main module, or "" if unresolved.
func (p *Package) Main() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.main
}

// Bridge returns the sources key of the bridge module, or "" if unresolved.
func (p *Package) Bridge() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bridge
}

// LoadDescriptor reads and parses the descriptor once per load cycle.
// Concurrent callers share a single read and all observe its outcome,
// including failures, until the package is unloaded.
func (p *Package) LoadDescriptor(ctx context.Context) error {
	_, err := p.descCell.Do(ctx, func() (*descriptor.Descriptor, error) {
		gen := p.generation()
		start := time.Now()
		observability.Load().OnDescriptorStart(ctx, p.root)

		d, err := p.readDescriptor(ctx)
		observability.Load().OnDescriptorComplete(ctx, p.root, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		if p.gen == gen {
			p.desc = d
		}
		p.mu.Unlock()
		p.cache.logger.Debug("loaded descriptor", "root", p.root, "name", d.RawName, "version", d.Version())
		return d, nil
	})
	return err
}

func (p *Package) readDescriptor(ctx context.Context) (*descriptor.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := p.cache.classifier.DescriptorPath(p.root)
	data, err := p.cache.fs.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Filesystem(err)
	}
	d, err := p.cache.classifier.Parse([]byte(data))
	if err != nil {
		return nil, pkgerrors.JSONParse(path, err)
	}
	return d, nil
}

// LoadSources assembles the main, bridge and files declarations into
// sources, loading the descriptor first if needed. Assembly runs once per
// load cycle; later calls return the first outcome.
func (p *Package) LoadSources(ctx context.Context) error {
	if err := p.LoadDescriptor(ctx); err != nil {
		return err
	}
	_, err := p.srcCell.Do(ctx, func() (int, error) {
		gen := p.generation()
		d := p.Descriptor()
		if d == nil {
			// Unloaded between the two loads.
			if err := p.LoadDescriptor(ctx); err != nil {
				return 0, err
			}
			d = p.Descriptor()
		}

		start := time.Now()
		observability.Load().OnSourcesStart(ctx, p.root)
		res, err := assemble(ctx, p.cache.fs, p.root, d)
		count := 0
		if res != nil {
			count = len(res.sources)
		}
		observability.Load().OnSourcesComplete(ctx, p.root, count, time.Since(start), err)
		if err != nil {
			return 0, err
		}

		p.mu.Lock()
		if p.gen == gen {
			p.sources = res.sources
			p.main = res.main
			p.bridge = res.bridge
		}
		p.mu.Unlock()
		p.cache.logger.Debug("assembled sources", "root", p.root, "count", count, "main", res.main, "bridge", res.bridge)
		return count, nil
	})
	return err
}

// Unload forgets everything loaded from disk. The next load reads the
// descriptor and assembles sources again.
func (p *Package) Unload() {
	p.mu.Lock()
	p.gen++
	p.desc = nil
	p.sources = nil
	p.main = ""
	p.bridge = ""
	p.mu.Unlock()

	p.descCell.Reset()
	p.srcCell.Reset()
	p.cache.logger.Debug("unloaded package", "root", p.root)
}

func (p *Package) generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}
