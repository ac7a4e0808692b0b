package deps

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	"github.com/ender-js/ender-package/pkg/fanout"
	"github.com/ender-js/ender-package/pkg/local"
	"github.com/ender-js/ender-package/pkg/observability"
)

// Walker resolves names into dependency graphs. A Walker holds no
// per-walk state and may run concurrent walks.
type Walker struct {
	locator *Locator
	logger  *log.Logger
}

// NewWalker returns a walker that locates packages with l.
func NewWalker(l *Locator) *Walker {
	return &Walker{locator: l, logger: l.logger}
}

// Locator returns the walker's locator.
func (w *Walker) Locator() *Locator { return w.locator }

// located is the outcome of finding one declared name.
type located struct {
	name string
	pkg  *local.Package
	err  error // PACKAGE_NOT_FOUND only; other failures abort the fan-out
}

// locateAll finds names concurrently from root. Not-found results are
// returned in place; every other error aborts and is returned.
func (w *Walker) locateAll(ctx context.Context, names []string, root string) ([]located, error) {
	return fanout.Map(ctx, names, func(ctx context.Context, name string) (located, error) {
		pkg, err := w.locator.Find(ctx, name, root)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return located{name: name, err: err}, nil
			}
			return located{}, err
		}
		return located{name: name, pkg: pkg}, nil
	})
}

// walk is the state of one Walk call.
type walk struct {
	*Walker
	opts      WalkOptions
	seenRoots map[string]bool
	graph     *Graph
}

// Walk resolves names and everything they transitively depend on.
func (w *Walker) Walk(ctx context.Context, names []string, opts WalkOptions) (*Graph, error) {
	start := time.Now()
	observability.Walk().OnWalkStart(ctx, names)

	g, err := w.walk(ctx, names, opts)

	packages, missing := 0, 0
	if g != nil {
		packages, missing = len(g.Packages), len(g.Missing)
	}
	observability.Walk().OnWalkComplete(ctx, names, packages, missing, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("walked dependencies", "names", names, "packages", packages, "missing", missing)
	return g, nil
}

func (w *Walker) walk(ctx context.Context, names []string, opts WalkOptions) (*Graph, error) {
	s := &walk{
		Walker:    w,
		opts:      opts,
		seenRoots: make(map[string]bool),
		graph:     &Graph{Requested: append([]string(nil), names...)},
	}
	if err := s.processNames(ctx, "", names, w.locator.Dir()); err != nil {
		return nil, err
	}
	if opts.Unique {
		s.graph.Packages = uniquePackages(s.graph.Packages)
		s.graph.Missing = uniqueStrings(s.graph.Missing)
	}
	return s.graph, nil
}

// processNames locates the names declared by from (a root, or "" for the
// requested names) and processes them in declaration order.
func (s *walk) processNames(ctx context.Context, from string, names []string, searchRoot string) error {
	found, err := s.locateAll(ctx, names, searchRoot)
	if err != nil {
		return err
	}
	for _, f := range found {
		if f.err != nil {
			if s.opts.Strict {
				return f.err
			}
			s.logger.Debug("missing package", "name", f.name, "from", from)
			s.graph.Missing = append(s.graph.Missing, f.name)
			s.graph.Edges = append(s.graph.Edges, Edge{From: from, Name: f.name})
			continue
		}
		s.graph.Edges = append(s.graph.Edges, Edge{From: from, To: f.pkg.Root(), Name: f.name})
		if err := s.processPackage(ctx, f.pkg); err != nil {
			return err
		}
	}
	return nil
}

// processPackage walks the dependencies of pkg, then appends pkg. A root
// already seen in this walk is skipped.
func (s *walk) processPackage(ctx context.Context, pkg *local.Package) error {
	if s.seenRoots[pkg.Root()] {
		return nil
	}
	s.seenRoots[pkg.Root()] = true

	if err := s.processNames(ctx, pkg.Root(), pkg.Dependencies(), pkg.Root()); err != nil {
		return err
	}
	s.graph.Packages = append(s.graph.Packages, pkg)
	return nil
}

func uniquePackages(pkgs []*local.Package) []*local.Package {
	seen := make(map[string]bool, len(pkgs))
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if name := p.OriginalName(); !seen[name] {
			seen[name] = true
			out = append(out, p)
		}
	}
	return out
}

func uniqueStrings(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
