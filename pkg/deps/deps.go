package deps

import (
	"github.com/ender-js/ender-package/pkg/local"
)

// WalkOptions configures [Walker.Walk].
type WalkOptions struct {
	// Unique keeps only the first package per original name and the first
	// occurrence of each missing name.
	Unique bool
	// Strict fails the walk on the first name that cannot be found instead
	// of recording it as missing.
	Strict bool
}

// Graph is the result of a walk.
type Graph struct {
	Requested []string         // Names the walk started from
	Packages  []*local.Package // Post-order: dependencies before dependents
	Missing   []string         // Names that could not be found, in encounter order
	Edges     []Edge           // Every resolved or missing declaration seen
}

// Edge records one declaration encountered during a walk.
type Edge struct {
	From string // Root of the declaring package; "" for a requested name
	To   string // Root of the resolved package; "" when missing
	Name string // Declared name
}

// Package returns the walked package rooted at root.
func (g *Graph) Package(root string) (*local.Package, bool) {
	for _, p := range g.Packages {
		if p.Root() == root {
			return p, true
		}
	}
	return nil, false
}

// Roots returns the roots of the walked packages in walk order.
func (g *Graph) Roots() []string {
	roots := make([]string, len(g.Packages))
	for i, p := range g.Packages {
		roots[i] = p.Root()
	}
	return roots
}

// IDs returns the ids of the walked packages in walk order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.Packages))
	for i, p := range g.Packages {
		ids[i] = p.ID()
	}
	return ids
}
