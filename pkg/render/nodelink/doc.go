// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a walk's graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(walk.DAG(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Packages are rounded boxes labelled with their id. Missing dependencies
// are dashed red boxes, the node standing for the requested names is an
// ellipse, and edges closing a dependency cycle are dashed.
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB), so dependents
// sit above their dependencies. It can be rendered with [RenderSVG] or
// saved and processed with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
