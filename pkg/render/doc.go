// Package render draws dependency walks for people.
//
//   - [tree] renders the nested tree with lipgloss, as shown by the
//     tree command.
//   - [nodelink] renders the flattened graph as a Graphviz diagram (DOT
//     source or SVG).
//
// [tree]: github.com/ender-js/ender-package/pkg/render/tree
// [nodelink]: github.com/ender-js/ender-package/pkg/render/nodelink
package render
