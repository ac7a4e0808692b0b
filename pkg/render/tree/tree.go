// Package tree renders the nested form of a dependency walk as a terminal
// tree, one line per package occurrence.
//
// First occurrences read "name@version - description" with the name in
// yellow; repeats are grey and carry no children. Names that could not be
// found read "name - MISSING" in red.
package tree

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtree "github.com/charmbracelet/lipgloss/tree"

	"github.com/ender-js/ender-package/pkg/deps"
)

var (
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorRed    = lipgloss.Color("167")
	colorDim    = lipgloss.Color("240")
)

var (
	styleHeading = lipgloss.NewStyle().Bold(true)
	styleName    = lipgloss.NewStyle().Foreground(colorYellow)
	styleText    = lipgloss.NewStyle().Foreground(colorWhite)
	styleRepeat  = lipgloss.NewStyle().Foreground(colorGray)
	styleMissing = lipgloss.NewStyle().Foreground(colorRed)
	styleBranch  = lipgloss.NewStyle().Foreground(colorDim).PaddingRight(1)
)

// Options configures tree rendering.
type Options struct {
	// Plain disables colors, for pipes and logs.
	Plain bool
}

// Render draws t, heading first.
func Render(t *deps.Tree, opts Options) string {
	heading := t.Heading
	if heading == "" {
		heading = deps.TreeHeading
	}
	if !opts.Plain {
		heading = styleHeading.Render(heading)
	}

	root := lgtree.Root(heading)
	if !opts.Plain {
		root = root.EnumeratorStyle(styleBranch)
	}
	for _, n := range t.Nodes {
		root.Child(branch(n, opts))
	}
	return root.String()
}

// Write renders t to w followed by a newline.
func Write(w io.Writer, t *deps.Tree, opts Options) error {
	_, err := io.WriteString(w, Render(t, opts)+"\n")
	return err
}

func branch(n *deps.TreeNode, opts Options) any {
	label := Label(n, opts.Plain)
	if len(n.Children) == 0 {
		return label
	}
	t := lgtree.Root(label)
	if !opts.Plain {
		t = t.EnumeratorStyle(styleBranch)
	}
	for _, c := range n.Children {
		t.Child(branch(c, opts))
	}
	return t
}

// Label returns the line for a single node.
func Label(n *deps.TreeNode, plain bool) string {
	if n.Missing {
		label := n.Name + " - MISSING"
		if plain {
			return label
		}
		return styleMissing.Render(label)
	}

	id := n.Name + "@" + n.Version
	if plain {
		return id + " - " + n.Description
	}
	if !n.First {
		return styleRepeat.Render(id + " - " + n.Description)
	}
	return styleName.Render(id) + styleText.Render(" - "+n.Description)
}
