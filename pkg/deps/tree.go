package deps

import "context"

// TreeHeading labels the root of a dependency tree.
const TreeHeading = "Active packages:"

// Tree is the nested form of a walk, for display.
type Tree struct {
	Heading string
	Nodes   []*TreeNode
}

// TreeNode is one occurrence of a package in a [Tree].
//
// First is set on the first occurrence of a root in depth-first,
// declaration order. Later occurrences are leaves: their dependencies are
// shown once, under the first. A name that could not be found becomes a
// Missing leaf carrying only the requested name.
type TreeNode struct {
	Name        string      `json:"name"`
	Version     string      `json:"version,omitempty"`
	Description string      `json:"description,omitempty"`
	Root        string      `json:"root,omitempty"`
	First       bool        `json:"first"`
	Missing     bool        `json:"missing,omitempty"`
	Children    []*TreeNode `json:"children,omitempty"`
}

// Tree resolves names like Walk but keeps the nesting of declarations.
// Names that cannot be found become missing leaves; any other failure
// aborts.
func (w *Walker) Tree(ctx context.Context, names []string) (*Tree, error) {
	seen := make(map[string]bool)
	nodes, err := w.treeNodes(ctx, names, w.locator.Dir(), seen)
	if err != nil {
		return nil, err
	}
	return &Tree{Heading: TreeHeading, Nodes: nodes}, nil
}

func (w *Walker) treeNodes(ctx context.Context, names []string, searchRoot string, seen map[string]bool) ([]*TreeNode, error) {
	found, err := w.locateAll(ctx, names, searchRoot)
	if err != nil {
		return nil, err
	}

	nodes := make([]*TreeNode, 0, len(found))
	for _, f := range found {
		if f.err != nil {
			nodes = append(nodes, &TreeNode{Name: f.name, Missing: true})
			continue
		}

		pkg := f.pkg
		node := &TreeNode{
			Name:        pkg.Name(),
			Version:     pkg.Version(),
			Description: pkg.Description(),
			Root:        pkg.Root(),
			First:       !seen[pkg.Root()],
		}
		seen[pkg.Root()] = true
		if node.First {
			node.Children, err = w.treeNodes(ctx, pkg.Dependencies(), pkg.Root(), seen)
			if err != nil {
				return nil, err
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Walk visits every node depth-first, parents before children.
func (t *Tree) Walk(fn func(n *TreeNode, depth int)) {
	var visit func(nodes []*TreeNode, depth int)
	visit = func(nodes []*TreeNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(t.Nodes, 0)
}

// MissingNames returns the names of missing leaves in tree order.
func (t *Tree) MissingNames() []string {
	var out []string
	t.Walk(func(n *TreeNode, _ int) {
		if n.Missing {
			out = append(out, n.Name)
		}
	})
	return out
}
