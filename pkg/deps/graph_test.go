package deps

import (
	"context"
	"slices"
	"testing"

	"github.com/ender-js/ender-package/pkg/dag"
)

func TestGraphDAG(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"B", "Z"}},
		fixture{dir: "node_modules/B", name: "B", deps: []string{"A"}},
	)

	g, err := newTestWalker(root).Walk(context.Background(), []string{"A"}, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	d := g.DAG()

	if got := dag.NodeIDs(d.Nodes()); !slices.Equal(got, []string{ProjectNode, "B@1.0.0", "A@1.0.0", "missing:Z"}) {
		t.Errorf("nodes = %v", got)
	}
	if got := children(d, ProjectNode); !slices.Equal(got, []string{"A@1.0.0"}) {
		t.Errorf("requested = %v", got)
	}
	if got := children(d, "A@1.0.0"); !slices.Equal(got, []string{"B@1.0.0", "missing:Z"}) {
		t.Errorf("children of A = %v", got)
	}
	if got := children(d, "B@1.0.0"); !slices.Equal(got, []string{"A@1.0.0"}) {
		t.Errorf("children of B = %v", got)
	}

	z, _ := d.Node("missing:Z")
	if !z.IsMissing() {
		t.Error("missing:Z is not a missing node")
	}
	if len(d.BackEdges()) != 1 {
		t.Errorf("BackEdges() = %v, want the B -> A cycle", d.BackEdges())
	}
	a, _ := d.Node("A@1.0.0")
	if a.Meta["name"] != "A" || a.Meta["version"] != "1.0.0" {
		t.Errorf("A meta = %v", a.Meta)
	}
}

func TestGraphDAGDuplicateIDs(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"B"}},
		fixture{dir: "node_modules/A/node_modules/B", name: "B"},
		fixture{dir: "node_modules/B", name: "B"},
	)

	g, err := newTestWalker(root).Walk(context.Background(), []string{"A", "B"}, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	d := g.DAG()
	if got := dag.NodeIDs(d.Nodes()); !slices.Equal(got, []string{ProjectNode, "B@1.0.0", "A@1.0.0", "B@1.0.0#2"}) {
		t.Errorf("nodes = %v", got)
	}
	if got := children(d, ProjectNode); !slices.Equal(got, []string{"A@1.0.0", "B@1.0.0#2"}) {
		t.Errorf("requested = %v", got)
	}
}

func children(d *dag.DAG, id string) []string {
	var out []string
	for _, e := range d.Edges() {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}
