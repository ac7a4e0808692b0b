package deps

import (
	"fmt"

	"github.com/ender-js/ender-package/pkg/dag"
)

// ProjectNode is the virtual node standing for the requested names.
const ProjectNode = "__project__"

// MissingPrefix prefixes the node IDs of missing names.
const MissingPrefix = "missing:"

// DAG converts the walk into a graph. Packages become nodes keyed by id
// (suffixed with "#n" when several roots share an id), missing names
// become [dag.NodeKindMissing] nodes, and the requested names hang off
// [ProjectNode]. Declarations involving packages dropped by
// [WalkOptions.Unique] are left out.
func (g *Graph) DAG() *dag.DAG {
	d := dag.New(dag.Metadata{"requested": g.Requested})
	_ = d.AddNode(dag.Node{ID: ProjectNode, Kind: dag.NodeKindVirtual})

	ids := make(map[string]string, len(g.Packages))
	for _, p := range g.Packages {
		id := p.ID()
		for n := 2; ; n++ {
			if _, taken := d.Node(id); !taken {
				break
			}
			id = fmt.Sprintf("%s#%d", p.ID(), n)
		}
		_ = d.AddNode(dag.Node{ID: id, Meta: dag.Metadata{
			"name":        p.Name(),
			"version":     p.Version(),
			"description": p.Description(),
			"root":        p.Root(),
		}})
		ids[p.Root()] = id
	}
	for _, name := range g.Missing {
		_ = d.AddNode(dag.Node{ID: MissingPrefix + name, Kind: dag.NodeKindMissing, Meta: dag.Metadata{"name": name}})
	}

	for _, e := range g.Edges {
		from := ProjectNode
		if e.From != "" {
			var ok bool
			if from, ok = ids[e.From]; !ok {
				continue
			}
		}
		to, ok := ids[e.To]
		if e.To == "" {
			to, ok = MissingPrefix+e.Name, true
		}
		if !ok {
			continue
		}
		_ = d.AddEdge(dag.Edge{From: from, To: to})
	}
	return d
}
