package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ender-js/ender-package/pkg/dag"
)

var kindToString = map[dag.NodeKind]string{
	dag.NodeKindVirtual: "virtual",
	dag.NodeKindMissing: "missing",
}

var kindFromString = map[string]dag.NodeKind{
	"virtual": dag.NodeKindVirtual,
	"missing": dag.NodeKindMissing,
}

type graph struct {
	Meta  dag.Metadata `json:"meta,omitempty"`
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Kind string       `json:"kind,omitempty"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteGraph encodes a graph as indented JSON and writes it to w.
func WriteGraph(w io.Writer, g *dag.DAG) error {
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	if len(g.Meta()) > 0 {
		out.Meta = g.Meta()
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID, Kind: kindToString[n.Kind]}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph written by [WriteGraph]. It fails on
// malformed JSON, duplicate node IDs and edges naming unknown nodes, with
// the offending node or edge in the message. ReadGraph does not close r.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(data.Meta)
	for _, n := range data.Nodes {
		nd := dag.Node{ID: n.ID, Kind: kindFromString[n.Kind], Meta: n.Meta}
		if err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ExportGraph writes a graph to a JSON file at path.
func ExportGraph(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
