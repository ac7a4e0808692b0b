package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/ender-js/ender-package/pkg/dag"
)

func TestToDOT_Basic(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "bonzo@1.0.0"})
	_ = g.AddNode(dag.Node{ID: "qwery@3.4.0"})
	_ = g.AddEdge(dag.Edge{From: "bonzo@1.0.0", To: "qwery@3.4.0"})

	dot := ToDOT(g, Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"bonzo@1.0.0" [label="bonzo@1.0.0"];`,
		`"qwery@3.4.0" [label="qwery@3.4.0"];`,
		`"bonzo@1.0.0" -> "qwery@3.4.0";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	build := func() *dag.DAG {
		g := dag.New(nil)
		for _, id := range []string{"a", "b", "c", "d"} {
			_ = g.AddNode(dag.Node{ID: id})
		}
		_ = g.AddEdge(dag.Edge{From: "a", To: "c"})
		_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
		_ = g.AddEdge(dag.Edge{From: "b", To: "d"})
		return g
	}
	if ToDOT(build(), Options{}) != ToDOT(build(), Options{}) {
		t.Error("ToDOT() output differs between equal graphs")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "bonzo@1.0.0", Meta: dag.Metadata{"version": "1.0.0", "description": ""}})

	dot := ToDOT(g, Options{Detailed: true})

	if !strings.Contains(dot, `version: 1.0.0`) {
		t.Errorf("ToDOT() detailed missing metadata:\n%s", dot)
	}
	if strings.Contains(dot, "description:") {
		t.Errorf("ToDOT() detailed shows empty metadata:\n%s", dot)
	}
}

func TestToDOT_MissingAndVirtual(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "__project__", Kind: dag.NodeKindVirtual})
	_ = g.AddNode(dag.Node{ID: "missing:ghost", Kind: dag.NodeKindMissing, Meta: dag.Metadata{"name": "ghost"}})
	_ = g.AddEdge(dag.Edge{From: "__project__", To: "missing:ghost"})

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, `label="requested", shape=ellipse`) {
		t.Errorf("ToDOT() virtual node not styled:\n%s", dot)
	}
	if !strings.Contains(dot, `label="ghost - MISSING"`) || !strings.Contains(dot, "color=firebrick") {
		t.Errorf("ToDOT() missing node not styled:\n%s", dot)
	}
}

func TestToDOT_Cycle(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Errorf("ToDOT() forward edge styled:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" -> "a" [style=dashed];`) {
		t.Errorf("ToDOT() back edge not dashed:\n%s", dot)
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	n := dag.Node{ID: "test-node", Meta: dag.Metadata{"version": "1.0.0"}}
	if got := fmtLabel(n, false); got != "test-node" {
		t.Errorf("fmtLabel() = %q, want %q", got, "test-node")
	}
}

func TestFmtLabel_DetailedSorted(t *testing.T) {
	n := dag.Node{ID: "test-node", Meta: dag.Metadata{"version": "2", "name": "test"}}
	want := "test-node\nname: test\nversion: 2"
	if got := fmtLabel(n, true); got != want {
		t.Errorf("fmtLabel() = %q, want %q", got, want)
	}
}

func TestFmtAttrs_Package(t *testing.T) {
	attrs := fmtAttrs(dag.Node{ID: "p"}, "p")
	if len(attrs) != 1 || !strings.HasPrefix(attrs[0], "label=") {
		t.Errorf("fmtAttrs() package node = %v, want only a label", attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), `digraph G { a -> b; }`)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
