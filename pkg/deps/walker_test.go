package deps

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
)

func TestWalkChain(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"B"}},
		fixture{dir: "node_modules/B", name: "B", deps: []string{"C"}},
		fixture{dir: "node_modules/C", name: "C"},
	)

	g, err := newTestWalker(root).Walk(context.Background(), []string{"A"}, WalkOptions{})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if got := names(g.Packages); !slices.Equal(got, []string{"C", "B", "A"}) {
		t.Errorf("Packages = %v, want [C B A]", got)
	}
	if len(g.Missing) != 0 {
		t.Errorf("Missing = %v, want none", g.Missing)
	}
}

func TestWalkDeclarationOrder(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/app", name: "app", deps: []string{"z", "y", "x"}},
		fixture{dir: "node_modules/x", name: "x"},
		fixture{dir: "node_modules/y", name: "y", deps: []string{"x"}},
		fixture{dir: "node_modules/z", name: "z"},
	)

	w := newTestWalker(root)
	for range 10 {
		g, err := w.Walk(context.Background(), []string{"app"}, WalkOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if got := names(g.Packages); !slices.Equal(got, []string{"z", "x", "y", "app"}) {
			t.Fatalf("Packages = %v, want [z x y app]", got)
		}
	}
}

func TestWalkMissing(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"B", "zz-not-installed"}},
		fixture{dir: "node_modules/B", name: "B"},
	)
	w := newTestWalker(root)

	t.Run("non-strict", func(t *testing.T) {
		g, err := w.Walk(context.Background(), []string{"A"}, WalkOptions{})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if got := names(g.Packages); !slices.Equal(got, []string{"B", "A"}) {
			t.Errorf("Packages = %v, want [B A]", got)
		}
		if !slices.Equal(g.Missing, []string{"zz-not-installed"}) {
			t.Errorf("Missing = %v, want [zz-not-installed]", g.Missing)
		}
	})

	t.Run("strict", func(t *testing.T) {
		g, err := w.Walk(context.Background(), []string{"A"}, WalkOptions{Strict: true})
		if !pkgerrors.IsNotFound(err) {
			t.Fatalf("Walk() error = %v, want PACKAGE_NOT_FOUND", err)
		}
		if g != nil {
			t.Error("strict walk returned a partial graph")
		}
	})
}

func TestWalkUnique(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"B"}},
		fixture{dir: "node_modules/B", name: "B"},
		// A second install of B, nested under C.
		fixture{dir: "node_modules/C", name: "C", deps: []string{"B", "gone"}},
		fixture{dir: "node_modules/C/node_modules/B", name: "B"},
	)
	w := newTestWalker(root)

	g, err := w.Walk(context.Background(), []string{"A", "A", "C", "gone"}, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(g.Packages); !slices.Equal(got, []string{"B", "A", "B", "C"}) {
		t.Errorf("non-unique Packages = %v, want [B A B C]", got)
	}
	if !slices.Equal(g.Missing, []string{"gone", "gone"}) {
		t.Errorf("non-unique Missing = %v", g.Missing)
	}

	g, err = w.Walk(context.Background(), []string{"A", "A", "C", "gone"}, WalkOptions{Unique: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(g.Packages); !slices.Equal(got, []string{"B", "A", "C"}) {
		t.Errorf("unique Packages = %v, want [B A C]", got)
	}
	if g.Packages[0].Root() != filepath.Join(root, "node_modules", "B") {
		t.Errorf("unique kept %q, want the first B", g.Packages[0].Root())
	}
	if !slices.Equal(g.Missing, []string{"gone"}) {
		t.Errorf("unique Missing = %v, want [gone]", g.Missing)
	}
}

func TestWalkRepeatedName(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root, fixture{dir: "node_modules/A", name: "A"})

	g, err := newTestWalker(root).Walk(context.Background(), []string{"A", "A"}, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	// Same root twice: processed once, even without Unique.
	if got := names(g.Packages); !slices.Equal(got, []string{"A"}) {
		t.Errorf("Packages = %v, want [A]", got)
	}
}

func TestWalkCycle(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"B"}},
		fixture{dir: "node_modules/B", name: "B", deps: []string{"A"}},
	)

	g, err := newTestWalker(root).Walk(context.Background(), []string{"A"}, WalkOptions{})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if got := names(g.Packages); !slices.Equal(got, []string{"B", "A"}) {
		t.Errorf("Packages = %v, want [B A]", got)
	}
}

func TestWalkFatalErrors(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"git://example.com/x.git"}},
	)

	for _, strict := range []bool{false, true} {
		_, err := newTestWalker(root).Walk(context.Background(), []string{"A"}, WalkOptions{Strict: strict})
		if !pkgerrors.Is(err, pkgerrors.ErrCodePackageNotLocal) {
			t.Errorf("Walk(strict=%v) error = %v, want PACKAGE_NOT_LOCAL", strict, err)
		}
	}
}

func TestWalkPathSpecifier(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: ".", name: "app", deps: []string{"dep"}},
		fixture{dir: "node_modules/dep", name: "dep"},
	)

	g, err := newTestWalker(root).Walk(context.Background(), []string{"."}, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(g.Packages); !slices.Equal(got, []string{"dep", "app"}) {
		t.Errorf("Packages = %v, want [dep app]", got)
	}
	if !slices.Equal(g.IDs(), []string{"dep@1.0.0", "app@1.0.0"}) {
		t.Errorf("IDs() = %v", g.IDs())
	}
	if p, ok := g.Package(root); !ok || p.OriginalName() != "app" {
		t.Errorf("Package(root) = %v, %v", p, ok)
	}
}

func TestWalkEdges(t *testing.T) {
	root := t.TempDir()
	writePackages(t, root,
		fixture{dir: "node_modules/A", name: "A", deps: []string{"B", "Z"}},
		fixture{dir: "node_modules/B", name: "B"},
	)

	g, err := newTestWalker(root).Walk(context.Background(), []string{"A"}, WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	a := filepath.Join(root, "node_modules", "A")
	b := filepath.Join(root, "node_modules", "B")
	want := []Edge{
		{From: "", To: a, Name: "A"},
		{From: a, To: b, Name: "B"},
		{From: a, To: "", Name: "Z"},
	}
	if !slices.Equal(g.Edges, want) {
		t.Errorf("Edges = %v, want %v", g.Edges, want)
	}
}
