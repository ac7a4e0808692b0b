package deps

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ender-js/ender-package/pkg/local"
)

// fixture describes one package directory, relative to the test root.
type fixture struct {
	dir  string
	name string
	deps []string
	desc string
}

func writePackages(t *testing.T, root string, pkgs ...fixture) {
	t.Helper()
	for _, p := range pkgs {
		dir := filepath.Join(root, filepath.FromSlash(p.dir))
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		doc := map[string]any{"name": p.name, "version": "1.0.0"}
		if p.deps != nil {
			doc["dependencies"] = p.deps
		}
		if p.desc != "" {
			doc["description"] = p.desc
		}
		data, err := json.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "package.json"), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestWalker(root string) *Walker {
	return NewWalker(NewLocator(local.NewCache(), root))
}

func names(pkgs []*local.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.OriginalName()
	}
	return out
}
