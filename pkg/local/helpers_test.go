package local

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ender-js/ender-package/pkg/files"
)

// writeTree creates files under root; keys are slash-separated paths.
func writeTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for name, content := range tree {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// countingFS records how often each path and pattern is touched.
type countingFS struct {
	files.OS

	mu    sync.Mutex
	reads map[string]int
	globs map[string]int
}

func newCountingFS() *countingFS {
	return &countingFS{reads: make(map[string]int), globs: make(map[string]int)}
}

func (c *countingFS) ReadFile(name string) (string, error) {
	c.mu.Lock()
	c.reads[name]++
	c.mu.Unlock()
	return c.OS.ReadFile(name)
}

func (c *countingFS) Glob(root, pattern string) ([]string, error) {
	c.mu.Lock()
	c.globs[pattern]++
	c.mu.Unlock()
	return c.OS.Glob(root, pattern)
}

func (c *countingFS) readCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[name]
}

func (c *countingFS) globCount(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.globs[pattern]
}

// gatedFS blocks reads of one file until release is closed.
type gatedFS struct {
	files.OS

	name    string
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedFS(name string) *gatedFS {
	return &gatedFS{name: name, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedFS) ReadFile(name string) (string, error) {
	if name == g.name {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	return g.OS.ReadFile(name)
}
