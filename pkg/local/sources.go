package local

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ender-js/ender-package/pkg/descriptor"
	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	"github.com/ender-js/ender-package/pkg/fanout"
	"github.com/ender-js/ender-package/pkg/files"
	"github.com/ender-js/ender-package/pkg/memo"
)

// Module slots resolved to a single source.
const (
	slotMain   = "main"
	slotBridge = "bridge"
)

// Separator placed between the contents of a slot that matched several files.
const joinSeparator = "\n\n"

// maxDirDepth bounds recursive directory expansion, which would otherwise
// loop forever on a symlink cycle.
const maxDirDepth = 64

type assembly struct {
	sources map[string]string
	main    string
	bridge  string
}

type source struct {
	name    string
	content string
}

// assembler expands and reads the files of one package. Every glob, stat,
// directory expansion and read happens at most once per assembly, however
// many declarations lead to it.
type assembler struct {
	fs   files.FS
	root string

	globs memo.Map[[]string]
	stats memo.Map[fs.FileInfo]
	dirs  memo.Map[[]string]
	reads memo.Map[string]
}

// assemble runs the main, bridge and files passes concurrently. Results are
// applied files first, then main, then bridge, so a slot's key always holds
// the slot's own content.
func assemble(ctx context.Context, fsys files.FS, root string, d *descriptor.Descriptor) (*assembly, error) {
	a := &assembler{fs: fsys, root: root}

	var (
		main, bridge *source
		extra        []source
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		main, err = a.loadModule(gctx, slotMain, d.Scripts(slotMain))
		return err
	})
	g.Go(func() (err error) {
		bridge, err = a.loadModule(gctx, slotBridge, d.Scripts(slotBridge))
		return err
	})
	g.Go(func() (err error) {
		extra, err = a.loadFiles(gctx, d.Scripts("files"))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &assembly{sources: make(map[string]string, len(extra)+2)}
	for _, s := range extra {
		res.sources[s.name] = s.content
	}
	if main != nil {
		res.sources[main.name] = main.content
		res.main = main.name
	}
	if bridge != nil {
		res.sources[bridge.name] = bridge.content
		res.bridge = bridge.name
	}
	return res, nil
}

// loadModule resolves a module slot. Each declared candidate c is searched
// as c, c.js and c/index.js; an undeclared main defaults to index. It
// returns nil when nothing matches, the single matching file, or, for
// several matches, one source named after the slot holding all contents.
func (a *assembler) loadModule(ctx context.Context, slot string, decl []string) (*source, error) {
	var patterns []string
	if slot == slotMain && len(decl) == 0 {
		patterns = []string{"index", "index.js"}
	} else {
		patterns = make([]string, 0, 3*len(decl))
		patterns = append(patterns, decl...)
		for _, c := range decl {
			patterns = append(patterns, c+".js")
		}
		for _, c := range decl {
			patterns = append(patterns, path.Join(c, "index.js"))
		}
	}

	matches, err := fanout.Concat(ctx, patterns, a.glob)
	if err != nil {
		return nil, err
	}
	regular, err := fanout.Concat(ctx, matches, a.dropDir)
	if err != nil {
		return nil, err
	}
	srcs, err := fanout.Map(ctx, regular, a.read)
	if err != nil {
		return nil, err
	}

	switch len(srcs) {
	case 0:
		return nil, nil
	case 1:
		return &srcs[0], nil
	}
	contents := make([]string, len(srcs))
	for i, s := range srcs {
		contents[i] = s.content
	}
	return &source{name: slot, content: strings.Join(contents, joinSeparator)}, nil
}

// loadFiles resolves the auxiliary files: globs expand, directories are
// flattened recursively and only .js files are kept.
func (a *assembler) loadFiles(ctx context.Context, decl []string) ([]source, error) {
	matches, err := fanout.Concat(ctx, decl, a.glob)
	if err != nil {
		return nil, err
	}
	expanded, err := fanout.Concat(ctx, matches, a.expandDir)
	if err != nil {
		return nil, err
	}

	var scripts []string
	for _, f := range expanded {
		if strings.HasSuffix(f, ".js") {
			scripts = append(scripts, f)
		}
	}
	return fanout.Map(ctx, scripts, a.read)
}

func (a *assembler) glob(ctx context.Context, pattern string) ([]string, error) {
	return a.globs.Do(ctx, pattern, func() ([]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches, err := a.fs.Glob(a.root, pattern)
		if err != nil {
			return nil, pkgerrors.Filesystem(err)
		}
		return matches, nil
	})
}

func (a *assembler) stat(ctx context.Context, rel string) (fs.FileInfo, error) {
	return a.stats.Do(ctx, rel, func() (fs.FileInfo, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := a.fs.Stat(files.Join(a.root, rel))
		if err != nil {
			return nil, pkgerrors.Filesystem(err)
		}
		return info, nil
	})
}

// dropDir yields rel unless it is a directory.
func (a *assembler) dropDir(ctx context.Context, rel string) ([]string, error) {
	info, err := a.stat(ctx, rel)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, nil
	}
	return []string{rel}, nil
}

// expandDir yields rel for a file and every file beneath rel for a
// directory, in directory listing order.
func (a *assembler) expandDir(ctx context.Context, rel string) ([]string, error) {
	return a.dirs.Do(ctx, rel, func() ([]string, error) {
		info, err := a.stat(ctx, rel)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return []string{rel}, nil
		}
		if strings.Count(rel, "/") >= maxDirDepth {
			return nil, pkgerrors.New(pkgerrors.ErrCodeFilesystem, "directory nesting too deep at %s", files.Join(a.root, rel))
		}

		names, err := a.fs.ReadDir(files.Join(a.root, rel))
		if err != nil {
			return nil, pkgerrors.Filesystem(err)
		}
		children := make([]string, len(names))
		for i, n := range names {
			children[i] = path.Join(rel, n)
		}
		return fanout.Concat(ctx, children, a.expandDir)
	})
}

func (a *assembler) read(ctx context.Context, rel string) (source, error) {
	content, err := a.reads.Do(ctx, rel, func() (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s, err := a.fs.ReadFile(files.Join(a.root, rel))
		if err != nil {
			return "", pkgerrors.Filesystem(err)
		}
		return s, nil
	})
	if err != nil {
		return source{}, err
	}
	name, _ := files.CleanPattern(rel)
	return source{name: strings.TrimSuffix(name, ".js"), content: content}, nil
}
