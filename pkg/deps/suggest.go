package deps

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ender-js/ender-package/pkg/descriptor"
	"github.com/ender-js/ender-package/pkg/files"
)

// Installed lists the package names installed in the modules directories
// of root and its ancestors, nearest first, without duplicates. Scoped
// packages are listed as "@scope/name".
func Installed(fsys files.FS, cl descriptor.Classifier, root string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	for dir := filepath.Clean(root); ; {
		modules := cl.ModulesDirOf(dir)
		entries, _ := fsys.ReadDir(modules)
		for _, e := range entries {
			switch {
			case strings.HasPrefix(e, "."):
				// .bin and friends
			case strings.HasPrefix(e, "@"):
				scoped, _ := fsys.ReadDir(filepath.Join(modules, e))
				for _, s := range scoped {
					if !strings.HasPrefix(s, ".") {
						add(e + "/" + s)
					}
				}
			default:
				add(e)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return names
}

// Suggest returns up to limit installed package names resembling name,
// best match first.
func Suggest(fsys files.FS, cl descriptor.Classifier, name, root string, limit int) []string {
	candidates := Installed(fsys, cl, root)
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	var out []string
	for _, m := range fuzzy.Find(name, candidates) {
		if m.Str != name {
			out = append(out, m.Str)
		}
	}
	// Candidates that are abbreviations of the request ("bonzo" for
	// "bonzo-dom") rank after direct matches.
	for _, c := range candidates {
		if c != name && !slices.Contains(out, c) && len(fuzzy.Find(c, []string{name})) > 0 {
			out = append(out, c)
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
