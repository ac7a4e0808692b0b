// Package files is the filesystem boundary of ender-package: text reads,
// stats, directory listings and glob matching against a package root.
//
// Everything above this package talks to an [FS], so tests and alternative
// backends can substitute their own. [OS] reads the local disk and matches
// globs with doublestar, which supports "**" as well as the usual
// "*", "?", "[...]" and "{a,b}" forms.
package files

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FS is the filesystem collaborator. Paths passed to ReadFile, Stat and
// ReadDir are OS paths; Glob works on slash-separated patterns relative to
// root and returns slash-separated matches relative to root.
type FS interface {
	ReadFile(name string) (string, error)
	Stat(name string) (fs.FileInfo, error)
	// ReadDir returns the names of the entries of a directory, sorted.
	ReadDir(name string) ([]string, error)
	Glob(root, pattern string) ([]string, error)
}

// OS is the FS backed by the local disk.
type OS struct{}

// ReadFile reads a whole file as text.
func (OS) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Stat follows symlinks, so a linked package directory counts as a directory.
func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// ReadDir lists entry names in directory order (sorted by name).
func (OS) ReadDir(name string) ([]string, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// Glob matches pattern against the tree under root. A pattern that does
// not match anything yields an empty result, not an error. Patterns that
// escape root ("../x", "/abs") never match. Hidden files and directories
// only match a pattern segment that itself starts with a dot, so "*" skips
// ".eslintrc.js" while ".*" finds it.
func (OS) Glob(root, pattern string) ([]string, error) {
	p, ok := CleanPattern(pattern)
	if !ok {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(root), p)
	if err != nil {
		return nil, err
	}
	segs := strings.Split(p, "/")
	out := matches[:0]
	for _, m := range matches {
		if visible(segs, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// visible reports whether every hidden segment of match is named by a
// dotted segment of the pattern.
func visible(pattern []string, match string) bool {
	for _, seg := range strings.Split(match, "/") {
		if seg == "." || seg == ".." || !strings.HasPrefix(seg, ".") {
			continue
		}
		if !explicitDot(pattern, seg) {
			return false
		}
	}
	return true
}

func explicitDot(pattern []string, seg string) bool {
	for _, p := range pattern {
		if !strings.HasPrefix(p, ".") {
			continue
		}
		if ok, _ := doublestar.Match(p, seg); ok {
			return true
		}
	}
	return false
}

// CleanPattern normalizes a descriptor path or pattern to the unrooted,
// slash-separated form used for glob matching and source names. It
// reports false for patterns that point outside the package root.
func CleanPattern(pattern string) (string, bool) {
	p := path.Clean(filepath.ToSlash(pattern))
	if p == "." || p == "" {
		return ".", true
	}
	if path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

// Join resolves a slash-separated path relative to root to an OS path.
func Join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
