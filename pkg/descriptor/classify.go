package descriptor

import (
	"path/filepath"
	"strings"
)

// Kind is the category of a package specifier.
type Kind string

const (
	KindPath    Kind = "path"    // "./lib", "../x", "/abs/dir", "~/dir"
	KindPackage Kind = "package" // "bonzo", "@scope/name", "qwery@1.0"
	KindTarball Kind = "tarball" // "pkg.tgz", "https://host/pkg-1.0.0.tgz"
	KindURL     Kind = "url"     // "https://host/some/thing"
	KindGit     Kind = "git"     // "git://...", "git+ssh://...", "github:user/repo", "user/repo"
)

// Local reports whether packages of this kind can be found on disk.
func (k Kind) Local() bool { return k == KindPath || k == KindPackage }

// Defaults used by the zero Classifier.
const (
	DefaultDescriptorFile = "package.json"
	DefaultModulesDir     = "node_modules"
	DefaultOverrideKey    = "ender"
)

// Classifier knows the naming conventions of the package ecosystem: how
// specifiers are categorized, where a package's descriptor lives and where
// its installed dependencies live. The zero value uses the npm layout with
// the "ender" override block.
type Classifier struct {
	DescriptorFile string // descriptor file name inside a package root
	ModulesDir     string // directory holding installed child packages
	OverrideKey    string // key of the embedded override block
}

func (c Classifier) descriptorFile() string {
	if c.DescriptorFile == "" {
		return DefaultDescriptorFile
	}
	return c.DescriptorFile
}

func (c Classifier) modulesDir() string {
	if c.ModulesDir == "" {
		return DefaultModulesDir
	}
	return c.ModulesDir
}

func (c Classifier) overrideKey() string {
	if c.OverrideKey == "" {
		return DefaultOverrideKey
	}
	return c.OverrideKey
}

// Classify categorizes a specifier. Anything that is not recognizably a
// path, tarball, url or git reference is a package name.
func (c Classifier) Classify(spec string) Kind {
	s := strings.TrimSpace(spec)
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(s, ".") || strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "~") || filepath.IsAbs(s):
		return KindPath

	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		if isTarball(lower) {
			return KindTarball
		}
		return KindURL

	case strings.HasPrefix(lower, "git://") || strings.HasPrefix(lower, "git+") ||
		strings.HasPrefix(lower, "git@") || strings.HasPrefix(lower, "github:"):
		return KindGit

	case isTarball(lower):
		return KindTarball

	case strings.Contains(s, "://"):
		return KindURL

	// "user/repo" shorthand; scoped names also contain a slash.
	case !strings.HasPrefix(s, "@") && strings.Contains(s, "/"):
		return KindGit
	}

	return KindPackage
}

func isTarball(s string) bool {
	for _, ext := range []string{".tgz", ".tar.gz", ".tar"} {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

// ChildRoot returns where a package called name would be installed beneath
// searchRoot.
func (c Classifier) ChildRoot(name, searchRoot string) string {
	return filepath.Join(searchRoot, c.modulesDir(), filepath.FromSlash(name))
}

// DescriptorPath returns the path of the descriptor file of the package at root.
func (c Classifier) DescriptorPath(root string) string {
	return filepath.Join(root, c.descriptorFile())
}

// ModulesDirOf returns the directory holding the installed children of root.
func (c Classifier) ModulesDirOf(root string) string {
	return filepath.Join(root, c.modulesDir())
}

// ExtractName strips a trailing "@version" from a dependency entry. Scoped
// names keep their leading "@":
//
//	ExtractName("qwery@1.2")        // "qwery"
//	ExtractName("@scope/pkg@^2")    // "@scope/pkg"
//	ExtractName("@scope/pkg")       // "@scope/pkg"
func (c Classifier) ExtractName(entry string) string {
	entry = strings.TrimSpace(entry)
	if strings.HasPrefix(entry, "@") {
		if idx := strings.Index(entry[1:], "@"); idx >= 0 {
			return entry[:idx+1]
		}
		return entry
	}
	if before, _, ok := strings.Cut(entry, "@"); ok {
		return before
	}
	return entry
}

// Parse decodes descriptor content using this classifier's override key.
func (c Classifier) Parse(data []byte) (*Descriptor, error) {
	return Parse(data, c.overrideKey())
}
