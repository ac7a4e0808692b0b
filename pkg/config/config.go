// Package config loads ender-package settings from TOML.
//
// A missing file is not an error: every setting has a default, and
// command-line flags override whatever the file says.
//
//	descriptor_file = "package.json"
//	modules_dir     = "node_modules"
//	override_key    = "ender"
//	strict          = false
//	unique          = false
//	color           = true
//
//	[serve]
//	addr = "127.0.0.1:1337"
//
//	[watch]
//	debounce = "250ms"
//	ignore   = ["**/.git/**"]
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/ender-js/ender-package/pkg/descriptor"
	"github.com/ender-js/ender-package/pkg/errors"
)

// FileName is the per-directory config file.
const FileName = ".ender-package.toml"

// Config holds every setting.
type Config struct {
	DescriptorFile string `toml:"descriptor_file"`
	ModulesDir     string `toml:"modules_dir"`
	OverrideKey    string `toml:"override_key"`
	Strict         bool   `toml:"strict"`
	Unique         bool   `toml:"unique"`
	Color          bool   `toml:"color"`
	Serve          Serve  `toml:"serve"`
	Watch          Watch  `toml:"watch"`

	// Path is the file the settings came from, or "" for defaults.
	Path string `toml:"-"`
}

// Serve configures the HTTP server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Watch configures change detection.
type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Ignore   []string      `toml:"ignore"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DescriptorFile: descriptor.DefaultDescriptorFile,
		ModulesDir:     descriptor.DefaultModulesDir,
		OverrideKey:    descriptor.DefaultOverrideKey,
		Color:          true,
		Serve:          Serve{Addr: "127.0.0.1:1337"},
		Watch: Watch{
			Debounce: 250 * time.Millisecond,
			Ignore:   []string{"**/.git/**"},
		},
	}
}

// Classifier returns the descriptor classifier these settings describe.
func (c Config) Classifier() descriptor.Classifier {
	return descriptor.Classifier{
		DescriptorFile: c.DescriptorFile,
		ModulesDir:     c.ModulesDir,
		OverrideKey:    c.OverrideKey,
	}
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	for key, v := range map[string]string{
		"descriptor_file": c.DescriptorFile,
		"modules_dir":     c.ModulesDir,
		"override_key":    c.OverrideKey,
	} {
		if strings.TrimSpace(v) == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be empty", key)
		}
	}
	if strings.ContainsAny(c.DescriptorFile, `/\`) || strings.ContainsAny(c.ModulesDir, `/\`) {
		return errors.New(errors.ErrCodeInvalidConfig, "descriptor_file and modules_dir must be plain names")
	}
	if c.Serve.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "serve.addr must not be empty")
	}
	if c.Watch.Debounce < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "watch.debounce must not be negative")
	}
	for _, p := range c.Watch.Ignore {
		if !doublestar.ValidatePattern(p) {
			return errors.New(errors.ErrCodeInvalidConfig, "watch.ignore: bad pattern %q", p)
		}
	}
	return nil
}

// Load reads one file on top of the defaults. The file must exist.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Filesystem(err)
	}
	return Parse(path, data)
}

// Parse decodes TOML on top of the defaults. Keys that match no setting
// are rejected, so typos do not pass silently.
func Parse(path string, data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		e := errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		e.Path = path
		return Config{}, e
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		e := errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
		e.Path = path
		return Config{}, e
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Path = path
	return cfg, nil
}

// Resolve finds the settings for a run. An explicit path wins and must
// exist; otherwise the first existing file of [Paths] is used, falling
// back to the defaults.
func Resolve(explicit, workDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	for _, p := range Paths(workDir) {
		cfg, err := Load(p)
		if err == nil {
			return cfg, nil
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return Default(), nil
}

// Paths lists the implicit config locations in lookup order: the working
// directory, then the user config directory.
func Paths(workDir string) []string {
	paths := []string{filepath.Join(workDir, FileName)}
	if dir := userConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "ender-package", "config.toml"))
	}
	return paths
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
