// Package cli implements the ender-package command-line interface.
//
// Commands locate packages in local installs, walk their dependencies and
// show the result as a list, a tree, assembled sources or a graph. The
// serve command exposes the same operations over HTTP.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so library packages stay quiet unless
// asked.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ender-js/ender-package/pkg/config"
	"github.com/ender-js/ender-package/pkg/deps"
	"github.com/ender-js/ender-package/pkg/local"
)

// appName is the binary name used in help text.
const appName = "ender-package"

// suggestionLimit bounds "did you mean" lists.
const suggestionLimit = 3

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	dir        string
	verbose    bool
}

// New creates a new CLI instance with a default logger and settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// newWalker builds a walker over a fresh cache, rooted at the working
// directory.
func (c *CLI) newWalker() *deps.Walker {
	cache := local.NewCache(
		local.WithClassifier(c.Config.Classifier()),
		local.WithLogger(c.Logger),
	)
	return deps.NewWalker(deps.NewLocator(cache, c.dir))
}

// walkFlags holds the walk toggles shared by several commands.
type walkFlags struct {
	strict bool
	unique bool
}

func (f *walkFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on the first dependency that cannot be found")
	cmd.Flags().BoolVar(&f.unique, "unique", false, "keep one package per name")
}

// options merges the flags over the configured defaults. Flags win only
// when given explicitly.
func (f *walkFlags) options(cmd *cobra.Command, cfg config.Config) deps.WalkOptions {
	opts := walkDefaults(cfg)
	if cmd.Flags().Changed("strict") {
		opts.Strict = f.strict
	}
	if cmd.Flags().Changed("unique") {
		opts.Unique = f.unique
	}
	return opts
}

// walkDefaults returns the walk options the settings ask for.
func walkDefaults(cfg config.Config) deps.WalkOptions {
	return deps.WalkOptions{Strict: cfg.Strict, Unique: cfg.Unique}
}
