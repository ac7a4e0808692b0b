package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/ender-js/ender-package/pkg/buildinfo"
	"github.com/ender-js/ender-package/pkg/config"
	"github.com/ender-js/ender-package/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Locate and inspect locally installed ender packages",
		Long: `ender-package finds packages in local installs, walks their dependency
graphs and assembles their sources the way the ender build tool does.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: ./"+config.FileName+" or the user config dir)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVarP(&c.dir, "dir", "C", "", "working directory (default: current directory)")

	root.AddCommand(c.findCommand())
	root.AddCommand(c.walkCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: log level, settings, styling and hooks.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	if c.dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		c.dir = wd
	}

	cfg, err := config.Resolve(c.configPath, c.dir)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}

	if !cfg.Color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	hooks := &logHooks{logger: c.Logger}
	observability.SetLoadHooks(hooks)
	observability.SetWalkHooks(hooks)
	observability.SetHTTPHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
