package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ender-js/ender-package/pkg/deps"
	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	enderio "github.com/ender-js/ender-package/pkg/io"
)

func (c *CLI) walkCommand() *cobra.Command {
	var (
		wf     walkFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "walk <name>...",
		Short: "Resolve packages and all their dependencies",
		Long: `Walk the dependency graph of the named packages. Packages are listed
dependencies first; names that cannot be found are reported as missing
unless --strict is given.`,
		Example: `  ender-package walk bonzo qwery
  ender-package walk --unique --format json bonzo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgerrors.ValidateSpecifiers(args); err != nil {
				return err
			}
			var f enderio.Format
			if format != "text" {
				var err error
				if f, err = enderio.ParseFormat(format); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			w := c.newWalker()
			prog := newProgress(loggerFromContext(ctx))
			g, err := w.Walk(ctx, args, wf.options(cmd, c.Config))
			if err != nil {
				c.suggest(cmd.ErrOrStderr(), w, err)
				return err
			}
			prog.done(fmt.Sprintf("Walked %d packages", len(g.Packages)))

			if f != "" {
				return enderio.Write(cmd.OutOrStdout(), f, enderio.NewReport(g))
			}
			c.printWalk(cmd.OutOrStdout(), cmd.ErrOrStderr(), w, g)
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func (c *CLI) printWalk(out, errOut io.Writer, w *deps.Walker, g *deps.Graph) {
	for _, p := range g.Packages {
		fmt.Fprintln(out, StyleValue.Render(p.ID())+"  "+StyleDim.Render(p.Root()))
	}
	for _, name := range g.Missing {
		printWarning(out, "%s - MISSING", name)
		c.suggestName(errOut, w, name)
	}
	printStats(out, len(g.Packages), len(g.Missing))
	if len(g.Missing) > 0 {
		printNextStep(errOut, "See where they are declared", appName+" tree "+strings.Join(g.Requested, " "))
	}
}
