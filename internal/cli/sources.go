package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	enderio "github.com/ender-js/ender-package/pkg/io"
	"github.com/ender-js/ender-package/pkg/local"
)

func (c *CLI) sourcesCommand() *cobra.Command {
	var (
		asJSON  bool
		content bool
	)

	cmd := &cobra.Command{
		Use:   "sources <name>",
		Short: "Assemble the sources of a package",
		Long: `Assemble a package's sources from its main, bridge and files
declarations. Sources are keyed by path without the .js extension; main and
bridge are stored under their own names when several files match.`,
		Example: `  ender-package sources bonzo
  ender-package sources --content ./lib/widget`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgerrors.ValidateSpecifier(args[0]); err != nil {
				return err
			}

			ctx := cmd.Context()
			w := c.newWalker()
			pkg, err := w.Locator().Find(ctx, args[0], "")
			if err != nil {
				c.suggest(cmd.ErrOrStderr(), w, err)
				return err
			}
			if err := pkg.LoadSources(ctx); err != nil {
				return err
			}

			if asJSON {
				return enderio.Write(cmd.OutOrStdout(), enderio.FormatJSON, enderio.NewSourceSet(pkg))
			}
			printSources(cmd.OutOrStdout(), pkg, content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the sources as JSON")
	cmd.Flags().BoolVar(&content, "content", false, "print each source in full")
	return cmd
}

func printSources(w io.Writer, pkg *local.Package, content bool) {
	srcs := pkg.Sources()
	keys := slices.Sorted(maps.Keys(srcs))

	fmt.Fprintln(w, StyleTitle.Render(pkg.ID()))
	printKeyValue(w, "root", pkg.Root())
	if m := pkg.Main(); m != "" {
		printKeyValue(w, "main", m)
	}
	if b := pkg.Bridge(); b != "" {
		printKeyValue(w, "bridge", b)
	}
	if ext := pkg.Externs(); len(ext) > 0 {
		printKeyValue(w, "externs", strings.Join(ext, ", "))
	}

	for _, k := range keys {
		if !content {
			printDetail(w, "%s (%d bytes)", k, len(srcs[k]))
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleDim.Render("// "+k))
		fmt.Fprintln(w, srcs[k])
	}
}
