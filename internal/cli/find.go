package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ender-js/ender-package/pkg/deps"
	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
)

func (c *CLI) findCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <name>",
		Short: "Locate one package and print its identity",
		Long: `Locate a package by path or name. Names are searched in the working
directory and its node_modules, then in each parent directory.`,
		Example: `  ender-package find bonzo
  ender-package find ./vendor/qwery`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgerrors.ValidateSpecifier(args[0]); err != nil {
				return err
			}
			w := c.newWalker()
			pkg, err := w.Locator().Find(cmd.Context(), args[0], "")
			if err != nil {
				c.suggest(cmd.ErrOrStderr(), w, err)
				return err
			}

			out := cmd.OutOrStdout()
			printKeyValue(out, "id", pkg.ID())
			if pkg.Name() != pkg.OriginalName() {
				printKeyValue(out, "name", pkg.Name())
			}
			printKeyValue(out, "root", pkg.Root())
			if d := pkg.Description(); d != "" {
				printKeyValue(out, "description", d)
			}
			if ds := pkg.Dependencies(); len(ds) > 0 {
				printKeyValue(out, "dependencies", strings.Join(ds, ", "))
			}
			return nil
		},
	}
}

// suggest prints close installed names when err is a not-found error.
func (c *CLI) suggest(w io.Writer, walker *deps.Walker, err error) {
	var e *pkgerrors.Error
	if !pkgerrors.IsNotFound(err) || !errors.As(err, &e) {
		return
	}
	c.suggestName(w, walker, e.Name)
}

func (c *CLI) suggestName(w io.Writer, walker *deps.Walker, name string) {
	l := walker.Locator()
	cands := deps.Suggest(l.Cache().FS(), l.Cache().Classifier(), name, l.Dir(), suggestionLimit)
	if len(cands) > 0 {
		printDetail(w, "did you mean: %s", strings.Join(cands, ", "))
	}
}
