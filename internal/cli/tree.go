package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ender-js/ender-package/pkg/deps"
	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	"github.com/ender-js/ender-package/pkg/render/tree"
	"github.com/ender-js/ender-package/pkg/watch"
)

// clearScreen clears the terminal and moves the cursor home.
const clearScreen = "\033[2J\033[H"

func (c *CLI) treeCommand() *cobra.Command {
	var (
		plain    bool
		watching bool
	)

	cmd := &cobra.Command{
		Use:   "tree <name>...",
		Short: "Show the dependency tree of packages",
		Long: `Show the named packages and their dependencies as a tree. A package
that appears more than once is expanded only the first time; names that
cannot be found are marked MISSING.`,
		Example: `  ender-package tree bonzo
  ender-package tree --watch bonzo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgerrors.ValidateSpecifiers(args); err != nil {
				return err
			}
			opts := tree.Options{Plain: plain || !c.Config.Color}
			w := c.newWalker()

			t, err := c.showTree(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), w, args, opts)
			if err != nil || !watching {
				return err
			}
			return c.watchTree(cmd, w, args, opts, t)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "re-render when package files change")
	return cmd
}

func (c *CLI) showTree(ctx context.Context, out, errOut io.Writer, w *deps.Walker, names []string, opts tree.Options) (*deps.Tree, error) {
	t, err := w.Tree(ctx, names)
	if err != nil {
		c.suggest(errOut, w, err)
		return nil, err
	}
	if err := tree.Write(out, t, opts); err != nil {
		return nil, err
	}
	for _, name := range t.MissingNames() {
		c.suggestName(errOut, w, name)
	}
	return t, nil
}

func (c *CLI) watchTree(cmd *cobra.Command, w *deps.Walker, names []string, opts tree.Options, t *deps.Tree) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := loggerFromContext(cmd.Context())

	var watcher *watch.Watcher
	watcher, err := watch.New(watch.Config{
		Cache:    w.Locator().Cache(),
		Roots:    append(treeRoots(t), w.Locator().Dir()),
		Ignore:   c.Config.Watch.Ignore,
		Debounce: c.Config.Watch.Debounce,
		Logger:   logger,
		OnChange: func(ctx context.Context, roots []string) error {
			fmt.Fprint(out, clearScreen)
			t, err := c.showTree(ctx, out, errOut, w, names, opts)
			if err != nil {
				printError(errOut, "%s", pkgerrors.UserMessage(err))
				return nil
			}
			return watcher.Add(treeRoots(t)...)
		},
	})
	if err != nil {
		return err
	}

	printInfo(errOut, "watching %d directories, press Ctrl+C to stop", len(watcher.WatchedDirs()))
	return watcher.Run(cmd.Context())
}

// treeRoots lists the package roots shown in t.
func treeRoots(t *deps.Tree) []string {
	var roots []string
	t.Walk(func(n *deps.TreeNode, _ int) {
		if n.Root != "" && n.First {
			roots = append(roots, n.Root)
		}
	})
	return roots
}
