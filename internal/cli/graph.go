package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgerrors "github.com/ender-js/ender-package/pkg/errors"
	enderio "github.com/ender-js/ender-package/pkg/io"
	"github.com/ender-js/ender-package/pkg/render/nodelink"
)

const (
	graphDOT  = "dot"
	graphSVG  = "svg"
	graphJSON = "json"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		wf       walkFlags
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <name>...",
		Short: "Draw the dependency graph of packages",
		Long: `Walk the named packages and draw the result as a node-link diagram.
DOT output can be fed to Graphviz; SVG is rendered in-process.`,
		Example: `  ender-package graph bonzo | dot -Tpng > deps.png
  ender-package graph --format svg -o deps.svg bonzo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgerrors.ValidateSpecifiers(args); err != nil {
				return err
			}
			switch format {
			case graphDOT, graphSVG, graphJSON:
			default:
				return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "unknown graph format %q (want dot, svg or json)", format)
			}

			ctx := cmd.Context()
			w := c.newWalker()
			g, err := w.Walk(ctx, args, wf.options(cmd, c.Config))
			if err != nil {
				c.suggest(cmd.ErrOrStderr(), w, err)
				return err
			}
			d := g.DAG()

			var buf bytes.Buffer
			switch format {
			case graphJSON:
				if err := enderio.WriteGraph(&buf, d); err != nil {
					return err
				}
			case graphDOT:
				buf.WriteString(nodelink.ToDOT(d, nodelink.Options{Detailed: detailed}))
			case graphSVG:
				spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering SVG...")
				spinner.Start()
				svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(d, nodelink.Options{Detailed: detailed}))
				spinner.Stop()
				if err != nil {
					return err
				}
				buf.Write(svg)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return pkgerrors.Filesystem(err)
			}
			printSuccess(cmd.ErrOrStderr(), "Wrote %s graph (%d nodes, %d edges)", format, d.NodeCount(), d.EdgeCount())
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", graphDOT, fmt.Sprintf("output format: %s, %s or %s", graphDOT, graphSVG, graphJSON))
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include version and description in labels")
	return cmd
}
