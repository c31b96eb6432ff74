package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats   string // comma-separated output formats
	output    string // output file (single format) or base path
	vertices  int    // vertex count for the td header; 0 means the largest vertex in any bag
	detailed  bool   // show node labels
	highlight string // boolean label selecting filled nodes
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a saved decomposition",
		Example: `  bagtree render graph.tree.json -f svg --detailed
  bagtree render graph.tree.json -f td --vertices 12 -o graph.td`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, dot, td, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVar(&opts.vertices, "vertices", 0, "vertex count written to the td header")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node labels")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "fill nodes where this boolean label is true")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	t, err := loadTree(input)
	if err != nil {
		return err
	}
	n := opts.vertices
	if n <= 0 {
		n = maxVertex(t)
	}

	popts := pipeline.Options{
		Formats:   splitList(opts.formats),
		Detailed:  opts.detailed,
		Highlight: opts.highlight,
	}
	artifacts, err := pipeline.Render(ctx, t, n, popts)
	if err != nil {
		return err
	}
	prog.done("Rendered " + input)

	if opts.output == "" && input != "-" {
		opts.output = strings.TrimSuffix(strings.TrimSuffix(input, ".json"), ".tree")
		if len(popts.Formats) == 1 {
			opts.output += fileExt[popts.Formats[0]]
		}
		if opts.output == input {
			opts.output = ""
		}
	}
	return c.writeArtifacts(artifacts, popts.Formats, opts.output, input)
}

// maxVertex returns the largest vertex in any bag.
func maxVertex(t *decomposition.Tree) int {
	n := 0
	for _, id := range t.Nodes() {
		for _, v := range t.Bag(id) {
			n = max(n, int(v))
		}
	}
	return n
}

func itoa(n int) string { return strconv.Itoa(n) }
