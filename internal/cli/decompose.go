package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
	"github.com/matzehuels/bagtree/pkg/pipeline"
)

// decomposeOpts holds the command-line flags for the decompose command.
type decomposeOpts struct {
	ordering     string   // ordering provider name
	order        string   // explicit ordering: "3,1,2" or "@file"
	ops          []string // post-processing operations, in order
	formats      string   // comma-separated output formats
	output       string   // output file (single format) or base path
	inputFormat  string   // format of stdin input
	noCache      bool
	refresh      bool
	skipValidate bool
	detailed     bool
	highlight    string
}

// fileExt maps output formats to file extensions. The json extension is
// distinct from the hypergraph input extension so outputs never overwrite
// their input.
var fileExt = map[string]string{
	pipeline.FormatJSON: ".tree.json",
	pipeline.FormatTD:   ".td",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatSVG:  ".svg",
}

func (c *CLI) decomposeCommand() *cobra.Command {
	var opts decomposeOpts

	cmd := &cobra.Command{
		Use:   "decompose [file]",
		Short: "Compute a tree decomposition of a hypergraph",
		Long: `Compute a tree decomposition by bucket elimination.

The input is a .json, .gr or .hgr/.htd file, or "-" for stdin together with
--input-format. Operations run after the tree is built, in the given order:

  compress, add-empty-root, add-empty-leaves, limit-children[:N],
  bag-size, induced-edges, critical

A single non-SVG format without --output is written to stdout.`,
		Example: `  bagtree decompose graph.gr
  bagtree decompose graph.hgr --op compress --op bag-size -f json,svg -o out/graph
  bagtree decompose graph.json --order 4,3,2,1 -f td`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecompose(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.ordering, "ordering", "", "ordering provider: min-fill (default), min-degree, natural")
	cmd.Flags().StringVar(&opts.order, "order", "", "explicit elimination ordering, comma-separated or @file")
	cmd.Flags().StringArrayVar(&opts.ops, "op", nil, "post-processing operation (repeatable)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), td, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "json", "format of stdin input: json, gr, hgr")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.skipValidate, "skip-validate", false, "skip checking the decomposition against the hypergraph")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node labels in dot/svg output")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "fill nodes where this boolean label is true (dot/svg)")

	return cmd
}

func (c *CLI) runDecompose(ctx context.Context, input string, opts decomposeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.config()
	if err != nil {
		return err
	}

	g, err := readGraph(input, opts.inputFormat)
	if err != nil {
		return err
	}
	logger.Debug("loaded hypergraph", "vertices", g.VertexCount(), "hyperedges", g.EdgeCount())

	popts := pipeline.Options{
		Ordering:     cfg.Decompose.Ordering,
		Operations:   cfg.Decompose.Operations,
		SkipValidate: opts.skipValidate,
		Refresh:      opts.refresh,
		Formats:      splitList(opts.formats),
		Detailed:     opts.detailed,
		Highlight:    opts.highlight,
		Logger:       logger,
	}
	if opts.ordering != "" {
		popts.Ordering = opts.ordering
	}
	if len(opts.ops) > 0 {
		popts.Operations = opts.ops
	}
	if opts.order != "" {
		order, err := parseOrder(opts.order)
		if err != nil {
			return err
		}
		popts.Provider, popts.OrderingKey = pipeline.FixedOrdering(order)
		printInfo("Using explicit ordering of %d vertices", len(order))
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, "Decomposing "+input)
	spin.Start()
	result, err := runner.Execute(ctx, g, popts)
	spin.Stop()
	if err != nil {
		return err
	}

	prog.done("Decomposed " + input)
	printStats(result.Stats, result.CacheInfo.DecomposeHit)
	if d := result.Detail; d != nil {
		logger.Debug("bucket elimination",
			"root", d.Root,
			"isolated", len(d.Isolated),
			"sweep_edges", d.SweepEdges,
			"repair_edges", d.RepairEdges)
	}

	return c.writeArtifacts(result.Artifacts, popts.Formats, opts.output, input)
}

// writeArtifacts writes rendered outputs. One non-SVG format without an
// output path goes to c.Out; otherwise files are derived from output or the
// input name.
func (c *CLI) writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	if len(formats) == 1 && output == "" && formats[0] != pipeline.FormatSVG {
		_, err := c.Out.Write(artifacts[formats[0]])
		return err
	}
	if len(formats) == 1 && output != "" {
		return writeFile(output, artifacts[formats[0]])
	}

	base := output
	if base == "" {
		if input == "-" {
			base = "decomposition"
		} else {
			base = strings.TrimSuffix(input, filepath.Ext(input))
		}
	}
	for _, f := range formats {
		if err := writeFile(base+fileExt[f], artifacts[f]); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return bterrors.Wrap(bterrors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return bterrors.Wrap(bterrors.ErrCodeInternal, err, "write %s", path)
	}
	printFile(path)
	return nil
}

// readGraph loads a hypergraph from path, or from stdin when path is "-".
func readGraph(path, stdinFormat string) (*hypergraph.Graph, error) {
	if path == "-" {
		return pipeline.Parse(os.Stdin, stdinFormat, bterrors.Limits{})
	}
	return pipeline.ParseFile(path, bterrors.Limits{})
}

// parseOrder reads an explicit ordering from "3,1,2" or "@path", where the
// file holds whitespace- or comma-separated vertex ids.
func parseOrder(s string) ([]hypergraph.Vertex, error) {
	if path, ok := strings.CutPrefix(s, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, bterrors.Wrap(bterrors.ErrCodeFileNotFound, err, "read ordering")
		}
		s = string(data)
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	order := make([]hypergraph.Vertex, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil || v == 0 {
			return nil, bterrors.New(bterrors.ErrCodeInvalidOrdering, "invalid vertex %q in ordering", f)
		}
		order[i] = hypergraph.Vertex(v)
	}
	return order, nil
}

// readAll reads path, or stdin when path is "-".
func readAll(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bterrors.Wrap(bterrors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
