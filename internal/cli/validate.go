package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	bio "github.com/matzehuels/bagtree/pkg/io"
)

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph] [tree.json]",
		Short: "Check that a saved decomposition is valid for a hypergraph",
		Long: `Check the tree decomposition properties: every hyperedge is contained in
some bag, and for every vertex the bags containing it form a connected subtree.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0], args[1])
		},
	}
}

func runValidate(ctx context.Context, graphPath, treePath string) error {
	logger := loggerFromContext(ctx)

	g, err := readGraph(graphPath, "json")
	if err != nil {
		return err
	}
	t, err := loadTree(treePath)
	if err != nil {
		return err
	}
	logger.Debug("loaded decomposition", "nodes", t.NodeCount(), "width", t.Width())

	if err := decomposition.Validate(g, t); err != nil {
		printError("%s is not a decomposition of %s", treePath, graphPath)
		return bterrors.Wrap(bterrors.ErrCodeInvalidDecomposition, err, "validate")
	}
	printSuccess("Valid decomposition")
	printKeyValue("bags", StyleNumber.Render(itoa(t.NodeCount())))
	printKeyValue("width", StyleNumber.Render(itoa(t.Width())))
	return nil
}

// loadTree reads a decomposition written by "decompose -f json". A path of
// "-" reads standard input.
func loadTree(path string) (*decomposition.Tree, error) {
	var (
		t   *decomposition.Tree
		err error
	)
	if path == "-" {
		t, err = bio.ReadTreeJSON(os.Stdin)
	} else {
		t, err = bio.ImportTreeJSON(path)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, bterrors.Wrap(bterrors.ErrCodeFileNotFound, err, "read %s", path)
	case err != nil:
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return t, nil
}
