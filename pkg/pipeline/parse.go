package pipeline

import (
	"errors"
	"io"
	"io/fs"

	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
	bio "github.com/matzehuels/bagtree/pkg/io"
)

// Parse reads a hypergraph in the named format and checks it against
// limits. Errors carry INVALID_FORMAT, INVALID_INPUT or TOO_LARGE codes.
func Parse(r io.Reader, format string, limits bterrors.Limits) (*hypergraph.Graph, error) {
	f, err := bio.ParseFormat(format)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidFormat, err, "input format")
	}
	g, err := bio.ReadHypergraph(r, f)
	if err != nil {
		return nil, classifyInput(err, "parse hypergraph")
	}
	if err := bterrors.ValidateGraphSize(g, limits); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseFile reads the hypergraph at path, choosing the format by extension.
func ParseFile(path string, limits bterrors.Limits) (*hypergraph.Graph, error) {
	g, err := bio.ImportFile(path)
	if err != nil {
		return nil, classifyInput(err, "read %s", path)
	}
	if err := bterrors.ValidateGraphSize(g, limits); err != nil {
		return nil, err
	}
	return g, nil
}

func classifyInput(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return bterrors.Wrap(bterrors.ErrCodeFileNotFound, err, format, args...)
	case errors.Is(err, bio.ErrUnknownFormat):
		return bterrors.Wrap(bterrors.ErrCodeInvalidFormat, err, format, args...)
	}
	return bterrors.Wrap(bterrors.ErrCodeInvalidInput, err, format, args...)
}
