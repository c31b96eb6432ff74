package manipulation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// ErrUnknownOperation is returned by [Lookup] for names it does not know.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation names accepted by Lookup. LimitChildren takes a parameter in
// the form "limit-children:<max>".
const (
	OpBagSize        = "bag-size"
	OpInducedEdges   = "induced-edges"
	OpCritical       = "critical"
	OpAddEmptyRoot   = "add-empty-root"
	OpAddEmptyLeaves = "add-empty-leaves"
	OpCompress       = "compress"
	OpLimitChildren  = "limit-children"
)

// Names returns the operation names accepted by Lookup.
func Names() []string {
	return []string{
		OpBagSize, OpInducedEdges, OpCritical,
		OpAddEmptyRoot, OpAddEmptyLeaves, OpCompress, OpLimitChildren + ":<max>",
	}
}

// Lookup resolves an operation name to a fresh Operation. Some labeling
// functions need the source hypergraph; g may be nil if none of them is
// requested.
func Lookup(name string, g hypergraph.Hypergraph) (Operation, error) {
	base, arg, hasArg := strings.Cut(name, ":")
	if hasArg && base != OpLimitChildren {
		return Operation{}, fmt.Errorf("%w: %q takes no argument", ErrUnknownOperation, base)
	}

	switch base {
	case OpBagSize:
		return Label(BagSize{}), nil
	case OpInducedEdges:
		if g == nil {
			return Operation{}, fmt.Errorf("%s requires a hypergraph", OpInducedEdges)
		}
		return Label(NewInducedEdges(g)), nil
	case OpCritical:
		return Both(&Critical{}), nil
	case OpAddEmptyRoot:
		return Transform(AddEmptyRoot{}), nil
	case OpAddEmptyLeaves:
		return Transform(AddEmptyLeaves{}), nil
	case OpCompress:
		return Transform(Compress{}), nil
	case OpLimitChildren:
		limit := 2
		if hasArg {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return Operation{}, fmt.Errorf("%s: invalid limit %q: %w", OpLimitChildren, arg, err)
			}
			limit = n
		}
		if limit < 2 {
			return Operation{}, fmt.Errorf("%w: %d", ErrInvalidChildLimit, limit)
		}
		return Transform(LimitChildCount{Max: limit}), nil
	}
	return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// LookupAll resolves every name in order.
func LookupAll(names []string, g hypergraph.Hypergraph) ([]Operation, error) {
	ops := make([]Operation, 0, len(names))
	for _, name := range names {
		op, err := Lookup(strings.TrimSpace(name), g)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
