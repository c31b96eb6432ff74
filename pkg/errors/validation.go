package errors

import (
	"slices"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// Limits bounds the hypergraphs accepted from untrusted input. Zero fields
// are unlimited.
type Limits struct {
	MaxVertices int
	MaxEdges    int
	MaxEdgeSize int
}

// DefaultLimits are applied by the HTTP API.
var DefaultLimits = Limits{
	MaxVertices: 100_000,
	MaxEdges:    500_000,
	MaxEdgeSize: 1_000,
}

// ValidateGraphSize checks g against l.
func ValidateGraphSize(g hypergraph.Hypergraph, l Limits) error {
	if l.MaxVertices > 0 && g.VertexCount() > l.MaxVertices {
		return New(ErrCodeTooLarge, "%d vertices exceed the limit of %d", g.VertexCount(), l.MaxVertices)
	}
	edges := g.Hyperedges()
	if l.MaxEdges > 0 && len(edges) > l.MaxEdges {
		return New(ErrCodeTooLarge, "%d hyperedges exceed the limit of %d", len(edges), l.MaxEdges)
	}
	if l.MaxEdgeSize > 0 {
		for i, e := range edges {
			if len(e) > l.MaxEdgeSize {
				return New(ErrCodeTooLarge, "hyperedge %d has %d vertices, limit is %d", i, len(e), l.MaxEdgeSize)
			}
		}
	}
	return nil
}

// ValidateChoice checks that value is one of allowed. what names the
// field in the message.
func ValidateChoice(code Code, what, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "unknown %s %q (want one of %v)", what, value, allowed)
}

// ValidateChoices applies ValidateChoice to every value.
func ValidateChoices(code Code, what string, values, allowed []string) error {
	for _, v := range values {
		if err := ValidateChoice(code, what, v, allowed); err != nil {
			return err
		}
	}
	return nil
}
