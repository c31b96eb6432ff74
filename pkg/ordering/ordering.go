// Package ordering provides elimination orderings for bucket elimination.
//
// An elimination ordering is a permutation of a hypergraph's vertex set. The
// decomposition algorithm treats the [Provider] as opaque: it only checks
// that the result has the right length.
//
// Providers are selected explicitly, either by constructing one directly or by
// name through [New]. There is no process-wide default.
package ordering

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// ErrUnknownProvider is returned by [New] for names it does not recognize.
var ErrUnknownProvider = errors.New("unknown ordering provider")

// Provider computes an elimination ordering for a hypergraph.
type Provider interface {
	ComputeOrdering(g hypergraph.Hypergraph) []hypergraph.Vertex
}

// Names of the built-in providers accepted by New.
const (
	NameNatural   = "natural"
	NameMinDegree = "min-degree"
	NameMinFill   = "min-fill"
)

// DefaultName is the provider used when none is configured.
const DefaultName = NameMinFill

// Names returns the names accepted by New in a stable order.
func Names() []string {
	return []string{NameNatural, NameMinDegree, NameMinFill}
}

// New returns the built-in provider registered under name.
func New(name string) (Provider, error) {
	switch name {
	case NameNatural:
		return Natural{}, nil
	case NameMinDegree:
		return MinDegree{}, nil
	case NameMinFill:
		return MinFill{}, nil
	}
	return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownProvider, name, Names())
}

// Natural eliminates vertices in ascending identifier order.
type Natural struct{}

// ComputeOrdering returns the vertices of g in ascending order.
func (Natural) ComputeOrdering(g hypergraph.Hypergraph) []hypergraph.Vertex {
	vs := slices.Clone(g.Vertices())
	slices.Sort(vs)
	return vs
}

// Fixed replays a caller-supplied ordering. It does not check that the
// sequence is a permutation of the graph's vertices.
type Fixed []hypergraph.Vertex

// ComputeOrdering returns a copy of the fixed sequence.
func (f Fixed) ComputeOrdering(hypergraph.Hypergraph) []hypergraph.Vertex {
	return slices.Clone(f)
}

// IsPermutation reports whether order contains every vertex of g exactly once.
func IsPermutation(g hypergraph.Hypergraph, order []hypergraph.Vertex) bool {
	if len(order) != g.VertexCount() {
		return false
	}
	seen := make(map[hypergraph.Vertex]bool, len(order))
	for _, v := range g.Vertices() {
		seen[v] = false
	}
	for _, v := range order {
		done, ok := seen[v]
		if !ok || done {
			return false
		}
		seen[v] = true
	}
	return true
}
