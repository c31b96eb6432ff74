package bucket

import (
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// adjacency is the undirected relation between buckets. Every edge is
// recorded in both endpoints' lists, in insertion order.
type adjacency struct {
	neighbors [][]hypergraph.Vertex
	edges     int
}

func newAdjacency(n int) *adjacency {
	return &adjacency{neighbors: make([][]hypergraph.Vertex, n)}
}

func (a *adjacency) connect(u, v hypergraph.Vertex) {
	a.neighbors[u-hypergraph.FirstVertex] = append(a.neighbors[u-hypergraph.FirstVertex], v)
	a.neighbors[v-hypergraph.FirstVertex] = append(a.neighbors[v-hypergraph.FirstVertex], u)
	a.edges++
}

func (a *adjacency) of(v hypergraph.Vertex) []hypergraph.Vertex {
	return a.neighbors[v-hypergraph.FirstVertex]
}

// sweep eliminates the vertices in order. When Bucket[selection] holds other
// vertices, they are merged into the bucket of the next of them to be
// eliminated and the two buckets are linked. Each vertex gains at most one
// parent this way, and parents are always eliminated later, so the result
// is a forest.
func (a *Algorithm) sweep(s *store) *adjacency {
	adj := newAdjacency(len(s.buckets))
	rest := make([]hypergraph.Vertex, 0)

	for _, selection := range s.order {
		rest = rest[:0]
		for _, v := range s.bucket(selection) {
			if v != selection {
				rest = append(rest, v)
			}
		}
		if len(rest) == 0 {
			continue
		}

		parent := s.minimumVertex(rest)
		s.merge(parent, rest)
		adj.connect(selection, parent)

		a.logger.Debug("connected buckets", "selection", selection, "parent", parent, "rest", rest)
	}
	return adj
}
