package bucket

import (
	"fmt"
	"slices"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// store holds the per-vertex buckets and the inverse of the elimination
// ordering. All slices are indexed by v-FirstVertex.
type store struct {
	order    []hypergraph.Vertex
	index    []int
	buckets  [][]hypergraph.Vertex
	isolated []bool
}

// newStore seeds Bucket[v] = {v} and assigns every hyperedge to the bucket of
// its minimum-index vertex. order must contain every vertex of g exactly once;
// vertices outside the graph or repeated in order yield ErrInvalidOrdering.
func newStore(g hypergraph.Hypergraph, order []hypergraph.Vertex) (*store, error) {
	n := g.VertexCount()
	s := &store{
		order:    order,
		index:    make([]int, n),
		buckets:  make([][]hypergraph.Vertex, n),
		isolated: make([]bool, n),
	}
	for i := range s.index {
		s.index[i] = -1
	}
	for i, v := range order {
		if v < hypergraph.FirstVertex || int(v-hypergraph.FirstVertex) >= n {
			return nil, fmt.Errorf("%w: vertex %d out of range", ErrInvalidOrdering, v)
		}
		if s.index[v-hypergraph.FirstVertex] >= 0 {
			return nil, fmt.Errorf("%w: vertex %d repeated", ErrInvalidOrdering, v)
		}
		s.index[v-hypergraph.FirstVertex] = i
	}
	for i := range s.buckets {
		s.buckets[i] = []hypergraph.Vertex{hypergraph.FirstVertex + hypergraph.Vertex(i)}
		s.isolated[i] = true
	}

	for _, edge := range g.Hyperedges() {
		elements := hypergraph.Normalize(edge)
		owner := s.minimumVertex(elements)
		if len(elements) > 1 {
			for _, v := range elements {
				s.isolated[v-hypergraph.FirstVertex] = false
			}
		}
		s.merge(owner, elements)
	}
	return s, nil
}

// bucket returns the live bucket of v. Callers must not modify it.
func (s *store) bucket(v hypergraph.Vertex) []hypergraph.Vertex {
	return s.buckets[v-hypergraph.FirstVertex]
}

// merge unions the sorted set vs into Bucket[v].
func (s *store) merge(v hypergraph.Vertex, vs []hypergraph.Vertex) {
	i := v - hypergraph.FirstVertex
	s.buckets[i] = union(s.buckets[i], vs)
}

// minimumVertex returns the member of vs eliminated first. It panics on an
// empty set: every caller passes a non-empty hyperedge or bucket remainder.
func (s *store) minimumVertex(vs []hypergraph.Vertex) hypergraph.Vertex {
	if len(vs) == 0 {
		panic("bucket: minimum vertex of an empty set")
	}
	best, bestIndex := hypergraph.UnknownVertex, len(s.index)
	for _, v := range vs {
		if idx := s.index[v-hypergraph.FirstVertex]; idx < bestIndex {
			best, bestIndex = v, idx
		}
	}
	return best
}

// isolatedVertices returns the vertices that never occur in a hyperedge with
// another vertex, in ascending order.
func (s *store) isolatedVertices() []hypergraph.Vertex {
	var out []hypergraph.Vertex
	for i, iso := range s.isolated {
		if iso {
			out = append(out, hypergraph.FirstVertex+hypergraph.Vertex(i))
		}
	}
	return out
}

// snapshot returns a deep copy of all buckets.
func (s *store) snapshot() [][]hypergraph.Vertex {
	out := make([][]hypergraph.Vertex, len(s.buckets))
	for i, b := range s.buckets {
		out[i] = slices.Clone(b)
	}
	return out
}

// union merges two sorted, duplicate-free slices into a new one.
func union(a, b []hypergraph.Vertex) []hypergraph.Vertex {
	out := make([]hypergraph.Vertex, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// difference returns the members of sorted a that are not in sorted b.
func difference(a, b []hypergraph.Vertex) []hypergraph.Vertex {
	var out []hypergraph.Vertex
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j == len(b) || b[j] != v {
			out = append(out, v)
		}
	}
	return out
}

// intersectionSize counts the common members of two sorted slices.
func intersectionSize(a, b []hypergraph.Vertex) int {
	count, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			count++
			i++
			j++
		}
	}
	return count
}
