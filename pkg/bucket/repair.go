package bucket

import (
	"slices"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// relevance maps relevant buckets to dense indices for reachability marks.
type relevance struct {
	buckets []hypergraph.Vertex
	index   []int
}

func newRelevance(n int, buckets []hypergraph.Vertex) *relevance {
	r := &relevance{buckets: buckets, index: make([]int, n)}
	for i := range r.index {
		r.index[i] = -1
	}
	for i, v := range buckets {
		r.index[v-hypergraph.FirstVertex] = i
	}
	return r
}

func (r *relevance) indexOf(v hypergraph.Vertex) int {
	return r.index[v-hypergraph.FirstVertex]
}

// reachable returns the relevant buckets reachable from start by
// breadth-first search, sorted ascending. start itself is included.
func reachable(start hypergraph.Vertex, rel *relevance, adj *adjacency) []hypergraph.Vertex {
	if len(rel.buckets) == 0 {
		return nil
	}
	seen := make([]bool, len(rel.buckets))
	seen[rel.indexOf(start)] = true
	out := []hypergraph.Vertex{start}

	frontier := []hypergraph.Vertex{start}
	var next []hypergraph.Vertex
	for len(frontier) > 0 {
		next = next[:0]
		for _, v := range frontier {
			for _, w := range adj.of(v) {
				i := rel.indexOf(w)
				if i < 0 || seen[i] {
					continue
				}
				seen[i] = true
				out = append(out, w)
				next = append(next, w)
			}
		}
		frontier, next = next, frontier
	}

	slices.Sort(out)
	return out
}

// unreachable returns the relevant buckets not reachable from start, sorted.
func unreachable(start hypergraph.Vertex, rel *relevance, adj *adjacency) []hypergraph.Vertex {
	if len(rel.buckets) == 0 {
		return nil
	}
	return difference(rel.buckets, reachable(start, rel, adj))
}

// repair links the fragments left by the sweep into a single tree rooted
// at root. Each fragment not containing root is joined to the relevant
// bucket outside it whose content overlaps most with the fragment's first
// bucket; the first such bucket wins ties, and root is used when nothing
// overlaps. Returns the number of edges added.
//
// Every join connects two different components, so the forest stays
// acyclic, and every fragment is joined once, so the result is connected.
func (a *Algorithm) repair(s *store, adj *adjacency, rel *relevance, root hypergraph.Vertex) int {
	if adj.edges >= len(rel.buckets)-1 {
		return 0
	}

	added := 0
	pending := unreachable(root, rel, adj)
	for len(pending) > 0 {
		current := pending[0]
		content := s.bucket(current)
		component := reachable(current, rel, adj)

		best, bestOverlap := hypergraph.UnknownVertex, 0
		j := 0
		for _, candidate := range rel.buckets {
			for j < len(component) && component[j] < candidate {
				j++
			}
			if j < len(component) && component[j] == candidate {
				continue
			}
			if overlap := intersectionSize(content, s.bucket(candidate)); overlap > bestOverlap {
				best, bestOverlap = candidate, overlap
			}
		}
		if best == hypergraph.UnknownVertex {
			best = root
		}

		a.logger.Debug("repairing fragment",
			"bucket", current,
			"fragment_size", len(component),
			"joined_to", best,
			"overlap", bestOverlap,
			"unreachable", len(pending))

		if len(pending) > 1 {
			pending = difference(pending, component)
		} else {
			pending = nil
		}

		adj.connect(best, current)
		added++
	}
	return added
}
