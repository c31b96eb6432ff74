package decomposition

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

var (
	// ErrNotATree is returned by [Validate] when parent and child links
	// disagree or some node is unreachable from the root.
	ErrNotATree = errors.New("decomposition is not a tree")

	// ErrVertexNotCovered is returned by [Validate] when a vertex of the
	// hypergraph appears in no bag.
	ErrVertexNotCovered = errors.New("vertex not covered by any bag")

	// ErrEdgeNotCovered is returned by [Validate] when no single bag
	// contains all vertices of a hyperedge.
	ErrEdgeNotCovered = errors.New("hyperedge not covered by any bag")

	// ErrDisconnectedOccurrence is returned by [Validate] when the nodes
	// containing a vertex do not form a connected subtree.
	ErrDisconnectedOccurrence = errors.New("vertex occurrences are not connected")
)

// Validate checks that t is a tree decomposition of g:
//
//  1. The node links form a single tree rooted at t.Root()
//  2. Every vertex of g appears in some bag
//  3. Every hyperedge of g is contained in some bag
//  4. For every vertex, the nodes whose bag contains it induce a connected subtree
//
// An empty tree is a valid decomposition only of the empty hypergraph.
// Errors wrap one of the sentinel errors above with the offending element.
func Validate(g hypergraph.Hypergraph, t *Tree) error {
	if err := validateStructure(t); err != nil {
		return err
	}

	occurrences := make(map[hypergraph.Vertex][]NodeID)
	for _, id := range t.Nodes() {
		for _, v := range t.nodes[id].bag {
			occurrences[v] = append(occurrences[v], id)
		}
	}

	for _, v := range g.Vertices() {
		if len(occurrences[v]) == 0 {
			return fmt.Errorf("%w: %d", ErrVertexNotCovered, v)
		}
	}

	for i, e := range g.Hyperedges() {
		edge := hypergraph.Normalize(e)
		if len(edge) > 0 && !t.covers(edge, occurrences) {
			return fmt.Errorf("%w: edge %d %v", ErrEdgeNotCovered, i, e)
		}
	}

	for _, v := range g.Vertices() {
		if !t.connected(occurrences[v]) {
			return fmt.Errorf("%w: %d", ErrDisconnectedOccurrence, v)
		}
	}
	return nil
}

func validateStructure(t *Tree) error {
	if t.root == NoNode {
		if len(t.nodes) != 0 {
			return fmt.Errorf("%w: nodes without root", ErrNotATree)
		}
		return nil
	}
	if t.nodes[t.root] == nil || t.nodes[t.root].parent != NoNode {
		return fmt.Errorf("%w: invalid root %d", ErrNotATree, t.root)
	}
	for id, n := range t.nodes {
		for _, c := range n.children {
			cn, ok := t.nodes[c]
			if !ok || cn.parent != id {
				return fmt.Errorf("%w: broken link %d->%d", ErrNotATree, id, c)
			}
		}
	}
	if reached := len(t.Nodes()); reached != len(t.nodes) {
		return fmt.Errorf("%w: %d of %d nodes reachable from root", ErrNotATree, reached, len(t.nodes))
	}
	return nil
}

// covers reports whether some bag holding edge[0] holds all of edge.
func (t *Tree) covers(edge []hypergraph.Vertex, occurrences map[hypergraph.Vertex][]NodeID) bool {
	for _, id := range occurrences[edge[0]] {
		bag := t.nodes[id].bag
		if all(edge, func(v hypergraph.Vertex) bool {
			_, found := slices.BinarySearch(bag, v)
			return found
		}) {
			return true
		}
	}
	return false
}

// connected reports whether the given nodes induce a connected subtree.
// In a rooted tree this holds exactly when one of them has its parent
// outside the set.
func (t *Tree) connected(ids []NodeID) bool {
	in := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	tops := 0
	for _, id := range ids {
		if p := t.nodes[id].parent; p == NoNode || !in[p] {
			tops++
		}
	}
	return tops == 1
}

func all[T any](xs []T, pred func(T) bool) bool {
	for _, x := range xs {
		if !pred(x) {
			return false
		}
	}
	return true
}
