package bucket

import (
	"fmt"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// assemble materializes the repaired adjacency as a rooted tree. Buckets are
// visited depth-first from root; each relevant bucket becomes one node whose
// bag is the bucket's content, and children keep adjacency insertion order.
func (a *Algorithm) assemble(s *store, adj *adjacency, rel *relevance, root hypergraph.Vertex) (*decomposition.Tree, map[hypergraph.Vertex]decomposition.NodeID, error) {
	t := a.factory()
	if t == nil {
		return nil, nil, ErrNilFactoryResult
	}

	rootNode, err := t.AddRoot(s.bucket(root))
	if err != nil {
		return nil, nil, fmt.Errorf("assemble root %d: %w", root, err)
	}
	nodes := map[hypergraph.Vertex]decomposition.NodeID{root: rootNode}

	type frame struct {
		bucket hypergraph.Vertex
		node   decomposition.NodeID
	}
	stack := []frame{{root, rootNode}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		neighbors := adj.of(f.bucket)
		children := make([]frame, 0, len(neighbors))
		for _, w := range neighbors {
			if rel.indexOf(w) < 0 {
				continue
			}
			if _, done := nodes[w]; done {
				continue
			}
			id, err := t.AddChild(f.node, s.bucket(w))
			if err != nil {
				return nil, nil, fmt.Errorf("assemble bucket %d: %w", w, err)
			}
			nodes[w] = id
			children = append(children, frame{w, id})
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	if len(nodes) != len(rel.buckets) {
		return nil, nil, fmt.Errorf("%w: %d of %d buckets reachable", ErrDisconnected, len(nodes), len(rel.buckets))
	}
	return t, nodes, nil
}
