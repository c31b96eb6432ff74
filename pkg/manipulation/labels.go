package manipulation

import (
	"slices"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// Label names written by the built-in labeling functions.
const (
	LabelBagSize      = "bag_size"
	LabelInducedEdges = "induced_edges"
	LabelCritical     = "critical"
)

// BagSize labels every node with the number of vertices in its bag.
type BagSize struct{}

func (BagSize) Name() string { return LabelBagSize }

func (BagSize) ComputeLabel(bag []hypergraph.Vertex, _ decomposition.Labels) (decomposition.Label, error) {
	return len(bag), nil
}

func (BagSize) CloneLabeling() LabelingFunction { return BagSize{} }

// InducedEdges labels every node with the number of hyperedges of the
// source graph whose vertices all lie in the node's bag.
type InducedEdges struct {
	edges [][]hypergraph.Vertex
}

// NewInducedEdges prepares an InducedEdges labeling for g.
func NewInducedEdges(g hypergraph.Hypergraph) *InducedEdges {
	edges := make([][]hypergraph.Vertex, 0, len(g.Hyperedges()))
	for _, e := range g.Hyperedges() {
		edges = append(edges, hypergraph.Normalize(e))
	}
	return &InducedEdges{edges: edges}
}

func (f *InducedEdges) Name() string { return LabelInducedEdges }

func (f *InducedEdges) ComputeLabel(bag []hypergraph.Vertex, _ decomposition.Labels) (decomposition.Label, error) {
	count := 0
	for _, e := range f.edges {
		if subset(e, bag) {
			count++
		}
	}
	return count, nil
}

// CloneLabeling shares the normalized edge list, which is never modified.
func (f *InducedEdges) CloneLabeling() LabelingFunction {
	return &InducedEdges{edges: f.edges}
}

// Constant labels every node with the same value.
type Constant struct {
	Key   string
	Value decomposition.Label
}

func (c Constant) Name() string { return c.Key }

func (c Constant) ComputeLabel([]hypergraph.Vertex, decomposition.Labels) (decomposition.Label, error) {
	return c.Value, nil
}

func (c Constant) CloneLabeling() LabelingFunction { return c }

// Critical is both a manipulation and a labeling function. Apply records
// the largest bag size of the (already manipulated) tree; ComputeLabel then
// marks the nodes whose bag attains it, i.e. the nodes that determine the
// width.
type Critical struct {
	maxBag int
}

func (c *Critical) Name() string { return LabelCritical }

func (c *Critical) Apply(t *decomposition.Tree) error {
	c.maxBag = t.Width() + 1
	return nil
}

func (c *Critical) ComputeLabel(bag []hypergraph.Vertex, _ decomposition.Labels) (decomposition.Label, error) {
	return len(bag) == c.maxBag, nil
}

func (c *Critical) CloneLabeling() LabelingFunction { return &Critical{maxBag: c.maxBag} }

func (c *Critical) CloneManipulation() Manipulation { return &Critical{maxBag: c.maxBag} }

// subset reports whether sorted a is contained in sorted b.
func subset(a, b []hypergraph.Vertex) bool {
	for _, v := range a {
		if _, ok := slices.BinarySearch(b, v); !ok {
			return false
		}
	}
	return true
}
