package decomposition

import (
	"errors"
	"testing"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

func TestValidate(t *testing.T) {
	g := hypergraph.New(3)
	_ = g.AddEdge(1, 2)
	_ = g.AddEdge(3, 2)

	tests := []struct {
		name  string
		build func() *Tree
		want  error
	}{
		{
			name: "valid chain",
			build: func() *Tree {
				tr := NewTree()
				r, _ := tr.AddRoot(vs(1, 2))
				a, _ := tr.AddChild(r, vs(2, 3))
				_, _ = tr.AddChild(a, vs(3))
				return tr
			},
		},
		{
			name: "missing vertex",
			build: func() *Tree {
				tr := NewTree()
				_, _ = tr.AddRoot(vs(1, 2))
				return tr
			},
			want: ErrVertexNotCovered,
		},
		{
			name: "edge split across bags",
			build: func() *Tree {
				tr := NewTree()
				r, _ := tr.AddRoot(vs(1, 2))
				_, _ = tr.AddChild(r, vs(3))
				return tr
			},
			want: ErrEdgeNotCovered,
		},
		{
			name: "disconnected occurrences",
			build: func() *Tree {
				tr := NewTree()
				r, _ := tr.AddRoot(vs(1, 2))
				a, _ := tr.AddChild(r, vs(1))
				_, _ = tr.AddChild(a, vs(2, 3))
				return tr
			},
			want: ErrDisconnectedOccurrence,
		},
		{
			name:  "empty tree for non-empty graph",
			build: NewTree,
			want:  ErrVertexNotCovered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(g, tt.build())
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	if err := Validate(hypergraph.New(0), NewTree()); err != nil {
		t.Errorf("Validate(empty, empty) = %v", err)
	}
}

func TestValidate_BrokenStructure(t *testing.T) {
	tr := NewTree()
	r, _ := tr.AddRoot(vs(1))
	c, _ := tr.AddChild(r, vs(1))
	tr.nodes[c].parent = NoNode

	if err := Validate(hypergraph.New(1), tr); !errors.Is(err, ErrNotATree) {
		t.Errorf("Validate() = %v, want ErrNotATree", err)
	}
}
