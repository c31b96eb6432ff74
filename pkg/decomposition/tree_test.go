package decomposition

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

func vs(xs ...hypergraph.Vertex) []hypergraph.Vertex { return xs }

// chain builds root{1,2} -> a{2,3} -> b{3}.
func chain(t *testing.T) (*Tree, NodeID, NodeID, NodeID) {
	t.Helper()
	tr := NewTree()
	root, err := tr.AddRoot(vs(2, 1, 2))
	if err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	a, err := tr.AddChild(root, vs(3, 2))
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	b, err := tr.AddChild(a, vs(3))
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	return tr, root, a, b
}

func TestTree_Build(t *testing.T) {
	tr, root, a, b := chain(t)

	if tr.NodeCount() != 3 || tr.EdgeCount() != 2 {
		t.Errorf("counts = %d nodes, %d edges, want 3, 2", tr.NodeCount(), tr.EdgeCount())
	}
	if tr.Root() != root {
		t.Errorf("Root() = %d, want %d", tr.Root(), root)
	}
	if got := tr.Bag(root); !slices.Equal(got, vs(1, 2)) {
		t.Errorf("Bag(root) = %v, want [1 2]", got)
	}
	if got := tr.Nodes(); !slices.Equal(got, []NodeID{root, a, b}) {
		t.Errorf("Nodes() = %v, want pre-order", got)
	}
	if tr.Parent(b) != a || tr.Parent(root) != NoNode {
		t.Error("Parent links wrong")
	}
	if got := tr.Leaves(); !slices.Equal(got, []NodeID{b}) {
		t.Errorf("Leaves() = %v, want [%d]", got, b)
	}
	if tr.Width() != 1 {
		t.Errorf("Width() = %d, want 1", tr.Width())
	}
}

func TestTree_Errors(t *testing.T) {
	tr, _, _, _ := chain(t)

	if _, err := tr.AddRoot(nil); !errors.Is(err, ErrRootExists) {
		t.Errorf("AddRoot twice error = %v, want ErrRootExists", err)
	}
	if _, err := tr.AddChild(99, nil); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddChild(99) error = %v, want ErrUnknownNode", err)
	}
	if err := tr.SetLabel("", tr.Root(), 1); !errors.Is(err, ErrEmptyLabelName) {
		t.Errorf("SetLabel(\"\") error = %v, want ErrEmptyLabelName", err)
	}
	if err := tr.SetBag(99, nil); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetBag(99) error = %v, want ErrUnknownNode", err)
	}
}

func TestTree_Empty(t *testing.T) {
	tr := NewTree()
	if !tr.IsEmpty() || tr.NodeCount() != 0 || tr.EdgeCount() != 0 {
		t.Error("NewTree should be empty")
	}
	if tr.Width() != -1 {
		t.Errorf("Width() = %d, want -1", tr.Width())
	}
	if tr.Nodes() != nil {
		t.Error("Nodes() of empty tree should be nil")
	}
}

func TestTree_Labels(t *testing.T) {
	tr, root, _, _ := chain(t)

	_ = tr.SetLabel("size", root, 2)
	_ = tr.SetLabel("size", root, 3)
	if v, ok := tr.Label("size", root); !ok || v != 3 {
		t.Errorf("Label(size) = %v, %v, want 3, true", v, ok)
	}

	snap := tr.ExportLabels(root)
	snap["size"] = 100
	snap["extra"] = true
	if v, _ := tr.Label("size", root); v != 3 {
		t.Error("mutating snapshot changed the tree")
	}
	if _, ok := tr.Label("extra", root); ok {
		t.Error("snapshot insert leaked into tree")
	}

	_ = tr.SetLabel("alpha", root, "x")
	if got := tr.LabelNames(); !slices.Equal(got, []string{"alpha", "size"}) {
		t.Errorf("LabelNames() = %v", got)
	}
}

func TestTree_NewRoot(t *testing.T) {
	tr, root, _, _ := chain(t)

	top := tr.NewRoot(nil)
	if tr.Root() != top || tr.Parent(root) != top {
		t.Error("NewRoot did not link above old root")
	}
	if got := tr.Children(top); !slices.Equal(got, []NodeID{root}) {
		t.Errorf("Children(new root) = %v", got)
	}

	empty := NewTree()
	r := empty.NewRoot(vs(1))
	if empty.Root() != r || empty.NodeCount() != 1 {
		t.Error("NewRoot on empty tree should create the root")
	}
}

func TestTree_InsertBetween(t *testing.T) {
	tr, root, a, b := chain(t)

	mid, err := tr.InsertBetween(a, b, vs(3))
	if err != nil {
		t.Fatalf("InsertBetween: %v", err)
	}
	if tr.Parent(b) != mid || tr.Parent(mid) != a {
		t.Error("InsertBetween links wrong")
	}
	if _, err := tr.InsertBetween(root, b, nil); !errors.Is(err, ErrNotAdjacent) {
		t.Errorf("InsertBetween(non-adjacent) error = %v, want ErrNotAdjacent", err)
	}
}

func TestTree_RemoveNode(t *testing.T) {
	tr, root, a, b := chain(t)
	c, _ := tr.AddChild(a, vs(2))

	if err := tr.RemoveNode(a); err != nil {
		t.Fatalf("RemoveNode(a): %v", err)
	}
	if got := tr.Children(root); !slices.Equal(got, []NodeID{b, c}) {
		t.Errorf("Children(root) = %v, want [%d %d]", got, b, c)
	}
	if tr.Parent(b) != root {
		t.Error("child not re-parented")
	}
	if err := tr.RemoveNode(root); !errors.Is(err, ErrAmbiguousRoot) {
		t.Errorf("RemoveNode(root) error = %v, want ErrAmbiguousRoot", err)
	}

	_ = tr.RemoveNode(c)
	if err := tr.RemoveNode(root); err != nil {
		t.Fatalf("RemoveNode(root): %v", err)
	}
	if tr.Root() != b || tr.Parent(b) != NoNode {
		t.Error("single child not promoted to root")
	}
	_ = tr.RemoveNode(b)
	if !tr.IsEmpty() || tr.Root() != NoNode {
		t.Error("tree should be empty")
	}
}

func TestTree_SetRoot(t *testing.T) {
	tr, root, a, b := chain(t)

	if err := tr.SetRoot(b); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	if got := tr.Nodes(); !slices.Equal(got, []NodeID{b, a, root}) {
		t.Errorf("Nodes() after SetRoot = %v", got)
	}
	if tr.Parent(root) != a || tr.Parent(a) != b || tr.Parent(b) != NoNode {
		t.Error("parent links not reversed")
	}
	if err := tr.SetRoot(42); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetRoot(42) error = %v, want ErrUnknownNode", err)
	}
}

func TestTree_Clone(t *testing.T) {
	tr, root, _, _ := chain(t)
	_ = tr.SetLabel("x", root, 1)

	c := tr.Clone()
	_ = c.SetBag(root, vs(9))
	_ = c.SetLabel("x", root, 2)
	_, _ = c.AddChild(root, nil)

	if got := tr.Bag(root); !slices.Equal(got, vs(1, 2)) {
		t.Error("Clone shares bags")
	}
	if v, _ := tr.Label("x", root); v != 1 {
		t.Error("Clone shares labels")
	}
	if tr.NodeCount() != 3 {
		t.Error("Clone shares structure")
	}
}
