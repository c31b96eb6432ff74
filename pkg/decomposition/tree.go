package decomposition

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

var (
	// ErrUnknownNode is returned when a node ID does not exist in the tree.
	ErrUnknownNode = errors.New("unknown node")

	// ErrRootExists is returned by [Tree.AddRoot] when the tree already has
	// a root. Use [Tree.NewRoot] to place a node above the current root.
	ErrRootExists = errors.New("tree already has a root")

	// ErrNotAdjacent is returned by [Tree.InsertBetween] when child is not a
	// direct child of parent.
	ErrNotAdjacent = errors.New("nodes are not parent and child")

	// ErrAmbiguousRoot is returned by [Tree.RemoveNode] when removing a root
	// with several children, which would leave no unique successor.
	ErrAmbiguousRoot = errors.New("cannot remove a root with more than one child")

	// ErrEmptyLabelName is returned by [Tree.SetLabel] for an empty name.
	ErrEmptyLabelName = errors.New("label name must not be empty")
)

// NodeID identifies a node of a [Tree]. IDs start at 1 and are never reused
// within one tree; [NoNode] marks the absence of a node.
type NodeID int

// NoNode is the zero NodeID, returned where no node exists (e.g. the parent
// of the root).
const NoNode NodeID = 0

// Label is an arbitrary value attached to a node under a name.
type Label any

// Labels is a snapshot of all labels on one node, keyed by name.
type Labels map[string]Label

// Factory produces the decomposition object an algorithm fills in.
// Algorithms return the factory's result unchanged for the empty graph.
type Factory func() *Tree

type node struct {
	bag      []hypergraph.Vertex
	parent   NodeID
	children []NodeID
	labels   Labels
}

// Tree is a rooted tree whose nodes carry a bag (a sorted, duplicate-free set
// of hypergraph vertices) and named labels.
//
// The zero value is not usable - use [NewTree]. Tree is not safe for
// concurrent use without external synchronization.
type Tree struct {
	nodes map[NodeID]*node
	root  NodeID
	next  NodeID
}

// NewTree returns an empty tree. It is the default [Factory].
func NewTree() *Tree {
	return &Tree{nodes: make(map[NodeID]*node), next: 1}
}

func (t *Tree) newNode(bag []hypergraph.Vertex, parent NodeID) NodeID {
	id := t.next
	t.next++
	t.nodes[id] = &node{bag: hypergraph.Normalize(bag), parent: parent, labels: Labels{}}
	return id
}

func (t *Tree) get(id NodeID) (*node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, ErrUnknownNode
	}
	return n, nil
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree) IsEmpty() bool { return len(t.nodes) == 0 }

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of tree edges (NodeCount-1 for a non-empty tree).
func (t *Tree) EdgeCount() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return len(t.nodes) - 1
}

// Contains reports whether id names a node of the tree.
func (t *Tree) Contains(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// AddRoot creates the root node with the given bag.
// Returns ErrRootExists if the tree is not empty.
func (t *Tree) AddRoot(bag []hypergraph.Vertex) (NodeID, error) {
	if t.root != NoNode {
		return NoNode, ErrRootExists
	}
	t.root = t.newNode(bag, NoNode)
	return t.root, nil
}

// AddChild attaches a new node with the given bag below parent.
func (t *Tree) AddChild(parent NodeID, bag []hypergraph.Vertex) (NodeID, error) {
	p, err := t.get(parent)
	if err != nil {
		return NoNode, err
	}
	id := t.newNode(bag, parent)
	p.children = append(p.children, id)
	return id, nil
}

// NewRoot places a new node with the given bag above the current root and
// makes it the root. On an empty tree it behaves like AddRoot.
func (t *Tree) NewRoot(bag []hypergraph.Vertex) NodeID {
	old := t.root
	id := t.newNode(bag, NoNode)
	if old != NoNode {
		t.nodes[old].parent = id
		t.nodes[id].children = []NodeID{old}
	}
	t.root = id
	return id
}

// SetRoot re-roots the tree at id, reversing the parent links on the path
// from id to the old root. The order of other children is preserved; the
// former parent is appended as the last child of each node on the path.
func (t *Tree) SetRoot(id NodeID) error {
	if _, err := t.get(id); err != nil {
		return err
	}
	var path []NodeID
	for cur := id; cur != NoNode; cur = t.nodes[cur].parent {
		path = append(path, cur)
	}
	for i := len(path) - 1; i > 0; i-- {
		upper, lower := t.nodes[path[i]], t.nodes[path[i-1]]
		upper.children = slices.DeleteFunc(upper.children, func(c NodeID) bool { return c == path[i-1] })
		lower.children = append(lower.children, path[i])
		upper.parent = path[i-1]
	}
	t.nodes[id].parent = NoNode
	t.root = id
	return nil
}

// InsertBetween creates a node with the given bag on the edge parent→child.
// The new node takes child's position among parent's children.
func (t *Tree) InsertBetween(parent, child NodeID, bag []hypergraph.Vertex) (NodeID, error) {
	p, err := t.get(parent)
	if err != nil {
		return NoNode, err
	}
	c, err := t.get(child)
	if err != nil {
		return NoNode, err
	}
	pos := slices.Index(p.children, child)
	if c.parent != parent || pos < 0 {
		return NoNode, ErrNotAdjacent
	}
	id := t.newNode(bag, parent)
	p.children[pos] = id
	t.nodes[id].children = []NodeID{child}
	c.parent = id
	return id, nil
}

// MoveChild detaches child from its parent and appends it to newParent's
// children. Returns ErrNotATree if newParent lies in child's subtree, and
// ErrAmbiguousRoot if child is the root.
func (t *Tree) MoveChild(child, newParent NodeID) error {
	c, err := t.get(child)
	if err != nil {
		return err
	}
	np, err := t.get(newParent)
	if err != nil {
		return err
	}
	if c.parent == NoNode {
		return ErrAmbiguousRoot
	}
	for cur := newParent; cur != NoNode; cur = t.nodes[cur].parent {
		if cur == child {
			return ErrNotATree
		}
	}
	old := t.nodes[c.parent]
	old.children = slices.DeleteFunc(old.children, func(id NodeID) bool { return id == child })
	np.children = append(np.children, child)
	c.parent = newParent
	return nil
}

// RemoveNode deletes id and splices its children into its parent at id's
// position. Removing the root promotes its only child; a root with several
// children returns ErrAmbiguousRoot.
func (t *Tree) RemoveNode(id NodeID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.parent == NoNode {
		switch len(n.children) {
		case 0:
			t.root = NoNode
		case 1:
			t.root = n.children[0]
			t.nodes[t.root].parent = NoNode
		default:
			return ErrAmbiguousRoot
		}
		delete(t.nodes, id)
		return nil
	}

	p := t.nodes[n.parent]
	pos := slices.Index(p.children, id)
	p.children = slices.Replace(p.children, pos, pos+1, n.children...)
	for _, c := range n.children {
		t.nodes[c].parent = n.parent
	}
	delete(t.nodes, id)
	return nil
}

// Parent returns the parent of id, or NoNode for the root or an unknown node.
func (t *Tree) Parent(id NodeID) NodeID {
	if n, ok := t.nodes[id]; ok {
		return n.parent
	}
	return NoNode
}

// Children returns a copy of id's children in insertion order.
func (t *Tree) Children(id NodeID) []NodeID {
	if n, ok := t.nodes[id]; ok {
		return slices.Clone(n.children)
	}
	return nil
}

// Neighbors returns the parent (if any) followed by the children of id.
func (t *Tree) Neighbors(id NodeID) []NodeID {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	var out []NodeID
	if n.parent != NoNode {
		out = append(out, n.parent)
	}
	return append(out, n.children...)
}

// Nodes returns all node IDs in depth-first pre-order starting at the root.
func (t *Tree) Nodes() []NodeID {
	if t.root == NoNode {
		return nil
	}
	out := make([]NodeID, 0, len(t.nodes))
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)
		children := t.nodes[id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// Leaves returns the nodes without children in pre-order.
func (t *Tree) Leaves() []NodeID {
	var out []NodeID
	for _, id := range t.Nodes() {
		if len(t.nodes[id].children) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Bag returns a copy of the bag of id, or nil for an unknown node.
func (t *Tree) Bag(id NodeID) []hypergraph.Vertex {
	if n, ok := t.nodes[id]; ok {
		return slices.Clone(n.bag)
	}
	return nil
}

// SetBag replaces the bag of id. The bag is stored sorted and unique.
func (t *Tree) SetBag(id NodeID, bag []hypergraph.Vertex) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.bag = hypergraph.Normalize(bag)
	return nil
}

// SetLabel attaches value to id under name, replacing any previous value.
func (t *Tree) SetLabel(name string, id NodeID, value Label) error {
	if name == "" {
		return ErrEmptyLabelName
	}
	n, err := t.get(id)
	if err != nil {
		return err
	}
	n.labels[name] = value
	return nil
}

// Label returns the value stored under name on id.
func (t *Tree) Label(name string, id NodeID) (Label, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	v, ok := n.labels[name]
	return v, ok
}

// ExportLabels returns a fresh snapshot of all labels on id. Changes to the
// snapshot do not affect the tree.
func (t *Tree) ExportLabels(id NodeID) Labels {
	n, ok := t.nodes[id]
	if !ok {
		return Labels{}
	}
	return maps.Clone(n.labels)
}

// LabelNames returns the sorted set of label names used anywhere in the tree.
func (t *Tree) LabelNames() []string {
	seen := make(map[string]struct{})
	for _, n := range t.nodes {
		for name := range n.labels {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Width returns the size of the largest bag minus one, or -1 for an empty tree.
func (t *Tree) Width() int {
	width := -1
	for _, n := range t.nodes {
		width = max(width, len(n.bag)-1)
	}
	return width
}

// Clone returns a deep copy of the tree. Label values are copied shallowly.
func (t *Tree) Clone() *Tree {
	c := &Tree{nodes: make(map[NodeID]*node, len(t.nodes)), root: t.root, next: t.next}
	for id, n := range t.nodes {
		c.nodes[id] = &node{
			bag:      slices.Clone(n.bag),
			parent:   n.parent,
			children: slices.Clone(n.children),
			labels:   maps.Clone(n.labels),
		}
	}
	return c
}
