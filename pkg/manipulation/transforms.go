package manipulation

import (
	"errors"
	"fmt"

	"github.com/matzehuels/bagtree/pkg/decomposition"
)

// ErrInvalidChildLimit is returned by [LimitChildCount.Apply] for limits
// below 2, which cannot keep the tree connected.
var ErrInvalidChildLimit = errors.New("child limit must be at least 2")

// AddEmptyRoot places a node with an empty bag above the root, unless the
// root's bag is already empty. Empty trees are left alone.
type AddEmptyRoot struct{}

func (AddEmptyRoot) Apply(t *decomposition.Tree) error {
	if t.IsEmpty() || len(t.Bag(t.Root())) == 0 {
		return nil
	}
	t.NewRoot(nil)
	return nil
}

func (AddEmptyRoot) CloneManipulation() Manipulation { return AddEmptyRoot{} }

// AddEmptyLeaves attaches a child with an empty bag below every leaf whose
// bag is not already empty.
type AddEmptyLeaves struct{}

func (AddEmptyLeaves) Apply(t *decomposition.Tree) error {
	for _, leaf := range t.Leaves() {
		if len(t.Bag(leaf)) == 0 {
			continue
		}
		if _, err := t.AddChild(leaf, nil); err != nil {
			return err
		}
	}
	return nil
}

func (AddEmptyLeaves) CloneManipulation() Manipulation { return AddEmptyLeaves{} }

// Compress merges every node into its parent when one bag contains the
// other. The merged node keeps the larger bag, so the result is still a
// valid decomposition and no two adjacent bags are in a subset relation.
type Compress struct{}

func (Compress) Apply(t *decomposition.Tree) error {
	for changed := true; changed; {
		changed = false
		for _, id := range t.Nodes() {
			parent := t.Parent(id)
			if parent == decomposition.NoNode {
				continue
			}
			bag, parentBag := t.Bag(id), t.Bag(parent)
			switch {
			case subset(bag, parentBag):
			case subset(parentBag, bag):
				if err := t.SetBag(parent, bag); err != nil {
					return err
				}
			default:
				continue
			}
			if err := t.RemoveNode(id); err != nil {
				return fmt.Errorf("compress node %d: %w", id, err)
			}
			changed = true
			break
		}
	}
	return nil
}

func (Compress) CloneManipulation() Manipulation { return Compress{} }

// LimitChildCount rewrites the tree so that no node has more than Max
// children. Surplus children are moved below inserted copies of their
// parent's bag, which preserves the decomposition properties.
type LimitChildCount struct {
	Max int
}

func (l LimitChildCount) Apply(t *decomposition.Tree) error {
	if l.Max < 2 {
		return fmt.Errorf("%w: %d", ErrInvalidChildLimit, l.Max)
	}
	work := t.Nodes()
	for len(work) > 0 {
		id := work[0]
		work = work[1:]

		children := t.Children(id)
		if len(children) <= l.Max {
			continue
		}
		extra, err := t.AddChild(id, t.Bag(id))
		if err != nil {
			return err
		}
		for _, c := range children[l.Max-1:] {
			if err := t.MoveChild(c, extra); err != nil {
				return err
			}
		}
		work = append(work, extra)
	}
	return nil
}

func (l LimitChildCount) CloneManipulation() Manipulation { return l }
