package manipulation

import (
	"reflect"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// LabelingFunction computes a named label for every node of a decomposition.
//
// ComputeLabel receives the node's bag and a snapshot of the labels already
// on the node. The returned value is stored under Name(), replacing any
// earlier value of that name.
type LabelingFunction interface {
	Name() string
	ComputeLabel(bag []hypergraph.Vertex, labels decomposition.Labels) (decomposition.Label, error)
	CloneLabeling() LabelingFunction
}

// Manipulation transforms a decomposition in place.
type Manipulation interface {
	Apply(t *decomposition.Tree) error
	CloneManipulation() Manipulation
}

// Operation bundles the capabilities of one registered operation value.
// Either handle may be nil; a value that is both a labeling function and a
// manipulation is registered with [Both], which sets both handles to the
// same value. An Operation with neither handle set is inert.
type Operation struct {
	Labeling     LabelingFunction
	Manipulation Manipulation
}

// Label wraps a labeling function as an Operation.
func Label(fn LabelingFunction) Operation {
	return Operation{Labeling: fn}
}

// Transform wraps a manipulation as an Operation.
func Transform(m Manipulation) Operation {
	return Operation{Manipulation: m}
}

// Dual is satisfied by values that are both a labeling function and a
// manipulation.
type Dual interface {
	LabelingFunction
	Manipulation
}

// Both registers v under both capabilities. The manipulation runs first
// (with the other manipulations) and the labeling function later, so v can
// collect state in Apply and report it from ComputeLabel.
func Both[T Dual](v T) Operation {
	return Operation{Labeling: v, Manipulation: v}
}

// IsLabeling reports whether the operation carries a labeling function.
func (o Operation) IsLabeling() bool { return o.Labeling != nil }

// IsManipulation reports whether the operation carries a manipulation.
func (o Operation) IsManipulation() bool { return o.Manipulation != nil }

// IsZero reports whether neither capability is set.
func (o Operation) IsZero() bool { return o.Labeling == nil && o.Manipulation == nil }

// Clone returns an independent copy of the operation. When both handles
// hold the same value, as with [Both], the copy keeps a single shared clone
// behind both handles.
func (o Operation) Clone() Operation {
	var c Operation
	if o.Labeling != nil {
		c.Labeling = o.Labeling.CloneLabeling()
	}
	if o.Manipulation == nil {
		return c
	}
	if sameValue(o.Labeling, o.Manipulation) {
		if m, ok := c.Labeling.(Manipulation); ok {
			c.Manipulation = m
			return c
		}
	}
	c.Manipulation = o.Manipulation.CloneManipulation()
	return c
}

// sameValue reports whether a and b hold identical dynamic values. Values of
// non-comparable types are never the same.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() {
		return false
	}
	return va.Equal(vb)
}

// CloneAll clones every operation in ops.
func CloneAll(ops []Operation) []Operation {
	if ops == nil {
		return nil
	}
	out := make([]Operation, len(ops))
	for i, op := range ops {
		out[i] = op.Clone()
	}
	return out
}

// Split separates ops into their labeling functions and manipulations,
// preserving order within each list.
func Split(ops []Operation) ([]LabelingFunction, []Manipulation) {
	var labeling []LabelingFunction
	var manipulations []Manipulation
	for _, op := range ops {
		if op.Labeling != nil {
			labeling = append(labeling, op.Labeling)
		}
		if op.Manipulation != nil {
			manipulations = append(manipulations, op.Manipulation)
		}
	}
	return labeling, manipulations
}

// ApplyLabeling runs fn over every node of t in pre-order.
func ApplyLabeling(t *decomposition.Tree, fn LabelingFunction) error {
	for _, id := range t.Nodes() {
		value, err := fn.ComputeLabel(t.Bag(id), t.ExportLabels(id))
		if err != nil {
			return err
		}
		if err := t.SetLabel(fn.Name(), id, value); err != nil {
			return err
		}
	}
	return nil
}
