package bucket

import (
	"errors"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
	"github.com/matzehuels/bagtree/pkg/manipulation"
	"github.com/matzehuels/bagtree/pkg/ordering"
)

var (
	// ErrNoOrderingProvider is returned when the algorithm has no ordering
	// provider configured.
	ErrNoOrderingProvider = errors.New("no ordering provider configured")

	// ErrInvalidOrdering is returned when the provider's ordering has the
	// right length but is not a permutation of the vertex set.
	ErrInvalidOrdering = errors.New("invalid elimination ordering")

	// ErrNilFactoryResult is returned when the configured factory yields nil.
	ErrNilFactoryResult = errors.New("decomposition factory returned nil")

	// ErrDisconnected indicates that assembly could not reach every bucket.
	// It signals a broken repair step and is never expected in practice.
	ErrDisconnected = errors.New("bucket adjacency is disconnected")
)

// Algorithm computes tree decompositions by bucket elimination.
//
// An Algorithm owns its registered operations. It is not safe for concurrent
// use; give each goroutine its own [Algorithm.Clone].
type Algorithm struct {
	ordering   ordering.Provider
	factory    decomposition.Factory
	logger     *log.Logger
	operations []manipulation.Operation
}

// Option configures an Algorithm.
type Option func(*Algorithm)

// WithOrdering sets the elimination ordering provider.
func WithOrdering(p ordering.Provider) Option {
	return func(a *Algorithm) { a.ordering = p }
}

// WithFactory sets the constructor for empty decompositions.
func WithFactory(f decomposition.Factory) Option {
	return func(a *Algorithm) {
		if f != nil {
			a.factory = f
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(a *Algorithm) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithOperations registers instance-level operations.
func WithOperations(ops ...manipulation.Operation) Option {
	return func(a *Algorithm) { a.SetManipulationOperations(ops) }
}

// New returns an Algorithm configured by opts. Without [WithOrdering] every
// computation fails with [ErrNoOrderingProvider].
func New(opts ...Option) *Algorithm {
	a := &Algorithm{
		factory: decomposition.NewTree,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetManipulationOperations replaces the instance-level operations. Values
// previously registered are released; ops itself is not retained, so later
// changes to the caller's slice have no effect.
func (a *Algorithm) SetManipulationOperations(ops []manipulation.Operation) {
	a.operations = slices.Clone(ops)
}

// Operations returns a copy of the registered instance-level operations.
func (a *Algorithm) Operations() []manipulation.Operation {
	return slices.Clone(a.operations)
}

// Clone returns an independent algorithm with the same provider, factory
// and logger, and deep copies of the registered operations.
func (a *Algorithm) Clone() *Algorithm {
	return &Algorithm{
		ordering:   a.ordering,
		factory:    a.factory,
		logger:     a.logger,
		operations: manipulation.CloneAll(a.operations),
	}
}

// ComputeDecomposition decomposes g using the instance-level operations.
func (a *Algorithm) ComputeDecomposition(g hypergraph.Hypergraph) (*decomposition.Tree, error) {
	return a.ComputeDecompositionWith(g, nil)
}

// ComputeDecompositionOps is the variadic form of ComputeDecompositionWith.
func (a *Algorithm) ComputeDecompositionOps(g hypergraph.Hypergraph, ops ...manipulation.Operation) (*decomposition.Tree, error) {
	return a.ComputeDecompositionWith(g, ops)
}

// ComputeDecompositionWith decomposes g and post-processes the result with
// the instance-level operations followed by ops. ops applies to this call
// only and is not retained.
//
// When the ordering provider returns an ordering of the wrong length the
// result is (nil, nil) and a warning is logged.
func (a *Algorithm) ComputeDecompositionWith(g hypergraph.Hypergraph, ops []manipulation.Operation) (*decomposition.Tree, error) {
	res, err := a.ComputeDetailed(g, ops)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Tree, nil
}

// Result is a decomposition together with the intermediate state that
// produced it.
type Result struct {
	Tree *decomposition.Tree

	// Ordering is the elimination ordering used.
	Ordering []hypergraph.Vertex
	// Buckets holds the final content of Bucket[v] at index v-FirstVertex.
	Buckets [][]hypergraph.Vertex
	// Isolated lists vertices that share no hyperedge with another vertex.
	Isolated []hypergraph.Vertex
	// Root is the bucket the tree was assembled from.
	Root hypergraph.Vertex

	SweepEdges  int
	RepairEdges int

	// NodeOf maps each bucket to the tree node holding its content, before
	// any manipulation ran.
	NodeOf map[hypergraph.Vertex]decomposition.NodeID
}

// ComputeDetailed is ComputeDecompositionWith returning the full Result.
// A nil Result with a nil error means no decomposition was produced.
func (a *Algorithm) ComputeDetailed(g hypergraph.Hypergraph, ops []manipulation.Operation) (*Result, error) {
	res, err := a.decompose(g)
	if err != nil || res == nil {
		return nil, err
	}
	if err := a.postProcess(res.Tree, ops); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Algorithm) decompose(g hypergraph.Hypergraph) (*Result, error) {
	n := g.VertexCount()
	if n == 0 {
		t := a.factory()
		if t == nil {
			return nil, ErrNilFactoryResult
		}
		return &Result{Tree: t, NodeOf: map[hypergraph.Vertex]decomposition.NodeID{}}, nil
	}

	if a.ordering == nil {
		return nil, ErrNoOrderingProvider
	}
	order := a.ordering.ComputeOrdering(g)
	if len(order) != n {
		a.logger.Warn("ordering size does not match vertex count", "ordering", len(order), "vertices", n)
		return nil, nil
	}

	s, err := newStore(g, order)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("filled buckets", "buckets", s.buckets)

	adj := a.sweep(s)
	sweepEdges := adj.edges

	relevant := slices.Clone(order)
	slices.Sort(relevant)
	rel := newRelevance(n, relevant)
	root := relevant[0]
	a.logger.Debug("relevant buckets", "buckets", relevant, "root", root)

	repairEdges := a.repair(s, adj, rel, root)

	t, nodes, err := a.assemble(s, adj, rel, root)
	if err != nil {
		return nil, err
	}

	return &Result{
		Tree:        t,
		Ordering:    slices.Clone(order),
		Buckets:     s.snapshot(),
		Isolated:    s.isolatedVertices(),
		Root:        root,
		SweepEdges:  sweepEdges,
		RepairEdges: repairEdges,
		NodeOf:      nodes,
	}, nil
}

// postProcess applies instance manipulations, then call manipulations, then
// instance labeling functions, then call labeling functions. Errors are
// returned as produced by the operation.
func (a *Algorithm) postProcess(t *decomposition.Tree, ops []manipulation.Operation) error {
	instanceLabels, instanceManips := manipulation.Split(a.operations)
	callLabels, callManips := manipulation.Split(ops)

	for _, m := range slices.Concat(instanceManips, callManips) {
		if err := m.Apply(t); err != nil {
			return err
		}
	}
	for _, fn := range slices.Concat(instanceLabels, callLabels) {
		if err := manipulation.ApplyLabeling(t, fn); err != nil {
			return err
		}
	}
	return nil
}
