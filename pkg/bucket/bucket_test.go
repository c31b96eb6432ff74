package bucket

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
	"github.com/matzehuels/bagtree/pkg/manipulation"
	"github.com/matzehuels/bagtree/pkg/ordering"
)

type V = hypergraph.Vertex

func graph(n int, edges ...[]V) *hypergraph.Graph {
	g := hypergraph.New(n)
	for _, e := range edges {
		if err := g.AddEdge(e...); err != nil {
			panic(err)
		}
	}
	return g
}

func bagsOf(t *decomposition.Tree) [][]V {
	var out [][]V
	for _, id := range t.Nodes() {
		out = append(out, t.Bag(id))
	}
	return out
}

func equalBags(a, b [][]V) bool {
	return slices.EqualFunc(a, b, func(x, y []V) bool { return slices.Equal(x, y) })
}

func TestNewStore_Postcondition(t *testing.T) {
	g := graph(5, []V{3, 1}, []V{2, 5, 2}, []V{4}, []V{5, 4})
	order := []V{2, 4, 1, 5, 3}

	s, err := newStore(g, order)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range g.Vertices() {
		want := []V{v}
		for _, e := range g.Hyperedges() {
			norm := hypergraph.Normalize(e)
			if s.minimumVertex(norm) == v {
				want = union(want, norm)
			}
		}
		if !slices.Equal(s.bucket(v), want) {
			t.Errorf("Bucket[%d] = %v, want %v", v, s.bucket(v), want)
		}
	}
	if got := s.isolatedVertices(); len(got) != 0 {
		t.Errorf("isolated = %v, want none", got)
	}
}

func TestNewStore_Isolated(t *testing.T) {
	g := graph(4, []V{1, 2}, []V{3, 3})
	s, err := newStore(g, []V{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.isolatedVertices(); !slices.Equal(got, []V{3, 4}) {
		t.Errorf("isolated = %v, want [3 4]", got)
	}
}

func TestNewStore_InvalidOrdering(t *testing.T) {
	g := graph(3)
	for _, order := range [][]V{{1, 1, 2}, {1, 2, 4}, {0, 1, 2}} {
		if _, err := newStore(g, order); !errors.Is(err, ErrInvalidOrdering) {
			t.Errorf("newStore(%v) error = %v, want ErrInvalidOrdering", order, err)
		}
	}
}

func TestMinimumVertex(t *testing.T) {
	s, _ := newStore(graph(4), []V{3, 1, 4, 2})
	tests := []struct {
		in   []V
		want V
	}{
		{[]V{1, 2, 3, 4}, 3},
		{[]V{4, 3, 2, 1}, 3},
		{[]V{2, 4}, 4},
		{[]V{2}, 2},
		{[]V{1, 2}, 1},
	}
	for _, tt := range tests {
		if got := s.minimumVertex(tt.in); got != tt.want {
			t.Errorf("minimumVertex(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMinimumVertex_EmptyPanics(t *testing.T) {
	s, _ := newStore(graph(2), []V{1, 2})
	defer func() {
		if recover() == nil {
			t.Error("minimumVertex(nil) should panic")
		}
	}()
	s.minimumVertex(nil)
}

func TestSetOperations(t *testing.T) {
	a := []V{1, 3, 5}
	b := []V{2, 3, 6}
	if got := union(a, b); !slices.Equal(got, []V{1, 2, 3, 5, 6}) {
		t.Errorf("union = %v", got)
	}
	if got := difference(a, b); !slices.Equal(got, []V{1, 5}) {
		t.Errorf("difference = %v", got)
	}
	if got := intersectionSize(a, b); got != 1 {
		t.Errorf("intersectionSize = %d", got)
	}
}

func TestReachable_Symmetric(t *testing.T) {
	adj := newAdjacency(6)
	adj.connect(1, 2)
	adj.connect(2, 4)
	adj.connect(3, 5)
	rel := newRelevance(6, []V{1, 2, 3, 4, 5, 6})

	for u := V(1); u <= 6; u++ {
		ru := reachable(u, rel, adj)
		if !slices.IsSorted(ru) || !slices.Contains(ru, u) {
			t.Errorf("reach(%d) = %v", u, ru)
		}
		for v := V(1); v <= 6; v++ {
			if slices.Contains(ru, v) != slices.Contains(reachable(v, rel, adj), u) {
				t.Errorf("reachability of %d and %d is not symmetric", u, v)
			}
		}
	}
	if got := unreachable(1, rel, adj); !slices.Equal(got, []V{3, 5, 6}) {
		t.Errorf("unreachable(1) = %v, want [3 5 6]", got)
	}
}

func TestRepair_OverlapAndTies(t *testing.T) {
	s := &store{
		order:   []V{1, 2, 3, 4},
		index:   []int{0, 1, 2, 3},
		buckets: [][]V{{1}, {2, 3}, {3}, {3, 4}},
	}
	adj := newAdjacency(4)
	rel := newRelevance(4, []V{1, 2, 3, 4})

	if added := New().repair(s, adj, rel, 1); added != 3 {
		t.Fatalf("repair added %d edges, want 3", added)
	}
	want := map[V][]V{1: {4}, 2: {3}, 3: {2, 4}, 4: {3, 1}}
	for v, w := range want {
		if got := adj.of(v); !slices.Equal(got, w) {
			t.Errorf("neighbors of %d = %v, want %v", v, got, w)
		}
	}
}

func TestCompute_WorkedExample(t *testing.T) {
	g := graph(3, []V{1, 2}, []V{2, 3})
	alg := New(WithOrdering(ordering.Fixed{1, 2, 3}))

	res, err := alg.ComputeDetailed(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := [][]V{{1, 2}, {2, 3}, {3}}; !equalBags(bagsOf(res.Tree), want) {
		t.Errorf("bags = %v, want %v", bagsOf(res.Tree), want)
	}
	if res.Root != 1 || res.SweepEdges != 2 || res.RepairEdges != 0 {
		t.Errorf("root=%d sweep=%d repair=%d", res.Root, res.SweepEdges, res.RepairEdges)
	}
	if !slices.Equal(res.Tree.Bag(res.NodeOf[2]), []V{2, 3}) {
		t.Errorf("NodeOf[2] has bag %v", res.Tree.Bag(res.NodeOf[2]))
	}
	if err := decomposition.Validate(g, res.Tree); err != nil {
		t.Error(err)
	}
}

func TestCompute_DisconnectedRegression(t *testing.T) {
	g := graph(4, []V{1, 2}, []V{3, 4})
	res, err := New(WithOrdering(ordering.Natural{})).ComputeDetailed(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.RepairEdges != 1 {
		t.Errorf("RepairEdges = %d, want 1", res.RepairEdges)
	}
	if want := [][]V{{1, 2}, {2}, {3, 4}, {4}}; !equalBags(bagsOf(res.Tree), want) {
		t.Errorf("bags = %v, want %v", bagsOf(res.Tree), want)
	}
	if err := decomposition.Validate(g, res.Tree); err != nil {
		t.Error(err)
	}
}

func TestCompute_IsolatedVertex(t *testing.T) {
	g := graph(3, []V{1, 2})
	res, err := New(WithOrdering(ordering.Natural{})).ComputeDetailed(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Isolated, []V{3}) {
		t.Errorf("Isolated = %v", res.Isolated)
	}
	if res.Tree.NodeCount() != 3 || res.Tree.EdgeCount() != 2 {
		t.Errorf("tree has %d nodes and %d edges", res.Tree.NodeCount(), res.Tree.EdgeCount())
	}
}

func TestCompute_RandomGraphsAreValid(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	providers := []ordering.Provider{ordering.Natural{}, ordering.MinDegree{}, ordering.MinFill{}}

	for i := 0; i < 50; i++ {
		n := 1 + rng.IntN(12)
		g := hypergraph.New(n)
		for e := rng.IntN(2 * n); e > 0; e-- {
			size := 1 + rng.IntN(4)
			edge := make([]V, size)
			for j := range edge {
				edge[j] = V(1 + rng.IntN(n))
			}
			_ = g.AddEdge(edge...)
		}
		for _, p := range providers {
			tr, err := New(WithOrdering(p)).ComputeDecomposition(g)
			if err != nil {
				t.Fatalf("graph %d: %v", i, err)
			}
			if tr.NodeCount() != n || tr.EdgeCount() != n-1 {
				t.Errorf("graph %d: %d nodes, %d edges", i, tr.NodeCount(), tr.EdgeCount())
			}
			if err := decomposition.Validate(g, tr); err != nil {
				t.Errorf("graph %d with %T: %v", i, p, err)
			}
		}
	}
}

func TestCompute_EmptyGraph(t *testing.T) {
	factory := func() *decomposition.Tree {
		tr := decomposition.NewTree()
		_, _ = tr.AddRoot(nil)
		return tr
	}
	tr, err := New(WithOrdering(ordering.Natural{}), WithFactory(factory)).ComputeDecomposition(hypergraph.New(0))
	if err != nil {
		t.Fatal(err)
	}
	if tr.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want the factory's single node", tr.NodeCount())
	}

	// No ordering is needed when there is nothing to eliminate.
	tr, err = New().ComputeDecomposition(hypergraph.New(0))
	if err != nil {
		t.Fatalf("without provider: %v", err)
	}
	if tr == nil || tr.NodeCount() != 0 {
		t.Errorf("without provider: got %v, want the empty default tree", tr)
	}

	// Post-processing still runs on the factory's tree.
	tr, err = New(WithFactory(factory)).ComputeDecompositionOps(hypergraph.New(0),
		manipulation.Label(manipulation.Constant{Key: "seen", Value: true}))
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := tr.Label("seen", tr.Root()); !ok || v != true {
		t.Errorf("seen label on factory root = %v, %v", v, ok)
	}
}

func TestCompute_Errors(t *testing.T) {
	g := graph(3, []V{1, 2, 3})

	if _, err := New().ComputeDecomposition(g); !errors.Is(err, ErrNoOrderingProvider) {
		t.Errorf("no provider: error = %v", err)
	}

	tr, err := New(WithOrdering(ordering.Fixed{1, 2})).ComputeDecomposition(g)
	if tr != nil || err != nil {
		t.Errorf("short ordering: got (%v, %v), want (nil, nil)", tr, err)
	}

	if _, err := New(WithOrdering(ordering.Fixed{1, 2, 2})).ComputeDecomposition(g); !errors.Is(err, ErrInvalidOrdering) {
		t.Errorf("repeated vertex: error = %v", err)
	}

	nilFactory := func() *decomposition.Tree { return nil }
	if _, err := New(WithOrdering(ordering.Natural{}), WithFactory(nilFactory)).ComputeDecomposition(g); !errors.Is(err, ErrNilFactoryResult) {
		t.Errorf("nil factory: error = %v", err)
	}
}

// recorder logs the order in which operations run.
type recorder struct {
	name string
	log  *[]string
	err  error
}

func (r recorder) Name() string { return r.name }

func (r recorder) ComputeLabel(bag []V, labels decomposition.Labels) (decomposition.Label, error) {
	if _, seen := labels[r.name]; !seen {
		*r.log = append(*r.log, "label:"+r.name)
	}
	return len(labels), r.err
}

func (r recorder) Apply(*decomposition.Tree) error {
	*r.log = append(*r.log, "apply:"+r.name)
	return r.err
}

func (r recorder) CloneLabeling() manipulation.LabelingFunction { return r }
func (r recorder) CloneManipulation() manipulation.Manipulation { return r }

func TestPipelineOrder(t *testing.T) {
	var calls []string
	rec := func(name string) recorder { return recorder{name: name, log: &calls} }

	alg := New(
		WithOrdering(ordering.Natural{}),
		WithOperations(manipulation.Label(rec("il")), manipulation.Transform(rec("im"))),
	)
	g := graph(1)
	_, err := alg.ComputeDecompositionOps(g, manipulation.Label(rec("cl")), manipulation.Both(rec("cb")))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"apply:im", "apply:cb", "label:il", "label:cl", "label:cb"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestPipeline_LabelSnapshot(t *testing.T) {
	alg := New(WithOrdering(ordering.Natural{}))
	tr, err := alg.ComputeDecompositionOps(graph(2, []V{1, 2}),
		manipulation.Label(manipulation.BagSize{}),
		manipulation.Label(recorder{name: "seen", log: new([]string)}),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := tr.Label("seen", tr.Root())
	if got != 1 {
		t.Errorf("second labeling saw %v labels, want 1", got)
	}
}

func TestPipeline_ErrorPropagation(t *testing.T) {
	boom := errors.New("boom")
	alg := New(WithOrdering(ordering.Natural{}))
	g := graph(2, []V{1, 2})

	_, err := alg.ComputeDecompositionOps(g, manipulation.Transform(recorder{name: "m", log: new([]string), err: boom}))
	if err != boom {
		t.Errorf("manipulation error = %v, want boom unmodified", err)
	}
	_, err = alg.ComputeDecompositionOps(g, manipulation.Label(recorder{name: "l", log: new([]string), err: boom}))
	if err != boom {
		t.Errorf("labeling error = %v, want boom unmodified", err)
	}
}

func TestSetManipulationOperations_Replaces(t *testing.T) {
	alg := New(WithOrdering(ordering.Natural{}))
	alg.SetManipulationOperations([]manipulation.Operation{manipulation.Label(manipulation.Constant{Key: "a", Value: 1})})
	alg.SetManipulationOperations([]manipulation.Operation{manipulation.Label(manipulation.Constant{Key: "b", Value: 2})})

	tr, err := alg.ComputeDecomposition(graph(2, []V{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if names := tr.LabelNames(); !slices.Equal(names, []string{"b"}) {
		t.Errorf("label names = %v, want [b]", names)
	}
}

func TestClone_Independent(t *testing.T) {
	crit := &manipulation.Critical{}
	alg := New(WithOrdering(ordering.Natural{}), WithOperations(manipulation.Both(crit)))
	c := alg.Clone()

	c.SetManipulationOperations(nil)
	if len(alg.Operations()) != 1 {
		t.Fatal("changing the clone's operations affected the original")
	}

	c2 := alg.Clone()
	if c2.Operations()[0].Labeling == manipulation.LabelingFunction(crit) {
		t.Error("clone shares the operation value with the original")
	}
	if _, err := c2.ComputeDecomposition(graph(3, []V{1, 2, 3})); err != nil {
		t.Fatal(err)
	}

	// The original's Critical has never been applied: every bag of size 0
	// would be critical, and no bag in this tree is empty.
	tr, err := New(WithOrdering(ordering.Natural{})).ComputeDecompositionOps(graph(2, []V{1, 2}), manipulation.Label(crit))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tr.Label(manipulation.LabelCritical, tr.Root()); v != false {
		t.Errorf("original Critical was mutated through the clone: label %v", v)
	}
}
