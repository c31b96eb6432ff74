package ordering

import (
	"container/heap"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// MinDegree repeatedly eliminates the vertex with the fewest remaining
// neighbors in the primal graph, connecting its neighbors into a clique.
// Ties go to the smaller vertex identifier.
type MinDegree struct{}

// ComputeOrdering returns a minimum-degree elimination ordering of g.
func (MinDegree) ComputeOrdering(g hypergraph.Hypergraph) []hypergraph.Vertex {
	return greedy(g, (*eliminationGraph).degree, 1)
}

// MinFill repeatedly eliminates the vertex whose elimination adds the fewest
// fill edges. Ties go to the smaller vertex identifier.
type MinFill struct{}

// ComputeOrdering returns a minimum-fill elimination ordering of g.
func (MinFill) ComputeOrdering(g hypergraph.Hypergraph) []hypergraph.Vertex {
	// Fill edges among N(v) change the fill of every vertex next to N(v).
	return greedy(g, (*eliminationGraph).fill, 2)
}

// eliminationGraph is the primal graph under simulated elimination.
type eliminationGraph struct {
	adj map[hypergraph.Vertex]map[hypergraph.Vertex]struct{}
}

func newEliminationGraph(g hypergraph.Hypergraph) *eliminationGraph {
	primal := hypergraph.PrimalAdjacency(g)
	e := &eliminationGraph{adj: make(map[hypergraph.Vertex]map[hypergraph.Vertex]struct{}, len(primal))}
	for _, v := range g.Vertices() {
		ns := primal[v-hypergraph.FirstVertex]
		set := make(map[hypergraph.Vertex]struct{}, len(ns))
		for _, u := range ns {
			set[u] = struct{}{}
		}
		e.adj[v] = set
	}
	return e
}

func (e *eliminationGraph) connect(u, w hypergraph.Vertex) {
	e.adj[u][w] = struct{}{}
	e.adj[w][u] = struct{}{}
}

func (e *eliminationGraph) degree(v hypergraph.Vertex) int {
	return len(e.adj[v])
}

// fill counts the missing edges among the neighbors of v.
func (e *eliminationGraph) fill(v hypergraph.Vertex) int {
	ns := e.neighbors(v)
	missing := 0
	for i, u := range ns {
		for _, w := range ns[i+1:] {
			if _, ok := e.adj[u][w]; !ok {
				missing++
			}
		}
	}
	return missing
}

func (e *eliminationGraph) neighbors(v hypergraph.Vertex) []hypergraph.Vertex {
	ns := make([]hypergraph.Vertex, 0, len(e.adj[v]))
	for u := range e.adj[v] {
		ns = append(ns, u)
	}
	return ns
}

// around returns the vertices within radius hops of v, excluding v.
func (e *eliminationGraph) around(v hypergraph.Vertex, radius int) []hypergraph.Vertex {
	seen := map[hypergraph.Vertex]struct{}{v: {}}
	var out []hypergraph.Vertex
	frontier := []hypergraph.Vertex{v}
	for ; radius > 0 && len(frontier) > 0; radius-- {
		var next []hypergraph.Vertex
		for _, u := range frontier {
			for w := range e.adj[u] {
				if _, ok := seen[w]; ok {
					continue
				}
				seen[w] = struct{}{}
				out = append(out, w)
				next = append(next, w)
			}
		}
		frontier = next
	}
	return out
}

func (e *eliminationGraph) eliminate(v hypergraph.Vertex) {
	ns := e.neighbors(v)
	for i, u := range ns {
		delete(e.adj[u], v)
		for _, w := range ns[i+1:] {
			e.connect(u, w)
		}
	}
	delete(e.adj, v)
}

type candidate struct {
	score int
	v     hypergraph.Vertex
}

// candidates is a min-heap ordered by (score, vertex).
type candidates []candidate

func (h candidates) Len() int { return len(h) }
func (h candidates) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].v < h[j].v
}
func (h candidates) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *candidates) Push(x any)   { *h = append(*h, x.(candidate)) }
func (h *candidates) Pop() any {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}

// greedy eliminates the lowest-scoring vertex until none remain. After each
// elimination only vertices within radius hops are rescored; heap entries
// whose score no longer matches are skipped when popped.
func greedy(g hypergraph.Hypergraph, score func(*eliminationGraph, hypergraph.Vertex) int, radius int) []hypergraph.Vertex {
	e := newEliminationGraph(g)
	current := make(map[hypergraph.Vertex]int, len(e.adj))
	h := make(candidates, 0, len(e.adj))
	for v := range e.adj {
		s := score(e, v)
		current[v] = s
		h = append(h, candidate{s, v})
	}
	heap.Init(&h)

	order := make([]hypergraph.Vertex, 0, len(current))
	for h.Len() > 0 {
		c := heap.Pop(&h).(candidate)
		if s, ok := current[c.v]; !ok || s != c.score {
			continue
		}
		dirty := e.around(c.v, radius)
		e.eliminate(c.v)
		delete(current, c.v)
		order = append(order, c.v)

		for _, u := range dirty {
			if s := score(e, u); s != current[u] {
				current[u] = s
				heap.Push(&h, candidate{s, u})
			}
		}
	}
	return order
}
