package hypergraph

import (
	"errors"
	"slices"
)

var (
	// ErrEmptyHyperedge is returned by [Graph.AddEdge] when called without
	// any vertices. Every hyperedge must contain at least one vertex.
	ErrEmptyHyperedge = errors.New("hyperedge must not be empty")

	// ErrUnknownVertex is returned by [Graph.AddEdge] when an endpoint is not
	// part of the graph.
	ErrUnknownVertex = errors.New("unknown vertex")
)

// Vertex identifies a vertex. Valid vertices start at [FirstVertex];
// [UnknownVertex] is reserved as a sentinel and never names a real vertex.
type Vertex uint32

const (
	// UnknownVertex marks the absence of a vertex.
	UnknownVertex Vertex = 0
	// FirstVertex is the smallest valid vertex identifier.
	FirstVertex Vertex = 1
)

// Hyperedge is a non-empty collection of vertices. Callers may pass
// hyperedges that are unsorted or contain duplicates; consumers that need a
// canonical form use [Normalize].
type Hyperedge []Vertex

// Hypergraph is the read-only view consumed by decomposition algorithms.
//
// Vertices must be exactly FirstVertex..FirstVertex+VertexCount()-1. This
// lets algorithms index per-vertex scratch state by v-FirstVertex.
type Hypergraph interface {
	VertexCount() int
	Vertices() []Vertex
	Hyperedges() []Hyperedge
}

// Graph is a mutable in-memory hypergraph.
//
// The zero value is an empty graph ready to use. Graph is not safe for
// concurrent mutation.
type Graph struct {
	n     int
	edges []Hyperedge
}

// New creates a graph with vertices 1..n and no hyperedges.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{n: n}
}

// AddVertex appends a new vertex and returns its identifier.
func (g *Graph) AddVertex() Vertex {
	g.n++
	return Vertex(g.n)
}

// AddEdge adds a hyperedge over the given vertices. The vertices are stored
// as given (order and duplicates preserved). Returns ErrEmptyHyperedge for an
// empty call and ErrUnknownVertex if any vertex is outside the graph.
func (g *Graph) AddEdge(vs ...Vertex) error {
	if len(vs) == 0 {
		return ErrEmptyHyperedge
	}
	for _, v := range vs {
		if !g.Contains(v) {
			return ErrUnknownVertex
		}
	}
	g.edges = append(g.edges, Hyperedge(slices.Clone(vs)))
	return nil
}

// Contains reports whether v is a vertex of the graph.
func (g *Graph) Contains(v Vertex) bool {
	return v >= FirstVertex && int(v-FirstVertex) < g.n
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return g.n }

// EdgeCount returns the number of hyperedges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Vertices returns all vertices in ascending order.
func (g *Graph) Vertices() []Vertex {
	vs := make([]Vertex, g.n)
	for i := range vs {
		vs[i] = FirstVertex + Vertex(i)
	}
	return vs
}

// Hyperedges returns the hyperedges in insertion order. The returned slice
// shares storage with the graph and should be treated as read-only.
func (g *Graph) Hyperedges() []Hyperedge { return g.edges }

// Neighbors returns the vertices sharing at least one hyperedge with v,
// sorted ascending and excluding v itself.
func (g *Graph) Neighbors(v Vertex) []Vertex {
	return Neighbors(g, v)
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	edges := make([]Hyperedge, len(g.edges))
	for i, e := range g.edges {
		edges[i] = slices.Clone(e)
	}
	return &Graph{n: g.n, edges: edges}
}

// Normalize returns a sorted, duplicate-free copy of vs.
func Normalize(vs []Vertex) []Vertex {
	out := slices.Clone(vs)
	slices.Sort(out)
	return slices.Compact(out)
}

// Neighbors computes the primal-graph neighborhood of v in any hypergraph.
func Neighbors(h Hypergraph, v Vertex) []Vertex {
	var out []Vertex
	for _, e := range h.Hyperedges() {
		if !slices.Contains(e, v) {
			continue
		}
		for _, u := range e {
			if u != v {
				out = append(out, u)
			}
		}
	}
	return Normalize(out)
}

// PrimalAdjacency builds the primal graph of h: two vertices are adjacent
// when they share a hyperedge. The result is indexed by v-FirstVertex and
// each list is sorted and unique.
func PrimalAdjacency(h Hypergraph) [][]Vertex {
	adj := make([][]Vertex, h.VertexCount())
	for _, e := range h.Hyperedges() {
		members := Normalize(e)
		for _, u := range members {
			for _, w := range members {
				if u != w {
					adj[u-FirstVertex] = append(adj[u-FirstVertex], w)
				}
			}
		}
	}
	for i := range adj {
		adj[i] = Normalize(adj[i])
	}
	return adj
}
