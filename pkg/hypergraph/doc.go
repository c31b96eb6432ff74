// Package hypergraph provides the hypergraph model consumed by the
// decomposition algorithms in bagtree.
//
// # Overview
//
// A hypergraph consists of vertices numbered from [FirstVertex] upward and a
// list of hyperedges, each a non-empty collection of vertices. Hyperedges are
// stored exactly as supplied: they may be unsorted and may repeat a vertex.
// Algorithms that need a canonical form call [Normalize].
//
// The [Hypergraph] interface is the read-only view algorithms depend on;
// [Graph] is the in-memory implementation used by the importers in pkg/io.
//
// # Usage
//
//	g := hypergraph.New(3)
//	_ = g.AddEdge(1, 2)
//	_ = g.AddEdge(2, 3)
//	fmt.Println(g.Neighbors(2)) // [1 3]
package hypergraph
