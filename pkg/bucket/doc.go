// Package bucket computes tree decompositions of hypergraphs by bucket
// elimination.
//
// # Algorithm
//
// Given an elimination ordering, every vertex v owns a bucket seeded with
// {v}. Each hyperedge is placed in the bucket of its member that comes first
// in the ordering. Vertices are then eliminated in order: the remaining
// content of the eliminated vertex's bucket moves into the bucket of the
// next of those vertices to be eliminated, and the two buckets are linked.
//
// The links form a forest. If it has more than one component, the
// components are joined to the bucket outside them with the largest content
// overlap, falling back to the root bucket. The connected result is turned
// into a [decomposition.Tree] by depth-first traversal from the bucket of
// the smallest vertex.
//
// # Operations
//
// Operations registered with [WithOperations] or
// [Algorithm.SetManipulationOperations] apply to every computation; the
// ones passed to [Algorithm.ComputeDecompositionWith] apply to that call
// only. All manipulations run before any labeling function, and instance
// operations run before call operations.
//
// # Usage
//
//	alg := bucket.New(
//	    bucket.WithOrdering(ordering.MinFill{}),
//	    bucket.WithOperations(manipulation.Label(manipulation.BagSize{})),
//	)
//	tree, err := alg.ComputeDecomposition(g)
package bucket
