// Package decomposition provides the mutable tree decomposition produced by
// the algorithms in bagtree.
//
// # Model
//
// A [Tree] is a rooted tree. Each node carries a bag, the set of hypergraph
// vertices it covers, and any number of named labels. Bags are always stored
// sorted and duplicate-free. Labels are opaque values written by labeling
// functions; [Tree.ExportLabels] hands out an independent snapshot so that a
// labeling function can read existing labels without aliasing the tree.
//
// # Construction
//
// Algorithms obtain an empty tree from a [Factory] (normally [NewTree]) and
// build it top-down:
//
//	t := decomposition.NewTree()
//	root, _ := t.AddRoot([]hypergraph.Vertex{1, 2})
//	_, _ = t.AddChild(root, []hypergraph.Vertex{2, 3})
//
// Manipulation operations reshape an existing tree with [Tree.NewRoot],
// [Tree.InsertBetween], [Tree.RemoveNode] and [Tree.SetRoot].
//
// # Validation
//
// [Validate] checks the three tree-decomposition conditions (vertex coverage,
// hyperedge coverage, connectedness of every vertex's occurrences) along with
// the structural integrity of the tree itself.
package decomposition
