// Package io reads hypergraphs and reads and writes tree decompositions.
//
// # Hypergraph Formats
//
// Three input formats are supported, selected by [FormatOf] from the file
// extension or by [ParseFormat] from a name:
//
//   - json: {"vertices": n, "edges": [[1, 2], [2, 3, 4]]}
//   - gr: the PACE treewidth graph format ("p tw n m", one edge per line)
//   - hgr: the PACE hypertree format ("p htd n m", "<id> v1 v2 ..." lines)
//
// Vertices are numbered from 1 in every format. [ImportFile] opens a path and
// picks the reader; [ReadHypergraph] works on any io.Reader.
//
//	g, err := io.ImportFile("instance.gr")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Syntax errors wrap [ErrMalformed]; vertices out of range or empty
// hyperedges surface the errors of pkg/hypergraph.
//
// # Decomposition Formats
//
// [WriteTreeJSON] produces a self-contained JSON document with the root,
// width, and every node's bag and labels. [ReadTreeJSON] restores it, which
// lets the validate, render and inspect commands work on saved results.
//
// [WritePACE] produces the PACE .td format accepted by the challenge
// validators. It carries bags and edges only; labels are dropped.
//
// # Concurrency
//
// Readers return independent values. Writers only read the tree and may run
// concurrently with other readers, but not with modifications.
package io
