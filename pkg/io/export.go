package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// WriteHypergraphJSON encodes g in the format read by [ReadHypergraphJSON].
func WriteHypergraphJSON(g hypergraph.Hypergraph, w io.Writer) error {
	out := hypergraphJSON{
		Vertices: g.VertexCount(),
		Edges:    make([][]hypergraph.Vertex, 0, len(g.Hyperedges())),
	}
	for _, e := range g.Hyperedges() {
		out.Edges = append(out.Edges, []hypergraph.Vertex(e))
	}
	return encode(w, out)
}

type treeJSON struct {
	Root  int        `json:"root"`
	Width int        `json:"width"`
	Nodes []nodeJSON `json:"nodes"`
}

type nodeJSON struct {
	ID     int                  `json:"id"`
	Parent int                  `json:"parent,omitempty"`
	Bag    []hypergraph.Vertex  `json:"bag"`
	Labels decomposition.Labels `json:"labels,omitempty"`
}

// WriteTreeJSON encodes a decomposition as JSON.
//
// Nodes are written in pre-order and renumbered from 1, so the root has id 1
// and every parent precedes its children:
//
//	{
//	  "root": 1,
//	  "width": 1,
//	  "nodes": [
//	    {"id": 1, "bag": [1, 2], "labels": {"bag_size": 2}},
//	    {"id": 2, "parent": 1, "bag": [2, 3], "labels": {"bag_size": 2}}
//	  ]
//	}
//
// Label values must be JSON-encodable.
func WriteTreeJSON(t *decomposition.Tree, w io.Writer) error {
	ids := t.Nodes()
	number := make(map[decomposition.NodeID]int, len(ids))
	for i, id := range ids {
		number[id] = i + 1
	}

	out := treeJSON{Width: t.Width(), Nodes: make([]nodeJSON, len(ids))}
	if len(ids) > 0 {
		out.Root = 1
	}
	for i, id := range ids {
		bag := t.Bag(id)
		if bag == nil {
			bag = []hypergraph.Vertex{}
		}
		nd := nodeJSON{ID: i + 1, Bag: bag, Parent: number[t.Parent(id)]}
		if labels := t.ExportLabels(id); len(labels) > 0 {
			nd.Labels = labels
		}
		out.Nodes[i] = nd
	}
	return encode(w, out)
}

// ReadTreeJSON decodes a decomposition written by [WriteTreeJSON].
//
// Node ids in the file only need to be unique and positive; the tree assigns
// its own ids. Exactly one node must lack a parent, and it must be the one
// named by "root" when that field is set. Label values come back as the
// types encoding/json produces (float64 for numbers).
func ReadTreeJSON(r io.Reader) (*decomposition.Tree, error) {
	var data treeJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	t := decomposition.NewTree()
	if len(data.Nodes) == 0 {
		return t, nil
	}

	byID := make(map[int]nodeJSON, len(data.Nodes))
	children := make(map[int][]int)
	root := 0
	for _, n := range data.Nodes {
		if n.ID <= 0 {
			return nil, fmt.Errorf("%w: node id %d", ErrMalformed, n.ID)
		}
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrMalformed, n.ID)
		}
		byID[n.ID] = n
		if n.Parent == 0 {
			if root != 0 {
				return nil, fmt.Errorf("%w: nodes %d and %d both lack a parent", ErrMalformed, root, n.ID)
			}
			root = n.ID
			continue
		}
		children[n.Parent] = append(children[n.Parent], n.ID)
	}
	if root == 0 || (data.Root != 0 && data.Root != root) {
		return nil, fmt.Errorf("%w: no unique root", ErrMalformed)
	}

	add := func(id int, parent decomposition.NodeID) (decomposition.NodeID, error) {
		n := byID[id]
		var nid decomposition.NodeID
		var err error
		if parent == decomposition.NoNode {
			nid, err = t.AddRoot(n.Bag)
		} else {
			nid, err = t.AddChild(parent, n.Bag)
		}
		if err != nil {
			return decomposition.NoNode, err
		}
		for name, value := range n.Labels {
			if err := t.SetLabel(name, nid, value); err != nil {
				return decomposition.NoNode, fmt.Errorf("node %d label %q: %w", id, name, err)
			}
		}
		return nid, nil
	}

	type item struct {
		file   int
		parent decomposition.NodeID
	}
	stack := []item{{root, decomposition.NoNode}}
	added := 0
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nid, err := add(it.file, it.parent)
		if err != nil {
			return nil, err
		}
		added++
		kids := children[it.file]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{kids[i], nid})
		}
	}
	if added != len(data.Nodes) {
		return nil, fmt.Errorf("%w: %d nodes unreachable from the root", ErrMalformed, len(data.Nodes)-added)
	}
	return t, nil
}

// ImportTreeJSON reads a decomposition from a JSON file at path.
func ImportTreeJSON(path string) (*decomposition.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTreeJSON(f)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
