package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// ReadPACE decodes a hypergraph in one of the PACE challenge text formats.
//
// The problem line selects the dialect:
//
//	p tw <vertices> <edges>     graph: one "u v" edge per line
//	p htd <vertices> <edges>    hypergraph: "<edge id> v1 v2 ..." per line
//
// Lines starting with "c" and blank lines are ignored. The number of edge
// lines must match the count in the problem line.
func ReadPACE(r io.Reader) (*hypergraph.Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		g       *hypergraph.Graph
		dialect string
		want    int
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] == "c" {
			continue
		}

		if fields[0] == "p" {
			if g != nil {
				return nil, fmt.Errorf("%w: line %d: second problem line", ErrMalformed, lineNo)
			}
			if len(fields) != 4 || (fields[1] != "tw" && fields[1] != "htd") {
				return nil, fmt.Errorf("%w: line %d: want \"p tw|htd <vertices> <edges>\"", ErrMalformed, lineNo)
			}
			n, errN := strconv.ParseUint(fields[2], 10, 32)
			m, errM := strconv.ParseUint(fields[3], 10, 32)
			if errN != nil || errM != nil {
				return nil, fmt.Errorf("%w: line %d: bad problem counts", ErrMalformed, lineNo)
			}
			dialect, want = fields[1], int(m)
			g = hypergraph.New(int(n))
			continue
		}
		if g == nil {
			return nil, fmt.Errorf("%w: line %d: edge before problem line", ErrMalformed, lineNo)
		}

		if dialect == "tw" && len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want two endpoints", ErrMalformed, lineNo)
		}
		if dialect == "htd" {
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: line %d: want an edge id and at least one vertex", ErrMalformed, lineNo)
			}
			if _, err := strconv.ParseUint(fields[0], 10, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: bad edge id %q", ErrMalformed, lineNo, fields[0])
			}
			fields = fields[1:]
		}
		edge, err := parseVertices(fields, g.VertexCount())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
		}
		if err := g.AddEdge(edge...); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: missing problem line", ErrMalformed)
	}
	if g.EdgeCount() != want {
		return nil, fmt.Errorf("%w: problem line declares %d edges, found %d", ErrMalformed, want, g.EdgeCount())
	}
	return g, nil
}

// WritePACE encodes t in the PACE .td format for a hypergraph with n
// vertices. Bags are numbered from 1 in pre-order.
//
//	s td <bags> <largest bag size> <vertices>
//	b 1 1 2
//	b 2 2 3
//	1 2
func WritePACE(t *decomposition.Tree, n int, w io.Writer) error {
	bw := bufio.NewWriter(w)
	ids := t.Nodes()
	number := make(map[decomposition.NodeID]int, len(ids))

	fmt.Fprintf(bw, "s td %d %d %d\n", len(ids), max(t.Width()+1, 0), n)
	for i, id := range ids {
		number[id] = i + 1
		bw.WriteString("b " + strconv.Itoa(i+1))
		for _, v := range t.Bag(id) {
			bw.WriteString(" " + strconv.FormatUint(uint64(v), 10))
		}
		bw.WriteByte('\n')
	}
	for _, id := range ids {
		if p := t.Parent(id); p != decomposition.NoNode {
			fmt.Fprintf(bw, "%d %d\n", number[p], number[id])
		}
	}
	return bw.Flush()
}

// parseVertices reads vertex ids in 1..n.
func parseVertices(fields []string, n int) ([]hypergraph.Vertex, error) {
	out := make([]hypergraph.Vertex, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad vertex id %q", f)
		}
		if v < uint64(hypergraph.FirstVertex) || v > uint64(n) {
			return nil, fmt.Errorf("vertex %d out of range 1..%d", v, n)
		}
		out[i] = hypergraph.Vertex(v)
	}
	return out, nil
}
