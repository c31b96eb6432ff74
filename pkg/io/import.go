package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// Format identifies a hypergraph file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatGr   Format = "gr"
	FormatHgr  Format = "hgr"
)

var (
	// ErrUnknownFormat is returned for file extensions or format names that
	// have no reader.
	ErrUnknownFormat = errors.New("unknown hypergraph format")

	// ErrMalformed wraps every syntax error found while reading input.
	ErrMalformed = errors.New("malformed input")
)

type hypergraphJSON struct {
	Vertices int                  `json:"vertices"`
	Edges    [][]hypergraph.Vertex `json:"edges"`
}

// ReadHypergraphJSON decodes a hypergraph from r.
//
// The input is a JSON object with the vertex count and a list of
// hyperedges, each a non-empty array of vertex ids in 1..vertices:
//
//	{"vertices": 3, "edges": [[1, 2], [2, 3]]}
//
// Hyperedges are kept as written, including their order and repeated
// vertices. ReadHypergraphJSON does not close r.
func ReadHypergraphJSON(r io.Reader) (*hypergraph.Graph, error) {
	var data hypergraphJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Vertices < 0 {
		return nil, fmt.Errorf("%w: negative vertex count %d", ErrMalformed, data.Vertices)
	}

	g := hypergraph.New(data.Vertices)
	for i, e := range data.Edges {
		if err := g.AddEdge(e...); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return g, nil
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".gr":
		return FormatGr, nil
	case ".hgr", ".htd":
		return FormatHgr, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// ParseFormat validates a format name given on the command line or in a
// request body.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatGr, FormatHgr:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ReadHypergraph decodes a hypergraph in the given format.
func ReadHypergraph(r io.Reader, format Format) (*hypergraph.Graph, error) {
	switch format {
	case FormatJSON:
		return ReadHypergraphJSON(r)
	case FormatGr, FormatHgr:
		return ReadPACE(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ImportFile reads the hypergraph stored at path, choosing the reader by
// file extension.
func ImportFile(path string) (*hypergraph.Graph, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadHypergraph(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
