package treedot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
)

// Options configures decomposition rendering.
type Options struct {
	// Detailed adds every node label below the bag.
	// When false, only the bag is shown.
	Detailed bool

	// Highlight names a boolean label. Nodes where it is true are filled.
	Highlight string
}

// ToDOT converts a decomposition to Graphviz DOT source.
// Nodes are emitted in pre-order and named n1, n2, ... in that order, so the
// output is stable for a given tree.
func ToDOT(t *decomposition.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph T {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := t.Nodes()
	name := make(map[decomposition.NodeID]string, len(ids))
	for i, id := range ids {
		name[id] = "n" + strconv.Itoa(i+1)
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(t, id, opts.Detailed))}
		if highlighted(t, id, opts.Highlight) {
			attrs = append(attrs, "fillcolor=\"#ffe08a\"")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", name[id], strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		if p := t.Parent(id); p != decomposition.NoNode {
			fmt.Fprintf(&buf, "  %s -- %s;\n", name[p], name[id])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// FormatBag renders a bag as "{1, 2, 3}".
func FormatBag(bag []hypergraph.Vertex) string {
	parts := make([]string, len(bag))
	for i, v := range bag {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func fmtLabel(t *decomposition.Tree, id decomposition.NodeID, detailed bool) string {
	bag := FormatBag(t.Bag(id))
	if !detailed {
		return bag
	}

	labels := t.ExportLabels(id)
	parts := []string{bag}
	for _, k := range t.LabelNames() {
		if v, ok := labels[k]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", k, v))
		}
	}
	return strings.Join(parts, "\n")
}

func highlighted(t *decomposition.Tree, id decomposition.NodeID, label string) bool {
	if label == "" {
		return false
	}
	v, ok := t.Label(label, id)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from the
// origin regardless of the offsets Graphviz picked.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
