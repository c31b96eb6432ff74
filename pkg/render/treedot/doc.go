// Package treedot renders tree decompositions as Graphviz diagrams.
//
// # Usage
//
// Convert a tree to DOT, then render to SVG:
//
//	dot := treedot.ToDOT(tree, treedot.Options{Detailed: true})
//	svg, err := treedot.RenderSVG(ctx, dot)
//
// Each node is a rounded box showing its bag. With Detailed set, the node's
// labels follow on separate lines in label-name order. Highlight fills the
// nodes whose named boolean label is true, which pairs with the "critical"
// label to mark the bags that determine the width.
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly. No system installation is needed.
package treedot
