// Package render groups the output renderers for tree decompositions.
//
// The [treedot] subpackage turns a [decomposition.Tree] into Graphviz DOT and
// SVG. Textual formats (JSON and PACE .td) live in pkg/io.
//
//	dot := treedot.ToDOT(tree, treedot.Options{})
//	svg, err := treedot.RenderSVG(ctx, dot)
//
// [treedot]: github.com/matzehuels/bagtree/pkg/render/treedot
// [decomposition.Tree]: github.com/matzehuels/bagtree/pkg/decomposition.Tree
package render
