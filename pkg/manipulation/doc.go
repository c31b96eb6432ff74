// Package manipulation defines the two post-processing capabilities applied
// to a decomposition after it is built, and ships the built-in operations.
//
// # Capabilities
//
// A [LabelingFunction] computes one named label per node from the node's bag
// and a snapshot of the node's existing labels. A [Manipulation] rewrites the
// tree structure in place.
//
// An [Operation] carries explicit handles for both capabilities. The handles
// are fixed when the operation is registered:
//
//	manipulation.Label(manipulation.BagSize{})         // labeling only
//	manipulation.Transform(manipulation.Compress{})    // manipulation only
//	manipulation.Both(&manipulation.Critical{})        // one value, both roles
//
// # Built-in operations
//
// Labeling functions: [BagSize], [InducedEdges], [Constant].
// Manipulations: [AddEmptyRoot], [AddEmptyLeaves], [Compress],
// [LimitChildCount]. [Critical] implements both.
//
// [Lookup] maps the operation names used by the CLI and config files to
// fresh Operation values.
package manipulation
