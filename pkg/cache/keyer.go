package cache

import "slices"

// Keyer derives cache keys for the two kinds of cached values.
type Keyer interface {
	// DecompositionKey identifies the tree computed for a hypergraph.
	DecompositionKey(graphHash string, opts DecompositionKeyOpts) string

	// ArtifactKey identifies a rendered output of a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// DecompositionKeyOpts lists the options that change the computed tree.
type DecompositionKeyOpts struct {
	Ordering   string   `json:"ordering"`
	Operations []string `json:"operations,omitempty"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Detailed  bool   `json:"detailed,omitempty"`
	Highlight string `json:"highlight,omitempty"`
}

// DefaultKeyer hashes the options together with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DecompositionKey returns "decomposition:<sha256>". Operation order
// matters, so the names are hashed as given.
func (DefaultKeyer) DecompositionKey(graphHash string, opts DecompositionKeyOpts) string {
	return hashKey("decomposition", graphHash, opts.Ordering, slices.Clone(opts.Operations))
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
