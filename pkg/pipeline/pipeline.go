// Package pipeline runs the load → decompose → render flow shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Parse: read a hypergraph in one of the pkg/io formats
//  2. Decompose: run bucket elimination with the configured ordering and
//     operations, then validate the result
//  3. Render: produce the requested output formats (json, td, dot, svg)
//
// Decompositions and artifacts are cached by content hash through
// [cache.Cache], so repeated runs on the same input skip the work.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Ordering:   "min-fill",
//	    Operations: []string{"compress", "bag-size"},
//	    Formats:    []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bagtree/pkg/bucket"
	"github.com/matzehuels/bagtree/pkg/cache"
	"github.com/matzehuels/bagtree/pkg/decomposition"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
	"github.com/matzehuels/bagtree/pkg/manipulation"
	"github.com/matzehuels/bagtree/pkg/ordering"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatTD   = "td"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatTD, FormatDOT, FormatSVG}

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatJSON}

// Options configures a pipeline run. It doubles as the HTTP request body.
type Options struct {
	// Decompose options
	Ordering   string   `json:"ordering,omitempty"`
	Operations []string `json:"operations,omitempty"`
	// SkipValidate disables the check of the decomposition against the graph.
	SkipValidate bool `json:"skip_validate,omitempty"`
	Refresh      bool `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Highlight string   `json:"highlight,omitempty"`

	// Runtime options (not serialized)
	// Logger defaults to the runner's logger, or to no logging when
	// Decompose is called directly.
	Logger *log.Logger `json:"-"`
	// Provider overrides Ordering, e.g. with an ordering.Fixed read from a
	// file. OrderingKey must then identify it for caching.
	Provider    ordering.Provider `json:"-"`
	OrderingKey string            `json:"-"`
	Limits      bterrors.Limits   `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	Graph     hypergraph.Hypergraph
	GraphHash string

	Tree     *decomposition.Tree
	TreeHash string

	// Detail holds the intermediate bucket state. It is nil when the tree
	// came from the cache.
	Detail *bucket.Result

	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Vertices      int
	Hyperedges    int
	Nodes         int
	Width         int
	DecomposeTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	DecomposeHit bool
	RenderHit    bool
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	return bterrors.ValidateChoices(bterrors.ErrCodeInvalidFormat, "format", formats, Formats)
}

// ValidateAndSetDefaults checks the option values and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Provider == nil {
		if o.Ordering == "" {
			o.Ordering = ordering.DefaultName
		}
		if err := bterrors.ValidateChoice(bterrors.ErrCodeInvalidOrdering, "ordering", o.Ordering, ordering.Names()); err != nil {
			return err
		}
	} else if o.OrderingKey == "" {
		return bterrors.New(bterrors.ErrCodeInvalidOrdering, "explicit ordering needs a cache key")
	}
	if _, err := manipulation.LookupAll(o.Operations, hypergraph.New(0)); err != nil {
		return bterrors.Wrap(bterrors.ErrCodeInvalidOperation, err, "operations")
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// orderingKey names the ordering in cache keys.
func (o *Options) orderingKey() string {
	if o.Provider != nil {
		return o.OrderingKey
	}
	return o.Ordering
}

// provider resolves the ordering provider.
func (o *Options) provider() (ordering.Provider, error) {
	if o.Provider != nil {
		return o.Provider, nil
	}
	p, err := ordering.New(o.Ordering)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidOrdering, err, "ordering")
	}
	return p, nil
}

// DecompositionKeyOpts returns cache key options for the decompose stage.
func (o *Options) DecompositionKeyOpts() cache.DecompositionKeyOpts {
	return cache.DecompositionKeyOpts{Ordering: o.orderingKey(), Operations: o.Operations}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed, Highlight: o.Highlight}
}
