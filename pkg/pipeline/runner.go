package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bagtree/pkg/bucket"
	"github.com/matzehuels/bagtree/pkg/cache"
	"github.com/matzehuels/bagtree/pkg/decomposition"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
	bio "github.com/matzehuels/bagtree/pkg/io"
	"github.com/matzehuels/bagtree/pkg/manipulation"
	"github.com/matzehuels/bagtree/pkg/observability"
	"github.com/matzehuels/bagtree/pkg/ordering"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state and may be shared by goroutines; each
// run builds its own algorithm instance.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means the DefaultKeyer and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute decomposes g and renders the requested formats.
func (r *Runner) Execute(ctx context.Context, g hypergraph.Hypergraph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := bterrors.ValidateGraphSize(g, opts.Limits); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Graph:     g,
		GraphHash: GraphHash(g),
		Stats:     Stats{Vertices: g.VertexCount(), Hyperedges: len(g.Hyperedges())},
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	start := time.Now()
	tree, detail, hit, err := r.DecomposeWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Tree, result.Detail = tree, detail
	result.Stats.DecomposeTime = time.Since(start)
	result.Stats.Nodes = tree.NodeCount()
	result.Stats.Width = tree.Width()
	result.CacheInfo.DecomposeHit = hit

	logger.Info("decomposed hypergraph",
		"vertices", result.Stats.Vertices,
		"hyperedges", result.Stats.Hyperedges,
		"nodes", result.Stats.Nodes,
		"width", result.Stats.Width,
		"cached", hit,
		"duration", result.Stats.DecomposeTime)

	result.TreeHash, err = TreeHash(tree)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.ErrCodeInternal, err, "hash decomposition")
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, tree, result.TreeHash, g.VertexCount(), opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DecomposeWithCacheInfo returns the decomposition of g, from the cache
// when possible. The bucket detail is only available on a miss.
func (r *Runner) DecomposeWithCacheInfo(ctx context.Context, g hypergraph.Hypergraph, opts Options) (*decomposition.Tree, *bucket.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.DecompositionKey(GraphHash(g), opts.DecompositionKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if t, err := bio.ReadTreeJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "decomposition")
				return t, nil, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "decomposition")

	res, err := Decompose(ctx, g, opts)
	if err != nil {
		return nil, nil, false, err
	}

	var buf bytes.Buffer
	if err := bio.WriteTreeJSON(res.Tree, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLDecomposition); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "decomposition", buf.Len())
		}
	}
	return res.Tree, res, false, nil
}

// Decompose runs bucket elimination without caching and validates the
// result unless opts.SkipValidate is set.
func Decompose(ctx context.Context, g hypergraph.Hypergraph, opts Options) (res *bucket.Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Decomposition()
	hooks.OnDecomposeStart(ctx, g.VertexCount(), len(g.Hyperedges()), opts.orderingKey())
	start := time.Now()
	defer func() {
		width, nodes := -1, 0
		if res != nil {
			width, nodes = res.Tree.Width(), res.Tree.NodeCount()
		}
		hooks.OnDecomposeComplete(ctx, width, nodes, time.Since(start), err)
	}()

	provider, err := opts.provider()
	if err != nil {
		return nil, err
	}
	ops, err := manipulation.LookupAll(opts.Operations, g)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidOperation, err, "operations")
	}

	alg := bucket.New(
		bucket.WithOrdering(provider),
		bucket.WithLogger(opts.Logger),
	)
	res, err = alg.ComputeDetailed(g, ops)
	switch {
	case errors.Is(err, bucket.ErrInvalidOrdering):
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidOrdering, err, "decompose")
	case errors.Is(err, manipulation.ErrInvalidChildLimit):
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidOperation, err, "decompose")
	case err != nil:
		return nil, bterrors.Wrap(bterrors.ErrCodeInternal, err, "decompose")
	case res == nil:
		return nil, bterrors.New(bterrors.ErrCodeInvalidOrdering,
			"ordering does not cover the %d vertices of the hypergraph", g.VertexCount())
	}

	if !opts.SkipValidate {
		if err := decomposition.Validate(g, res.Tree); err != nil {
			return nil, bterrors.Wrap(bterrors.ErrCodeInvalidDecomposition, err, "validate")
		}
	}
	return res, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts when all of them are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *decomposition.Tree, treeHash string, vertices int, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, t, vertices, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash returns the content hash of g in its JSON encoding.
func GraphHash(g hypergraph.Hypergraph) string {
	var buf bytes.Buffer
	_ = bio.WriteHypergraphJSON(g, &buf)
	return cache.Hash(buf.Bytes())
}

// TreeHash returns the content hash of t in its JSON encoding.
func TreeHash(t *decomposition.Tree) (string, error) {
	var buf bytes.Buffer
	if err := bio.WriteTreeJSON(t, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// FixedOrdering wraps an explicit ordering as a Provider together with a
// cache key derived from its content.
func FixedOrdering(order []hypergraph.Vertex) (ordering.Provider, string) {
	var buf bytes.Buffer
	for _, v := range order {
		buf.WriteString(" ")
		buf.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return ordering.Fixed(order), "fixed:" + cache.Hash(buf.Bytes())
}
