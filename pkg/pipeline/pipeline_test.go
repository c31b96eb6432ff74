package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/bagtree/pkg/cache"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	"github.com/matzehuels/bagtree/pkg/hypergraph"
	bio "github.com/matzehuels/bagtree/pkg/io"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func path4() *hypergraph.Graph {
	g := hypergraph.New(4)
	_ = g.AddEdge(1, 2)
	_ = g.AddEdge(2, 3)
	_ = g.AddEdge(3, 4)
	return g
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"json", "td", "dot", "svg"}, false},
		{nil, false},
		{[]string{"png"}, true},
		{[]string{"json", "SVG"}, true},
	}
	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !bterrors.Is(err, bterrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormats(%v) code = %s", tt.formats, bterrors.GetCode(err))
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code bterrors.Code
	}{
		{"defaults", Options{}, ""},
		{"unknown ordering", Options{Ordering: "random"}, bterrors.ErrCodeInvalidOrdering},
		{"unknown operation", Options{Operations: []string{"flatten"}}, bterrors.ErrCodeInvalidOperation},
		{"bad format", Options{Formats: []string{"pdf"}}, bterrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if !bterrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	opts := Options{}
	_ = opts.ValidateAndSetDefaults()
	if opts.Ordering != "min-fill" || len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("defaults = %q %v", opts.Ordering, opts.Formats)
	}
}

func TestOptionsExplicitOrdering(t *testing.T) {
	p, key := FixedOrdering([]hypergraph.Vertex{4, 3, 2, 1})
	opts := Options{Provider: p}
	if err := opts.ValidateAndSetDefaults(); !bterrors.Is(err, bterrors.ErrCodeInvalidOrdering) {
		t.Fatalf("missing key error = %v", err)
	}
	opts = Options{Provider: p, OrderingKey: key}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := opts.DecompositionKeyOpts().Ordering; got != key {
		t.Errorf("cache ordering = %q, want %q", got, key)
	}
	if _, other := FixedOrdering([]hypergraph.Vertex{1, 2, 3, 4}); other == key {
		t.Error("different orderings share a cache key")
	}
}

func TestParse(t *testing.T) {
	g, err := Parse(strings.NewReader("p tw 3 2\n1 2\n2 3\n"), "gr", bterrors.Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d", g.EdgeCount())
	}

	tests := []struct {
		name   string
		in     string
		format string
		limits bterrors.Limits
		code   bterrors.Code
	}{
		{"unknown format", "", "xml", bterrors.Limits{}, bterrors.ErrCodeInvalidFormat},
		{"malformed", "p tw 3\n", "gr", bterrors.Limits{}, bterrors.ErrCodeInvalidInput},
		{"too large", "p tw 3 0\n", "gr", bterrors.Limits{MaxVertices: 2}, bterrors.ErrCodeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), tt.format, tt.limits)
			if !bterrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(t.TempDir()+"/missing.gr", bterrors.Limits{})
	if !bterrors.Is(err, bterrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDecompose(t *testing.T) {
	res, err := Decompose(context.Background(), path4(), Options{Operations: []string{"bag-size"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Tree.Width() != 1 {
		t.Errorf("width = %d, want 1", res.Tree.Width())
	}
	if _, ok := res.Tree.Label("bag_size", res.Tree.Root()); !ok {
		t.Error("bag_size label missing")
	}
}

func TestDecompose_Errors(t *testing.T) {
	short, key := FixedOrdering([]hypergraph.Vertex{1, 2})
	_, err := Decompose(context.Background(), path4(), Options{Provider: short, OrderingKey: key})
	if !bterrors.Is(err, bterrors.ErrCodeInvalidOrdering) {
		t.Errorf("short ordering error = %v", err)
	}

	repeated, key := FixedOrdering([]hypergraph.Vertex{1, 1, 2, 3})
	_, err = Decompose(context.Background(), path4(), Options{Provider: repeated, OrderingKey: key})
	if !bterrors.Is(err, bterrors.ErrCodeInvalidOrdering) {
		t.Errorf("repeated vertex error = %v", err)
	}
}

func TestRunnerExecute_Caches(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Formats: []string{"json", "td", "dot"}, Operations: []string{"compress"}}

	first, err := r.Execute(context.Background(), path4(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.DecomposeHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if first.Detail == nil || first.RunID == "" {
		t.Error("first run lacks detail or run id")
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !bytes.HasPrefix(first.Artifacts["td"], []byte("s td ")) {
		t.Errorf("td artifact = %q", first.Artifacts["td"])
	}

	second, err := r.Execute(context.Background(), path4(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.DecomposeHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if second.TreeHash != first.TreeHash || second.RunID == first.RunID {
		t.Error("cached run should share the tree hash but not the run id")
	}
	if !bytes.Equal(second.Artifacts["json"], first.Artifacts["json"]) {
		t.Error("cached json artifact differs")
	}

	sets := c.sets
	opts.Refresh = true
	if _, err := r.Execute(context.Background(), path4(), opts); err != nil {
		t.Fatal(err)
	}
	if c.sets == sets {
		t.Error("refresh did not rewrite the decomposition")
	}
}

func TestRunnerExecute_CachedTreeRoundTrips(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	res, err := r.Execute(context.Background(), path4(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := r.Keyer.DecompositionKey(res.GraphHash, cache.DecompositionKeyOpts{Ordering: "min-fill"})
	data, ok, _ := c.Get(context.Background(), key)
	if !ok {
		t.Fatal("decomposition not cached under the expected key")
	}
	tree, err := bio.ReadTreeJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if tree.NodeCount() != res.Tree.NodeCount() {
		t.Errorf("cached tree has %d nodes, want %d", tree.NodeCount(), res.Tree.NodeCount())
	}
}

func TestRunnerExecute_Limits(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), path4(), Options{Limits: bterrors.Limits{MaxEdges: 2}})
	if !bterrors.Is(err, bterrors.ErrCodeTooLarge) {
		t.Errorf("error = %v, want TOO_LARGE", err)
	}
}

func TestRender_DOT(t *testing.T) {
	res, err := Decompose(context.Background(), path4(), Options{Operations: []string{"critical"}})
	if err != nil {
		t.Fatal(err)
	}
	out, err := Render(context.Background(), res.Tree, 4, Options{Formats: []string{"dot"}, Highlight: "critical"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out["dot"]), "graph T {") {
		t.Errorf("dot = %q", out["dot"])
	}
}
