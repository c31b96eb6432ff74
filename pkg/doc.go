// Package pkg provides the libraries behind bagtree, a tree decomposition
// tool for hypergraphs.
//
// # Overview
//
// bagtree builds tree decompositions by bucket elimination: vertices are
// eliminated along an ordering, each elimination leaves a bucket of
// neighbors, and the buckets become the bags of a tree. The pkg directory is
// organized into three areas:
//
//  1. Domain: [hypergraph], [ordering], [decomposition], [manipulation], [bucket]
//  2. Formats: [io] (JSON and PACE) and [render] (DOT and SVG)
//  3. Infrastructure: [pipeline], [cache], [config], [errors], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	.json / .gr / .hgr file
//	         ↓
//	    [io] package (parse hypergraph)
//	         ↓
//	    [ordering] package (elimination ordering)
//	         ↓
//	    [bucket] package (buckets → tree, then manipulations and labels)
//	         ↓
//	    [io] / [render] packages (json, td, dot, svg)
//
// [pipeline] runs these stages with caching and is shared by the CLI and the
// HTTP API.
//
// # Quick Start
//
//	g, err := io.ImportFile("instance.gr")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	alg := bucket.New(bucket.WithOrdering(ordering.MinFill{}))
//	tree, err := alg.ComputeDecompositionOps(g,
//	    manipulation.Transform(manipulation.Compress{}),
//	    manipulation.Label(manipulation.BagSize{}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("width", tree.Width())
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/bucket/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Set BAGTREE_TEST_REDIS or BAGTREE_TEST_MONGO to run the remote cache tests.
//
// [hypergraph]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/hypergraph
// [ordering]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/ordering
// [decomposition]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/decomposition
// [manipulation]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/manipulation
// [bucket]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/bucket
// [io]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/bagtree/pkg/observability
package pkg
