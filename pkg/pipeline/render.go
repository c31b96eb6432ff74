package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/bagtree/pkg/decomposition"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	bio "github.com/matzehuels/bagtree/pkg/io"
	"github.com/matzehuels/bagtree/pkg/observability"
	"github.com/matzehuels/bagtree/pkg/render/treedot"
)

// Render generates output artifacts in the requested formats. n is the
// vertex count of the decomposed hypergraph, needed by the td header.
func Render(ctx context.Context, t *decomposition.Tree, n int, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Decomposition()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	artifacts = make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		var buf bytes.Buffer
		switch format {
		case FormatJSON:
			err = bio.WriteTreeJSON(t, &buf)
		case FormatTD:
			err = bio.WritePACE(t, n, &buf)
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = treedot.ToDOT(t, treedot.Options{Detailed: opts.Detailed, Highlight: opts.Highlight})
			}
			if format == FormatDOT {
				buf.WriteString(dot)
				break
			}
			var svg []byte
			if svg, err = treedot.RenderSVG(ctx, dot); err == nil {
				buf.Write(svg)
			}
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return nil, bterrors.Wrap(bterrors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}
