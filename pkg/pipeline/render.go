package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/diagtool/pkg/cache"
	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/observability"
	"github.com/matzehuels/diagtool/pkg/render"
	"github.com/matzehuels/diagtool/pkg/render/sink"
)

// artifactCacheName labels artifact cache events in the observability hooks.
const artifactCacheName = "artifacts"

// Render emits the primitives of d and serializes them in every requested
// format. Artifacts are keyed by format.
func (r *Runner) Render(ctx context.Context, d *diagram.Diagram, opts Options) (*render.Output, map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, nil, err
	}

	out := render.Render(d, render.WithLogger(opts.Logger), render.WithDPI(opts.DPI))
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		var data []byte
		var err error
		if format == FormatGraph {
			data, err = r.renderGraph(ctx, d, opts)
		} else {
			data, err = Encode(ctx, d, out, format, opts)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", format, err)
		}
		opts.Logger.Debug("encoded output", "format", format, "bytes", len(data))
		artifacts[format] = data
	}
	return out, artifacts, nil
}

// renderGraph lays out the DOT description of d with Graphviz, reusing a
// cached artifact for identical DOT input. Cache failures are logged and
// otherwise ignored.
func (r *Runner) renderGraph(ctx context.Context, d *diagram.Diagram, opts Options) ([]byte, error) {
	dot := sink.ToDOT(d)
	key := cache.ArtifactKey(FormatGraph, []byte(dot))
	c := r.Cache
	if c == nil {
		c = cache.NewNullCache()
	}

	data, hit, err := c.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("artifact cache read failed", "format", FormatGraph, "error", err)
	}
	if hit {
		observability.Cache().OnCacheHit(artifactCacheName)
		opts.Logger.Debug("artifact cache hit", "format", FormatGraph)
		return data, nil
	}
	observability.Cache().OnCacheMiss(artifactCacheName)

	data, err = sink.RenderDOT(ctx, dot)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		opts.Logger.Warn("artifact cache write failed", "format", FormatGraph, "error", err)
	}
	return data, nil
}

// Encode serializes one format. The dot and graph formats describe the
// diagram itself; the others draw out.
func Encode(ctx context.Context, d *diagram.Diagram, out *render.Output, format string, opts Options) ([]byte, error) {
	opts.SetRenderDefaults()
	switch format {
	case FormatSVG:
		return sink.RenderSVG(out, buildSVGOptions(opts)...), nil
	case FormatPDF:
		return sink.RenderPDF(out, buildPDFOptions(opts)...)
	case FormatJSON:
		return sink.RenderJSON(out, sink.WithJSONMargin(*opts.Margin))
	case FormatDOT:
		return []byte(sink.ToDOT(d)), nil
	case FormatGraph:
		return sink.RenderDOT(ctx, sink.ToDOT(d))
	}
	return nil, ValidateFormat(format)
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithMargin(*opts.Margin), sink.WithBackground(opts.background())}
	if opts.EmbedFonts {
		svgOpts = append(svgOpts, sink.WithEmbeddedFonts())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

func buildPDFOptions(opts Options) []sink.PDFOption {
	return []sink.PDFOption{
		sink.WithPDFMargin(*opts.Margin),
		sink.WithPDFBackground(opts.background()),
		sink.WithPDFTitle(opts.Title),
	}
}
