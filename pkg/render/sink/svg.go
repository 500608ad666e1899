package sink

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/fonts"
	"github.com/matzehuels/diagtool/pkg/observability"
	"github.com/matzehuels/diagtool/pkg/render"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin     int64
	embedFonts bool
	background diagram.Color
	title      string
}

// WithMargin sets the blank border around the drawing.
func WithMargin(m int64) SVGOption { return func(r *svgRenderer) { r.margin = max(m, 0) } }

// WithEmbeddedFonts embeds the built-in fonts used by text runs as
// @font-face rules, so the document renders the same without them installed.
func WithEmbeddedFonts() SVGOption { return func(r *svgRenderer) { r.embedFonts = true } }

// WithBackground fills the page with c. The default is transparent.
func WithBackground(c diagram.Color) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithTitle sets the document title.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG writes the primitives of out as an SVG document, in order.
func RenderSVG(out *render.Output, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	start := time.Now()
	f := newFrame(out, r.margin)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(f.w), int(f.h))
	if r.title != "" {
		canvas.Title(r.title)
	}
	if r.embedFonts {
		r.renderFontFaces(canvas, out)
	}
	if !r.background.IsTransparent() {
		canvas.Rect(0, 0, int(f.w), int(f.h), paint("fill", r.background))
	}

	for _, p := range out.Primitives {
		switch p := p.(type) {
		case render.Rect:
			canvas.Rect(int(f.x(p.X)), int(f.y(p.Y)), int(p.W), int(p.H),
				fmt.Sprintf(`id="%s" style="%s;%s"`, p.Node, paint("fill", p.Fill.Color), strokeStyle(p.Stroke)))
		case render.Segment:
			canvas.Line(int(f.x(p.X1)), int(f.y(p.Y1)), int(f.x(p.X2)), int(f.y(p.Y2)),
				fmt.Sprintf(`id="%s" style="%s;stroke-linecap:round"`, p.Node, strokeStyle(p.Stroke)))
		case render.TextRun:
			renderSVGText(canvas, f, p)
		}
	}
	canvas.End()

	observability.Output().OnWrite("svg", buf.Len(), time.Since(start), nil)
	return buf.Bytes()
}

func renderSVGText(canvas *svg.SVG, f frame, t render.TextRun) {
	style := fmt.Sprintf("font-family:%s;font-size:%gpx;%s;dominant-baseline:text-before-edge",
		cssFamily(t.Font.Family, fonts.FallbackFontFamily), t.EmSize(), paint("fill", t.Color))
	lh := t.LineHeight()

	canvas.Gid(t.Node.String())
	for i, line := range t.Lines() {
		if line == "" {
			continue
		}
		y := f.y(t.Y) + int64(math.Round(float64(i)*lh))
		canvas.Text(int(f.x(t.X)), int(y), line, `style="`+style+`"`)
	}
	canvas.Gend()
}

func (r *svgRenderer) renderFontFaces(canvas *svg.SVG, out *render.Output) {
	var families []string
	for _, p := range out.Primitives {
		if t, ok := p.(render.TextRun); ok && !slices.Contains(families, t.Font.Family) {
			families = append(families, t.Font.Family)
		}
	}
	slices.Sort(families)

	var css strings.Builder
	for _, family := range families {
		data, ok := fonts.Base64(family)
		if !ok {
			continue
		}
		fmt.Fprintf(&css, "@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			family, data)
	}
	if css.Len() == 0 {
		return
	}
	canvas.Def()
	canvas.Style("text/css", css.String())
	canvas.DefEnd()
}
