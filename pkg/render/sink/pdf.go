package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/fonts"
	"github.com/matzehuels/diagtool/pkg/observability"
	"github.com/matzehuels/diagtool/pkg/render"
)

// mmPerPt converts layout units (points) into canvas units (millimeters).
const mmPerPt = 25.4 / 72

// PDFOption configures RenderPDF.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	margin     int64
	scale      float64
	background diagram.Color
	title      string

	families map[string]*canvas.FontFamily
}

// WithPDFMargin sets the blank border around the drawing.
func WithPDFMargin(m int64) PDFOption { return func(r *pdfRenderer) { r.margin = max(m, 0) } }

// WithPDFScale multiplies all coordinates. 1 maps one layout unit to one point.
func WithPDFScale(s float64) PDFOption {
	return func(r *pdfRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPDFBackground fills the page with c. The default is transparent.
func WithPDFBackground(c diagram.Color) PDFOption { return func(r *pdfRenderer) { r.background = c } }

// WithPDFTitle sets the document title.
func WithPDFTitle(s string) PDFOption { return func(r *pdfRenderer) { r.title = s } }

// RenderPDF draws the primitives of out onto a single PDF page.
//
// Text runs use the built-in font named by their family; unknown families
// fall back to the default family.
func RenderPDF(out *render.Output, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{margin: DefaultMargin, scale: 1, families: map[string]*canvas.FontFamily{}}
	for _, opt := range opts {
		opt(&r)
	}
	start := time.Now()
	data, err := r.render(out)
	size := len(data)
	observability.Output().OnWrite("pdf", size, time.Since(start), err)
	return data, err
}

func (r *pdfRenderer) render(out *render.Output) ([]byte, error) {
	f := newFrame(out, r.margin)
	w, h := r.mm(f.w), r.mm(f.h)

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(r.title, "", "", "", "diagtool")
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	if !r.background.IsTransparent() {
		ctx.SetFillColor(toColor(r.background))
		ctx.SetStrokeColor(color.RGBA{})
		ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	}

	for _, p := range out.Primitives {
		switch p := p.(type) {
		case render.Rect:
			ctx.SetFillColor(toColor(p.Fill.Color))
			r.setStroke(ctx, p.Stroke)
			ctx.DrawPath(r.mm(f.x(p.X)), r.mm(f.y(p.Y)), canvas.Rectangle(r.mm(p.W), r.mm(p.H)))
		case render.Segment:
			ctx.SetFillColor(color.RGBA{})
			r.setStroke(ctx, p.Stroke)
			path := &canvas.Path{}
			path.MoveTo(0, 0)
			path.LineTo(r.mm(p.X2-p.X1), r.mm(p.Y2-p.Y1))
			ctx.DrawPath(r.mm(f.x(p.X1)), r.mm(f.y(p.Y1)), path)
		case render.TextRun:
			if err := r.drawText(ctx, f, p); err != nil {
				return nil, err
			}
		}
	}

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pdfRenderer) drawText(ctx *canvas.Context, f frame, t render.TextRun) error {
	family, err := r.family(t.Font.Family)
	if err != nil {
		return err
	}
	face := family.Face(t.EmSize()*r.scale, toColor(t.Color), canvas.FontRegular, canvas.FontNormal)
	ascent := face.Metrics().Ascent
	lh := r.scale * mmPerPt * t.LineHeight()

	x, top := r.mm(f.x(t.X)), r.mm(f.y(t.Y))
	for i, line := range t.Lines() {
		if line == "" {
			continue
		}
		ctx.DrawText(x, top+float64(i)*lh+ascent, canvas.NewTextLine(face, line, canvas.Left))
	}
	return nil
}

func (r *pdfRenderer) family(name string) (*canvas.FontFamily, error) {
	data, ok := fonts.TTF(name)
	if !ok {
		name = fonts.DefaultFamily
		data, _ = fonts.TTF(name)
	}
	key := strings.ToLower(name)
	if fam, ok := r.families[key]; ok {
		return fam, nil
	}
	fam := canvas.NewFontFamily(name)
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load font %q: %w", name, err)
	}
	r.families[key] = fam
	return fam, nil
}

func (r *pdfRenderer) setStroke(ctx *canvas.Context, s diagram.Stroke) {
	if s.Width == 0 {
		ctx.SetStrokeColor(color.RGBA{})
		return
	}
	ctx.SetStrokeColor(toColor(s.Color))
	ctx.SetStrokeWidth(r.scale * mmPerPt * float64(s.Width))
}

func (r *pdfRenderer) mm(v int64) float64 { return float64(v) * r.scale * mmPerPt }

// toColor converts to the alpha-premultiplied form canvas expects.
func toColor(c diagram.Color) color.RGBA {
	pm := func(v uint8) uint8 { return uint8(uint16(v) * uint16(c.A) / 255) }
	return color.RGBA{R: pm(c.R), G: pm(c.G), B: pm(c.B), A: c.A}
}
