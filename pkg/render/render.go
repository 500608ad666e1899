package render

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/observability"
)

// RenderOption configures Render.
type RenderOption func(*renderer)

// pointsPerInch is the resolution at which one point is one layout unit.
const pointsPerInch = 72

type renderer struct {
	logger *log.Logger
	dpi    float64
}

// WithLogger sets the logger that receives skip warnings. Defaults to
// log.Default().
func WithLogger(l *log.Logger) RenderOption {
	return func(r *renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDPI sets the resolution text was measured at, so that text runs carry
// their em size in layout units. Defaults to 72, where one point is one unit.
func WithDPI(dpi float64) RenderOption {
	return func(r *renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

func newRenderer(opts ...RenderOption) renderer {
	r := renderer{logger: log.Default(), dpi: pointsPerInch}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Render emits the primitives of every node of d in ascending identity.
// Nodes that cannot be drawn are listed in Output.Warnings.
func Render(d *diagram.Diagram, opts ...RenderOption) *Output {
	r := newRenderer(opts...)
	start := time.Now()

	out := &Output{}
	for n := range d.Nodes() {
		prims, warn := EmitNode(n)
		if warn != nil {
			r.logger.Warn("skipping node", "node", warn.Node, "kind", warn.Kind, "reason", warn.Reason)
			out.Warnings = append(out.Warnings, *warn)
			continue
		}
		for _, p := range prims {
			if t, ok := p.(TextRun); ok {
				t.Size = t.Font.Size * r.dpi / pointsPerInch
				p = t
			}
			out.Primitives = append(out.Primitives, p)
		}
	}

	elapsed := time.Since(start)
	r.logger.Debug("rendered diagram",
		"primitives", len(out.Primitives),
		"warnings", len(out.Warnings),
		"duration", elapsed)
	observability.Layout().OnRenderComplete(len(out.Primitives), len(out.Warnings), elapsed)
	return out
}

// EmitNode returns the primitives for a single node. It returns a warning
// instead when a drawable node has no solved dimensions.
func EmitNode(n *diagram.Node) ([]Primitive, *Warning) {
	if n.Kind() == diagram.NodeKindRoot {
		return nil, nil
	}
	dims, ok := diagram.Get[diagram.SolvedDimensions](n)
	if !ok {
		return nil, skipped(n)
	}

	style, ok := diagram.Get[diagram.BoxStyle](n)
	if !ok {
		style = diagram.DefaultBoxStyle
	}

	switch n.Kind() {
	case diagram.NodeKindBox:
		return []Primitive{Rect{
			Node: n.ID(),
			X:    dims.X, Y: dims.Y, W: dims.W, H: dims.H,
			Stroke: style.Stroke,
			Fill:   style.Fill,
		}}, nil

	case diagram.NodeKindText:
		tc, ok := diagram.Get[diagram.TextContent](n)
		if !ok || tc.Text == "" {
			return nil, nil
		}
		font, ok := diagram.Get[diagram.Font](n)
		if !ok {
			font = diagram.DefaultFont
		}
		return []Primitive{TextRun{
			Node: n.ID(),
			X:    dims.X, Y: dims.Y, W: dims.W, H: dims.H,
			Text:  tc.Text,
			Font:  font,
			Color: style.Stroke.Color,
			Size:  font.Size,
		}}, nil

	case diagram.NodeKindLine, diagram.NodeKindConnector:
		return []Primitive{Segment{
			Node: n.ID(),
			X1:   dims.X, Y1: dims.Y,
			X2: dims.Right(), Y2: dims.Bottom(),
			Stroke: style.Stroke,
		}}, nil
	}
	return nil, nil
}

func skipped(n *diagram.Node) *Warning {
	w := &Warning{Node: n.ID(), Kind: n.Kind(), Reason: "no solved dimensions"}
	if lf, ok := diagram.Get[diagram.LayoutFailure](n); ok {
		w.Reason += ": " + lf.Reason
	} else if mf, ok := diagram.Get[diagram.MeasureFailure](n); ok && mf.Err != nil {
		w.Reason += ": " + mf.Err.Error()
	}
	return w
}
