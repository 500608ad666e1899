package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/diagtool/pkg/observability"
	"github.com/matzehuels/diagtool/pkg/render"
)

// JSONOption configures RenderJSON.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	margin int64
}

// WithJSONMargin sets the margin applied to the frame, as for the drawing sinks.
func WithJSONMargin(m int64) JSONOption { return func(r *jsonRenderer) { r.margin = max(m, 0) } }

type jsonOutput struct {
	Width      int64           `json:"width"`
	Height     int64           `json:"height"`
	Margin     int64           `json:"margin"`
	Primitives []jsonPrimitive `json:"primitives"`
	Warnings   []jsonWarning   `json:"warnings,omitempty"`
}

type jsonPrimitive struct {
	Type   string      `json:"type"`
	Node   string      `json:"node"`
	X      int64       `json:"x"`
	Y      int64       `json:"y"`
	Width  int64       `json:"width,omitempty"`
	Height int64       `json:"height,omitempty"`
	X2     *int64      `json:"x2,omitempty"`
	Y2     *int64      `json:"y2,omitempty"`
	Text   string      `json:"text,omitempty"`
	Font   *jsonFont   `json:"font,omitempty"`
	Color  string      `json:"color,omitempty"`
	Fill   string      `json:"fill,omitempty"`
	Stroke *jsonStroke `json:"stroke,omitempty"`
}

type jsonFont struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	EmSize float64 `json:"em"` // layout units
}

type jsonStroke struct {
	Width uint8  `json:"width"`
	Color string `json:"color"`
}

type jsonWarning struct {
	Node   string `json:"node"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// RenderJSON exports the primitives and warnings of out. Coordinates are
// translated into the frame, as in RenderSVG.
func RenderJSON(out *render.Output, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}
	start := time.Now()
	f := newFrame(out, r.margin)

	doc := jsonOutput{
		Width:      f.w,
		Height:     f.h,
		Margin:     r.margin,
		Primitives: make([]jsonPrimitive, 0, len(out.Primitives)),
	}
	for _, p := range out.Primitives {
		doc.Primitives = append(doc.Primitives, toJSONPrimitive(f, p))
	}
	for _, w := range out.Warnings {
		doc.Warnings = append(doc.Warnings, jsonWarning{Node: w.Node.String(), Kind: w.Kind.String(), Reason: w.Reason})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	observability.Output().OnWrite("json", len(data), time.Since(start), err)
	return data, err
}

func toJSONPrimitive(f frame, p render.Primitive) jsonPrimitive {
	switch p := p.(type) {
	case render.Rect:
		jp := jsonPrimitive{
			Type: "rect", Node: p.Node.String(),
			X: f.x(p.X), Y: f.y(p.Y), Width: p.W, Height: p.H,
			Stroke: &jsonStroke{Width: p.Stroke.Width, Color: p.Stroke.Color.Hex()},
		}
		if !p.Fill.Color.IsTransparent() {
			jp.Fill = p.Fill.Color.Hex()
		}
		return jp
	case render.TextRun:
		return jsonPrimitive{
			Type: "text", Node: p.Node.String(),
			X: f.x(p.X), Y: f.y(p.Y), Width: p.W, Height: p.H,
			Text:  p.Text,
			Font:  &jsonFont{Family: p.Font.Family, Size: p.Font.Size, EmSize: p.EmSize()},
			Color: p.Color.Hex(),
		}
	case render.Segment:
		x2, y2 := f.x(p.X2), f.y(p.Y2)
		return jsonPrimitive{
			Type: "segment", Node: p.Node.String(),
			X: f.x(p.X1), Y: f.y(p.Y1), X2: &x2, Y2: &y2,
			Stroke: &jsonStroke{Width: p.Stroke.Width, Color: p.Stroke.Color.Hex()},
		}
	}
	b := p.Bounds()
	return jsonPrimitive{Type: "unknown", Node: p.Source().String(), X: f.x(b.X), Y: f.y(b.Y), Width: b.W, Height: b.H}
}
