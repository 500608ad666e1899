package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/diagtool/pkg/diagram"
)

// Primitive is one drawing instruction. Coordinates are absolute layout
// units with the origin at the top left.
type Primitive interface {
	// Source returns the node the primitive was emitted for.
	Source() diagram.NodeID
	// Bounds returns the axis-aligned box covered by the primitive.
	Bounds() diagram.SolvedDimensions
	isPrimitive()
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Node       diagram.NodeID
	X, Y, W, H int64
	Stroke     diagram.Stroke
	Fill       diagram.Fill
}

// TextRun is a block of text, one or more lines, laid into its box from the
// top left.
type TextRun struct {
	Node       diagram.NodeID
	X, Y, W, H int64
	Text       string
	Font       diagram.Font
	Color      diagram.Color
	Size       float64 // em size in layout units; zero means Font.Size
}

// EmSize returns the em size the run was measured at, in layout units.
func (t TextRun) EmSize() float64 {
	if t.Size > 0 {
		return t.Size
	}
	return t.Font.Size
}

// Lines splits the text at newlines.
func (t TextRun) Lines() []string {
	return strings.Split(strings.ReplaceAll(t.Text, "\r\n", "\n"), "\n")
}

// LineHeight returns the height of one line of the run.
func (t TextRun) LineHeight() float64 {
	return float64(t.H) / float64(len(t.Lines()))
}

// Segment is a straight line from (X1, Y1) to (X2, Y2).
type Segment struct {
	Node           diagram.NodeID
	X1, Y1, X2, Y2 int64
	Stroke         diagram.Stroke
}

func (r Rect) Source() diagram.NodeID    { return r.Node }
func (t TextRun) Source() diagram.NodeID { return t.Node }
func (s Segment) Source() diagram.NodeID { return s.Node }

func (r Rect) Bounds() diagram.SolvedDimensions {
	return diagram.SolvedDimensions{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func (t TextRun) Bounds() diagram.SolvedDimensions {
	return diagram.SolvedDimensions{X: t.X, Y: t.Y, W: t.W, H: t.H}
}

func (s Segment) Bounds() diagram.SolvedDimensions {
	return diagram.SolvedDimensions{
		X: min(s.X1, s.X2), Y: min(s.Y1, s.Y2),
		W: max(s.X1, s.X2) - min(s.X1, s.X2),
		H: max(s.Y1, s.Y2) - min(s.Y1, s.Y2),
	}
}

func (Rect) isPrimitive()    {}
func (TextRun) isPrimitive() {}
func (Segment) isPrimitive() {}

// Warning identifies a node the renderer had to skip.
type Warning struct {
	Node   diagram.NodeID
	Kind   diagram.NodeKind
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s skipped: %s", w.Kind, w.Node, w.Reason)
}

// Output is the result of rendering a diagram.
type Output struct {
	Primitives []Primitive
	Warnings   []Warning
}

// Bounds returns the union of the bounds of all primitives. ok is false when
// there are none.
func (o *Output) Bounds() (b diagram.SolvedDimensions, ok bool) {
	var minX, minY, maxX, maxY int64
	for i, p := range o.Primitives {
		pb := p.Bounds()
		if i == 0 {
			minX, minY, maxX, maxY = pb.X, pb.Y, pb.Right(), pb.Bottom()
			continue
		}
		minX, minY = min(minX, pb.X), min(minY, pb.Y)
		maxX, maxY = max(maxX, pb.Right()), max(maxY, pb.Bottom())
	}
	if len(o.Primitives) == 0 {
		return b, false
	}
	return diagram.SolvedDimensions{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// Rects returns the rectangles of the output in order.
func (o *Output) Rects() []Rect {
	var out []Rect
	for _, p := range o.Primitives {
		if r, ok := p.(Rect); ok {
			out = append(out, r)
		}
	}
	return out
}
