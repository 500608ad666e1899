package diagram

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/diagtool/pkg/errors"
)

// =============================================================================
// Visual Style
// =============================================================================

// Color is an 8-bit RGBA color. A zero alpha means fully transparent.
type Color struct {
	R, G, B, A uint8
}

var (
	// Black is opaque black, the default stroke color.
	Black = Color{A: 255}
	// White is opaque white.
	White = Color{R: 255, G: 255, B: 255, A: 255}
	// Transparent is the zero color.
	Transparent = Color{}
)

// IsTransparent reports whether the color has zero alpha.
func (c Color) IsTransparent() bool { return c.A == 0 }

// Hex returns "#rrggbb", or "#rrggbbaa" when the color is not fully opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is
// optional.
func ParseColor(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) == 3 {
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	}
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := Color{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// Stroke describes an outline.
type Stroke struct {
	Width uint8
	Color Color
}

// Fill describes an interior. A transparent color means no fill.
type Fill struct {
	Color Color
}

// BoxStyle is the visual style of a Box node.
type BoxStyle struct {
	Stroke Stroke
	Fill   Fill
}

// DefaultBoxStyle is used for boxes without a BoxStyle component:
// a 1-unit black outline and no fill.
var DefaultBoxStyle = BoxStyle{Stroke: Stroke{Width: 1, Color: Black}}

// TextContent is the text of a Text node.
type TextContent struct {
	Text string
}

// Font selects a font family and size for a Text node.
type Font struct {
	Family string
	Size   float64 // points
}

// DefaultFontFamily names the built-in font family.
const DefaultFontFamily = "Go Regular"

// DefaultFont is the active font when neither the node nor the caller
// selects one.
var DefaultFont = Font{Family: DefaultFontFamily, Size: 12}

func (f Font) String() string {
	return f.Family + " " + strconv.FormatFloat(f.Size, 'g', -1, 64) + "pt"
}

// =============================================================================
// Constraints
// =============================================================================

// Axis names one dimension of a node's geometry.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisW
	AxisH
)

// Axes lists the four geometric axes in canonical order.
var Axes = [...]Axis{AxisX, AxisY, AxisW, AxisH}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisW:
		return "width"
	case AxisH:
		return "height"
	default:
		return "none"
	}
}

// Range is an optional inclusive interval. A nil bound is open.
// The zero Range is unconstrained.
type Range struct {
	Min, Max *int64
}

// Between returns the range [lo, hi].
func Between(lo, hi int64) Range { return Range{Min: &lo, Max: &hi} }

// AtLeast returns the range [lo, ∞].
func AtLeast(lo int64) Range { return Range{Min: &lo} }

// AtMost returns the range [-∞, hi].
func AtMost(hi int64) Range { return Range{Max: &hi} }

// Exactly returns the range [v, v].
func Exactly(v int64) Range { return Between(v, v) }

// IsZero reports whether the range is unconstrained.
func (r Range) IsZero() bool { return r.Min == nil && r.Max == nil }

// Valid reports whether min <= max when both bounds are present.
func (r Range) Valid() bool {
	return r.Min == nil || r.Max == nil || *r.Min <= *r.Max
}

// Fixed returns v when the range is exactly [v, v].
func (r Range) Fixed() (int64, bool) {
	if r.Min != nil && r.Max != nil && *r.Min == *r.Max {
		return *r.Min, true
	}
	return 0, false
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v int64) bool {
	return (r.Min == nil || v >= *r.Min) && (r.Max == nil || v <= *r.Max)
}

// Equal reports whether both ranges have the same bounds.
func (r Range) Equal(o Range) bool {
	return boundEqual(r.Min, o.Min) && boundEqual(r.Max, o.Max)
}

func boundEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// String formats the range as "[min,max]" with open bounds shown as ∞.
func (r Range) String() string {
	lo, hi := "-∞", "∞"
	if r.Min != nil {
		lo = strconv.FormatInt(*r.Min, 10)
	}
	if r.Max != nil {
		hi = strconv.FormatInt(*r.Max, 10)
	}
	return "[" + lo + "," + hi + "]"
}

// DimensionConstraint restricts a node's position and size per axis.
// X and Y are relative to the origin of the parent node.
type DimensionConstraint struct {
	X, Y, W, H Range
}

// Range returns the range for axis a.
func (c DimensionConstraint) Range(a Axis) Range {
	switch a {
	case AxisX:
		return c.X
	case AxisY:
		return c.Y
	case AxisW:
		return c.W
	case AxisH:
		return c.H
	}
	return Range{}
}

// WithRange returns a copy of c with axis a set to r.
func (c DimensionConstraint) WithRange(a Axis, r Range) DimensionConstraint {
	switch a {
	case AxisX:
		c.X = r
	case AxisY:
		c.Y = r
	case AxisW:
		c.W = r
	case AxisH:
		c.H = r
	}
	return c
}

// Validate returns an INVALID_INPUT error naming the first axis whose min
// exceeds its max.
func (c DimensionConstraint) Validate() error {
	for _, a := range Axes {
		if r := c.Range(a); !r.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "constraint on %s: min %d > max %d", a, *r.Min, *r.Max)
		}
	}
	return nil
}

// SolvedDimensions is the concrete geometry assigned by the layout solver,
// in absolute diagram coordinates with the origin at the top left.
type SolvedDimensions struct {
	X, Y, W, H int64
}

// Right returns X + W.
func (s SolvedDimensions) Right() int64 { return s.X + s.W }

// Bottom returns Y + H.
func (s SolvedDimensions) Bottom() int64 { return s.Y + s.H }

// =============================================================================
// Failure Records
// =============================================================================

// MeasureFailure records that the text-metrics collaborator could not
// measure the node's text.
type MeasureFailure struct {
	Err error
}

// LayoutFailure records why the solver left a node unresolved.
type LayoutFailure struct {
	Axis    Axis     // AxisNone for failures not tied to one axis
	Reason  string   // human-readable description
	Related []NodeID // other nodes involved, e.g. the child that overflowed
}

// =============================================================================
// Component Implementations
// =============================================================================

func (BoxStyle) ComponentKind() ComponentKind            { return KindBoxStyle }
func (TextContent) ComponentKind() ComponentKind         { return KindText }
func (Font) ComponentKind() ComponentKind                { return KindFont }
func (DimensionConstraint) ComponentKind() ComponentKind { return KindConstraint }
func (SolvedDimensions) ComponentKind() ComponentKind    { return KindSolved }
func (MeasureFailure) ComponentKind() ComponentKind      { return KindMeasureFailure }
func (LayoutFailure) ComponentKind() ComponentKind       { return KindLayoutFailure }

func (BoxStyle) isComponent()            {}
func (TextContent) isComponent()         {}
func (Font) isComponent()                {}
func (DimensionConstraint) isComponent() {}
func (SolvedDimensions) isComponent()    {}
func (MeasureFailure) isComponent()      {}
func (LayoutFailure) isComponent()       {}
