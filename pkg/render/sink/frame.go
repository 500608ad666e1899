package sink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/render"
)

// DefaultMargin is the blank border around the drawing, in layout units.
const DefaultMargin = 10

// frame maps layout coordinates onto the page.
type frame struct {
	dx, dy int64 // added to layout coordinates
	w, h   int64 // page size
}

func newFrame(out *render.Output, margin int64) frame {
	b, ok := out.Bounds()
	if !ok {
		return frame{w: 2 * margin, h: 2 * margin}
	}
	return frame{
		dx: margin - b.X,
		dy: margin - b.Y,
		w:  b.W + 2*margin,
		h:  b.H + 2*margin,
	}
}

func (f frame) x(v int64) int64 { return v + f.dx }
func (f frame) y(v int64) int64 { return v + f.dy }

// paint returns CSS declarations for a fill or stroke color.
func paint(prop string, c diagram.Color) string {
	if c.IsTransparent() {
		return prop + ":none"
	}
	s := fmt.Sprintf("%s:#%02x%02x%02x", prop, c.R, c.G, c.B)
	if c.A < 255 {
		s += fmt.Sprintf(";%s-opacity:%.3f", prop, float64(c.A)/255)
	}
	return s
}

func strokeStyle(s diagram.Stroke) string {
	if s.Width == 0 || s.Color.IsTransparent() {
		return "stroke:none"
	}
	return fmt.Sprintf("%s;stroke-width:%d", paint("stroke", s.Color), s.Width)
}

func cssFamily(family, fallback string) string {
	return "'" + strings.ReplaceAll(family, "'", "") + "', " + fallback
}
