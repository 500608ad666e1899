package layout

import (
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/errors"
	"github.com/matzehuels/diagtool/pkg/observability"
)

// Measurer reports the extent of a string set in a font, in layout units.
// It fails when the font cannot be loaded, a glyph is missing, or a kerning
// lookup fails.
type Measurer interface {
	MeasureWidth(text string, font diagram.Font) (int64, error)
	MeasureHeight(text string, font diagram.Font) (int64, error)
}

// SeedText measures every Text node that has a TextContent component and
// fixes its width and height constraint to the measured extent. The measured
// extent is a lower bound: an axis whose minimum is larger keeps the minimum.
// When an existing maximum is smaller than the text, the axis is stored with
// its minimum above its maximum, so that Solve reports it as unsatisfiable.
// Position axes are left untouched.
//
// The node's Font component selects the font; nodes without one use the
// active font (see WithFont), which is then recorded on the node so that the
// renderer draws with the font the text was measured in.
//
// A failed measurement attaches a MeasureFailure component to the node and
// leaves its constraint unchanged; the remaining nodes are still measured.
// The returned error aggregates all failures, each coded
// MEASUREMENT_FAILED.
func SeedText(d *diagram.Diagram, m Measurer, opts ...Option) error {
	o := newOptions(opts...)
	var result *multierror.Error

	for _, id := range d.IDs() {
		var (
			text    string
			font    = o.font
			c       diagram.DimensionConstraint
			isText  bool
			hasFont bool
		)
		_ = d.View(id, func(n *diagram.Node) error {
			if n.Kind() != diagram.NodeKindText {
				return nil
			}
			tc, ok := diagram.Get[diagram.TextContent](n)
			if !ok {
				return nil
			}
			isText, text = true, tc.Text
			if f, ok := diagram.Get[diagram.Font](n); ok {
				font, hasFont = f, true
			}
			c, _ = diagram.Get[diagram.DimensionConstraint](n)
			return nil
		})
		if !isText {
			continue
		}

		w, h, err := measure(m, text, font)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeMeasurement, err, "measure text of %s", id)
			o.logger.Warn("text measurement failed", "node", id, "font", font, "err", err)
			result = multierror.Append(result, err)
			_ = d.Update(id, func(n *diagram.Node) error {
				n.Insert(diagram.MeasureFailure{Err: err})
				return nil
			})
			continue
		}

		var fits bool
		if c.W, fits = seed(c.W, w); !fits {
			o.logger.Warn("text wider than its constraint", "node", id, "width", w, "range", c.W)
		}
		if c.H, fits = seed(c.H, h); !fits {
			o.logger.Warn("text taller than its constraint", "node", id, "height", h, "range", c.H)
		}
		_ = d.Update(id, func(n *diagram.Node) error {
			n.Remove(diagram.KindMeasureFailure)
			n.Insert(c)
			if !hasFont {
				n.Insert(font)
			}
			return nil
		})
		o.logger.Debug("seeded text", "node", id, "width", w, "height", h)
	}
	return result.ErrorOrNil()
}

// seed narrows r to the single value v, or to r's minimum when that is
// larger. It reports false when r's maximum is below that value; the result
// then keeps the conflict as a minimum above the maximum.
func seed(r diagram.Range, v int64) (diagram.Range, bool) {
	lo := v
	if r.Min != nil && *r.Min > lo {
		lo = *r.Min
	}
	if r.Max != nil && *r.Max < lo {
		return diagram.Between(lo, *r.Max), false
	}
	return diagram.Exactly(lo), true
}

func measure(m Measurer, text string, font diagram.Font) (w, h int64, err error) {
	start := time.Now()
	defer func() {
		observability.Layout().OnMeasure(font.String(), time.Since(start), err)
	}()
	if w, err = m.MeasureWidth(text, font); err != nil {
		return 0, 0, err
	}
	if h, err = m.MeasureHeight(text, font); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
