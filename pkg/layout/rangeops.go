package layout

import "github.com/matzehuels/diagtool/pkg/diagram"

// position resolves a position axis: 0 clamped into r.
func position(r diagram.Range) int64 {
	return clamp(0, r)
}

func clamp(v int64, r diagram.Range) int64 {
	if r.Min != nil && v < *r.Min {
		v = *r.Min
	}
	if r.Max != nil && v > *r.Max {
		v = *r.Max
	}
	return v
}

// size resolves a size axis for content of extent need (need >= 0). It
// returns false when need does not fit under the maximum.
func size(r diagram.Range, need int64) (int64, bool) {
	v := need
	if r.Min != nil && *r.Min > v {
		v = *r.Min
	}
	if r.Max != nil && v > *r.Max {
		return 0, false
	}
	return v, true
}

// firstInvalid returns the first axis of c whose min exceeds its max.
func firstInvalid(c diagram.DimensionConstraint) (diagram.Axis, bool) {
	for _, a := range diagram.Axes {
		if !c.Range(a).Valid() {
			return a, true
		}
	}
	return diagram.AxisNone, false
}
