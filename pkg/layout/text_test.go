package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/diagtool/pkg/diagram"
	dterrors "github.com/matzehuels/diagtool/pkg/errors"
)

var errNoGlyph = errors.New("glyph not found")

// fakeMeasurer charges one unit per rune times the font size, and one line
// per newline-separated segment times the font size.
type fakeMeasurer struct {
	calls []diagram.Font
}

func (m *fakeMeasurer) MeasureWidth(text string, f diagram.Font) (int64, error) {
	m.calls = append(m.calls, f)
	if strings.ContainsRune(text, '☃') {
		return 0, errNoGlyph
	}
	return int64(len([]rune(text))) * int64(f.Size), nil
}

func (m *fakeMeasurer) MeasureHeight(text string, f diagram.Font) (int64, error) {
	if text == "" {
		return 0, nil
	}
	return int64(strings.Count(text, "\n")+1) * int64(f.Size), nil
}

func newText(t *testing.T, d *diagram.Diagram, text string, comps ...diagram.Component) diagram.NodeID {
	t.Helper()
	id := d.Create(diagram.NodeKindText)
	_ = d.Update(id, func(n *diagram.Node) error {
		n.Insert(diagram.TextContent{Text: text})
		for _, c := range comps {
			n.Insert(c)
		}
		return nil
	})
	return id
}

func constraintOf(d *diagram.Diagram, id diagram.NodeID) diagram.DimensionConstraint {
	var c diagram.DimensionConstraint
	_ = d.View(id, func(n *diagram.Node) error {
		c, _ = diagram.Get[diagram.DimensionConstraint](n)
		return nil
	})
	return c
}

func TestSeedTextFixesWidthAndHeight(t *testing.T) {
	d := diagram.New()
	id := newText(t, d, "abc", diagram.DimensionConstraint{X: diagram.Exactly(4), W: diagram.AtLeast(1)})

	if err := SeedText(d, &fakeMeasurer{}, quiet, WithFont(diagram.Font{Family: "Test", Size: 2})); err != nil {
		t.Fatalf("SeedText() = %v", err)
	}
	c := constraintOf(d, id)
	if !c.W.Equal(diagram.Exactly(6)) || !c.H.Equal(diagram.Exactly(2)) {
		t.Errorf("W, H = %v, %v; want [6,6], [2,2]", c.W, c.H)
	}
	if !c.X.Equal(diagram.Exactly(4)) {
		t.Errorf("X = %v, position axes must be kept", c.X)
	}
}

func TestSeedTextKeepsFixedAxes(t *testing.T) {
	d := diagram.New()
	id := newText(t, d, "abcd", diagram.DimensionConstraint{W: diagram.Exactly(100)})

	if err := SeedText(d, &fakeMeasurer{}, quiet); err != nil {
		t.Fatalf("SeedText() = %v", err)
	}
	c := constraintOf(d, id)
	if !c.W.Equal(diagram.Exactly(100)) {
		t.Errorf("W = %v, want the front end's [100,100]", c.W)
	}
	if !c.H.Equal(diagram.Exactly(12)) {
		t.Errorf("H = %v, want [12,12] from the default font", c.H)
	}
}

func TestSeedTextRespectsExistingRange(t *testing.T) {
	// "abcd" at the default size measures 48 wide and 12 high.
	tests := []struct {
		name   string
		w      diagram.Range
		want   diagram.Range
		solves bool
	}{
		{"no range", diagram.Range{}, diagram.Exactly(48), true},
		{"loose range", diagram.Between(10, 100), diagram.Exactly(48), true},
		{"larger minimum", diagram.AtLeast(60), diagram.Exactly(60), true},
		{"maximum below text", diagram.Between(0, 10), diagram.Between(48, 10), false},
		{"fixed below text", diagram.Exactly(30), diagram.Between(48, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diagram.New()
			id := newText(t, d, "abcd", diagram.DimensionConstraint{W: tt.w})

			if err := SeedText(d, &fakeMeasurer{}, quiet); err != nil {
				t.Fatalf("SeedText() = %v", err)
			}
			if c := constraintOf(d, id); !c.W.Equal(tt.want) {
				t.Errorf("W = %v, want %v", c.W, tt.want)
			}

			report := Solve(d, quiet)
			_, ok := solved(t, d, id)
			if ok != tt.solves {
				t.Errorf("solved = %v, want %v", ok, tt.solves)
			}
			if tt.solves {
				return
			}
			ces := report.Unsatisfiable()
			if len(ces) != 1 || ces[0].Node != id || ces[0].Axis != diagram.AxisW {
				t.Errorf("failures = %v, want one width failure on %v", report.Failures, id)
			}
		})
	}
}

func TestSeedTextRecordsActiveFont(t *testing.T) {
	d := diagram.New()
	plain := newText(t, d, "a")
	own := newText(t, d, "b", diagram.Font{Family: "Own", Size: 9})
	active := diagram.Font{Family: "Go Mono", Size: 20}

	if err := SeedText(d, &fakeMeasurer{}, quiet, WithFont(active)); err != nil {
		t.Fatalf("SeedText() = %v", err)
	}
	fontOf := func(id diagram.NodeID) diagram.Font {
		var f diagram.Font
		_ = d.View(id, func(n *diagram.Node) error {
			f, _ = diagram.Get[diagram.Font](n)
			return nil
		})
		return f
	}
	if got := fontOf(plain); got != active {
		t.Errorf("font of %v = %v, want the active font %v", plain, got, active)
	}
	if got := fontOf(own); got.Family != "Own" {
		t.Errorf("font of %v = %v, want its own font kept", own, got)
	}
}

func TestSeedTextUsesNodeFont(t *testing.T) {
	d := diagram.New()
	newText(t, d, "x", diagram.Font{Family: "Big", Size: 40})
	newText(t, d, "y")
	box := d.Create(diagram.NodeKindBox)
	_ = d.Update(box, func(n *diagram.Node) error {
		n.Insert(diagram.TextContent{Text: "boxes are not measured"})
		return nil
	})
	d.Create(diagram.NodeKindText) // no content, skipped

	m := &fakeMeasurer{}
	if err := SeedText(d, m, quiet); err != nil {
		t.Fatalf("SeedText() = %v", err)
	}
	if len(m.calls) != 2 {
		t.Fatalf("measured %d nodes, want 2", len(m.calls))
	}
	if m.calls[0].Family != "Big" || m.calls[1] != diagram.DefaultFont {
		t.Errorf("fonts = %v", m.calls)
	}
	if _, ok := constraintOfOK(d, box); ok {
		t.Error("box node got a constraint")
	}
}

func constraintOfOK(d *diagram.Diagram, id diagram.NodeID) (diagram.DimensionConstraint, bool) {
	var c diagram.DimensionConstraint
	var ok bool
	_ = d.View(id, func(n *diagram.Node) error {
		c, ok = diagram.Get[diagram.DimensionConstraint](n)
		return nil
	})
	return c, ok
}

func TestSeedTextFailureIsPerNode(t *testing.T) {
	d := diagram.New()
	bad := newText(t, d, "snow ☃")
	good := newText(t, d, "ok")

	err := SeedText(d, &fakeMeasurer{}, quiet)
	if err == nil {
		t.Fatal("SeedText() = nil, want an error")
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 1 {
		t.Fatalf("err = %v, want one aggregated failure", err)
	}
	if !errors.Is(err, errNoGlyph) {
		t.Errorf("err = %v, want it to wrap the measurer error", err)
	}
	if !dterrors.Is(err, dterrors.ErrCodeMeasurement) {
		t.Errorf("code = %q", dterrors.GetCode(err))
	}

	var mf diagram.MeasureFailure
	var hasFailure bool
	_ = d.View(bad, func(n *diagram.Node) error {
		mf, hasFailure = diagram.Get[diagram.MeasureFailure](n)
		return nil
	})
	if !hasFailure || !errors.Is(mf.Err, errNoGlyph) {
		t.Errorf("MeasureFailure = %+v, %v", mf, hasFailure)
	}
	if _, ok := constraintOfOK(d, bad); ok {
		t.Error("failed node got a constraint")
	}
	if c := constraintOf(d, good); !c.W.Equal(diagram.Exactly(24)) {
		t.Errorf("good W = %v, want [24,24]", c.W)
	}
}

func TestSeedTextThenSolve(t *testing.T) {
	d := diagram.New()
	root := d.Create(diagram.NodeKindRoot)
	label := newText(t, d, "hello", diagram.DimensionConstraint{X: diagram.Exactly(2)})
	d.LinkChild(root, label)

	if err := SeedText(d, &fakeMeasurer{}, quiet); err != nil {
		t.Fatal(err)
	}
	if err := Solve(d, quiet).Err(); err != nil {
		t.Fatal(err)
	}
	got, _ := solved(t, d, root)
	if got.W != 62 || got.H != 12 {
		t.Errorf("root = %+v, want 62x12", got)
	}
}
