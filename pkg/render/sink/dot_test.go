package sink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/diagtool/pkg/diagram"
)

func dotDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.New()
	root := d.Create(diagram.NodeKindRoot)
	box := d.Create(diagram.NodeKindBox)
	text := d.Create(diagram.NodeKindText)
	broken := d.Create(diagram.NodeKindBox)
	d.LinkChild(root, box)
	d.LinkChild(box, text)
	d.LinkChild(root, broken)

	update := func(id diagram.NodeID, c diagram.Component) {
		if err := d.Update(id, func(n *diagram.Node) error {
			n.Insert(c)
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	update(box, diagram.SolvedDimensions{X: 0, Y: 0, W: 100, H: 40})
	update(text, diagram.TextContent{Text: "hi"})
	update(broken, diagram.LayoutFailure{Axis: diagram.AxisW, Reason: "content needs 80"})
	return d
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(dotDiagram(t))

	for _, want := range []string{
		"digraph G {",
		`"n0" [label="n0 root", shape=point];`,
		`"n1" [label="n1 box\n0,0 100x40"];`,
		`"n2" [label="n2 text\n\"hi\"", style="rounded,filled,dashed", fillcolor=lightgrey`,
		`label="n3 box\ncontent needs 80", style="rounded,filled,dashed", fillcolor=mistyrose, color=red`,
		`"n0" -> "n1";`,
		`"n1" -> "n2";`,
		`"n0" -> "n3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Index(dot, `"n0" -> "n1"`) > strings.Index(dot, `"n0" -> "n3"`) {
		t.Error("edges not in child-list order")
	}
}

func TestRenderDOT(t *testing.T) {
	rec := recordWrites(t)
	svg, err := RenderDOT(context.Background(), ToDOT(dotDiagram(t)))
	if err != nil {
		t.Fatalf("RenderDOT() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Errorf("unexpected graph SVG:\n%s", svg)
	}
	if len(rec.formats) != 1 || rec.formats[0] != "graph" {
		t.Errorf("formats = %v, want [graph]", rec.formats)
	}
}

func TestRenderDOTInvalid(t *testing.T) {
	if _, err := RenderDOT(context.Background(), "digraph {"); err == nil {
		t.Error("expected error for malformed DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `width="62.00" height="116.00" viewBox="0 0 62.00 116.00"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if strings.Contains(got, "pt") {
		t.Errorf("point units left in output: %s", got)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
