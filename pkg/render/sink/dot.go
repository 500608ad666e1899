package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/observability"
)

// ToDOT converts the node graph of d to Graphviz DOT format.
//
// Each node is labeled with its identity, kind, text and solved geometry.
// Nodes without solved dimensions are drawn dashed; nodes carrying a layout
// or measure failure are drawn red. Edges follow child-list order.
func ToDOT(d *diagram.Diagram) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	for n := range d.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID().String(), strings.Join(fmtAttrs(n), ", "))
		for _, c := range n.Children() {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.ID().String(), c.String()))
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *diagram.Node) string {
	parts := []string{n.ID().String() + " " + n.Kind().String()}
	if t, ok := diagram.Get[diagram.TextContent](n); ok && t.Text != "" {
		parts = append(parts, strconv.Quote(t.Text))
	}
	if s, ok := diagram.Get[diagram.SolvedDimensions](n); ok {
		parts = append(parts, fmt.Sprintf("%d,%d %dx%d", s.X, s.Y, s.W, s.H))
	}
	if f, ok := diagram.Get[diagram.LayoutFailure](n); ok {
		parts = append(parts, f.Reason)
	}
	if f, ok := diagram.Get[diagram.MeasureFailure](n); ok && f.Err != nil {
		parts = append(parts, f.Err.Error())
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *diagram.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n))}
	if n.Kind() == diagram.NodeKindRoot {
		attrs = append(attrs, "shape=point")
		return attrs
	}
	failed := n.Has(diagram.KindLayoutFailure) || n.Has(diagram.KindMeasureFailure)
	switch {
	case failed:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=mistyrose", "color=red")
	case !n.Has(diagram.KindSolved):
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderDOT lays out a DOT graph with Graphviz and returns it as SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	start := time.Now()
	data, err := renderDOT(ctx, dot)
	observability.Output().OnWrite("graph", len(data), time.Since(start), err)
	return data, err
}

func renderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the point-based width and height Graphviz writes
// with the viewBox size, so the document scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, h := string(match[3]), string(match[4])
	if v, _ := strconv.ParseFloat(w, 64); v == 0 {
		return svg
	}
	newSvg := fmt.Sprintf(`<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
