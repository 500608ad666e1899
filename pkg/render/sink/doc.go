// Package sink serializes rendered diagrams into output formats.
//
// # Overview
//
// A "sink" transforms a [render.Output] (or, for the debug formats, the
// diagram itself) into a final document:
//
//   - SVG: vector graphics written with github.com/ajstarks/svgo
//   - PDF: print-ready output drawn with github.com/tdewolff/canvas
//   - JSON: the primitives and warnings for external tools
//   - DOT: the node graph in Graphviz syntax, optionally laid out to SVG
//     with github.com/goccy/go-graphviz
//
// # Frame
//
// Every drawing sink sizes its page to the bounding box of all primitives
// plus a margin and translates coordinates so the top-left primitive sits at
// (margin, margin). Layout units map to SVG user units and to PDF points.
//
//	out := render.Render(d)
//	svg := sink.RenderSVG(out, sink.WithMargin(10), sink.WithEmbeddedFonts())
//	pdf, err := sink.RenderPDF(out)
//
// # Debug Graph
//
// [ToDOT] writes the topology of a diagram with each node's kind, text and
// solved geometry; unresolved nodes are drawn dashed and failed nodes red.
//
//	dot := sink.ToDOT(d)
//	svg, err := sink.RenderDOT(dot)
package sink
