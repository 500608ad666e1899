// Package render turns a solved diagram into drawing primitives.
//
// # Overview
//
// [Render] walks the nodes of a [diagram.Diagram] in ascending identity and
// emits one or more primitives per drawable node:
//
//   - Box nodes become a [Rect] styled by their [diagram.BoxStyle]
//     component, or [diagram.DefaultBoxStyle] without one
//   - Text nodes become a [TextRun]
//   - Line and Connector nodes become a [Segment] along the diagonal of
//     their box
//
// Root nodes emit nothing.
//
// # Partial Output
//
// A drawable node without [diagram.SolvedDimensions] is skipped. The skip is
// recorded as a [Warning] in the [Output] and logged; the call itself still
// succeeds, so one unresolved node never costs the whole picture.
//
//	out := render.Render(d)
//	for _, w := range out.Warnings {
//	    fmt.Println(w)
//	}
//	svg := sink.RenderSVG(out)
//
// # Composability
//
// Emission keeps no state between nodes. [EmitNode] renders a single node,
// and rendering a diagram is the concatenation of rendering each node in
// order.
//
// Serializing primitives into a file format is the job of the sink
// subpackage.
package render
