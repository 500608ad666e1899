// Package scene loads diagrams from TOML or YAML scene files.
//
// # Overview
//
// A scene lists named nodes with their kind, children, text, font,
// constraints and style. [Load] reads a file and picks the decoder by
// extension; [Decode] reads from any io.Reader. [Scene.Build] validates the
// scene and creates the corresponding [diagram.Diagram].
//
// # Format
//
//	[[nodes]]
//	name = "page"
//	kind = "root"
//	children = ["card"]
//
//	[[nodes]]
//	name = "card"
//	kind = "box"
//	children = ["title"]
//	constraint.width = { min = 50, max = 200 }
//	style = { stroke = "#333", stroke_width = 2, fill = "#ffffff80" }
//
//	[[nodes]]
//	name = "title"
//	kind = "text"
//	text = "Hello"
//	font = { family = "Go Bold", size = 14 }
//	constraint.x = { exact = 8 }
//
// The same structure is accepted as YAML under a top-level "nodes" list.
//
// # Node Fields
//
//   - name: unique identifier (letters, digits, '_', '-', '.')
//   - kind: root, box, text, connector or line
//   - children: names of child nodes, in order
//   - text: content of a text node
//   - font: family and size in points of a text node
//   - constraint: x, y, width and height ranges with min, max or exact
//   - style: stroke and fill colors (#rgb, #rrggbb or #rrggbbaa) and stroke_width
//
// Nodes are created in file order, so their identities follow the order of
// declaration. Unknown keys are rejected.
package scene
