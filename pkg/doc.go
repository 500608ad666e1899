// Package pkg provides the core libraries of diagtool, a constraint-based
// diagram layout engine.
//
// # Overview
//
// A diagram is a graph of nodes such as boxes, text runs and lines. Each
// node carries typed components: a style, text, a font, dimension
// constraints, and, once laid out, solved dimensions or a failure record.
// The pkg directory is organized into these areas:
//
//  1. [diagram] - Node store, component bag and parent/child topology
//  2. [fontmetrics] and [fonts] - Text measurement with kerning, built-in fonts
//  3. [layout] - Text seeding and the constraint solver
//  4. [render] - Drawing primitives and the SVG, PDF, JSON and DOT sinks
//  5. [scene] - TOML and YAML scene files
//  6. [pipeline] - Orchestration (scene → layout → render)
//  7. [errors], [observability], [cache], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through diagtool:
//
//	Scene file (TOML/YAML)
//	         ↓
//	    [scene] package (decode + build diagram)
//	         ↓
//	    [layout] package (measure text, solve constraints)
//	         ↓
//	    [render] package (primitives + warnings)
//	         ↓
//	    SVG/PDF/JSON/DOT output
//
// # Quick Start
//
// Build a diagram by hand, lay it out and render it:
//
//	import (
//	    "github.com/matzehuels/diagtool/pkg/diagram"
//	    "github.com/matzehuels/diagtool/pkg/fontmetrics"
//	    "github.com/matzehuels/diagtool/pkg/layout"
//	    "github.com/matzehuels/diagtool/pkg/render"
//	    "github.com/matzehuels/diagtool/pkg/render/sink"
//	)
//
//	d := diagram.New()
//	root := d.Create(diagram.NodeKindRoot)
//	box := d.Create(diagram.NodeKindBox)
//	d.LinkChild(root, box)
//
//	calc, _ := fontmetrics.New()
//	_ = layout.SeedText(d, calc)
//	report := layout.Solve(d)
//	if err := report.Err(); err != nil {
//	    // some nodes could not be placed
//	}
//	svg := sink.RenderSVG(render.Render(d))
//
// Or run the whole pipeline on a scene file with [pipeline.Runner].
//
// # Failure Handling
//
// Nothing in the core aborts on a single bad node. Unmeasurable text,
// unsatisfiable constraints and nodes without solved dimensions are
// recorded on the nodes, returned as aggregated errors and skipped by the
// renderer with a warning.
package pkg
