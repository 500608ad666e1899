// Package diagram provides the in-memory object graph of a diagram: a single
// authoritative node store, per-node component bags, and parent/child
// topology.
//
// # Overview
//
// A [Diagram] owns every node. Nodes are created with [Diagram.Create],
// which allocates a dense, strictly increasing [NodeID]. Identities are never
// reused and nodes are never removed, so iteration with [Diagram.Nodes] always
// yields nodes in ascending identity order.
//
//	d := diagram.New()
//	root := d.Create(diagram.NodeKindRoot)
//	box := d.Create(diagram.NodeKindBox)
//	d.LinkChild(root, box)
//
// Nodes reference each other only by identity. Children are stored as a list
// of IDs on the parent and are looked up through the store, so the graph
// never holds reference cycles even when the topology does.
//
// # Scoped Access
//
// Node access is scoped. [Diagram.View] opens a shared, read-only view of one
// node and [Diagram.Update] an exclusive, mutable one; the view ends when the
// callback returns:
//
//	err := d.Update(box, func(n *diagram.Node) error {
//	    n.Insert(diagram.TextContent{Text: "hello"})
//	    return nil
//	})
//
// Any number of shared views may be live at once. An exclusive view may not
// coexist with any other view of the same Diagram, and structural changes
// ([Diagram.Create], [Diagram.LinkChild]) require that no view is live.
// Violations are programming errors and panic at the offending call.
//
// # Components
//
// Each node carries a bag of [Component] values with at most one value per
// [ComponentKind]. The set of kinds is closed: [BoxStyle], [TextContent],
// [Font], [DimensionConstraint], [SolvedDimensions], [MeasureFailure] and
// [LayoutFailure]. Use [Get] for typed access:
//
//	if dims, ok := diagram.Get[diagram.SolvedDimensions](n); ok {
//	    fmt.Println(dims.W, dims.H)
//	}
//
// # Concurrency
//
// A Diagram is not safe for concurrent use. The access checks above catch
// overlapping views within one goroutine; they are not locks.
package diagram
