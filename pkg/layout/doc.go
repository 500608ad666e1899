// Package layout turns per-node dimension constraints into concrete geometry.
//
// # Overview
//
// [Solve] reads the topology and the [diagram.DimensionConstraint] components
// of a [diagram.Diagram] and writes a [diagram.SolvedDimensions] component
// for every node it can resolve. Nodes it cannot resolve get a
// [diagram.LayoutFailure] component instead, and the failure is returned in
// the [Report].
//
// [SeedText] runs before the solver and fixes the width and height of Text
// nodes to the extent reported by a [Measurer].
//
//	if err := layout.SeedText(d, calc); err != nil {
//	    logger.Warn("some text could not be measured", "err", err)
//	}
//	report := layout.Solve(d)
//	if err := report.Err(); err != nil {
//	    // per-node failures; everything else was still solved
//	}
//
// # Resolution Policy
//
// Sizing is bottom-up minimum-content, placement is top-down:
//
//   - Roots (nodes that are nobody's child) are solved in ascending identity,
//     children in child-list order, depth first. Nodes that are only
//     reachable through a cycle are solved afterwards as if they were roots.
//   - A position axis resolves to 0 clamped into its range. Positions are
//     relative to the parent's origin.
//   - A size axis resolves to the larger of its minimum (or 0) and the extent
//     of its resolved children (child offset plus child size). When that
//     extent exceeds the maximum, the node is reported together with the
//     first child that overflows, and nothing below it is solved. A child at
//     a negative offset is reported the same way.
//   - A range with min > max is reported on its axis.
//   - A child that is already on the traversal stack closes a cycle. The
//     cycle is reported and the edge is ignored.
//   - A node shared by several parents is sized once and placed under the
//     first parent that reaches it. Each later parent must contain it at
//     that position or is reported on the axis where it escapes.
//   - Nodes left unsolved below a reported node carry a LayoutFailure that
//     names that ancestor.
//
// Every step is deterministic: the same diagram always yields the same
// geometry and the same failures in the same order.
package layout
