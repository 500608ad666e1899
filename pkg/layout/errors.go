package layout

import (
	"fmt"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/errors"
)

// ConstraintError reports a node whose constraints cannot be satisfied on one
// axis. Child is set when a child's geometry caused the failure.
type ConstraintError struct {
	Node     diagram.NodeID
	Axis     diagram.Axis
	Range    diagram.Range
	Child    diagram.NodeID
	HasChild bool
	Reason   string
}

func (e *ConstraintError) Error() string {
	if e.HasChild {
		return fmt.Sprintf("%s and child %s: %s %s: %s", e.Node, e.Child, e.Axis, e.Range, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s: %s", e.Node, e.Axis, e.Range, e.Reason)
}

// Code returns [errors.ErrCodeUnsatisfiable].
func (e *ConstraintError) Code() errors.Code { return errors.ErrCodeUnsatisfiable }

// Nodes returns the nodes involved in the failure, the constrained node first.
func (e *ConstraintError) Nodes() []diagram.NodeID {
	if e.HasChild {
		return []diagram.NodeID{e.Node, e.Child}
	}
	return []diagram.NodeID{e.Node}
}

// CycleError reports a child edge that closes a cycle: Child is already an
// ancestor of Parent on the current traversal path.
type CycleError struct {
	Parent diagram.NodeID
	Child  diagram.NodeID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle: %s lists its ancestor %s as a child", e.Parent, e.Child)
}

// Code returns [errors.ErrCodeCycle].
func (e *CycleError) Code() errors.Code { return errors.ErrCodeCycle }
