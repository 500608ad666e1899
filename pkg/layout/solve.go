package layout

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/observability"
)

// Report summarizes one Solve run.
type Report struct {
	// Solved lists the nodes that received SolvedDimensions, ascending.
	Solved []diagram.NodeID
	// Failures holds *ConstraintError and *CycleError values in the order
	// they were detected.
	Failures []error
}

// Err returns nil if the run reported no failures, otherwise a
// *multierror.Error holding all of them.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Failures {
		result = multierror.Append(result, f)
	}
	return result.ErrorOrNil()
}

// Unsatisfiable returns the constraint failures of the run.
func (r *Report) Unsatisfiable() []*ConstraintError {
	var out []*ConstraintError
	for _, f := range r.Failures {
		if ce, ok := f.(*ConstraintError); ok {
			out = append(out, ce)
		}
	}
	return out
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

// sizing is the bottom-up result for one node. rel.X and rel.Y are relative
// to the parent's origin.
type sizing struct {
	ok         bool
	constraint diagram.DimensionConstraint
	rel        diagram.SolvedDimensions
	contained  []diagram.NodeID // children counted in the content extent
}

type solver struct {
	d       *diagram.Diagram
	opts    options
	state   []visitState
	sizes   []sizing
	placed  []bool
	owner   []diagram.NodeID // parent that placed the node
	abs     []diagram.SolvedDimensions
	failed  map[diagram.NodeID]*ConstraintError
	blocked map[diagram.NodeID]diagram.NodeID // unresolved node -> failed ancestor
	report  *Report
}

// Solve resolves the geometry of every node of d and writes it as a
// SolvedDimensions component. Results of earlier runs are cleared first.
//
// Solve never aborts: unsatisfiable nodes get a LayoutFailure component and
// are listed in the returned Report, and solving continues for unrelated
// parts of the graph. Nodes left unresolved below a failed node get a
// LayoutFailure naming that ancestor but are not listed in the Report.
//
// A node shared by several parents is placed by the first parent that
// reaches it. Every later parent must contain it at that position, or that
// parent fails on the axis where the child escapes.
func Solve(d *diagram.Diagram, opts ...Option) *Report {
	start := time.Now()
	n := d.Len()
	s := &solver{
		d:      d,
		opts:   newOptions(opts...),
		state:  make([]visitState, n),
		sizes:  make([]sizing, n),
		placed:  make([]bool, n),
		owner:   make([]diagram.NodeID, n),
		abs:     make([]diagram.SolvedDimensions, n),
		failed:  make(map[diagram.NodeID]*ConstraintError),
		blocked: make(map[diagram.NodeID]diagram.NodeID),
		report:  &Report{},
	}
	s.clear()

	roots := d.Roots()
	for _, id := range roots {
		s.size(id)
	}
	// Nodes only reachable through a cycle have no root above them.
	for _, id := range d.IDs() {
		if s.state[id] == unvisited {
			s.size(id)
			roots = append(roots, id)
		}
	}

	for _, id := range roots {
		if s.sizes[id].ok && !s.placed[id] && s.failed[id] == nil {
			s.place(id, 0, 0)
		}
	}
	s.block()
	s.write()

	elapsed := time.Since(start)
	s.opts.logger.Debug("layout solved",
		"nodes", n,
		"solved", len(s.report.Solved),
		"failures", len(s.report.Failures),
		"duration", elapsed)
	observability.Layout().OnSolveComplete(n, len(s.report.Solved), len(s.report.Failures), elapsed)
	return s.report
}

func (s *solver) clear() {
	for _, id := range s.d.IDs() {
		_ = s.d.Update(id, func(n *diagram.Node) error {
			n.Remove(diagram.KindSolved)
			n.Remove(diagram.KindLayoutFailure)
			return nil
		})
	}
}

func (s *solver) size(id diagram.NodeID) sizing {
	if s.state[id] == visited {
		return s.sizes[id]
	}
	s.state[id] = visiting

	var c diagram.DimensionConstraint
	var children []diagram.NodeID
	_ = s.d.View(id, func(n *diagram.Node) error {
		c, _ = diagram.Get[diagram.DimensionConstraint](n)
		children = n.Children()
		return nil
	})

	res := sizing{ok: true, constraint: c}
	if a, bad := firstInvalid(c); bad {
		s.fail(&ConstraintError{Node: id, Axis: a, Range: c.Range(a), Reason: "minimum exceeds maximum"})
		res.ok = false
	}

	var needW, needH int64
	for _, child := range children {
		if s.state[child] == visiting {
			s.cycle(id, child)
			continue
		}
		cs := s.size(child)
		if !cs.ok || !res.ok {
			continue
		}
		if cs.rel.X < 0 || cs.rel.Y < 0 {
			axis, v := diagram.AxisX, cs.rel.X
			if cs.rel.X >= 0 {
				axis, v = diagram.AxisY, cs.rel.Y
			}
			s.fail(&ConstraintError{
				Node: id, Axis: axis, Range: c.Range(axis),
				Child: child, HasChild: true,
				Reason: fmt.Sprintf("child placed at %s=%d (child range %s) lies outside its parent",
					axis, v, cs.constraint.Range(axis)),
			})
			res.ok = false
			continue
		}
		res.contained = append(res.contained, child)
		needW = max(needW, cs.rel.Right())
		needH = max(needH, cs.rel.Bottom())
	}

	if res.ok {
		res.rel.X = position(c.X)
		res.rel.Y = position(c.Y)
		var okW, okH bool
		res.rel.W, okW = size(c.W, needW)
		res.rel.H, okH = size(c.H, needH)
		if !okW {
			s.overflow(id, diagram.AxisW, c.W, needW, res.contained, diagram.SolvedDimensions.Right)
		}
		if !okH {
			s.overflow(id, diagram.AxisH, c.H, needH, res.contained, diagram.SolvedDimensions.Bottom)
		}
		res.ok = okW && okH
	}
	if !res.ok {
		res.contained = nil
	}

	s.state[id] = visited
	s.sizes[id] = res
	return res
}

// overflow reports that the content extent need of id does not fit under r.
// The first contained child whose far edge exceeds the maximum is named.
func (s *solver) overflow(id diagram.NodeID, axis diagram.Axis, r diagram.Range, need int64,
	contained []diagram.NodeID, edge func(diagram.SolvedDimensions) int64) {
	err := &ConstraintError{Node: id, Axis: axis, Range: r}
	for _, child := range contained {
		if edge(s.sizes[child].rel) > *r.Max {
			err.Child, err.HasChild = child, true
			break
		}
	}
	if err.HasChild {
		err.Reason = fmt.Sprintf("content needs %d", need)
	} else {
		err.Reason = "size cannot be negative"
	}
	s.fail(err)
}

func (s *solver) fail(err *ConstraintError) {
	s.report.Failures = append(s.report.Failures, err)
	if _, ok := s.failed[err.Node]; !ok {
		s.failed[err.Node] = err
	}
	s.opts.logger.Warn("unsatisfiable constraint", "node", err.Node, "axis", err.Axis, "reason", err.Reason)
}

func (s *solver) cycle(parent, child diagram.NodeID) {
	s.report.Failures = append(s.report.Failures, &CycleError{Parent: parent, Child: child})
	s.opts.logger.Warn("cycle in topology", "parent", parent, "child", child)
}

func (s *solver) hasBlocker(id diagram.NodeID) bool {
	_, ok := s.blocked[id]
	return ok
}

// place assigns absolute coordinates to id and everything it contains.
// A child already placed by another parent must lie inside id as well;
// otherwise id fails and its subtree is left unplaced.
func (s *solver) place(id diagram.NodeID, ox, oy int64) {
	r := s.sizes[id].rel
	abs := diagram.SolvedDimensions{X: ox + r.X, Y: oy + r.Y, W: r.W, H: r.H}
	for _, child := range s.sizes[id].contained {
		if s.placed[child] && !inside(s.abs[child], abs) {
			s.escaped(id, abs, child)
			return
		}
	}

	s.placed[id] = true
	s.abs[id] = abs
	for _, child := range s.sizes[id].contained {
		if !s.placed[child] && s.failed[child] == nil {
			s.owner[child] = id
			s.place(child, abs.X, abs.Y)
		}
	}
}

// escaped reports that child, placed earlier by another parent, lies outside
// parent's box at abs.
func (s *solver) escaped(parent diagram.NodeID, abs diagram.SolvedDimensions, child diagram.NodeID) {
	cb := s.abs[child]
	axis, v := diagram.AxisX, cb.X
	if cb.X >= abs.X && cb.Right() <= abs.Right() {
		axis, v = diagram.AxisY, cb.Y
	}
	s.fail(&ConstraintError{
		Node: parent, Axis: axis, Range: s.sizes[parent].constraint.Range(axis),
		Child: child, HasChild: true,
		Reason: fmt.Sprintf("shared child already placed by %s at %s=%d lies outside", s.owner[child], axis, v),
	})
}

func inside(inner, outer diagram.SolvedDimensions) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() && inner.Bottom() <= outer.Bottom()
}

// block marks every unplaced node below a failed node with that ancestor.
// Failed nodes are visited in ascending identity; the first one to reach a
// node is recorded.
func (s *solver) block() {
	var walk func(diagram.NodeID, diagram.NodeID)
	walk = func(id, ancestor diagram.NodeID) {
		for _, child := range s.d.Children(id) {
			if s.placed[child] || s.failed[child] != nil {
				continue
			}
			if _, ok := s.blocked[child]; ok {
				continue
			}
			s.blocked[child] = ancestor
			walk(child, ancestor)
		}
	}
	for _, id := range s.d.IDs() {
		if s.failed[id] != nil {
			walk(id, id)
		}
	}
}

func (s *solver) write() {
	for _, id := range s.d.IDs() {
		var c diagram.Component
		switch {
		case s.placed[id]:
			c = s.abs[id]
			s.report.Solved = append(s.report.Solved, id)
		case s.failed[id] != nil:
			err := s.failed[id]
			lf := diagram.LayoutFailure{Axis: err.Axis, Reason: err.Error()}
			if err.HasChild {
				lf.Related = []diagram.NodeID{err.Child}
			}
			c = lf
		case s.hasBlocker(id):
			ancestor := s.blocked[id]
			c = diagram.LayoutFailure{
				Axis:    diagram.AxisNone,
				Reason:  fmt.Sprintf("ancestor %s could not be laid out", ancestor),
				Related: []diagram.NodeID{ancestor},
			}
		default:
			continue
		}
		_ = s.d.Update(id, func(n *diagram.Node) error {
			n.Insert(c)
			return nil
		})
	}
}
