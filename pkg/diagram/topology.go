package diagram

import "slices"

// LinkChild appends child to parent's child list. It succeeds only if both
// nodes currently exist; otherwise it returns false and leaves the diagram
// unchanged. Cycles are not checked: a node may be linked as its own
// descendant, and consumers must tolerate that.
//
// LinkChild panics if any view is live.
func (d *Diagram) LinkChild(parent, child NodeID) bool {
	d.mustBeIdle("LinkChild")
	if !d.Contains(parent) || !d.Contains(child) {
		return false
	}
	p := d.nodes[parent]
	p.children = append(p.children, child)
	return true
}

// UnlinkChild removes the first occurrence of child from parent's child
// list and reports whether one was found.
//
// UnlinkChild panics if any view is live.
func (d *Diagram) UnlinkChild(parent, child NodeID) bool {
	d.mustBeIdle("UnlinkChild")
	if !d.Contains(parent) {
		return false
	}
	p := d.nodes[parent]
	i := slices.Index(p.children, child)
	if i < 0 {
		return false
	}
	p.children = slices.Delete(p.children, i, i+1)
	return true
}

// Children returns a copy of the child list of id, or nil if the node does
// not exist.
func (d *Diagram) Children(id NodeID) []NodeID {
	if !d.Contains(id) {
		return nil
	}
	return d.nodes[id].Children()
}

// Parents returns the IDs of all nodes that list id as a child, in ascending
// order. A parent that lists id several times appears once.
func (d *Diagram) Parents(id NodeID) []NodeID {
	var parents []NodeID
	for _, n := range d.nodes {
		if slices.Contains(n.children, id) {
			parents = append(parents, n.id)
		}
	}
	return parents
}

// Roots returns the nodes that are nobody's child, in ascending order.
// Nodes that are only reachable through a cycle are neither roots nor
// reachable from one.
func (d *Diagram) Roots() []NodeID {
	isChild := make([]bool, len(d.nodes))
	for _, n := range d.nodes {
		for _, c := range n.children {
			isChild[c] = true
		}
	}
	var roots []NodeID
	for i, child := range isChild {
		if !child {
			roots = append(roots, NodeID(i))
		}
	}
	return roots
}
