package diagram

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// ErrNodeNotFound is returned by [Diagram.View] and [Diagram.Update] when no
// node with the requested identity exists in the diagram.
var ErrNodeNotFound = errors.New("node not found")

// NodeID identifies a node within one Diagram. IDs are allocated densely
// starting at zero and are strictly increasing in creation order.
type NodeID uint64

// String returns the ID formatted as "n<id>", e.g. "n3".
func (id NodeID) String() string { return "n" + strconv.FormatUint(uint64(id), 10) }

// NodeKind is the fixed type of a node, assigned at creation.
type NodeKind int

const (
	// NodeKindRoot is the root of the object graph.
	NodeKindRoot NodeKind = iota
	// NodeKindBox is a rectangle that gets rendered according to its BoxStyle.
	NodeKindBox
	// NodeKindText is a run of text sized by the text-metrics collaborator.
	NodeKindText
	// NodeKindConnector joins two other elements.
	NodeKindConnector
	// NodeKindLine is a plain line segment.
	NodeKindLine
)

var nodeKindNames = [...]string{
	NodeKindRoot:      "root",
	NodeKindBox:       "box",
	NodeKindText:      "text",
	NodeKindConnector: "connector",
	NodeKindLine:      "line",
}

// String returns the lower-case name of the kind.
func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseNodeKind parses a kind name as produced by [NodeKind.String].
// Matching is case-insensitive.
func ParseNodeKind(s string) (NodeKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range nodeKindNames {
		if name == s {
			return NodeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// Node is one element of the diagram graph. A *Node is only valid inside the
// view callback or iteration step that produced it.
type Node struct {
	id       NodeID
	kind     NodeKind
	children []NodeID
	bag      map[ComponentKind]Component
	writable bool
}

// Diagram is the single authoritative store of all nodes of one diagram.
//
// The zero value is not usable - use New.
// Diagram is not safe for concurrent use without external synchronization.
type Diagram struct {
	nodes []*Node // indexed by NodeID

	// borrows counts live views: >0 shared views, -1 one exclusive view.
	borrows int
}

// New creates an empty diagram.
func New() *Diagram {
	return &Diagram{}
}

// Create allocates a fresh identity, registers an empty node of the given
// kind and returns its ID. Create panics if any view is live.
func (d *Diagram) Create(kind NodeKind) NodeID {
	d.mustBeIdle("Create")
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, &Node{
		id:   id,
		kind: kind,
		bag:  make(map[ComponentKind]Component),
	})
	return id
}

// Len returns the number of nodes in the diagram.
func (d *Diagram) Len() int { return len(d.nodes) }

// Contains reports whether a node with the given ID exists.
func (d *Diagram) Contains(id NodeID) bool { return uint64(id) < uint64(len(d.nodes)) }

// Kind returns the kind of the node with the given ID.
func (d *Diagram) Kind(id NodeID) (NodeKind, bool) {
	if !d.Contains(id) {
		return 0, false
	}
	return d.nodes[id].kind, true
}

// IDs returns the identities of all nodes in ascending order. The returned
// slice is a snapshot; it is safe to create or mutate nodes while ranging
// over it.
func (d *Diagram) IDs() []NodeID {
	ids := make([]NodeID, len(d.nodes))
	for i := range d.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// View opens a shared, read-only view of the node and passes it to fn.
// The view ends when fn returns. Returns an error wrapping ErrNodeNotFound if
// the node does not exist, otherwise whatever fn returns.
//
// View panics if an exclusive view is live.
func (d *Diagram) View(id NodeID, fn func(n *Node) error) error {
	if !d.Contains(id) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.acquire(false, "View")
	defer d.release(false)
	return fn(d.nodes[id])
}

// Update opens an exclusive, mutable view of the node and passes it to fn.
// The view ends when fn returns. Returns an error wrapping ErrNodeNotFound if
// the node does not exist, otherwise whatever fn returns.
//
// Update panics if any other view is live.
func (d *Diagram) Update(id NodeID, fn func(n *Node) error) error {
	if !d.Contains(id) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	d.acquire(true, "Update")
	defer d.release(true)
	n := d.nodes[id]
	n.writable = true
	defer func() { n.writable = false }()
	return fn(n)
}

// Nodes returns a lazy sequence over all nodes in ascending identity order.
// Each yielded node is a shared view that ends when the loop body advances.
// The sequence can be ranged over any number of times.
//
// Creating nodes or opening an exclusive view while ranging panics; collect
// IDs first (see IDs) when nodes need to be mutated.
func (d *Diagram) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		d.acquire(false, "Nodes")
		defer d.release(false)
		for _, n := range d.nodes {
			if !yield(n) {
				return
			}
		}
	}
}

func (d *Diagram) acquire(exclusive bool, op string) {
	if d.borrows < 0 {
		panic(fmt.Sprintf("diagram: %s while a mutable view is live", op))
	}
	if exclusive && d.borrows > 0 {
		panic(fmt.Sprintf("diagram: %s while %d shared view(s) are live", op, d.borrows))
	}
	if exclusive {
		d.borrows = -1
		return
	}
	d.borrows++
}

func (d *Diagram) release(exclusive bool) {
	if exclusive {
		d.borrows = 0
		return
	}
	d.borrows--
}

func (d *Diagram) mustBeIdle(op string) {
	if d.borrows != 0 {
		panic(fmt.Sprintf("diagram: %s while a view is live", op))
	}
}

// ID returns the node's identity.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the node's immutable kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Children returns a copy of the node's ordered child list.
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the length of the node's child list.
func (n *Node) NumChildren() int { return len(n.children) }

func (n *Node) mustWrite(op string) {
	if !n.writable {
		panic(fmt.Sprintf("diagram: %s on %s outside of an Update view", op, n.id))
	}
}
