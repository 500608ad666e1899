package diagram

import (
	"maps"
	"slices"
	"strconv"
)

// ComponentKind tags one attribute slot in a node's component bag.
type ComponentKind uint8

// Known component kinds. Each kind is paired with exactly one value type.
const (
	KindBoxStyle       ComponentKind = iota + 1 // BoxStyle
	KindText                                    // TextContent
	KindFont                                    // Font
	KindConstraint                              // DimensionConstraint
	KindSolved                                  // SolvedDimensions
	KindMeasureFailure                          // MeasureFailure
	KindLayoutFailure                           // LayoutFailure
)

var componentKindNames = map[ComponentKind]string{
	KindBoxStyle:       "box-style",
	KindText:           "text",
	KindFont:           "font",
	KindConstraint:     "constraint",
	KindSolved:         "solved",
	KindMeasureFailure: "measure-failure",
	KindLayoutFailure:  "layout-failure",
}

func (k ComponentKind) String() string {
	if s, ok := componentKindNames[k]; ok {
		return s
	}
	return "ComponentKind(" + strconv.Itoa(int(k)) + ")"
}

// Component is a typed value attachable to a node. The set of implementations
// is closed; each reports the kind whose slot it occupies.
type Component interface {
	ComponentKind() ComponentKind
	isComponent()
}

// Insert stores c in the slot for its kind. If the slot was occupied, the
// previous value is returned with replaced set to true.
//
// Insert panics when called outside an Update view.
func (n *Node) Insert(c Component) (old Component, replaced bool) {
	n.mustWrite("Insert")
	kind := c.ComponentKind()
	old, replaced = n.bag[kind]
	n.bag[kind] = c
	return old, replaced
}

// Remove clears the slot for kind and returns the value it held.
//
// Remove panics when called outside an Update view.
func (n *Node) Remove(kind ComponentKind) (Component, bool) {
	n.mustWrite("Remove")
	old, ok := n.bag[kind]
	delete(n.bag, kind)
	return old, ok
}

// Component returns the value stored for kind.
func (n *Node) Component(kind ComponentKind) (Component, bool) {
	c, ok := n.bag[kind]
	return c, ok
}

// Has reports whether the node holds a value for kind.
func (n *Node) Has(kind ComponentKind) bool {
	_, ok := n.bag[kind]
	return ok
}

// ComponentKinds returns the kinds present on the node in ascending order.
func (n *Node) ComponentKinds() []ComponentKind {
	return slices.Sorted(maps.Keys(n.bag))
}

// Get returns the node's component of type T.
//
// The bag only ever pairs a kind with its own value type, so the lookup is
// total: ok is false only when the slot is empty. T must be one of the
// concrete component types, not the Component interface itself.
func Get[T Component](n *Node) (T, bool) {
	var zero T
	c, ok := n.bag[zero.ComponentKind()]
	if !ok {
		return zero, false
	}
	v, ok := c.(T)
	return v, ok
}
