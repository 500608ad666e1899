package diagram

import (
	"slices"
	"testing"
)

func TestLinkChild(t *testing.T) {
	d := New()
	parent := d.Create(NodeKindRoot)
	child := d.Create(NodeKindBox)

	if !d.LinkChild(parent, child) {
		t.Fatal("LinkChild(existing) = false")
	}
	if got := d.Children(parent); !slices.Equal(got, []NodeID{child}) {
		t.Errorf("Children() = %v, want [%v]", got, child)
	}

	// Missing child: refused, no change.
	if d.LinkChild(parent, 99) {
		t.Error("LinkChild(missing child) = true")
	}
	if got := d.Children(parent); !slices.Equal(got, []NodeID{child}) {
		t.Errorf("Children() after refused link = %v", got)
	}

	// Missing parent: refused.
	if d.LinkChild(99, child) {
		t.Error("LinkChild(missing parent) = true")
	}
}

func TestLinkChildAppendsInOrder(t *testing.T) {
	d := New()
	p := d.Create(NodeKindBox)
	a := d.Create(NodeKindBox)
	b := d.Create(NodeKindBox)

	d.LinkChild(p, b)
	d.LinkChild(p, a)
	d.LinkChild(p, b)

	want := []NodeID{b, a, b}
	if got := d.Children(p); !slices.Equal(got, want) {
		t.Errorf("Children() = %v, want %v", got, want)
	}
}

func TestUnlinkChildRemovesOneOccurrence(t *testing.T) {
	d := New()
	p := d.Create(NodeKindBox)
	a := d.Create(NodeKindBox)
	b := d.Create(NodeKindBox)
	d.LinkChild(p, a)
	d.LinkChild(p, b)
	d.LinkChild(p, a)

	if !d.UnlinkChild(p, a) {
		t.Fatal("UnlinkChild(present) = false")
	}
	if got, want := d.Children(p), []NodeID{b, a}; !slices.Equal(got, want) {
		t.Errorf("Children() = %v, want %v", got, want)
	}

	if d.UnlinkChild(p, 42) {
		t.Error("UnlinkChild(absent) = true")
	}
	if d.UnlinkChild(99, a) {
		t.Error("UnlinkChild(missing parent) = true")
	}
	if got, want := d.Children(p), []NodeID{b, a}; !slices.Equal(got, want) {
		t.Errorf("Children() after failed unlink = %v, want %v", got, want)
	}
}

func TestChildrenReturnsCopy(t *testing.T) {
	d := New()
	p := d.Create(NodeKindBox)
	c := d.Create(NodeKindBox)
	d.LinkChild(p, c)

	got := d.Children(p)
	got[0] = 77
	if d.Children(p)[0] != c {
		t.Error("mutating Children() result changed the diagram")
	}
	if d.Children(99) != nil {
		t.Error("Children(missing) should be nil")
	}
}

func TestRootsAndParents(t *testing.T) {
	d := New()
	root := d.Create(NodeKindRoot)
	a := d.Create(NodeKindBox)
	b := d.Create(NodeKindBox)
	loose := d.Create(NodeKindText)
	c1 := d.Create(NodeKindBox)
	c2 := d.Create(NodeKindBox)

	d.LinkChild(root, a)
	d.LinkChild(root, b)
	d.LinkChild(a, b)
	d.LinkChild(a, b)
	// c1 <-> c2 form a cycle with no way in.
	d.LinkChild(c1, c2)
	d.LinkChild(c2, c1)

	if got, want := d.Roots(), []NodeID{root, loose}; !slices.Equal(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
	if got, want := d.Parents(b), []NodeID{root, a}; !slices.Equal(got, want) {
		t.Errorf("Parents(b) = %v, want %v", got, want)
	}
	if got := d.Parents(root); got != nil {
		t.Errorf("Parents(root) = %v, want nil", got)
	}
}

func TestSelfLinkIsAccepted(t *testing.T) {
	d := New()
	n := d.Create(NodeKindBox)
	if !d.LinkChild(n, n) {
		t.Error("LinkChild(n, n) = false; cycles are not checked by the topology")
	}
}
