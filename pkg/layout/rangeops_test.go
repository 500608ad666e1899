package layout

import (
	"testing"

	"github.com/matzehuels/diagtool/pkg/diagram"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name string
		r    diagram.Range
		want int64
	}{
		{"unconstrained", diagram.Range{}, 0},
		{"min above zero", diagram.AtLeast(7), 7},
		{"range spans zero", diagram.Between(-4, 4), 0},
		{"max below zero", diagram.AtMost(-3), -3},
		{"fixed", diagram.Exactly(12), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := position(tt.r); got != tt.want {
				t.Errorf("position(%v) = %d, want %d", tt.r, got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		name   string
		r      diagram.Range
		need   int64
		want   int64
		wantOK bool
	}{
		{"unconstrained empty", diagram.Range{}, 0, 0, true},
		{"content wins", diagram.AtLeast(10), 25, 25, true},
		{"minimum wins", diagram.AtLeast(30), 25, 30, true},
		{"fits under max", diagram.Between(0, 100), 40, 40, true},
		{"exact fit", diagram.Exactly(50), 50, 50, true},
		{"overflow", diagram.Exactly(50), 80, 0, false},
		{"negative minimum", diagram.AtLeast(-5), 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := size(tt.r, tt.need)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("size(%v, %d) = %d, %v; want %d, %v", tt.r, tt.need, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFirstInvalid(t *testing.T) {
	c := diagram.DimensionConstraint{W: diagram.Between(5, 1), H: diagram.Between(3, 2)}
	if a, bad := firstInvalid(c); !bad || a != diagram.AxisW {
		t.Errorf("firstInvalid() = %v, %v; want width", a, bad)
	}
	if _, bad := firstInvalid(diagram.DimensionConstraint{}); bad {
		t.Error("zero constraint reported invalid")
	}
}
