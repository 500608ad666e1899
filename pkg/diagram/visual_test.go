package diagram

import (
	"testing"

	"github.com/matzehuels/diagtool/pkg/errors"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#000000", Black, false},
		{"ffffff", White, false},
		{"#f0a", Color{R: 0xff, G: 0x00, B: 0xaa, A: 255}, false},
		{"#11223380", Color{R: 0x11, G: 0x22, B: 0x33, A: 0x80}, false},
		{"#12345", Color{}, true},
		{"#zzzzzz", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	if got := (Color{R: 1, G: 2, B: 3, A: 255}).Hex(); got != "#010203" {
		t.Errorf("Hex() = %q", got)
	}
	if got := (Color{R: 1, G: 2, B: 3, A: 4}).Hex(); got != "#01020304" {
		t.Errorf("Hex() = %q", got)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		valid    bool
		contains int64
		in       bool
		str      string
	}{
		{"unbounded", Range{}, true, -5, true, "[-∞,∞]"},
		{"between", Between(2, 8), true, 8, true, "[2,8]"},
		{"at least", AtLeast(80), true, 79, false, "[80,∞]"},
		{"at most", AtMost(10), true, 11, false, "[-∞,10]"},
		{"inverted", Between(9, 3), false, 5, false, "[9,3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.r.Valid() != tt.valid {
				t.Errorf("Valid() = %v, want %v", tt.r.Valid(), tt.valid)
			}
			if tt.r.Contains(tt.contains) != tt.in {
				t.Errorf("Contains(%d) = %v, want %v", tt.contains, !tt.in, tt.in)
			}
			if tt.r.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.r.String(), tt.str)
			}
		})
	}

	if v, ok := Exactly(50).Fixed(); !ok || v != 50 {
		t.Errorf("Exactly(50).Fixed() = %d, %v", v, ok)
	}
	if _, ok := AtLeast(50).Fixed(); ok {
		t.Error("AtLeast(50).Fixed() ok = true")
	}
}

func TestDimensionConstraintValidate(t *testing.T) {
	ok := DimensionConstraint{X: Between(0, 10), W: AtLeast(5)}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	bad := ok.WithRange(AxisH, Between(20, 10))
	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate() = nil for min > max")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
	if got := bad.Range(AxisH); !got.Equal(Between(20, 10)) {
		t.Errorf("Range(AxisH) = %v", got)
	}
}
