package pipeline

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/fontmetrics"
	"github.com/matzehuels/diagtool/pkg/layout"
)

// LayoutResult is the outcome of the layout stage.
type LayoutResult struct {
	// MeasureErr aggregates text nodes that could not be measured.
	MeasureErr error
	// Report lists solved nodes and constraint failures.
	Report *layout.Report
}

// ComputeLayout seeds text constraints from measurements and solves d.
// It fails only if no measurer can be created or ctx is done.
func (r *Runner) ComputeLayout(ctx context.Context, d *diagram.Diagram, opts Options) (*LayoutResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := r.Measurer
	if m == nil {
		calc, err := NewCalculator(opts)
		if err != nil {
			return nil, err
		}
		m = calc
	}

	lopts := []layout.Option{layout.WithLogger(opts.Logger), layout.WithFont(opts.Font)}
	measureErr := layout.SeedText(d, m, lopts...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &LayoutResult{MeasureErr: measureErr, Report: layout.Solve(d, lopts...)}, nil
}

// NewCalculator creates the text metrics calculator described by opts:
// the built-in fonts plus any font files, measured at opts.DPI.
func NewCalculator(opts Options) (*fontmetrics.Calculator, error) {
	fopts := []fontmetrics.Option{fontmetrics.WithDPI(opts.DPI)}
	for _, family := range slices.Sorted(maps.Keys(opts.FontFiles)) {
		fopts = append(fopts, fontmetrics.WithFontFile(family, opts.FontFiles[family]))
	}
	return fontmetrics.New(fopts...)
}

// FamilyFromPath derives a font family name from a font file path,
// e.g. "fonts/Inter-Regular.ttf" → "Inter-Regular".
func FamilyFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
