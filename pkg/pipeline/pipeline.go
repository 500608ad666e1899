// Package pipeline provides the scene → layout → render pipeline of diagtool.
//
// This package runs the complete pipeline behind the render command so that
// the CLI and tests share one implementation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Load a scene file and build its diagram
//  2. Layout: Seed text constraints from measurements and solve the layout
//  3. Render: Emit primitives and serialize them (SVG, PDF, JSON, DOT, graph)
//
// Each stage can be run independently or as part of the complete pipeline.
// Per-node failures (unmeasurable text, unsatisfiable constraints, skipped
// nodes) never abort a run; they are collected on the [Result].
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:   "card.toml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/errors"
	"github.com/matzehuels/diagtool/pkg/fontmetrics"
	"github.com/matzehuels/diagtool/pkg/layout"
	"github.com/matzehuels/diagtool/pkg/render"
	"github.com/matzehuels/diagtool/pkg/render/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMargin is the blank border around drawn output, in layout units.
	DefaultMargin = sink.DefaultMargin

	// DefaultDPI is the resolution text is measured at.
	DefaultDPI = fontmetrics.DefaultDPI
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPDF   = "pdf"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatGraph = "graph" // DOT laid out by Graphviz, as SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPDF:   true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatGraph: true,
}

// Extension returns the file extension written for format.
func Extension(format string) string {
	if format == FormatGraph {
		return "graph.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Parse options
	Scene string `json:"scene"` // path to a .toml, .yaml or .yml scene

	// Layout options
	DPI       float64           `json:"dpi,omitempty"`
	Font      diagram.Font      `json:"font,omitempty"`       // default for text nodes without a font
	FontFiles map[string]string `json:"font_files,omitempty"` // family → TrueType/OpenType path

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Margin     *int64   `json:"margin,omitempty"`
	EmbedFonts bool     `json:"embed_fonts,omitempty"`
	Background string   `json:"background,omitempty"`
	Title      string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// Diagram is the solved diagram.
	Diagram *diagram.Diagram

	// Names resolves scene node names to identities.
	Names map[string]diagram.NodeID

	// MeasureErr aggregates the text measurement failures, if any.
	MeasureErr error

	// Report is the solver report.
	Report *layout.Report

	// Output holds the rendered primitives and skip warnings.
	Output *render.Output

	// Artifacts contains serialized outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains counts and timings.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	SolvedCount    int
	FailedCount    int
	WarningCount   int
	PrimitiveCount int
	ParseTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// Failed reports whether any node could not be measured, solved or drawn.
func (r *Result) Failed() bool {
	return r.MeasureErr != nil || len(r.Report.Failures) > 0 || len(r.Output.Warnings) > 0
}

// Err combines all per-node failures of the run, or returns nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	merr = multierror.Append(merr, r.MeasureErr, r.Report.Err())
	if merr.Len() == 0 {
		for _, w := range r.Output.Warnings {
			merr = multierror.Append(merr, fmt.Errorf("%s", w))
		}
	}
	return merr.ErrorOrNil()
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		valid := make([]string, 0, len(ValidFormats))
		for f := range ValidFormats {
			valid = append(valid, f)
		}
		slices.Sort(valid)
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(valid, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Scene == "" {
		return errors.New(errors.ErrCodeInvalidInput, "scene is required")
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Font.Family == "" {
		o.Font.Family = diagram.DefaultFont.Family
	}
	if o.Font.Size == 0 {
		o.Font.Size = diagram.DefaultFont.Size
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %g", o.DPI)
	}
	if o.Font.Size < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", o.Font.Size)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Margin == nil {
		m := int64(DefaultMargin)
		o.Margin = &m
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if *o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative, got %d", *o.Margin)
	}
	if o.Background != "" {
		if _, err := diagram.ParseColor(o.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "background")
		}
	}
	return nil
}

// background returns the parsed background color. Options must be validated.
func (o *Options) background() diagram.Color {
	if o.Background == "" {
		return diagram.Transparent
	}
	c, _ := diagram.ParseColor(o.Background)
	return c
}
