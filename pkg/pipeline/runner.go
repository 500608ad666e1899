package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/diagtool/pkg/cache"
	"github.com/matzehuels/diagtool/pkg/layout"
)

// Runner executes the pipeline.
//
// The Runner is stateless except for the cache, measurer and logger; it
// doesn't store pipeline results. A Runner may be reused for several runs
// but, like the diagrams it builds, is not meant for concurrent use.
type Runner struct {
	// Cache keeps Graphviz artifacts between runs.
	Cache cache.Cache
	// Measurer sizes text nodes. If nil, each run creates a
	// fontmetrics.Calculator from its Options.
	Measurer layout.Measurer
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil cache disables artifact caching and a
// nil logger uses log.Default().
func NewRunner(c cache.Cache, m layout.Measurer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Measurer: m, Logger: logger}
}

// Execute runs the complete parse → layout → render pipeline.
//
// The returned error covers failures that stop the run: invalid options, an
// unreadable or invalid scene, a font that cannot be loaded, a failed
// serialization or a cancelled context. Per-node failures are reported
// through [Result.Err].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{RunID: uuid.NewString()}
	opts.Logger = opts.Logger.With("run", result.RunID)

	// Stage 1: Parse
	parseStart := time.Now()
	d, names, err := r.Parse(ctx, opts.Scene)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Diagram = d
	result.Names = names
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = d.Len()

	opts.Logger.Info("loaded scene",
		"scene", opts.Scene,
		"nodes", d.Len(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	lr, err := r.ComputeLayout(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.MeasureErr = lr.MeasureErr
	result.Report = lr.Report
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.SolvedCount = len(lr.Report.Solved)
	result.Stats.FailedCount = len(lr.Report.Failures)

	opts.Logger.Info("computed layout",
		"solved", result.Stats.SolvedCount,
		"failed", result.Stats.FailedCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	out, artifacts, err := r.Render(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Output = out
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.PrimitiveCount = len(out.Primitives)
	result.Stats.WarningCount = len(out.Warnings)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"primitives", result.Stats.PrimitiveCount,
		"warnings", result.Stats.WarningCount,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// applyLogger defaults opts.Logger to the runner's logger. It must run before
// validation, which would otherwise install a discarding logger.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
