package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/matzehuels/diagtool/pkg/observability"
	"github.com/matzehuels/diagtool/pkg/pipeline"
)

// stdoutPath selects standard output for --output.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // output formats: svg, pdf, json, dot, graph
	strict     bool     // fail when any node could not be measured, solved or drawn
	metrics    bool     // print prometheus metrics after the run
	margin     int64    // blank border around the drawing
	dpi        float64  // text measurement resolution
	font       string   // default font family for text nodes
	size       float64  // default font size for text nodes
	fontFiles  []string // extra TrueType/OpenType files
	embedFonts bool     // embed built-in fonts in SVG output
	background string   // background color
	title      string   // document title
	noCache    bool     // bypass the artifact cache
}

// renderCommand creates the render command. It runs a scene file through
// the pipeline and writes one file per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		margin: pipeline.DefaultMargin,
		dpi:    pipeline.DefaultDPI,
	}

	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Lay out a scene file and render it",
		Long: `Lay out a TOML or YAML scene file and render it.

Nodes whose text cannot be measured, whose constraints cannot be satisfied,
or that cannot be drawn are reported as warnings. The command only fails on
such nodes when --strict is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(normalizeFormats(opts.formats)); err != nil {
				return err
			}
			if opts.output == stdoutPath && len(opts.formats) > 1 {
				return fmt.Errorf("--output %s requires a single format, got %d", stdoutPath, len(opts.formats))
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, json, dot, graph (comma-separated)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error if any node failed")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print prometheus metrics collected during the run")
	cmd.Flags().Int64Var(&opts.margin, "margin", opts.margin, "blank border around the drawing")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", opts.dpi, "text measurement resolution")
	cmd.Flags().StringVar(&opts.font, "font", "", "default font family for text nodes")
	cmd.Flags().Float64Var(&opts.size, "size", 0, "default font size for text nodes, in points")
	cmd.Flags().StringSliceVar(&opts.fontFiles, "font-file", nil, "load an additional TrueType/OpenType font (repeatable)")
	cmd.Flags().BoolVar(&opts.embedFonts, "embed-fonts", false, "embed built-in fonts in SVG output")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (#rrggbb or #rrggbbaa)")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the Graphviz artifact cache")

	return cmd
}

// runRender executes the pipeline for input, writes the artifacts and
// prints a summary on stderr.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	stderr := cmd.ErrOrStderr()

	var reg *prometheus.Registry
	if opts.metrics {
		reg = prometheus.NewRegistry()
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetLayoutHooks(hooks)
		observability.SetOutputHooks(hooks)
		observability.SetCacheHooks(hooks)
		defer observability.Reset()
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	popts := buildPipelineOptions(input, opts)
	popts.Logger = logger

	timer := startRun(logger)
	spinner := newSpinnerWithContext(ctx, stderr, "Rendering "+input)
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Rendering " + input + " failed")
		return err
	}

	paths, err := writeArtifacts(cmd, input, opts, result.Artifacts)
	if err != nil {
		spinner.StopWithError("Writing outputs for " + input + " failed")
		return err
	}
	spinner.StopWithSuccess("Rendered " + input)
	timer.rendered(input, result)

	printStats(stderr, result.Stats.NodeCount, result.Stats.SolvedCount, result.Stats.FailedCount, result.Stats.WarningCount)
	printDetail(stderr, "parse %s · layout %s · render %s",
		result.Stats.ParseTime.Round(time.Millisecond),
		result.Stats.LayoutTime.Round(time.Millisecond),
		result.Stats.RenderTime.Round(time.Millisecond))
	for _, p := range paths {
		printFile(stderr, p)
	}
	for _, f := range failures(result) {
		printWarning(stderr, "%v", f)
	}

	if reg != nil {
		w := cmd.OutOrStdout()
		if opts.output == stdoutPath {
			w = stderr
		}
		if err := writeMetrics(w, reg); err != nil {
			return err
		}
	}

	if opts.strict && result.Failed() {
		return fmt.Errorf("strict mode: %w", result.Err())
	}
	return nil
}

// buildPipelineOptions maps the command-line flags to pipeline options.
func buildPipelineOptions(input string, opts *renderOpts) pipeline.Options {
	margin := opts.margin
	popts := pipeline.Options{
		Scene:      input,
		DPI:        opts.dpi,
		Formats:    normalizeFormats(opts.formats),
		Margin:     &margin,
		EmbedFonts: opts.embedFonts,
		Background: opts.background,
		Title:      opts.title,
	}
	popts.Font.Family = opts.font
	popts.Font.Size = opts.size
	if len(opts.fontFiles) > 0 {
		popts.FontFiles = make(map[string]string, len(opts.fontFiles))
		for _, path := range opts.fontFiles {
			popts.FontFiles[pipeline.FamilyFromPath(path)] = path
		}
	}
	return popts
}

// writeArtifacts writes one artifact per format, in flag order, and returns
// the paths written.
func writeArtifacts(cmd *cobra.Command, input string, opts *renderOpts, artifacts map[string][]byte) ([]string, error) {
	formats := normalizeFormats(opts.formats)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(opts.output, input, format, len(formats))
		if err := writeFile(cmd.Context(), cmd.OutOrStdout(), path, artifacts[format]); err != nil {
			return nil, fmt.Errorf("write %s: %w", format, err)
		}
		loggerFromContext(cmd.Context()).Debug("wrote output", "format", format, "path", path, "bytes", len(artifacts[format]))
		if path == stdoutPath {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath returns where format is written. An explicit output is used as
// is for a single format; otherwise names are derived from basePath.
func outputPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + "." + pipeline.Extension(format)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(ctx context.Context, stdout io.Writer, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := openOutput(stdout, path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(stdout io.Writer, path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

// failures lists the per-node failures of a run: measurements first, then
// solver failures, then skipped nodes.
func failures(result *pipeline.Result) []error {
	var out []error
	if result.MeasureErr != nil {
		var merr *multierror.Error
		if errors.As(result.MeasureErr, &merr) {
			out = append(out, merr.Errors...)
		} else {
			out = append(out, result.MeasureErr)
		}
	}
	out = append(out, result.Report.Failures...)
	for _, w := range result.Output.Warnings {
		out = append(out, fmt.Errorf("%s", w))
	}
	return out
}

// writeMetrics prints every gathered metric family in the text exposition
// format.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func normalizeFormats(formats []string) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return out
}
