// Package cli implements the diagtool command-line interface.
//
// The CLI is a thin shell over pkg/pipeline and pkg/fontmetrics. It is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - measure: Measure a string with the text metrics calculator
//   - render: Lay out a scene file and write SVG, PDF, JSON or DOT output
//   - fonts: List the built-in font families
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so that commands and the pipeline share one
// logger.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diagtool/pkg/pipeline"
)

// newLogger returns the CLI logger: timestamped to the hundredth of a
// second, prefixed with the program name and filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// runTimer times one command and logs what it produced.
type runTimer struct {
	logger *log.Logger
	start  time.Time
}

func startRun(l *log.Logger) *runTimer {
	return &runTimer{logger: l, start: time.Now()}
}

func (t *runTimer) elapsed() time.Duration {
	return time.Since(t.start).Round(time.Millisecond)
}

// rendered logs the outcome of a render of input, e.g.
// "Rendered card.yaml: 3/3 nodes solved run=... failed=0 skipped=0".
func (t *runTimer) rendered(input string, result *pipeline.Result) {
	s := result.Stats
	t.logger.Info(fmt.Sprintf("Rendered %s: %d/%d nodes solved", input, s.SolvedCount, s.NodeCount),
		"run", result.RunID,
		"failed", s.FailedCount,
		"skipped", s.WarningCount,
		"artifacts", len(result.Artifacts),
		"elapsed", t.elapsed())
}

type loggerKey struct{}

// withLogger attaches the command logger to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by the root command, or
// log.Default() when a command runs without it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
