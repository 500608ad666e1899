package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/diagtool/pkg/diagram"
)

// Option configures Solve and SeedText.
type Option func(*options)

type options struct {
	logger *log.Logger
	font   diagram.Font
}

// WithLogger sets the logger used to report failures. Defaults to
// log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFont sets the active font used by SeedText for Text nodes without a
// Font component. Defaults to diagram.DefaultFont.
func WithFont(f diagram.Font) Option { return func(o *options) { o.font = f } }

func newOptions(opts ...Option) options {
	o := options{logger: log.Default(), font: diagram.DefaultFont}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
