package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/pipeline"
)

// measureOpts holds the command-line flags for the measure command.
type measureOpts struct {
	font     string  // font family
	size     float64 // font size in points
	dpi      float64 // measurement resolution
	fontFile string  // extra TrueType/OpenType file
}

// measureCommand creates the measure command. It builds one text metrics
// calculator, measures a single string and prints its width.
func (c *CLI) measureCommand() *cobra.Command {
	opts := measureOpts{
		size: diagram.DefaultFont.Size,
		dpi:  pipeline.DefaultDPI,
	}

	cmd := &cobra.Command{
		Use:   "measure [text]",
		Short: "Measure the width of a string",
		Long: `Measure the advance width of a string, including kerning, in layout units.

Without an argument the string "` + defaultMeasureText + `" is measured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := defaultMeasureText
			if len(args) == 1 {
				text = args[0]
			}
			return c.runMeasure(cmd, text, opts)
		},
	}

	cmd.Flags().StringVar(&opts.font, "font", "", "font family (default \""+diagram.DefaultFontFamily+"\")")
	cmd.Flags().Float64Var(&opts.size, "size", opts.size, "font size in points")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", opts.dpi, "measurement resolution")
	cmd.Flags().StringVar(&opts.fontFile, "font-file", "", "load an additional TrueType/OpenType font")

	return cmd
}

func (c *CLI) runMeasure(cmd *cobra.Command, text string, opts measureOpts) error {
	logger := loggerFromContext(cmd.Context())

	popts := pipeline.Options{DPI: opts.dpi}
	family := opts.font
	if opts.fontFile != "" {
		if family == "" {
			family = pipeline.FamilyFromPath(opts.fontFile)
		}
		popts.FontFiles = map[string]string{family: opts.fontFile}
	}
	if family == "" {
		family = diagram.DefaultFontFamily
	}

	calc, err := pipeline.NewCalculator(popts)
	if err != nil {
		return err
	}
	logger.Debug("created calculator", "dpi", calc.DPI(), "families", calc.Families())

	font := diagram.Font{Family: family, Size: opts.size}
	ext, err := calc.Measure(text, font)
	if err != nil {
		return err
	}
	logger.Debug("measured text", "text", text, "font", font.String(), "width", ext.Width, "height", ext.Height)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "calculated width is: %d\n", ext.Width)
	if c.verbose {
		fmt.Fprintf(w, "calculated height is: %d\n", ext.Height)
	}
	return nil
}
