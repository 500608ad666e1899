package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/fonts"
)

// fontsCommand lists the font families that are available without
// --font-file.
func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the built-in font families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, family := range fonts.Families() {
				if family == diagram.DefaultFontFamily {
					fmt.Fprintln(w, family+" "+StyleDim.Render("(default)"))
					continue
				}
				fmt.Fprintln(w, family)
			}
			return nil
		},
	}
}
