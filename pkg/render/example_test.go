package render_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/render"
)

func ExampleRender() {
	d := diagram.New()
	solved := d.Create(diagram.NodeKindBox)
	pending := d.Create(diagram.NodeKindBox)
	_ = pending

	_ = d.Update(solved, func(n *diagram.Node) error {
		n.Insert(diagram.SolvedDimensions{X: 5, Y: 10, W: 100, H: 50})
		return nil
	})

	out := render.Render(d, render.WithLogger(log.New(io.Discard)))
	for _, r := range out.Rects() {
		fmt.Printf("rect x=%d y=%d w=%d h=%d stroke=%d\n", r.X, r.Y, r.W, r.H, r.Stroke.Width)
	}
	for _, w := range out.Warnings {
		fmt.Println(w)
	}
	// Output:
	// rect x=5 y=10 w=100 h=50 stroke=1
	// box n1 skipped: no solved dimensions
}
