package scene

import (
	"fmt"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/errors"
)

// Scene is a decoded scene file.
type Scene struct {
	Nodes []Node `toml:"nodes" yaml:"nodes"`
}

// Node describes one diagram node.
type Node struct {
	Name       string      `toml:"name" yaml:"name"`
	Kind       string      `toml:"kind" yaml:"kind"`
	Children   []string    `toml:"children" yaml:"children"`
	Text       string      `toml:"text" yaml:"text"`
	Font       *Font       `toml:"font" yaml:"font"`
	Constraint *Constraint `toml:"constraint" yaml:"constraint"`
	Style      *Style      `toml:"style" yaml:"style"`
}

// Font selects the font of a text node.
type Font struct {
	Family string  `toml:"family" yaml:"family"`
	Size   float64 `toml:"size" yaml:"size"`
}

// Constraint holds the per-axis ranges of a node.
type Constraint struct {
	X      *Range `toml:"x" yaml:"x"`
	Y      *Range `toml:"y" yaml:"y"`
	Width  *Range `toml:"width" yaml:"width"`
	Height *Range `toml:"height" yaml:"height"`
}

// Range is an inclusive interval. Exact is shorthand for min = max.
type Range struct {
	Min   *int64 `toml:"min" yaml:"min"`
	Max   *int64 `toml:"max" yaml:"max"`
	Exact *int64 `toml:"exact" yaml:"exact"`
}

// Style is the visual style of a box or line.
type Style struct {
	Stroke      string `toml:"stroke" yaml:"stroke"`
	StrokeWidth *int   `toml:"stroke_width" yaml:"stroke_width"`
	Fill        string `toml:"fill" yaml:"fill"`
}

// Build validates the scene and creates its diagram. The returned map
// resolves node names to identities.
//
// Build returns an INVALID_SCENE error for invalid or duplicate names,
// unknown kinds or child names, malformed colors and ranges whose minimum
// exceeds their maximum. Nothing is created when validation fails.
func (s *Scene) Build() (*diagram.Diagram, map[string]diagram.NodeID, error) {
	specs := make([]nodeSpec, 0, len(s.Nodes))
	index := make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		if err := errors.ValidateNodeName(n.Name); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "node %d", i)
		}
		if _, dup := index[n.Name]; dup {
			return nil, nil, errors.New(errors.ErrCodeInvalidScene, "duplicate node name %q", n.Name)
		}
		index[n.Name] = i

		spec, err := n.compile()
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "node %q", n.Name)
		}
		specs = append(specs, spec)
	}
	for _, n := range s.Nodes {
		for _, c := range n.Children {
			if _, ok := index[c]; !ok {
				return nil, nil, errors.New(errors.ErrCodeInvalidScene, "node %q: unknown child %q", n.Name, c)
			}
		}
	}

	d := diagram.New()
	ids := make(map[string]diagram.NodeID, len(specs))
	for i, spec := range specs {
		ids[s.Nodes[i].Name] = d.Create(spec.kind)
	}
	for i, spec := range specs {
		id := ids[s.Nodes[i].Name]
		for _, c := range s.Nodes[i].Children {
			d.LinkChild(id, ids[c])
		}
		if len(spec.components) == 0 {
			continue
		}
		if err := d.Update(id, func(n *diagram.Node) error {
			for _, c := range spec.components {
				n.Insert(c)
			}
			return nil
		}); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "node %q", s.Nodes[i].Name)
		}
	}
	return d, ids, nil
}

type nodeSpec struct {
	kind       diagram.NodeKind
	components []diagram.Component
}

func (n Node) compile() (nodeSpec, error) {
	kind, err := diagram.ParseNodeKind(n.Kind)
	if err != nil {
		return nodeSpec{}, err
	}
	spec := nodeSpec{kind: kind}

	if n.Text != "" || n.Font != nil {
		if kind != diagram.NodeKindText {
			return nodeSpec{}, fmt.Errorf("text and font are only valid on text nodes, not %s", kind)
		}
	}
	if n.Text != "" {
		spec.components = append(spec.components, diagram.TextContent{Text: n.Text})
	}
	if n.Font != nil {
		if n.Font.Size < 0 {
			return nodeSpec{}, fmt.Errorf("font size %g is negative", n.Font.Size)
		}
		spec.components = append(spec.components, diagram.Font{Family: n.Font.Family, Size: n.Font.Size})
	}
	if n.Constraint != nil {
		c, err := n.Constraint.compile()
		if err != nil {
			return nodeSpec{}, err
		}
		spec.components = append(spec.components, c)
	}
	if n.Style != nil {
		st, err := n.Style.compile()
		if err != nil {
			return nodeSpec{}, err
		}
		spec.components = append(spec.components, st)
	}
	return spec, nil
}

func (c Constraint) compile() (diagram.DimensionConstraint, error) {
	var dc diagram.DimensionConstraint
	for _, ax := range []struct {
		axis diagram.Axis
		r    *Range
	}{
		{diagram.AxisX, c.X},
		{diagram.AxisY, c.Y},
		{diagram.AxisW, c.Width},
		{diagram.AxisH, c.Height},
	} {
		if ax.r == nil {
			continue
		}
		r, err := ax.r.compile()
		if err != nil {
			return dc, fmt.Errorf("%s: %w", ax.axis, err)
		}
		dc = dc.WithRange(ax.axis, r)
	}
	return dc, dc.Validate()
}

func (r Range) compile() (diagram.Range, error) {
	if r.Exact != nil {
		if r.Min != nil || r.Max != nil {
			return diagram.Range{}, fmt.Errorf("exact cannot be combined with min or max")
		}
		return diagram.Exactly(*r.Exact), nil
	}
	return diagram.Range{Min: r.Min, Max: r.Max}, nil
}

func (s Style) compile() (diagram.BoxStyle, error) {
	style := diagram.DefaultBoxStyle
	if s.Stroke != "" {
		c, err := diagram.ParseColor(s.Stroke)
		if err != nil {
			return style, fmt.Errorf("stroke: %w", err)
		}
		style.Stroke.Color = c
	}
	if s.StrokeWidth != nil {
		w := *s.StrokeWidth
		if w < 0 || w > 255 {
			return style, fmt.Errorf("stroke_width %d out of range [0,255]", w)
		}
		style.Stroke.Width = uint8(w)
	}
	if s.Fill != "" {
		c, err := diagram.ParseColor(s.Fill)
		if err != nil {
			return style, fmt.Errorf("fill: %w", err)
		}
		style.Fill.Color = c
	}
	return style, nil
}
