package pipeline

import (
	"context"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/scene"
)

// Parse loads the scene at path and builds its diagram.
func (r *Runner) Parse(ctx context.Context, path string) (*diagram.Diagram, map[string]diagram.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s, err := scene.Load(path)
	if err != nil {
		return nil, nil, err
	}
	r.Logger.Debug("decoded scene", "path", path, "nodes", len(s.Nodes))
	return s.Build()
}
