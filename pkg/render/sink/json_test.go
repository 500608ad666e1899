package sink

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/diagtool/pkg/render"
)

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleOutput())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 120 || out.Height != 70 || out.Margin != DefaultMargin {
		t.Errorf("frame = %dx%d margin %d, want 120x70 margin %d", out.Width, out.Height, out.Margin, DefaultMargin)
	}
	if len(out.Primitives) != 3 {
		t.Fatalf("Primitives count = %d, want 3", len(out.Primitives))
	}

	var types []string
	for _, p := range out.Primitives {
		types = append(types, p.Type)
	}
	if diff := cmp.Diff([]string{"rect", "text", "segment"}, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	rect := out.Primitives[0]
	if rect.Node != "n1" || rect.X != 10 || rect.Y != 10 || rect.Fill != "" {
		t.Errorf("rect = %+v", rect)
	}
	text := out.Primitives[1]
	if text.Text != "hello\na<b" || text.Font == nil || text.Font.Family != "Go Regular" {
		t.Errorf("text = %+v", text)
	}
	seg := out.Primitives[2]
	if seg.X2 == nil || *seg.X2 != 110 || seg.Stroke == nil || seg.Stroke.Color != "#ff0000" {
		t.Errorf("segment = %+v", seg)
	}

	want := []jsonWarning{{Node: "n4", Kind: "box", Reason: "no solved dimensions"}}
	if diff := cmp.Diff(want, out.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(&render.Output{}, WithJSONMargin(0))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if prims, ok := out["primitives"].([]any); !ok || len(prims) != 0 {
		t.Errorf("primitives = %v, want empty array", out["primitives"])
	}
	if _, ok := out["warnings"]; ok {
		t.Error("warnings should be omitted when empty")
	}
}
