package pipeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/cablesection/pkg/cable"
	csio "github.com/matzehuels/cablesection/pkg/io"
	"github.com/matzehuels/cablesection/pkg/pipeline"
)

func TestExampleDesigns(t *testing.T) {
	files, err := csio.DesignFiles("../../examples/designs")
	if err != nil {
		t.Fatalf("DesignFiles: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no example designs found")
	}

	designs := make([]cable.Cable, len(files))
	for i, f := range files {
		if designs[i], err = csio.ImportDesign(f); err != nil {
			t.Fatalf("ImportDesign(%s): %v", f, err)
		}
	}

	runner := pipeline.NewRunner(nil, nil, nil)
	items, err := runner.Batch(context.Background(), designs, pipeline.Options{
		Formats: []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatGLB},
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	for _, it := range items {
		if it.Err != nil {
			t.Errorf("%s: %v", it.Design, it.Err)
			continue
		}
		for _, f := range []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatGLB} {
			if len(it.Result.Artifacts[f]) == 0 {
				t.Errorf("%s: empty %s", it.Design, f)
			}
		}
	}
}

func ExampleRunner_Execute() {
	design := cable.Cable{
		Name:  "NYY 3x10",
		Cores: 3,
		Layers: []cable.Layer{
			{Type: cable.PhaseConductor, Diameter: 10, Quantity: 3},
			{Type: cable.PhaseInsulation, Diameter: 14, Thickness: 2, Quantity: 3},
			{Type: cable.Filler, Diameter: 18, Thickness: 2, Quantity: 1},
			{Type: cable.Sheath, Diameter: 22, Thickness: 2, Quantity: 1},
		},
	}

	runner := pipeline.NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), design, pipeline.Options{Formats: []string{"svg"}})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result.Stats.Layers, len(result.Artifacts["svg"]) > 0)
	// Output: 4 true
}
