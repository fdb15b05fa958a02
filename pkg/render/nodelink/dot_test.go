package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/cablesection/pkg/cable"
)

func linked(t *testing.T) *cable.Linked {
	t.Helper()
	l, err := cable.Link(cable.Cable{
		Name:  "3x10",
		Cores: 3,
		Layers: []cable.Layer{
			{Type: cable.PhaseConductor, Diameter: 10, Quantity: 3},
			{Type: cable.PhaseInsulation, Diameter: 14, Thickness: 2, Quantity: 3, Color: "#FF0000"},
			{Type: cable.Sheath, Diameter: 22, Thickness: 2, Quantity: 1},
		},
	}, cable.DefaultSchema())
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	return l
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(linked(t), Options{})

	for _, want := range []string{
		"digraph G",
		`"L0" [label="0: Phase Conductor"]`,
		`"L1" [label="1: Phase Insulation", fillcolor="#ff0000"]`,
		`"L0" -> "L1" [label="insulation"`,
		`"L0" -> "L2" [label="support"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `label="next"`) {
		t.Error("chain links drawn without Options.Chain")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(linked(t), Options{Detailed: true, Chain: true})

	for _, want := range []string{"diameter: 14 mm", "thickness: 2 mm", "quantity: 3", `label="next"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() detailed output missing %q", want)
		}
	}
}

func TestToDOT_UnknownLayer(t *testing.T) {
	l := linked(t)
	l.Cable.Layers = append(l.Cable.Layers, cable.Layer{Type: "screen", Diameter: 23})
	l.Links = append(l.Links, cable.Links{Insulation: cable.None, Support: cable.None, Next: cable.None, Previous: 2, Reference: cable.None})

	if dot := ToDOT(l, Options{}); !strings.Contains(dot, "dashed") {
		t.Error("unknown layer type should be drawn dashed")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Error("svg without viewBox should pass through")
	}
}
