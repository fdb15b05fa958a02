package cable

import (
	"testing"

	"github.com/matzehuels/cablesection/pkg/conductor"
	"github.com/matzehuels/cablesection/pkg/errors"
)

func design() Cable {
	return Cable{
		Name:  "3x10",
		Cores: 3,
		Layers: []Layer{
			{Type: PhaseConductor, Diameter: 10, Quantity: 3},
			{Type: PhaseInsulation, Diameter: 14, Thickness: 2, Quantity: 3},
			{Type: Tape, Diameter: 14.4, Thickness: 0.2, Quantity: 1},
			{Type: Sheath, Diameter: 22, Thickness: 2, Quantity: 1},
		},
	}
}

func TestLink(t *testing.T) {
	l, err := Link(design(), Schema{})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if l.Schema != DefaultSchema() {
		t.Errorf("schema = %+v, want defaults", l.Schema)
	}
	want := []Links{
		{Insulation: 1, Support: 2, Next: 1, Previous: None, Reference: None},
		{Insulation: None, Support: None, Next: 2, Previous: 0, Reference: None},
		{Insulation: None, Support: None, Next: 3, Previous: 1, Reference: None},
		{Insulation: None, Support: None, Next: None, Previous: 2, Reference: None},
	}
	for i, w := range want {
		if l.Links[i] != w {
			t.Errorf("links[%d] = %+v, want %+v", i, l.Links[i], w)
		}
	}
	if !l.Packed() || !l.FullRing(0) {
		t.Error("three core design should be packed on a full ring")
	}
}

func TestLinkPartialRing(t *testing.T) {
	c := Cable{Cores: 4, Layers: []Layer{
		{Type: PhaseConductor, Diameter: 8, Quantity: 3},
		{Type: PhaseInsulation, Diameter: 10, Thickness: 1, Quantity: 3},
		{Type: NeutralConductor, Diameter: 10, Quantity: 1},
		{Type: NeutralInsulation, Diameter: 12, Thickness: 1, Quantity: 1},
		{Type: Filler, Diameter: 24, Quantity: 1},
	}}
	l, err := Link(c, DefaultSchema())
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if got := l.Links[0].Support; got != 4 {
		t.Errorf("phase support = %d, want 4", got)
	}
	n := l.Links[2]
	if n.Insulation != 3 || n.Support != 4 || n.Reference != 4 {
		t.Errorf("neutral links = %+v", n)
	}
}

func TestLinkMissingNeighbours(t *testing.T) {
	tests := []struct {
		name   string
		layers []Layer
		cores  int
	}{
		{"conductor without insulation", []Layer{{Type: PhaseConductor, Diameter: 5, Quantity: 1}}, 1},
		{"conductor without support", []Layer{
			{Type: PhaseConductor, Diameter: 5, Quantity: 1},
			{Type: PhaseInsulation, Diameter: 7, Quantity: 1},
		}, 1},
		{"partial ring without support", []Layer{
			{Type: PhaseConductor, Diameter: 5, Quantity: 3},
			{Type: PhaseInsulation, Diameter: 7, Quantity: 3},
			{Type: Sheath, Diameter: 20, Quantity: 1},
		}, 4},
		{"packed insulation last", []Layer{{Type: PhaseInsulation, Diameter: 7, Quantity: 2}}, 2},
		{"layup insulation first", []Layer{{Type: PhaseInsulation, Diameter: 7, Quantity: 7}}, 7},
		{"neutral without reference", []Layer{
			{Type: NeutralConductor, Diameter: 5, Quantity: 1},
			{Type: NeutralInsulation, Diameter: 7, Quantity: 1},
		}, 4},
		{"armour first", []Layer{{Type: Armour, Diameter: 30, Quantity: 1}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Link(Cable{Cores: tt.cores, Layers: tt.layers}, DefaultSchema())
			if !errors.Is(err, errors.ErrCodeIndexOutOfRange) {
				t.Errorf("error = %v, want INDEX_OUT_OF_RANGE", err)
			}
		})
	}
}

func TestLinkedGet(t *testing.T) {
	l, err := Link(design(), DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Get(0, l.Links[0].Reference, "reference"); !errors.Is(err, errors.ErrCodeIndexOutOfRange) {
		t.Errorf("Get(None) error = %v", err)
	}
	got, err := l.Get(0, l.Links[0].Support, "support")
	if err != nil || got.Type != Tape {
		t.Errorf("Get(support) = %v, %v", got.Type, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Cable)
	}{
		{"no cores", func(c *Cable) { c.Cores = 0 }},
		{"shrinking diameter", func(c *Cable) { c.Layers[2].Diameter = 12 }},
		{"negative thickness", func(c *Cable) { c.Layers[1].Thickness = -1 }},
		{"negative quantity", func(c *Cable) { c.Layers[0].Quantity = -3 }},
		{"bad color", func(c *Cable) { c.Layers[3].Color = "black" }},
		{"bad strip color", func(c *Cable) { c.Layers[3].StripColor = "#12" }},
		{"bad strip measure", func(c *Cable) { c.Layers[3].StripWidthMeasure = "inches" }},
	}
	if err := Validate(design()); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := design()
			tt.mutate(&c)
			if err := Validate(c); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{Layer{Type: PhaseConductor}, "Phase Conductor"},
		{Layer{Type: Sheath, Element: "PVC Sheath"}, "PVC Sheath"},
		{Layer{Type: Sheath, Element: "PVC Sheath", Name: "ST2", Display: DisplayName}, "ST2"},
		{Layer{Type: Sheath, Element: "PVC Sheath", Name: "ST2", Display: DisplayNameFirst}, "ST2 PVC Sheath"},
		{Layer{Type: Sheath, Element: "PVC Sheath", Name: "ST2", Display: DisplayNameLast}, "PVC Sheath ST2"},
		{Layer{Type: Sheath, Element: "PVC Sheath", Display: DisplayName}, "PVC Sheath"},
		{Layer{Type: "custom_layer"}, "Custom Layer"},
	}
	for _, tt := range tests {
		if got := tt.layer.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestLayerDefaults(t *testing.T) {
	var l Layer
	if l.Rounding() != DefaultRoundingAngle || l.Wires() != DefaultNumberOfWires {
		t.Errorf("defaults = %v, %v", l.Rounding(), l.Wires())
	}
	zero, none := 0.0, 0
	l.RoundingAngle, l.NumberOfWires = &zero, &none
	if l.Rounding() != 0 || l.Wires() != 0 {
		t.Error("explicit zero overridden by default")
	}
	l.Diameter = 10
	if l.EffectiveDiameter() != 10 {
		t.Error("EffectiveDiameter without override")
	}
	l.CustomDiameter = 11
	if l.EffectiveDiameter() != 11 {
		t.Error("EffectiveDiameter ignores override")
	}
}

func TestArmourAttributes(t *testing.T) {
	l := Layer{Type: Armour, Attributes: []conductor.Attribute{
		{Name: ArmourShapeAttribute, Value: "Round Wire"},
		{Name: "Armour Tape Width (mm)", Value: " 0.8 "},
	}}
	shape, ok := l.ArmourShape()
	if !ok || !RoundArmour(shape) {
		t.Errorf("ArmourShape() = %q, %v", shape, ok)
	}
	if got := l.ArmourTapeWidth(); got != 0.8 {
		t.Errorf("ArmourTapeWidth() = %v, want 0.8", got)
	}
	l.CustomArmourTapeWidth = 1.2
	if got := l.ArmourTapeWidth(); got != 1.2 {
		t.Errorf("custom ArmourTapeWidth() = %v, want 1.2", got)
	}
	if RoundArmour("Flat Tape") {
		t.Error("flat tape reported round")
	}
	if _, ok := (Layer{}).ArmourShape(); ok {
		t.Error("missing shape reported present")
	}
}

func TestArmourWireCount(t *testing.T) {
	tests := []struct {
		d, t float64
		want int
	}{
		{30, 2, 42},
		{50, 2.5, 56},
		{10, 0, 28},
	}
	for _, tt := range tests {
		if got := ArmourWireCount(tt.d, tt.t); got != tt.want {
			t.Errorf("ArmourWireCount(%v, %v) = %d, want %d", tt.d, tt.t, got, tt.want)
		}
	}
}

func TestCableHelpers(t *testing.T) {
	c := design()
	if c.OuterDiameter() != 22 {
		t.Errorf("OuterDiameter() = %v", c.OuterDiameter())
	}
	if c.Conductors() != 1 {
		t.Errorf("Conductors() = %d", c.Conductors())
	}
	if (Cable{}).OuterDiameter() != 0 {
		t.Error("empty cable has a diameter")
	}
	if !Sheath.Known() || LayerType("screen").Known() {
		t.Error("Known() mismatch")
	}
}
