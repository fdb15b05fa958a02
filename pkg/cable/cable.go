// Package cable defines the cable design model: an ordered, inside-out list
// of layers plus the core count of the whole cable.
//
// Layers refer to each other (a conductor's insulation, the layer whose
// diameter bounds a core ring, the previous layer of an armour). Those
// references are resolved once by [Link] into explicit [Links], so the
// placement code never indexes neighbours by raw offsets.
package cable

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/cablesection/pkg/conductor"
)

// LayerType is the construction element a layer represents.
type LayerType string

const (
	PhaseConductor    LayerType = "phase_conductor"
	PhaseInsulation   LayerType = "phase_insulation"
	NeutralConductor  LayerType = "neutral_conductor"
	NeutralInsulation LayerType = "neutral_insulation"
	Filler            LayerType = "filler"
	Tape              LayerType = "tape"
	Sheath            LayerType = "sheath"
	Armour            LayerType = "armour"
)

// Types lists the known layer types in construction order.
func Types() []LayerType {
	return []LayerType{PhaseConductor, PhaseInsulation, NeutralConductor, NeutralInsulation, Filler, Tape, Sheath, Armour}
}

// Known reports whether t is a layer type the layout engine draws.
func (t LayerType) Known() bool {
	for _, k := range Types() {
		if k == t {
			return true
		}
	}
	return false
}

// Title returns the human name of the type, e.g. "Phase Conductor".
func (t LayerType) Title() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Display selects how a layer's label is composed.
type Display string

const (
	DisplayElement   Display = ""           // element name only
	DisplayName      Display = "name"       // layer name only
	DisplayNameFirst Display = "name_first" // "<name> <element>"
	DisplayNameLast  Display = "name_last"  // "<element> <name>"
)

// Strip width units for sheath marking strips.
const (
	Degrees     = "degrees"
	Millimeters = "millimeters"
)

// Attribute names read by the layout engine.
const (
	ArmourShapeAttribute = "Armour Type Shape"
	tapeWidthAttribute   = "tape width"
)

// Layer is one concentric construction layer. Dimensions are millimetres;
// Diameter is the cumulative outer diameter of the cable at this layer.
type Layer struct {
	Type      LayerType `json:"type" yaml:"type" toml:"type"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Element   string    `json:"element,omitempty" yaml:"element,omitempty" toml:"element"`
	Display   Display   `json:"display,omitempty" yaml:"display,omitempty" toml:"display"`
	Diameter  float64   `json:"diameter" yaml:"diameter" toml:"diameter"`
	Thickness float64   `json:"thickness" yaml:"thickness" toml:"thickness"`
	Quantity  int       `json:"quantity" yaml:"quantity" toml:"quantity"`

	Color            string   `json:"color,omitempty" yaml:"color,omitempty" toml:"color"`
	CustomDiameter   float64  `json:"custom_diameter,omitempty" yaml:"custom_diameter,omitempty" toml:"custom_diameter"`
	Rotation         float64  `json:"rotation,omitempty" yaml:"rotation,omitempty" toml:"rotation"`
	RoundingAngle    *float64 `json:"rounding_angle,omitempty" yaml:"rounding_angle,omitempty" toml:"rounding_angle"`
	NumberOfWires    *int     `json:"number_of_wires,omitempty" yaml:"number_of_wires,omitempty" toml:"number_of_wires"`
	MultiplierFactor float64  `json:"multiplier_factor,omitempty" yaml:"multiplier_factor,omitempty" toml:"multiplier_factor"`

	StripWidth        float64 `json:"strip_width,omitempty" yaml:"strip_width,omitempty" toml:"strip_width"`
	StripWidthMeasure string  `json:"strip_width_measure,omitempty" yaml:"strip_width_measure,omitempty" toml:"strip_width_measure"`
	StripColor        string  `json:"strip_color,omitempty" yaml:"strip_color,omitempty" toml:"strip_color"`

	CustomArmourTapeWidth float64 `json:"custom_armour_tape_width,omitempty" yaml:"custom_armour_tape_width,omitempty" toml:"custom_armour_tape_width"`

	Attributes []conductor.Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes"`
	Selection  []conductor.Selection `json:"diameter_selection,omitempty" yaml:"diameter_selection,omitempty" toml:"diameter_selection"`
}

// Defaults applied when a layer leaves the field unset.
const (
	DefaultRoundingAngle = 1.0
	DefaultNumberOfWires = 2
)

// Rounding returns the configured rounding angle or its default.
func (l Layer) Rounding() float64 {
	if l.RoundingAngle == nil {
		return DefaultRoundingAngle
	}
	return *l.RoundingAngle
}

// Wires returns the configured wire density or its default.
func (l Layer) Wires() int {
	if l.NumberOfWires == nil {
		return DefaultNumberOfWires
	}
	return *l.NumberOfWires
}

// EffectiveDiameter returns CustomDiameter when set, otherwise Diameter.
func (l Layer) EffectiveDiameter() float64 {
	if l.CustomDiameter > 0 {
		return l.CustomDiameter
	}
	return l.Diameter
}

// Attr returns the value of the named attribute.
func (l Layer) Attr(name string) (string, bool) {
	for _, a := range l.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Label returns the annotation text of the layer.
func (l Layer) Label() string {
	element := l.Element
	if element == "" {
		element = l.Type.Title()
	}
	switch l.Display {
	case DisplayName:
		if l.Name != "" {
			return l.Name
		}
	case DisplayNameFirst:
		if l.Name != "" {
			return l.Name + " " + element
		}
	case DisplayNameLast:
		if l.Name != "" {
			return element + " " + l.Name
		}
	}
	return element
}

// Query returns the conductor table query for this layer; quantity is the
// core count a shaped conductor must match.
func (l Layer) Query(quantity int) conductor.Query {
	return conductor.Query{Attributes: l.Attributes, Selection: l.Selection, Quantity: quantity}
}

// ArmourShape returns the armour type shape attribute.
func (l Layer) ArmourShape() (string, bool) {
	v, ok := l.Attr(ArmourShapeAttribute)
	return v, ok && strings.TrimSpace(v) != ""
}

// RoundArmour reports whether an armour shape names round wires.
func RoundArmour(shape string) bool {
	return strings.Contains(strings.ToLower(shape), "round")
}

// ArmourTapeWidth returns the tape width of a flat armour: the custom width
// when set, otherwise the numeric value of the first attribute whose name
// mentions "tape width".
func (l Layer) ArmourTapeWidth() float64 {
	for _, a := range l.Attributes {
		if !strings.Contains(strings.ToLower(a.Name), tapeWidthAttribute) {
			continue
		}
		if l.CustomArmourTapeWidth > 0 {
			return l.CustomArmourTapeWidth
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
		if err == nil {
			return v
		}
	}
	return l.CustomArmourTapeWidth
}

// ArmourWireCount estimates the number of armour wires of diameter
// thickness laid around diameter, with the usual 0.89 lay coverage.
func ArmourWireCount(diameter, thickness float64) int {
	if thickness <= 0 {
		thickness = 1
	}
	return int(math.Ceil(math.Pi * diameter / thickness * 0.89))
}

// Cable is a complete design.
type Cable struct {
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Cores  int     `json:"cores" yaml:"cores" toml:"cores"`
	Layers []Layer `json:"layers" yaml:"layers" toml:"layers"`
	// ColorCodes is the bill-of-materials core color reference, e.g.
	// "bn bk gy". Empty means the default palette.
	ColorCodes string `json:"color_codes,omitempty" yaml:"color_codes,omitempty" toml:"color_codes"`
}

// OuterDiameter returns the diameter of the outermost layer.
func (c Cable) OuterDiameter() float64 {
	if len(c.Layers) == 0 {
		return 0
	}
	return c.Layers[len(c.Layers)-1].Diameter
}

// Conductors returns the number of conductor layers.
func (c Cable) Conductors() int {
	n := 0
	for _, l := range c.Layers {
		if l.Type == PhaseConductor || l.Type == NeutralConductor {
			n++
		}
	}
	return n
}
