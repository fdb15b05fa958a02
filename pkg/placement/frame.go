package placement

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/conductor"
	"github.com/matzehuels/cablesection/pkg/layup"
	"github.com/matzehuels/cablesection/pkg/scene"
)

// Label layout constants.
const (
	labelOffset    = 1.2  // label x as a multiple of the outer radius
	labelTop       = 1.4  // label y origin is outer diameter / labelTop
	labelStep      = 0.3  // per-label step as a fraction of the outer radius
	labelStepDense = 0.25 // step for cables with many layers
	denseLayers    = 9
)

// frame is the read-only context shared by the layer functions of one
// placement.
type frame struct {
	linked *cable.Linked
	env    Env
	outer  float64 // outermost layer diameter
	step   float64
}

func newFrame(l *cable.Linked, env Env) *frame {
	step := labelStep
	if len(l.Cable.Layers) > denseLayers {
		step = labelStepDense
	}
	return &frame{linked: l, env: env, outer: l.Cable.OuterDiameter(), step: step}
}

// initial resolves the starting conductor shape from the first phase
// conductor. Designs without one start circular.
func (f *frame) initial() (Accumulator, error) {
	acc := Accumulator{LayerNumber: 1, Shape: conductor.Circular}
	for _, layer := range f.linked.Cable.Layers {
		if layer.Type != cable.PhaseConductor {
			continue
		}
		info, err := f.env.Conductors.Resolve(layer.Query(layer.Quantity))
		if err != nil {
			return acc, err
		}
		acc.Shape, acc.Material = info.Shape, info.Material
		acc.PhaseSize, _ = layer.Attr(conductor.SizeAttribute)
		break
	}
	return acc, nil
}

// layup returns the ring configuration of the cable.
func (f *frame) layup() (layup.Config, error) {
	return f.env.Layups.Lookup(f.linked.Cable.Cores)
}

// labelY returns the label height for counter value n.
func (f *frame) labelY(n int) float64 {
	return f.outer/labelTop - f.outer/2*f.step*float64(n)
}

// labelAt returns the label position for counter value n.
func (f *frame) labelAt(n int) r2.Vec {
	return r2.Vec{X: f.outer / 2 * labelOffset, Y: f.labelY(n)}
}

// curved is the default leader: a quadratic curve leaving the label
// horizontally and meeting the anchor vertically.
var curved = scene.Connector{Style: "angle3", AngleA: 0, AngleB: -90}

// elbow returns a rounded two-segment leader.
func elbow(angleB float64) scene.Connector {
	return scene.Connector{Style: "angle", AngleA: 0, AngleB: angleB, Rad: 45}
}

// annotate builds the annotation for counter value n.
func (f *frame) annotate(text string, n int, anchor r2.Vec, c scene.Connector) scene.Annotation {
	return scene.Annotation{Text: text, XY: anchor, XYText: f.labelAt(n), Connector: c}
}

// nearCenter reports whether the label for counter value n sits within the
// upper band of the drawing, where a straight leader would not cross other
// labels.
func (f *frame) nearCenter(n int) bool {
	return -f.labelY(n) < f.outer/3
}
