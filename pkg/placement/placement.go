// Package placement computes where every sub-element of a cable cross-section
// goes: conductor centers on their layup rings, rounded sector outlines,
// concentric bodies of fillers, tapes, sheaths and armour, and the label
// annotations that name each layer.
//
// [Place] is a fold over the linked layer list. Each layer type has a
// function that reads the layer, its resolved links and the running
// [Accumulator], and returns the items and annotations it produced plus how
// far the label counter advances. Nothing else is shared between layers.
package placement

import (
	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/colors"
	"github.com/matzehuels/cablesection/pkg/conductor"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/layup"
	"github.com/matzehuels/cablesection/pkg/scene"
)

// Env holds the reference data a placement reads. Tables are read-only and
// may be shared by concurrent placements.
type Env struct {
	Layups     *layup.Table
	Conductors *conductor.Table
	// Colors decides the palette. Nil selects a Reference source when the
	// cable carries color codes and the Positional palette otherwise.
	Colors colors.Source
}

// withDefaults fills unset fields for c.
func (e Env) withDefaults(c cable.Cable) (Env, error) {
	if e.Layups == nil {
		e.Layups = layup.Default()
	}
	if e.Conductors == nil {
		e.Conductors = conductor.Default()
	}
	if e.Colors == nil {
		if c.ColorCodes == "" {
			e.Colors = colors.Positional{}
		} else {
			ref, err := colors.NewReference(c.ColorCodes, c.Cores)
			if err != nil {
				return e, err
			}
			e.Colors = ref
		}
	}
	return e, nil
}

// Accumulator is the state carried from one layer to the next.
type Accumulator struct {
	// LayerNumber is the label stacking counter. It starts at 1.
	LayerNumber int
	// Shape is the last resolved conductor shape.
	Shape conductor.Shape
	// Material is the last resolved phase conductor material.
	Material string
	// PhaseSize is the phase conductor size, used to pick the neutral row.
	PhaseSize string
}

// Result is what one layer contributes.
type Result struct {
	Items       []scene.Item       `json:"items"`
	Annotations []scene.Annotation `json:"annotations"`
	// Advance is how far the label counter moves.
	Advance int `json:"advance"`
}

// Layout is the placed cross-section.
type Layout struct {
	Name string `json:"name,omitempty"`
	// Items in processing order, inner layers first.
	Items       []scene.Item       `json:"items"`
	Annotations []scene.Annotation `json:"annotations"`
	// Layers holds the result of each layer, indexed like the cable.
	Layers        []Result `json:"layers"`
	OuterDiameter float64  `json:"outer_diameter"`
}

// Scene composes the layout into paint order with its viewport.
func (l *Layout) Scene() scene.Scene {
	s := scene.Compose(l.Items, l.Annotations, l.OuterDiameter)
	s.Title = l.Name
	return s
}

// layerFunc places one layer.
type layerFunc func(f *frame, i int, acc Accumulator) (Result, Accumulator, error)

var layerFuncs = map[cable.LayerType]layerFunc{
	cable.PhaseConductor:   phaseConductor,
	cable.PhaseInsulation:  phaseInsulation,
	cable.NeutralConductor: neutralConductor,
	cable.Filler:           filler,
	cable.Tape:             tape,
	cable.Sheath:           sheath,
	cable.Armour:           armour,
}

// Place lays out a linked cable.
func Place(l *cable.Linked, env Env) (*Layout, error) {
	if len(l.Cable.Layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cable %q has no layers", l.Cable.Name)
	}
	env, err := env.withDefaults(l.Cable)
	if err != nil {
		return nil, err
	}
	f := newFrame(l, env)

	acc, err := f.initial()
	if err != nil {
		return nil, err
	}

	out := &Layout{
		Name:          l.Cable.Name,
		Layers:        make([]Result, len(l.Cable.Layers)),
		OuterDiameter: f.outer,
	}
	for i, layer := range l.Cable.Layers {
		fn, ok := layerFuncs[layer.Type]
		if !ok {
			continue
		}
		res, next, err := fn(f, i, acc)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layer %d (%s)", i, layer.Type)
		}
		for k := range res.Items {
			res.Items[k].Layer = i
			res.Items[k].Type = layer.Type
		}
		for k := range res.Annotations {
			res.Annotations[k].Layer = i
		}
		out.Layers[i] = res
		out.Items = append(out.Items, res.Items...)
		out.Annotations = append(out.Annotations, res.Annotations...)
		acc = next
		acc.LayerNumber += res.Advance
	}
	return out, nil
}

// PlaceCable links c with schema and places it.
func PlaceCable(c cable.Cable, schema cable.Schema, env Env) (*Layout, error) {
	l, err := cable.Link(c, schema)
	if err != nil {
		return nil, err
	}
	return Place(l, env)
}
