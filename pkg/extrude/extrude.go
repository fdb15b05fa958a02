// Package extrude turns a placed cable cross-section into a 3D solid: every
// structural element of a layer becomes a solid of that layer's height, and
// heights step down from the inside out so each layer stays visible in a
// cut-back view.
package extrude

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/colors"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/mesh"
	"github.com/matzehuels/cablesection/pkg/placement"
	"github.com/matzehuels/cablesection/pkg/scene"
)

// Defaults for Options.
const (
	DefaultLength = 50.0 // mm
	DefaultStep   = 5.0  // mm
)

// Options configures extrusion.
type Options struct {
	// Length is the extrusion length before stepping.
	Length float64
	// Step is subtracted once per layer, starting with the first.
	Step float64
	// Schema configures layer linking.
	Schema cable.Schema
}

func (o Options) withDefaults() Options {
	if o.Length == 0 {
		o.Length = DefaultLength
	}
	if o.Step == 0 {
		o.Step = DefaultStep
	}
	return o
}

// Height returns the extrusion height of layer i.
func (o Options) Height(i int) float64 {
	o = o.withDefaults()
	return o.Length - float64(i+1)*o.Step
}

// Kind is the solid shape.
type Kind int

const (
	KindCylinder Kind = iota
	KindPrism
	KindTube
)

func (k Kind) String() string {
	switch k {
	case KindCylinder:
		return "cylinder"
	case KindPrism:
		return "prism"
	case KindTube:
		return "tube"
	}
	return "unknown"
}

// Solid is one extruded element before meshing.
type Solid struct {
	Kind     Kind
	Center   r2.Vec
	Radius   float64 // cylinder radius, tube outer radius
	Inner    float64 // tube inner radius
	Sections int
	Points   []r2.Vec // prism profile
	Height   float64
	Color    color.RGBA
	Layer    int
	Role     scene.Role
}

// Mesh builds the solid standing on z = 0 and centers it on z.
func (s Solid) Mesh() *mesh.Mesh {
	var m *mesh.Mesh
	switch s.Kind {
	case KindPrism:
		m = mesh.Prism(s.Points, s.Height)
	case KindTube:
		m = mesh.Tube(s.Center, s.Inner, s.Radius, s.Height, s.Sections)
	default:
		m = mesh.Cylinder(s.Center, s.Radius, s.Height, s.Sections)
	}
	return m.CenterZ().Paint(fmt.Sprintf("layer %d %s", s.Layer, s.Role), s.Color)
}

// Solids places c and returns the solids of its structural elements in
// layer order. A cable without layers yields EMPTY_MESH_RESULT.
func Solids(c cable.Cable, env placement.Env, opts Options) ([]Solid, error) {
	if len(c.Layers) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyMesh, "cable %q has no layers to extrude", c.Name)
	}
	opts = opts.withDefaults()
	l, err := placement.PlaceCable(c, opts.Schema, env)
	if err != nil {
		return nil, err
	}

	var out []Solid
	for i, res := range l.Layers {
		if len(res.Items) == 0 {
			continue
		}
		h := opts.Height(i)
		if h <= 0 {
			return nil, errors.New(errors.ErrCodeDegenerateGeometry,
				"layer %d would be extruded to height %.2f (length %.2f, step %.2f)", i, h, opts.Length, opts.Step)
		}
		out = append(out, layerSolids(res.Items, i, h)...)
	}
	return out, nil
}

// layerSolids converts the body items of one layer.
func layerSolids(items []scene.Item, layer int, h float64) []Solid {
	var out []Solid
	var tube *Solid
	for _, it := range items {
		switch it.Role {
		case scene.RoleArmourTape:
			tube = &Solid{Kind: KindTube, Sections: mesh.BodySections, Height: h, Color: rgba(it.Style), Layer: layer, Role: it.Role}
			continue
		case scene.RoleArmourEdge:
			if tube != nil {
				tube.Inner = it.Radius
			}
			continue
		case scene.RoleArmourCap:
			if tube != nil {
				tube.Radius = it.Radius
			}
			continue
		}
		if !it.Role.Body() {
			continue
		}
		s := Solid{Height: h, Color: rgba(it.Style), Layer: layer, Role: it.Role, Center: it.Center, Radius: it.Radius, Sections: mesh.Sections}
		switch {
		case it.Kind == scene.KindPolygon:
			s.Kind, s.Points = KindPrism, it.Points
		case it.Kind == scene.KindWedge && it.Sweep() < 360:
			s.Kind, s.Points = KindPrism, it.Outline()
		default:
			s.Kind = KindCylinder
			if fullBody(it) {
				s.Sections = mesh.BodySections
			}
		}
		out = append(out, s)
	}
	if tube != nil && tube.Radius > tube.Inner {
		out = append(out, *tube)
	}
	return out
}

// fullBody reports whether it spans the whole cable section rather than a
// single core or wire.
func fullBody(it scene.Item) bool {
	switch it.Role {
	case scene.RoleSheath, scene.RoleFiller, scene.RoleTape:
		return it.Center == (r2.Vec{})
	}
	return false
}

func rgba(st scene.Style) color.RGBA {
	hex := st.Fill
	if hex == "" || (hex == colors.White && st.Edge != "") {
		hex = st.Edge
	}
	c, err := colors.ParseHex(hex)
	if err != nil {
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	}
	return c
}

// Build places c and returns the merged 3D model.
func Build(c cable.Cable, env placement.Env, opts Options) (*mesh.Mesh, error) {
	solids, err := Solids(c, env, opts)
	if err != nil {
		return nil, err
	}
	return merge(solids)
}

func merge(solids []Solid) (*mesh.Mesh, error) {
	if len(solids) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyMesh, "no solids to merge")
	}
	meshes := make([]*mesh.Mesh, len(solids))
	for i, s := range solids {
		meshes[i] = s.Mesh()
	}
	m, err := mesh.Merge(meshes...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeshUnion, err, "merge %d solids", len(solids))
	}
	if m.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyMesh, "merged mesh has no faces")
	}
	return m, nil
}

// Shells builds the simple concentric model: one tube per layer with outer
// radius D/2 and inner radius D/2 − thickness, heights stepped like Build.
func Shells(layers []cable.Layer, opts Options) (*mesh.Mesh, error) {
	opts = opts.withDefaults()
	var solids []Solid
	for i, layer := range layers {
		h := opts.Height(i)
		if h <= 0 {
			return nil, errors.New(errors.ErrCodeDegenerateGeometry, "layer %d would be extruded to height %.2f", i, h)
		}
		outer := layer.EffectiveDiameter() / 2
		if outer <= 0 {
			continue
		}
		inner := outer - layer.Thickness
		if layer.Thickness <= 0 {
			inner = 0
		}
		c, err := colors.ParseHex(colors.Or(layer.Color, "#b0b0b0"))
		if err != nil {
			c = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
		}
		solids = append(solids, Solid{
			Kind:     KindTube,
			Radius:   outer,
			Inner:    inner,
			Sections: mesh.BodySections,
			Height:   h,
			Color:    c,
			Layer:    i,
			Role:     scene.Role(layer.Type),
		})
	}
	return merge(solids)
}
