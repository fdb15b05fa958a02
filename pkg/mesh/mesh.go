// Package mesh holds triangle meshes for the extruded cable model: the
// primitive solids the extrusion engine builds (cylinders, tubes, prisms),
// merging them into one validated mesh, and binary glTF export.
//
// Vertices are millimetres in a right-handed frame with z along the cable.
// Faces are counter-clockwise seen from outside the solid.
package mesh

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Group is a run of faces sharing a name and color, typically one layer.
type Group struct {
	Name  string
	Color color.RGBA
	Start int // first face
	Count int // number of faces
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
	Groups   []Group
}

// Empty reports whether m has no faces.
func (m *Mesh) Empty() bool { return m == nil || len(m.Faces) == 0 }

// Paint assigns a single group covering all faces.
func (m *Mesh) Paint(name string, c color.RGBA) *Mesh {
	m.Groups = []Group{{Name: name, Color: c, Start: 0, Count: len(m.Faces)}}
	return m
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = r3.Vec{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = r3.Vec{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return min, max
}

// Translate moves every vertex by d in place.
func (m *Mesh) Translate(d r3.Vec) *Mesh {
	for i := range m.Vertices {
		m.Vertices[i] = r3.Add(m.Vertices[i], d)
	}
	return m
}

// CenterZ shifts m along z so its bounding box is centered on z = 0.
func (m *Mesh) CenterZ() *Mesh {
	min, max := m.Bounds()
	return m.Translate(r3.Vec{Z: -(min.Z + max.Z) / 2})
}

// Volume returns the signed enclosed volume. Closed meshes with outward
// faces have positive volume.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		v += r3.Dot(a, r3.Cross(b, c))
	}
	return v / 6
}

// minArea is the smallest triangle area accepted by Validate, in mm².
const minArea = 1e-12

// Validate checks that every vertex is finite, every face index is in
// range, and no triangle is degenerate.
func (m *Mesh) Validate() error {
	for i, v := range m.Vertices {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return fmt.Errorf("vertex %d is not finite: %v", i, v)
		}
	}
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, k := range f {
			if k < 0 || k >= n {
				return fmt.Errorf("face %d references vertex %d of %d", i, k, n)
			}
		}
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		if r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))/2 < minArea {
			return fmt.Errorf("face %d is degenerate", i)
		}
	}
	for _, g := range m.Groups {
		if g.Start < 0 || g.Count < 0 || g.Start+g.Count > len(m.Faces) {
			return fmt.Errorf("group %q covers faces %d..%d of %d", g.Name, g.Start, g.Start+g.Count, len(m.Faces))
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Merge concatenates meshes into one, renumbering faces and groups, and
// validates the result. Solids are combined as a compound: overlapping
// volumes are kept as separate shells.
func Merge(meshes ...*Mesh) (*Mesh, error) {
	out := &Mesh{}
	for _, m := range meshes {
		if m.Empty() {
			continue
		}
		base, first := len(out.Vertices), len(out.Faces)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
		}
		for _, g := range m.Groups {
			g.Start += first
			out.Groups = append(out.Groups, g)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
