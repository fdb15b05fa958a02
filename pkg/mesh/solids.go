package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/cablesection/pkg/geometry"
)

// Section counts used for round solids.
const (
	Sections     = 32
	BodySections = 64
)

// Cylinder returns a closed cylinder standing on z = 0.
func Cylinder(center r2.Vec, radius, height float64, sections int) *Mesh {
	return Prism(geometry.Circle(center, radius, sections), height)
}

// Prism extrudes a simple polygon from z = 0 to z = height. Repeated
// vertices are dropped and collinear cap triangles are skipped.
func Prism(p geometry.Polygon, height float64) *Mesh {
	p = dedupe(p)
	n := len(p)
	if n < 3 {
		return &Mesh{}
	}
	if p.SignedArea() < 0 {
		p = reversed(p)
	}
	m := &Mesh{Vertices: make([]r3.Vec, 0, 2*n)}
	for _, v := range p {
		m.Vertices = append(m.Vertices, r3.Vec{X: v.X, Y: v.Y})
	}
	for _, v := range p {
		m.Vertices = append(m.Vertices, r3.Vec{X: v.X, Y: v.Y, Z: height})
	}
	for i := range n {
		j := (i + 1) % n
		m.Faces = append(m.Faces, [3]int{i, j, n + j}, [3]int{i, n + j, n + i})
	}
	for _, t := range geometry.Triangulate(p) {
		if math.Abs(geometry.Polygon{p[t[0]], p[t[1]], p[t[2]]}.SignedArea()) < minArea {
			continue
		}
		m.Faces = append(m.Faces,
			[3]int{n + t[0], n + t[1], n + t[2]},
			[3]int{t[0], t[2], t[1]},
		)
	}
	return m
}

// Tube returns a closed annular cylinder standing on z = 0.
func Tube(center r2.Vec, inner, outer, height float64, sections int) *Mesh {
	if inner <= 0 {
		return Cylinder(center, outer, height, sections)
	}
	m := &Mesh{Vertices: make([]r3.Vec, 0, 4*sections)}
	// outer bottom, outer top, inner bottom, inner top
	for _, ring := range []struct{ r, z float64 }{{outer, 0}, {outer, height}, {inner, 0}, {inner, height}} {
		for i := range sections {
			a := 2 * math.Pi * float64(i) / float64(sections)
			m.Vertices = append(m.Vertices, r3.Vec{
				X: center.X + ring.r*math.Cos(a),
				Y: center.Y + ring.r*math.Sin(a),
				Z: ring.z,
			})
		}
	}
	ob, ot, ib, it := 0, sections, 2*sections, 3*sections
	for i := range sections {
		j := (i + 1) % sections
		m.Faces = append(m.Faces,
			[3]int{ob + i, ob + j, ot + j}, [3]int{ob + i, ot + j, ot + i}, // outer wall
			[3]int{ib + i, it + j, ib + j}, [3]int{ib + i, it + i, it + j}, // inner wall
			[3]int{ot + i, ot + j, it + j}, [3]int{ot + i, it + j, it + i}, // top
			[3]int{ob + i, ib + j, ob + j}, [3]int{ob + i, ib + i, ib + j}, // bottom
		)
	}
	return m
}

func dedupe(p geometry.Polygon) geometry.Polygon {
	out := make(geometry.Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && r2.Norm(r2.Sub(v, out[len(out)-1])) < 1e-9 {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && r2.Norm(r2.Sub(out[0], out[len(out)-1])) < 1e-9 {
		out = out[:len(out)-1]
	}
	return out
}

func reversed(p geometry.Polygon) geometry.Polygon {
	out := make(geometry.Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}
