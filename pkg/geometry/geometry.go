// Package geometry provides the 2D primitives the layout engine is built on:
// polygons in millimetres, arc sampling, the rounded-sector builder used for
// shaped conductors, and triangulation for extruding polygon profiles.
//
// Angles are in degrees, counter-clockwise from the positive x axis.
// Polygons are implicitly closed: the last vertex connects to the first.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SegmentsPerQuarter is the arc resolution: segments per 90 degrees.
const SegmentsPerQuarter = 16

// Polygon is a closed outline.
type Polygon []r2.Vec

// Dir returns the unit vector at deg degrees.
func Dir(deg float64) r2.Vec {
	rad := deg * math.Pi / 180
	return r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Polar returns center + r·Dir(deg).
func Polar(center r2.Vec, r, deg float64) r2.Vec {
	return r2.Add(center, r2.Scale(r, Dir(deg)))
}

// SignedArea returns the shoelace area, positive for counter-clockwise
// polygons.
func (p Polygon) SignedArea() float64 {
	var s float64
	for i := range p {
		j := (i + 1) % len(p)
		s += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return s / 2
}

// Area returns the unsigned area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Bounds returns the axis-aligned bounding box.
func (p Polygon) Bounds() (min, max r2.Vec) {
	if len(p) == 0 {
		return
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

// Translate returns p moved by d.
func (p Polygon) Translate(d r2.Vec) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = r2.Add(v, d)
	}
	return out
}

// Reverse returns p with its orientation flipped.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// CCW returns p oriented counter-clockwise.
func (p Polygon) CCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Valid reports whether every vertex is finite.
func (p Polygon) Valid() bool {
	for _, v := range p {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return false
		}
	}
	return true
}

// IsSimple reports whether no two non-adjacent edges intersect.
func (p Polygon) IsSimple() bool {
	n := len(p)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := p[i], p[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(a1, a2, p[j], p[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}

func orient(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

func segmentsIntersect(p1, p2, q1, q2 r2.Vec) bool {
	const eps = 1e-12
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	if ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps)) {
		return true
	}
	on := func(a, b, c r2.Vec, d float64) bool {
		return math.Abs(d) <= eps &&
			math.Min(a.X, b.X)-eps <= c.X && c.X <= math.Max(a.X, b.X)+eps &&
			math.Min(a.Y, b.Y)-eps <= c.Y && c.Y <= math.Max(a.Y, b.Y)+eps
	}
	return on(q1, q2, p1, d1) || on(q1, q2, p2, d2) || on(p1, p2, q1, d3) || on(p1, p2, q2, d4)
}

// Arc samples the arc of radius r around center from deg0 to deg1
// inclusive. The sweep direction follows the sign of deg1 − deg0.
func Arc(center r2.Vec, r, deg0, deg1 float64) []r2.Vec {
	sweep := deg1 - deg0
	n := int(math.Ceil(math.Abs(sweep) / 90 * SegmentsPerQuarter))
	if n < 1 {
		n = 1
	}
	pts := make([]r2.Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, Polar(center, r, deg0+sweep*float64(i)/float64(n)))
	}
	return pts
}

// Circle samples a full circle with n vertices, counter-clockwise from 0°.
func Circle(center r2.Vec, r float64, n int) Polygon {
	p := make(Polygon, n)
	for i := range p {
		p[i] = Polar(center, r, 360*float64(i)/float64(n))
	}
	return p
}

// PieSlice returns the raw outline of the sector from start to end: the
// center followed by samples points on the arc.
func PieSlice(center r2.Vec, radius, start, end float64, samples int) Polygon {
	p := make(Polygon, 0, samples+1)
	p = append(p, center)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1)
		p = append(p, Polar(center, radius, start+(end-start)*t))
	}
	return p
}

// dedupe drops consecutive vertices closer than eps, including a closing
// duplicate of the first vertex.
func dedupe(p Polygon, eps float64) Polygon {
	out := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && r2.Norm(r2.Sub(v, out[len(out)-1])) < eps {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && r2.Norm(r2.Sub(out[0], out[len(out)-1])) < eps {
		out = out[:len(out)-1]
	}
	return out
}
