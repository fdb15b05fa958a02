package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// leaderSamples is the number of segments a curved leader is sampled with.
const leaderSamples = 24

// Leader returns the leader line of a from the label to the anchor as a
// polyline in data coordinates.
//
// "angle3" leaders are quadratic curves whose control point is where the
// line leaving the label at AngleA meets the line through the anchor at
// AngleB. "angle" leaders are the two straight segments through that same
// point. When the two lines are parallel the leader is a straight line.
func (a Annotation) Leader() []r2.Vec {
	from, to := a.XYText, a.XY
	corner, ok := intersect(from, a.Connector.AngleA, to, a.Connector.AngleB)
	if !ok {
		return []r2.Vec{from, to}
	}
	if a.Connector.Style == "angle" {
		return []r2.Vec{from, corner, to}
	}
	pts := make([]r2.Vec, 0, leaderSamples+1)
	for i := 0; i <= leaderSamples; i++ {
		t := float64(i) / leaderSamples
		u := 1 - t
		pts = append(pts, r2.Add(r2.Add(r2.Scale(u*u, from), r2.Scale(2*u*t, corner)), r2.Scale(t*t, to)))
	}
	return pts
}

// intersect returns where the line through p at angle a (degrees) meets the
// line through q at angle b.
func intersect(p r2.Vec, a float64, q r2.Vec, b float64) (r2.Vec, bool) {
	da := r2.Vec{X: math.Cos(a * math.Pi / 180), Y: math.Sin(a * math.Pi / 180)}
	db := r2.Vec{X: math.Cos(b * math.Pi / 180), Y: math.Sin(b * math.Pi / 180)}
	den := r2.Cross(da, db)
	if math.Abs(den) < 1e-9 {
		return r2.Vec{}, false
	}
	t := r2.Cross(r2.Sub(q, p), db) / den
	return r2.Add(p, r2.Scale(t, da)), true
}
