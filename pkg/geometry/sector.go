package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cablesection/pkg/errors"
)

// InsulationOutline is the thickness value that asks RoundedSector for the
// insulation outline instead of the conductor outline.
const InsulationOutline = -1

// PieSamples is the number of arc samples of a raw pie slice.
const PieSamples = 100

// RoundedSector builds the outline of a sector-shaped conductor or its
// insulation: the pie slice of radius from start to end degrees, eroded by
// a and then dilated by b with round joins.
//
// For the conductor outline a = rounding + thickness and b = rounding, so the
// result sits thickness inside the raw slice with corners of radius
// rounding. For the insulation outline (thickness == InsulationOutline)
// a = b = rounding + 1, with rounding defaulting to 1.
//
// The opening is computed in closed form: the eroded slice is bounded by the
// two edges moved inward by a and the arc of radius radius − a, and dilating
// it turns every corner into a circular arc.
//
// With thickness and rounding both zero the opening is the identity and the
// raw pie slice is returned; every other input yields an outline strictly
// inside the slice.
func RoundedSector(center r2.Vec, radius, start, end, thickness, rounding float64) (Polygon, error) {
	span := end - start
	switch {
	case !(radius > 0):
		return nil, errors.New(errors.ErrCodeDegenerateGeometry, "sector radius %.3f must be positive", radius)
	case !(span > 0) || span > 360:
		return nil, errors.New(errors.ErrCodeDegenerateGeometry, "sector span %.3f must be in (0, 360]", span)
	case rounding < 0:
		return nil, errors.New(errors.ErrCodeDegenerateGeometry, "rounding radius %.3f is negative", rounding)
	}

	var a, b float64
	if thickness == InsulationOutline {
		if rounding == 0 {
			rounding = 1
		}
		a, b = rounding+1, rounding+1
	} else {
		if thickness < 0 {
			return nil, errors.New(errors.ErrCodeDegenerateGeometry, "sector thickness %.3f is negative", thickness)
		}
		a, b = rounding+thickness, rounding
	}

	if a == 0 {
		return PieSlice(center, radius, start, end, PieSamples), nil
	}
	if radius-a <= a {
		return nil, errors.New(errors.ErrCodeDegenerateGeometry,
			"sector of radius %.3f vanishes when inset by %.3f", radius, a)
	}

	t := math.Sqrt((radius-a)*(radius-a) - a*a)
	delta := math.Atan2(a, t) * 180 / math.Pi
	thetaA, thetaB := start+delta, end-delta
	pointA := r2.Add(r2.Scale(a, Dir(start+90)), r2.Scale(t, Dir(start)))
	pointB := r2.Add(r2.Scale(a, Dir(end-90)), r2.Scale(t, Dir(end)))

	var p Polygon
	p = append(p, Arc(r2.Vec{}, radius-a+b, thetaA, thetaB)...)
	p = append(p, Arc(pointB, b, thetaB, end+90)...)

	if span < 180 {
		half := span / 2 * math.Pi / 180
		if t <= a/math.Tan(half) {
			return nil, errors.New(errors.ErrCodeDegenerateGeometry,
				"sector of %.1f degrees and radius %.3f vanishes when inset by %.3f", span, radius, a)
		}
		apex := r2.Scale(a/math.Sin(half), Dir(start+span/2))
		p = append(p, Arc(apex, b, end+90, start+270)...)
	} else if a > b {
		p = append(p, Arc(r2.Vec{}, a-b, end-90, start+90)...)
	} else if span < 360 {
		p = append(p, r2.Vec{})
	}

	p = append(p, Arc(pointA, b, start-90, thetaA)...)
	p = dedupe(p, 1e-9).Translate(center)

	if len(p) < 3 || !p.Valid() || !(p.SignedArea() > 0) {
		return nil, errors.New(errors.ErrCodeDegenerateGeometry, "rounded sector has no area")
	}
	return p, nil
}
