// Package scene holds the renderer-independent output of the layout engine:
// drawing primitives tagged with the layer and role that produced them,
// label annotations, and the composed scene with its paint order and
// viewport.
//
// Items are produced inside-out. [Compose] reverses them so the outer
// bodies (sheath fill, armour caps) paint first and the inner conductors
// and insulation stay visible on top.
package scene

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/colors"
	"github.com/matzehuels/cablesection/pkg/geometry"
)

// Kind is the primitive shape.
type Kind int

const (
	KindCircle Kind = iota
	KindWedge
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindWedge:
		return "wedge"
	case KindPolygon:
		return "polygon"
	}
	return "unknown"
}

// Style describes how a primitive is painted. Empty colors mean "none".
type Style struct {
	Fill      string    `json:"fill,omitempty"`
	Edge      string    `json:"edge,omitempty"`
	LineWidth float64   `json:"line_width,omitempty"` // points; 0 means the renderer default
	Hatch     string    `json:"hatch,omitempty"`      // matplotlib-style hatch tokens, e.g. "OO" or "xxx"
	Dash      []float64 `json:"dash,omitempty"`       // on/off lengths in line widths
	DashPhase float64   `json:"dash_phase,omitempty"`
}

// Primitive is one drawable shape.
type Primitive struct {
	Kind   Kind             `json:"kind"`
	Center r2.Vec           `json:"center"`
	Radius float64          `json:"radius,omitempty"`
	Theta1 float64          `json:"theta1,omitempty"` // wedge start, degrees
	Theta2 float64          `json:"theta2,omitempty"` // wedge end, degrees
	Points geometry.Polygon `json:"points,omitempty"`
	Style  Style            `json:"style"`
}

// Circle returns a circle primitive.
func Circle(center r2.Vec, radius float64, style Style) Primitive {
	return Primitive{Kind: KindCircle, Center: center, Radius: radius, Style: style}
}

// Wedge returns a wedge from theta1 to theta2 degrees, counter-clockwise.
// A wedge from 0 to 360 is a full disc.
func Wedge(center r2.Vec, radius, theta1, theta2 float64, style Style) Primitive {
	return Primitive{Kind: KindWedge, Center: center, Radius: radius, Theta1: theta1, Theta2: theta2, Style: style}
}

// Polygon returns a polygon primitive.
func Polygon(points geometry.Polygon, style Style) Primitive {
	return Primitive{Kind: KindPolygon, Points: points, Style: style}
}

// Sweep returns the counter-clockwise sweep of a wedge in (0, 360].
func (p Primitive) Sweep() float64 {
	s := p.Theta2 - p.Theta1
	for s <= 0 {
		s += 360
	}
	for s > 360 {
		s -= 360
	}
	return s
}

// Outline returns the primitive as a polygon sampled at the geometry
// package's arc resolution.
func (p Primitive) Outline() geometry.Polygon {
	switch p.Kind {
	case KindPolygon:
		return p.Points
	case KindWedge:
		sweep := p.Sweep()
		if sweep >= 360 {
			return geometry.Circle(p.Center, p.Radius, 4*geometry.SegmentsPerQuarter)
		}
		pts := geometry.Arc(p.Center, p.Radius, p.Theta1, p.Theta1+sweep)
		return append(geometry.Polygon{p.Center}, pts...)
	default:
		return geometry.Circle(p.Center, p.Radius, 4*geometry.SegmentsPerQuarter)
	}
}

// Bounds returns the axis-aligned bounds of the primitive.
func (p Primitive) Bounds() (min, max r2.Vec) {
	if p.Kind == KindPolygon {
		return p.Points.Bounds()
	}
	return r2.Vec{X: p.Center.X - p.Radius, Y: p.Center.Y - p.Radius},
		r2.Vec{X: p.Center.X + p.Radius, Y: p.Center.Y + p.Radius}
}

// Role names what part of a layer a primitive depicts.
type Role string

const (
	RoleConductor      Role = "conductor"
	RoleConductorEdge  Role = "conductor-edge"
	RoleInsulation     Role = "insulation"
	RoleInsulationEdge Role = "insulation-edge"
	RoleFiller         Role = "filler"
	RoleTape           Role = "tape"
	RoleSheath         Role = "sheath"
	RoleSheathEdge     Role = "sheath-edge"
	RoleStrip          Role = "strip"
	RoleArmourWire     Role = "armour-wire"
	RoleArmourWireCore Role = "armour-wire-core"
	RoleArmourWireEdge Role = "armour-wire-edge"
	RoleArmourTape     Role = "armour-tape"
	RoleArmourEdge     Role = "armour-edge"
	RoleArmourCap      Role = "armour-cap"
)

// Body reports whether the role is a solid part of the cable rather than an
// outline or a decoration drawn on top of one.
func (r Role) Body() bool {
	switch r {
	case RoleConductor, RoleInsulation, RoleFiller, RoleTape, RoleSheath, RoleArmourWire, RoleArmourTape:
		return true
	}
	return false
}

// Item is a primitive tagged with its origin.
type Item struct {
	Primitive
	Layer int             `json:"layer"`
	Type  cable.LayerType `json:"type"`
	Role  Role            `json:"role"`
}

// Connector describes the leader line from a label to its anchor using
// matplotlib's connection styles: "angle3" (quadratic) or "angle"
// (two straight segments with an optional rounded corner of radius Rad).
type Connector struct {
	Style  string  `json:"style"`
	AngleA float64 `json:"angle_a"`
	AngleB float64 `json:"angle_b"`
	Rad    float64 `json:"rad,omitempty"`
}

// Annotation is a layer label with a leader to an anchor point.
type Annotation struct {
	Text      string    `json:"text"`
	Layer     int       `json:"layer"`
	XY        r2.Vec    `json:"xy"`     // anchor on the drawing
	XYText    r2.Vec    `json:"xytext"` // label position
	Connector Connector `json:"connector"`
}

// Viewport is the visible data rectangle.
type Viewport struct {
	Min r2.Vec `json:"min"`
	Max r2.Vec `json:"max"`
}

// Width returns the horizontal extent.
func (v Viewport) Width() float64 { return v.Max.X - v.Min.X }

// Height returns the vertical extent.
func (v Viewport) Height() float64 { return v.Max.Y - v.Min.Y }

// Figure defaults.
const (
	FigureWidth  = 6.5 // inches
	FigureHeight = 3.5 // inches
	FontSize     = 14  // points
)

// Scene is a composed cross-section ready for a renderer.
type Scene struct {
	Title       string       `json:"title,omitempty"`
	Items       []Item       `json:"items"` // paint order
	Annotations []Annotation `json:"annotations"`
	Viewport    Viewport     `json:"viewport"`
	Width       float64      `json:"width"`  // inches
	Height      float64      `json:"height"` // inches
	FontSize    float64      `json:"font_size"`
	LeaderColor string       `json:"leader_color"`
}

// Compose builds the scene for items produced inside-out by the layout
// engine. outerDiameter is the diameter of the outermost layer.
func Compose(items []Item, annotations []Annotation, outerDiameter float64) Scene {
	draw := make([]Item, len(items))
	for i, it := range items {
		draw[len(items)-1-i] = it
	}
	r := outerDiameter / 2
	return Scene{
		Items:       draw,
		Annotations: append([]Annotation(nil), annotations...),
		Viewport: Viewport{
			Min: r2.Vec{X: -r, Y: -r - 1},
			Max: r2.Vec{X: 3 * r, Y: r + 1},
		},
		Width:       FigureWidth,
		Height:      FigureHeight,
		FontSize:    FontSize,
		LeaderColor: colors.Darken(colors.Connector, 1),
	}
}

// Count returns the number of items with the given role.
func (s Scene) Count(role Role) int {
	n := 0
	for _, it := range s.Items {
		if it.Role == role {
			n++
		}
	}
	return n
}
