package placement

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/colors"
	"github.com/matzehuels/cablesection/pkg/conductor"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/geometry"
	"github.com/matzehuels/cablesection/pkg/scene"
)

// Sector geometry constants.
const (
	fullRingClearance    = 0.2 // sector radius clearance when one layer holds every core
	partialRingClearance = 0.7 // clearance when a neutral shares the ring
	partialSectorStart   = 30
	partialSectorStep    = 100
	fullSectorStart      = 90
	thinInsulation       = 1.0  // insulation at or below this is thin
	thinRoundingScale    = 0.35 // rounding scale for thin insulation
	neutralSectorHalf    = 30
	neutralRadiusDivisor = 3
	wireDarken           = 30
)

func item(role scene.Role, p scene.Primitive) scene.Item {
	return scene.Item{Primitive: p, Role: role}
}

// wireStyle returns the hatch and face darkening for a stranded conductor.
func wireStyle(l cable.Layer) (hatch string, darken float64) {
	n := l.Wires()
	if n <= 0 {
		return "", 0
	}
	return strings.Repeat("O", n), wireDarken
}

// insulationStyle is the hatched style of insulation without a reference
// color.
func insulationStyle() scene.Style {
	return scene.Style{Fill: colors.InsulationGray, Edge: colors.EdgeDark, Hatch: colors.InsulationHatch}
}

// roundConductor returns the outline and body of one round conductor.
func roundConductor(center r2.Vec, radius float64, color, hatch string, darken float64) []scene.Item {
	return []scene.Item{
		item(scene.RoleConductorEdge, scene.Wedge(center, radius, 0, 360, scene.Style{Edge: colors.EdgeDark})),
		item(scene.RoleConductor, scene.Wedge(center, radius, 0, 360, scene.Style{
			Fill: colors.Darken(color, darken), Edge: color, Hatch: hatch,
		})),
	}
}

// insulationHalves returns the two half discs of a reference colored
// insulation, split along the vertical.
func insulationHalves(center r2.Vec, radius float64, p colors.Pair) []scene.Item {
	return []scene.Item{
		item(scene.RoleInsulation, scene.Wedge(center, radius, 90, 270, scene.Style{Fill: p.First, Edge: p.First})),
		item(scene.RoleInsulation, scene.Wedge(center, radius, 270, 90, scene.Style{Fill: p.Second, Edge: p.Second})),
	}
}

// sectorRounding returns the rounding radius of a sector conductor for the
// thickness of its insulation.
func sectorRounding(l cable.Layer, insulation float64) float64 {
	if insulation > thinInsulation {
		return l.Rounding()
	}
	return l.Rounding() * thinRoundingScale
}

// sectorCore returns the conductor outline, conductor body and insulation
// of one sector-shaped core.
func sectorCore(radius, start, end, thickness, rounding float64, color, hatch string, darken float64, insulation scene.Style) ([]scene.Item, error) {
	body, err := geometry.RoundedSector(r2.Vec{}, radius, start, end, thickness, rounding)
	if err != nil {
		return nil, err
	}
	outline, err := geometry.RoundedSector(r2.Vec{}, radius, start, end, geometry.InsulationOutline, rounding)
	if err != nil {
		return nil, err
	}
	return []scene.Item{
		item(scene.RoleInsulationEdge, scene.Polygon(body, scene.Style{Edge: colors.EdgeDark})),
		item(scene.RoleConductor, scene.Polygon(body, scene.Style{Fill: colors.Darken(color, darken), Edge: color, Hatch: hatch})),
		item(scene.RoleInsulation, scene.Polygon(outline, insulation)),
	}, nil
}

// ringAngles returns count angles in degrees evenly spread from rotation.
func ringAngles(count int, rotation float64) []float64 {
	out := make([]float64, count)
	for k := range out {
		out[k] = rotation + float64(k)*360/float64(count)
	}
	return out
}

// layupCenters walks the layup rings of a cable with more cores than fit on
// one ring and returns the center of every core. Ring 0 is rotated by
// rotation degrees. Rings after the first use the override multiplier when
// it is positive.
func (f *frame) layupCenters(override, diameter, rotation float64) ([]r2.Vec, error) {
	cfg, err := f.layup()
	if err != nil {
		return nil, err
	}
	cores := f.linked.Cable.Cores
	var centers []r2.Vec
	for ring, count := range cfg.Rings {
		mult := cfg.MultiplierFactor
		if ring > 0 && override > 0 {
			mult = override
		}
		radius := cfg.RingRadius(ring, mult, diameter)
		rot := 0.0
		if ring == 0 {
			rot = rotation
		}
		for _, a := range ringAngles(count, rot) {
			if len(centers) >= cores {
				return centers, nil
			}
			centers = append(centers, geometry.Polar(r2.Vec{}, radius, a))
		}
	}
	return centers, nil
}

func phaseConductor(f *frame, i int, acc Accumulator) (Result, Accumulator, error) {
	l := f.linked
	layer := l.Layer(i)
	links := l.Links[i]
	ins, err := l.Get(i, links.Insulation, "insulation")
	if err != nil {
		return Result{}, acc, err
	}
	sup, err := l.Get(i, links.Support, "support layer")
	if err != nil {
		return Result{}, acc, err
	}

	info, err := f.env.Conductors.Resolve(layer.Query(layer.Quantity))
	if err != nil {
		return Result{}, acc, err
	}
	acc.Shape, acc.Material = info.Shape, info.Material
	if size, ok := layer.Attr(conductor.SizeAttribute); ok {
		acc.PhaseSize = size
	}

	color := colors.Material(info.Material, colors.Or(layer.Color, colors.Armour))
	hatch, darken := wireStyle(layer)
	ringRadius := (sup.Diameter - ins.Diameter) / 2

	var items []scene.Item
	if l.Packed() {
		palette, err := f.env.Colors.Palette(layer.Quantity)
		if err != nil {
			return Result{}, acc, err
		}
		count := min(layer.Quantity, len(palette))

		switch acc.Shape {
		case conductor.Sector:
			start, step, clearance := float64(partialSectorStart), float64(partialSectorStep), partialRingClearance
			if l.FullRing(i) {
				start, step, clearance = fullSectorStart, 360/float64(layer.Quantity), fullRingClearance
			}
			radius := (sup.Diameter - clearance) / 2
			rounding := sectorRounding(layer, ins.Thickness)
			for k := 0; k < count; k++ {
				style := insulationStyle()
				if f.env.Colors.Filled() {
					style = scene.Style{Fill: palette[k].First}
				}
				s := start + float64(k)*step
				core, err := sectorCore(radius, s, s+step, ins.Thickness, rounding, color, hatch, darken, style)
				if err != nil {
					return Result{}, acc, err
				}
				items = append(items, core...)
			}
		default:
			for _, a := range ringAngles(count, 0) {
				items = append(items, roundConductor(geometry.Polar(r2.Vec{}, ringRadius, a), layer.Diameter/2, color, hatch, darken)...)
			}
		}
	} else {
		centers, err := f.layupCenters(ins.MultiplierFactor, ins.EffectiveDiameter(), layer.Rotation)
		if err != nil {
			return Result{}, acc, err
		}
		for _, c := range centers {
			items = append(items, roundConductor(c, layer.EffectiveDiameter()/2, color, hatch, darken)...)
		}
	}

	anchor := r2.Vec{Y: ringRadius}
	if acc.Shape == conductor.Sector {
		anchor.X = -ringRadius / 2
	}
	return Result{
		Items:       items,
		Annotations: []scene.Annotation{f.annotate(layer.Label(), acc.LayerNumber, anchor, curved)},
		Advance:     1,
	}, acc, nil
}

func phaseInsulation(f *frame, i int, acc Accumulator) (Result, Accumulator, error) {
	l := f.linked
	layer := l.Layer(i)
	filled := f.env.Colors.Filled()
	circular := acc.Shape != conductor.Sector

	var (
		items      []scene.Item
		last       r2.Vec
		ringRadius float64
	)
	if l.Packed() {
		next, err := l.Get(i, l.Links[i].Next, "enclosing layer")
		if err != nil {
			return Result{}, acc, err
		}
		ringRadius = (next.Diameter - layer.Diameter) / 2
		palette, err := f.env.Colors.Palette(layer.Quantity)
		if err != nil {
			return Result{}, acc, err
		}
		count := min(layer.Quantity, len(palette))
		for k, a := range ringAngles(count, 0) {
			last = geometry.Polar(r2.Vec{}, ringRadius, a)
			if !circular {
				continue
			}
			if filled {
				items = append(items, insulationHalves(last, layer.Diameter/2, palette[k])...)
			} else {
				items = append(items, item(scene.RoleInsulation, scene.Wedge(last, layer.Diameter/2, 0, 360, insulationStyle())))
			}
		}
	} else {
		prev, err := l.Get(i, l.Links[i].Previous, "conductor layer")
		if err != nil {
			return Result{}, acc, err
		}
		var palette []colors.Pair
		if filled {
			if palette, err = f.env.Colors.Palette(l.Cable.Cores); err != nil {
				return Result{}, acc, err
			}
		}
		d := layer.EffectiveDiameter()
		centers, err := f.layupCenters(layer.MultiplierFactor, d, prev.Rotation)
		if err != nil {
			return Result{}, acc, err
		}
		for k, c := range centers {
			last = c
			if !circular {
				continue
			}
			if filled && len(palette) > 0 {
				items = append(items, insulationHalves(c, d/2, palette[k%len(palette)])...)
			} else {
				items = append(items, item(scene.RoleInsulation, scene.Wedge(c, d/2, 0, 360, insulationStyle())))
			}
		}
	}

	var anchor r2.Vec
	t := layer.Thickness
	switch {
	case !circular:
		anchor = r2.Vec{X: t / 2, Y: t}
		switch layer.Quantity {
		case 2:
			anchor.Y = -ringRadius / 2
		case 3, 4:
			anchor.Y = ringRadius / 2
		}
	case layer.Quantity > 1:
		anchor = r2.Vec{X: (layer.Diameter - t) / 2, Y: -last.Y}
	default:
		anchor = geometry.Polar(r2.Vec{}, (layer.Diameter-t)/2, 30)
	}
	return Result{
		Items:       items,
		Annotations: []scene.Annotation{f.annotate(layer.Label(), acc.LayerNumber, anchor, curved)},
		Advance:     1,
	}, acc, nil
}

func neutralConductor(f *frame, i int, acc Accumulator) (Result, Accumulator, error) {
	l := f.linked
	layer := l.Layer(i)
	links := l.Links[i]
	ins, err := l.Get(i, links.Insulation, "insulation")
	if err != nil {
		return Result{}, acc, err
	}
	ref, err := l.Get(i, links.Reference, "reference layer")
	if err != nil {
		return Result{}, acc, err
	}

	info, err := f.env.Conductors.ResolveNeutral(layer.Query(layer.Quantity), acc.PhaseSize)
	if err != nil {
		return Result{}, acc, err
	}
	acc.Shape = info.Shape

	color := colors.Material(info.Material, colors.Or(layer.Color, colors.Armour))
	hatch, darken := wireStyle(layer)

	// The neutral takes the last reference color, first half only.
	insulation := insulationStyle()
	filled := f.env.Colors.Filled()
	if filled {
		palette, err := f.env.Colors.Palette(l.Cable.Cores)
		if err != nil {
			return Result{}, acc, err
		}
		if len(palette) > 0 {
			c := palette[len(palette)-1].First
			insulation = scene.Style{Fill: c, Edge: c}
		}
	}

	n := acc.LayerNumber
	var (
		items []scene.Item
		anns  []scene.Annotation
	)
	switch acc.Shape {
	case conductor.Sector:
		sup, err := l.Get(i, links.Support, "sector radius layer")
		if err != nil {
			return Result{}, acc, err
		}
		radius := (sup.Diameter - partialRingClearance) / 2
		t := ins.Thickness
		core, err := sectorCore(radius, -neutralSectorHalf, neutralSectorHalf, t, sectorRounding(layer, t), color, hatch, darken, insulation)
		if err != nil {
			return Result{}, acc, err
		}
		items = core
		anns = []scene.Annotation{
			f.annotate(layer.Label(), n, r2.Vec{X: radius / 2}, curved),
			f.annotate(ins.Label(), n+1, geometry.Polar(r2.Vec{}, radius-3*t/4, 20), curved),
		}
	default:
		center := r2.Vec{X: ref.Diameter / neutralRadiusDivisor}
		conductorRadius := (layer.Diameter - 2*ins.Thickness) / 2
		insulationRadius := (ins.Diameter - 2*ins.Thickness) / 2
		items = roundConductor(center, conductorRadius, color, hatch, darken)
		if filled {
			items = append(items,
				item(scene.RoleInsulation, scene.Wedge(center, insulationRadius, 0, 180, insulation)),
				item(scene.RoleInsulation, scene.Wedge(center, insulationRadius, 180, 360, insulation)),
			)
		} else {
			items = append(items, item(scene.RoleInsulation, scene.Wedge(center, insulationRadius, 0, 360, insulation)))
		}
		anns = []scene.Annotation{
			f.annotate(layer.Label(), n, center, curved),
			f.annotate(ins.Label(), n+1, geometry.Polar(center, conductorRadius+layer.Thickness/2, 30), curved),
		}
	}
	return Result{Items: items, Annotations: anns, Advance: 2}, acc, nil
}

func filler(f *frame, i int, acc Accumulator) (Result, Accumulator, error) {
	layer := f.linked.Layer(i)
	color := colors.Or(layer.Color, colors.Filler)
	body := scene.Circle(r2.Vec{}, layer.EffectiveDiameter()/2, scene.Style{Fill: color, Edge: colors.Darken(color, 30)})

	leader := curved
	if !f.nearCenter(acc.LayerNumber) {
		leader = elbow(10)
	}
	return Result{
		Items:       []scene.Item{item(scene.RoleFiller, body)},
		Annotations: []scene.Annotation{f.annotate(layer.Label(), acc.LayerNumber, r2.Vec{}, leader)},
		Advance:     1,
	}, acc, nil
}

func tape(f *frame, i int, acc Accumulator) (Result, Accumulator, error) {
	layer := f.linked.Layer(i)
	body := scene.Circle(r2.Vec{}, layer.EffectiveDiameter()/2, scene.Style{
		Fill: colors.White, Edge: colors.Or(layer.Color, colors.Tape), LineWidth: 1.5,
	})
	return Result{Items: []scene.Item{item(scene.RoleTape, body)}}, acc, nil
}

// StripDegrees converts a sheath strip width to degrees of arc on radius.
// Widths are in degrees only when measure says so; anything else is a
// length in millimetres.
func StripDegrees(width float64, measure string, radius float64) float64 {
	if measure == cable.Degrees {
		return width
	}
	return width * 360 / (2 * math.Pi * radius)
}

func sheath(f *frame, i int, acc Accumulator) (Result, Accumulator, error) {
	layer := f.linked.Layer(i)
	color := colors.Or(layer.Color, colors.Sheath)
	r := layer.EffectiveDiameter() / 2

	var items []scene.Item
	if layer.StripWidth > 0 {
		strip := colors.Or(layer.StripColor, colors.Sheath)
		w := StripDegrees(layer.StripWidth, layer.StripWidthMeasure, r)
		items = append(items, item(scene.RoleStrip, scene.Wedge(r2.Vec{}, r, 90-w/2, 90+w/2, scene.Style{Fill: strip, Edge: strip})))
	}
	items = append(items,
		item(scene.RoleSheathEdge, scene.Circle(r2.Vec{}, r, scene.Style{Edge: colors.Darken(color, 30), LineWidth: 0.5})),
		item(scene.RoleSheath, scene.Circle(r2.Vec{}, r, scene.Style{Fill: color, Edge: color})),
	)

	n := acc.LayerNumber
	anchor := geometry.Polar(r2.Vec{}, r-layer.Thickness/3, 90-2*float64(n+1))
	anchor.Y = -anchor.Y

	return Result{
		Items:       items,
		Annotations: []scene.Annotation{f.annotate(layer.Label(), n, anchor, elbow(sheathAngle(-f.labelY(n), f.outer)))},
		Advance:     1,
	}, acc, nil
}

// sheathAngle picks the elbow angle of a sheath leader from the label's
// depth y below the axis. Labels exactly on a band boundary take the
// outermost band.
func sheathAngle(y, outer float64) float64 {
	switch {
	case y < outer/3:
		return 60
	case y > outer/3 && y < outer/2:
		return 10
	}
	return -45
}

// ArmourWires returns how many wires of wireRadius fit around a placement
// ring of placementRadius.
func ArmourWires(placementRadius, wireRadius float64) int {
	if !(wireRadius > 0) || !(placementRadius > 0) {
		return 0
	}
	return int(2 * math.Pi * placementRadius / (2 * wireRadius))
}

// Armour drawing constants.
const (
	armourWireEdgeDarken   = 75
	armourWireShadowDarken = 40
	armourWireCoreScale    = 0.5
	armourTapeInset        = 0.1
	armourDashPhase        = 5
)

func armour(f *frame, i int, acc Accumulator) (Result, Accumulator, error) {
	l := f.linked
	layer := l.Layer(i)
	prev, err := l.Get(i, l.Links[i].Previous, "bedding layer")
	if err != nil {
		return Result{}, acc, err
	}
	color := colors.Or(layer.Color, colors.Armour)

	d, t, prevD := layer.Diameter, layer.Thickness, prev.Diameter
	if layer.CustomDiameter > 0 {
		d = layer.CustomDiameter
		if prev.CustomDiameter > 0 {
			prevD = prev.CustomDiameter
		}
		t = (d - prevD) / 2
	}
	r := d / 2
	inner := r - t/2

	shape, ok := layer.ArmourShape()
	if !ok {
		return Result{}, acc, errors.New(errors.ErrCodeMissingArmourShape,
			"armour layer has no %q attribute", cable.ArmourShapeAttribute)
	}

	var items []scene.Item
	if cable.RoundArmour(shape) {
		wr := t / 2
		n := ArmourWires(inner, wr)
		if n == 0 {
			return Result{}, acc, errors.New(errors.ErrCodeDegenerateGeometry,
				"armour wires of radius %.3f do not fit on radius %.3f", wr, inner)
		}
		for _, a := range ringAngles(n, 0) {
			c := geometry.Polar(r2.Vec{}, inner, a)
			items = append(items,
				item(scene.RoleArmourWireEdge, scene.Circle(c, wr, scene.Style{Edge: colors.Darken(color, armourWireEdgeDarken)})),
				item(scene.RoleArmourWireCore, scene.Circle(c, wr*armourWireCoreScale, scene.Style{Fill: color, Edge: color})),
				item(scene.RoleArmourWire, scene.Circle(c, wr, scene.Style{
					Fill: colors.Darken(color, armourWireShadowDarken), Edge: colors.Darken(color, armourWireShadowDarken),
				})),
			)
		}
	} else {
		items = append(items, item(scene.RoleArmourTape, scene.Circle(r2.Vec{}, inner+armourTapeInset, scene.Style{
			Edge:      color,
			LineWidth: (d - prevD) * 2,
			Dash:      []float64{layer.ArmourTapeWidth(), 1},
			DashPhase: armourDashPhase,
		})))
	}
	items = append(items,
		item(scene.RoleArmourEdge, scene.Circle(r2.Vec{}, r-t, scene.Style{Edge: colors.Black})),
		item(scene.RoleArmourCap, scene.Circle(r2.Vec{}, r, scene.Style{Fill: colors.White, Edge: colors.White})),
	)

	n := acc.LayerNumber
	angleB := 10.0
	if f.nearCenter(n) {
		angleB = 60
	}
	anchor := r2.Vec{X: r / 5, Y: -(r - t/2.5)}
	return Result{
		Items:       items,
		Annotations: []scene.Annotation{f.annotate(layer.Label(), n, anchor, elbow(angleB))},
		Advance:     1,
	}, acc, nil
}
