package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cablesection/pkg/scene"
)

// Units is the number of SVG user units per millimetre. svgo works in
// integer coordinates, so drawings are scaled up before rounding.
const Units = 100

// Screen resolution used to size the SVG element.
const (
	pixelsPerInch  = 96
	pointsPerInch  = 72
	defaultLineWid = 1.0 // points
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale    float64
	labels   bool
	hatching bool
}

// WithSVGScale multiplies the pixel size of the SVG element.
func WithSVGScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithoutLabels omits annotations and their leaders.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithoutHatching draws hatched bodies with their fill color only.
func WithoutHatching() SVGOption { return func(r *svgRenderer) { r.hatching = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{scale: 1, labels: true, hatching: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	return r
}

// RenderSVG renders a composed scene as SVG.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	f := newFrame(s)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w := int(math.Round(s.Width * pixelsPerInch * r.scale))
	h := int(math.Round(s.Height * pixelsPerInch * r.scale))
	canvas.Startview(w, h, f.minX, f.minY, f.width, f.height)
	if s.Title != "" {
		canvas.Title(s.Title)
	}
	canvas.Rect(f.minX, f.minY, f.width, f.height, "fill:#ffffff")

	var hatches hatchSet
	if r.hatching {
		for _, it := range s.Items {
			hatches.add(it.Style)
		}
		if len(hatches) > 0 {
			canvas.Def()
			for _, hp := range hatches {
				hp.write(canvas, f.upp)
			}
			canvas.DefEnd()
		}
	}

	canvas.Gid("items")
	for _, it := range s.Items {
		drawItem(canvas, f, it, r.hatching)
	}
	canvas.Gend()

	if r.labels && len(s.Annotations) > 0 {
		canvas.Gid("annotations")
		lw := fmt.Sprintf("%.2f", f.upp*defaultLineWid)
		font := fmt.Sprintf("%.0f", f.upp*s.FontSize)
		for _, a := range s.Annotations {
			xs, ys := f.points(a.Leader())
			canvas.Polyline(xs, ys, "fill:none;stroke:"+s.LeaderColor+";stroke-width:"+lw)
			x, y := f.point(a.XYText)
			canvas.Text(x, y, a.Text, "font-family:DejaVu Sans,Arial,sans-serif;font-size:"+font+"px;dominant-baseline:middle;fill:#000000")
		}
		canvas.Gend()
	}
	canvas.End()
	return buf.Bytes()
}

// frame maps scene coordinates (millimetres, y up) to SVG user units
// (y down).
type frame struct {
	minX, minY, width, height int
	// upp is SVG user units per typographic point at the rendered size.
	upp float64
}

func newFrame(s scene.Scene) frame {
	vp := s.Viewport
	f := frame{
		minX:   int(math.Floor(vp.Min.X * Units)),
		minY:   int(math.Floor(-vp.Max.Y * Units)),
		width:  int(math.Ceil(vp.Width() * Units)),
		height: int(math.Ceil(vp.Height() * Units)),
	}
	// The viewBox is fitted into the element preserving aspect, so the
	// binding dimension decides how large a point is.
	pxPerUnit := math.Min(s.Width*pixelsPerInch/float64(max(f.width, 1)), s.Height*pixelsPerInch/float64(max(f.height, 1)))
	f.upp = pixelsPerInch / pointsPerInch / pxPerUnit
	return f
}

func (f frame) point(v r2.Vec) (int, int) {
	return int(math.Round(v.X * Units)), int(math.Round(-v.Y * Units))
}

func (f frame) length(l float64) int { return int(math.Round(l * Units)) }

func (f frame) points(vs []r2.Vec) (xs, ys []int) {
	xs, ys = make([]int, len(vs)), make([]int, len(vs))
	for i, v := range vs {
		xs[i], ys[i] = f.point(v)
	}
	return xs, ys
}

// style returns the CSS for a primitive's fill and stroke.
func (f frame) style(st scene.Style, fill string) string {
	var b strings.Builder
	if fill == "" {
		fill = "none"
	}
	b.WriteString("fill:" + fill)
	if st.Edge == "" {
		b.WriteString(";stroke:none")
		return b.String()
	}
	lw := st.LineWidth
	if lw == 0 {
		lw = defaultLineWid
	}
	fmt.Fprintf(&b, ";stroke:%s;stroke-width:%.2f", st.Edge, lw*f.upp)
	if len(st.Dash) > 0 {
		parts := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			parts[i] = fmt.Sprintf("%.2f", d*lw*f.upp)
		}
		fmt.Fprintf(&b, ";stroke-dasharray:%s;stroke-dashoffset:%.2f", strings.Join(parts, ","), st.DashPhase*lw*f.upp)
	}
	return b.String()
}

func drawItem(canvas *svg.SVG, f frame, it scene.Item, hatching bool) {
	drawShape(canvas, f, it.Primitive, f.style(it.Style, it.Style.Fill))
	if hatching && it.Style.Hatch != "" {
		drawShape(canvas, f, it.Primitive, "fill:url(#"+hatchID(it.Style)+");stroke:none")
	}
}

func drawShape(canvas *svg.SVG, f frame, p scene.Primitive, style string) {
	switch p.Kind {
	case scene.KindPolygon:
		xs, ys := f.points(p.Points)
		canvas.Polygon(xs, ys, style)
	case scene.KindWedge:
		if p.Sweep() >= 360 {
			x, y := f.point(p.Center)
			canvas.Circle(x, y, f.length(p.Radius), style)
			return
		}
		canvas.Path(wedgePath(f, p), style)
	default:
		x, y := f.point(p.Center)
		canvas.Circle(x, y, f.length(p.Radius), style)
	}
}

// wedgePath returns the path data of a partial wedge. Counter-clockwise in
// scene space is the negative sweep direction once y points down.
func wedgePath(f frame, p scene.Primitive) string {
	sweep := p.Sweep()
	start := r2.Add(p.Center, r2.Scale(p.Radius, r2.Vec{X: math.Cos(p.Theta1 * math.Pi / 180), Y: math.Sin(p.Theta1 * math.Pi / 180)}))
	end := r2.Add(p.Center, r2.Scale(p.Radius, r2.Vec{X: math.Cos((p.Theta1 + sweep) * math.Pi / 180), Y: math.Sin((p.Theta1 + sweep) * math.Pi / 180)}))
	cx, cy := f.point(p.Center)
	sx, sy := f.point(start)
	ex, ey := f.point(end)
	r := f.length(p.Radius)
	large := 0
	if sweep > 180 {
		large = 1
	}
	return fmt.Sprintf("M%d,%d L%d,%d A%d,%d 0 %d,0 %d,%d Z", cx, cy, sx, sy, r, r, large, ex, ey)
}

// hatchPattern is one fill pattern used for hatched bodies.
type hatchPattern struct {
	token string
	color string
}

type hatchSet []hatchPattern

func (h *hatchSet) add(st scene.Style) {
	if st.Hatch == "" {
		return
	}
	p := hatchPattern{token: st.Hatch, color: hatchColor(st)}
	for _, q := range *h {
		if q == p {
			return
		}
	}
	*h = append(*h, p)
}

func hatchColor(st scene.Style) string {
	if st.Edge != "" {
		return st.Edge
	}
	return "#000000"
}

func hatchID(st scene.Style) string {
	return patternID(st.Hatch, hatchColor(st))
}

func patternID(token, color string) string {
	kind := "x"
	if strings.ContainsAny(token, "Oo") {
		kind = "o"
	}
	return fmt.Sprintf("hatch-%s%d-%s", kind, len(token), strings.TrimPrefix(color, "#"))
}

// hatchTile is the pattern tile edge in points for a single hatch token.
const hatchTile = 24.0

func (p hatchPattern) write(canvas *svg.SVG, upp float64) {
	n := max(len(p.token), 1)
	tile := int(math.Max(1, math.Round(hatchTile/float64(n)*upp)))
	lw := fmt.Sprintf("%.2f", 0.5*upp)
	canvas.Pattern(patternID(p.token, p.color), 0, 0, tile, tile, "user")
	if strings.ContainsAny(p.token, "Oo") {
		canvas.Circle(tile/2, tile/2, int(math.Max(1, float64(tile)*0.3)), "fill:none;stroke:"+p.color+";stroke-width:"+lw)
	} else {
		style := "stroke:" + p.color + ";stroke-width:" + lw
		canvas.Line(0, 0, tile, tile, style)
		canvas.Line(0, tile, tile, 0, style)
	}
	canvas.PatternEnd()
}
