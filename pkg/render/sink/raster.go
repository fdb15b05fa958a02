package sink

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/matzehuels/cablesection/pkg/colors"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/geometry"
	"github.com/matzehuels/cablesection/pkg/render"
	"github.com/matzehuels/cablesection/pkg/scene"
)

// RasterOption configures PNG and PDF rendering.
type RasterOption func(*rasterRenderer)

type rasterRenderer struct {
	scale   float64
	dpi     int
	rsvg    bool
	svgOpts []SVGOption
}

// WithScale sets the resolution multiplier (default 2.0).
func WithScale(s float64) RasterOption { return func(r *rasterRenderer) { r.scale = s } }

// WithDPI sets the base resolution in dots per inch (default 96).
func WithDPI(dpi int) RasterOption { return func(r *rasterRenderer) { r.dpi = dpi } }

// WithRSVG converts the SVG rendering with rsvg-convert instead of drawing
// the scene with the built-in canvas.
func WithRSVG(opts ...SVGOption) RasterOption {
	return func(r *rasterRenderer) { r.rsvg, r.svgOpts = true, opts }
}

func newRasterRenderer(opts ...RasterOption) rasterRenderer {
	r := rasterRenderer{scale: 2, dpi: pixelsPerInch}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.dpi <= 0 {
		r.dpi = pixelsPerInch
	}
	return r
}

// RenderPNG renders a composed scene as PNG.
func RenderPNG(s scene.Scene, opts ...RasterOption) ([]byte, error) {
	r := newRasterRenderer(opts...)
	if r.rsvg {
		out, err := render.ToPNG(RenderSVG(s, r.svgOpts...), r.scale)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderBackend, err, "convert SVG to PNG")
		}
		return out, nil
	}
	p, err := newPlot(s)
	if err != nil {
		return nil, err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(s.Width)*vg.Inch, vg.Length(s.Height)*vg.Inch),
		vgimg.UseDPI(int(math.Round(float64(r.dpi)*r.scale))),
	)
	p.Draw(draw.New(c))
	return writeTo(vgimg.PngCanvas{Canvas: c}, "PNG")
}

// RenderPDF renders a composed scene as PDF.
func RenderPDF(s scene.Scene, opts ...RasterOption) ([]byte, error) {
	r := newRasterRenderer(opts...)
	if r.rsvg {
		out, err := render.ToPDF(RenderSVG(s, r.svgOpts...))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderBackend, err, "convert SVG to PDF")
		}
		return out, nil
	}
	p, err := newPlot(s)
	if err != nil {
		return nil, err
	}
	c := vgpdf.New(vg.Length(s.Width)*vg.Inch, vg.Length(s.Height)*vg.Inch)
	p.Draw(draw.New(c))
	return writeTo(c, "PDF")
}

// RenderBase64PNG renders a PNG and returns it base64 encoded, the form
// in which drawings are stored on records and returned by the API.
func RenderBase64PNG(s scene.Scene, opts ...RasterOption) (string, error) {
	png, err := RenderPNG(s, opts...)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func writeTo(w io.WriterTo, format string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderBackend, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

func newPlot(s scene.Scene) (*plot.Plot, error) {
	if !(s.Viewport.Width() > 0) || !(s.Viewport.Height() > 0) {
		return nil, errors.New(errors.ErrCodeRenderBackend, "scene has an empty viewport")
	}
	p := plot.New()
	p.HideAxes()
	p.Add(sectionPlotter{scene: s, font: p.Title.TextStyle})
	return p, nil
}

// sectionPlotter draws a scene onto a plot canvas with equal axis scaling.
type sectionPlotter struct {
	scene scene.Scene
	font  draw.TextStyle
}

// transform maps scene coordinates into the canvas, fitting the viewport
// with equal scale on both axes.
type transform struct {
	origin vg.Point
	min    r2.Vec
	scale  float64 // canvas length per millimetre
}

func (t transform) point(v r2.Vec) vg.Point {
	return vg.Point{
		X: t.origin.X + vg.Length((v.X-t.min.X)*t.scale),
		Y: t.origin.Y + vg.Length((v.Y-t.min.Y)*t.scale),
	}
}

func (t transform) path(vs []r2.Vec) []vg.Point {
	out := make([]vg.Point, len(vs))
	for i, v := range vs {
		out[i] = t.point(v)
	}
	return out
}

func newTransform(c draw.Canvas, vp scene.Viewport) transform {
	w, h := float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y)
	scale := math.Min(w/vp.Width(), h/vp.Height())
	ox := float64(c.Min.X) + (w-vp.Width()*scale)/2
	oy := float64(c.Min.Y) + (h-vp.Height()*scale)/2
	return transform{origin: vg.Point{X: vg.Length(ox), Y: vg.Length(oy)}, min: vp.Min, scale: scale}
}

// Plot implements plot.Plotter.
func (sp sectionPlotter) Plot(c draw.Canvas, _ *plot.Plot) {
	t := newTransform(c, sp.scene.Viewport)
	for _, it := range sp.scene.Items {
		outline := it.Outline()
		if len(outline) < 2 {
			continue
		}
		pts := t.path(outline)
		if it.Style.Fill != "" {
			c.FillPolygon(rgba(it.Style.Fill), pts)
		}
		if it.Style.Hatch != "" {
			drawHatch(c, t, outline, it.Style)
		}
		if it.Style.Edge != "" {
			c.StrokeLines(lineStyle(it.Style), append(pts, pts[0]))
		}
	}

	leader := draw.LineStyle{Color: rgba(sp.scene.LeaderColor), Width: vg.Points(defaultLineWid)}
	font := sp.font
	font.Font.Size = vg.Points(sp.scene.FontSize)
	font.Color = color.Black
	font.XAlign = draw.XLeft
	font.YAlign = draw.YCenter
	for _, a := range sp.scene.Annotations {
		c.StrokeLines(leader, t.path(a.Leader()))
		c.FillText(font, t.point(a.XYText), a.Text)
	}
}

// DataRange implements plot.DataRanger so the plot keeps the scene
// viewport.
func (sp sectionPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	vp := sp.scene.Viewport
	return vp.Min.X, vp.Max.X, vp.Min.Y, vp.Max.Y
}

func lineStyle(st scene.Style) draw.LineStyle {
	w := st.LineWidth
	if w == 0 {
		w = defaultLineWid
	}
	ls := draw.LineStyle{Color: rgba(st.Edge), Width: vg.Points(w)}
	for _, d := range st.Dash {
		ls.Dashes = append(ls.Dashes, vg.Points(d*w))
	}
	if len(ls.Dashes) > 0 {
		ls.DashOffs = vg.Points(st.DashPhase * w)
	}
	return ls
}

func rgba(hex string) color.Color {
	c, err := colors.ParseHex(hex)
	if err != nil {
		return color.Black
	}
	return c
}

// drawHatch strokes the hatch of a filled body: diagonal cross lines for
// "x" tokens and small rings for "O" tokens, clipped to the outline.
func drawHatch(c draw.Canvas, t transform, outline geometry.Polygon, st scene.Style) {
	n := max(len(st.Hatch), 1)
	spacing := float64(vg.Points(hatchTile/float64(n))) / t.scale // millimetres
	ls := draw.LineStyle{Color: rgba(hatchColor(st)), Width: vg.Points(0.5)}
	lo, hi := outline.Bounds()

	if strings.ContainsAny(st.Hatch, "Oo") {
		r := spacing * 0.3
		for x := lo.X + spacing/2; x < hi.X; x += spacing {
			for y := lo.Y + spacing/2; y < hi.Y; y += spacing {
				center := r2.Vec{X: x, Y: y}
				if !inside(outline, center) {
					continue
				}
				ring := t.path(geometry.Circle(center, r, 12))
				c.StrokeLines(ls, append(ring, ring[0]))
			}
		}
		return
	}

	// Lines x − y = k and x + y = k across the bounding box.
	for _, dir := range []float64{1, -1} {
		kmin, kmax := lo.X-hi.Y, hi.X-lo.Y
		if dir < 0 {
			kmin, kmax = lo.X+lo.Y, hi.X+hi.Y
		}
		for k := kmin; k <= kmax; k += spacing {
			for _, seg := range clipLine(outline, k, dir) {
				c.StrokeLines(ls, t.path(seg[:]))
			}
		}
	}
}

// clipLine intersects the line x − dir·y = k with a polygon and returns the
// inside segments.
func clipLine(p geometry.Polygon, k, dir float64) [][2]r2.Vec {
	var ts []float64
	// Parametrise the line as (k + dir·s, s).
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		fa := a.X - dir*a.Y - k
		fb := b.X - dir*b.Y - k
		if (fa > 0) == (fb > 0) {
			continue
		}
		u := fa / (fa - fb)
		ts = append(ts, a.Y+u*(b.Y-a.Y))
	}
	sort.Float64s(ts)
	var out [][2]r2.Vec
	for i := 0; i+1 < len(ts); i += 2 {
		out = append(out, [2]r2.Vec{
			{X: k + dir*ts[i], Y: ts[i]},
			{X: k + dir*ts[i+1], Y: ts[i+1]},
		})
	}
	return out
}

// inside reports whether v lies inside p by the even-odd rule.
func inside(p geometry.Polygon, v r2.Vec) bool {
	in := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > v.Y) != (b.Y > v.Y) && v.X < (b.X-a.X)*(v.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
