package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/colors"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/render"
)

// Options configures link diagram rendering.
type Options struct {
	// Detailed includes diameter, thickness and quantity in node labels.
	// When false, only the layer label is shown.
	Detailed bool
	// Chain draws the next/previous links between consecutive layers.
	// They are implied by the layer order and hidden by default.
	Chain bool
}

// edge kinds in drawing order, with their Graphviz style.
var linkStyles = []struct {
	name  string
	get   func(cable.Links) int
	attrs string
}{
	{"insulation", func(l cable.Links) int { return l.Insulation }, `color="#c60000"`},
	{"support", func(l cable.Links) int { return l.Support }, `color="#0000c6"`},
	{"reference", func(l cable.Links) int { return l.Reference }, `color="#008000", style=dashed`},
	{"next", func(l cable.Links) int { return l.Next }, `color=grey, style=dotted`},
}

// ToDOT converts the resolved layer links of a design to Graphviz DOT.
// Each layer is a node filled with its display color; each link is an edge
// labelled with its role.
func ToDOT(l *cable.Linked, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	for i, layer := range l.Cable.Layers {
		attrs := fmtAttrs(layer, fmtLabel(i, layer, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, links := range l.Links {
		for _, ls := range linkStyles {
			if ls.name == "next" && !opts.Chain {
				continue
			}
			j := ls.get(links)
			if j == cable.None {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, %s];\n", nodeID(i), nodeID(j), ls.name, ls.attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "L" + strconv.Itoa(i) }

func fmtLabel(i int, layer cable.Layer, detailed bool) string {
	label := fmt.Sprintf("%d: %s", i, layer.Label())
	if !detailed {
		return label
	}
	parts := []string{
		fmt.Sprintf("type: %s", layer.Type),
		fmt.Sprintf("diameter: %g mm", layer.Diameter),
	}
	if layer.Thickness > 0 {
		parts = append(parts, fmt.Sprintf("thickness: %g mm", layer.Thickness))
	}
	if layer.Quantity > 1 {
		parts = append(parts, fmt.Sprintf("quantity: %d", layer.Quantity))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(layer cable.Layer, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if layer.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colors.Darken(layer.Color, 0)))
	}
	if !layer.Type.Known() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderBackend, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderBackend, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// whose width and height equal the viewBox, so the diagram scales cleanly
// when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	out, err := render.ToPNG(svg, scale)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderBackend, err, "convert links to PNG")
	}
	return out, nil
}
