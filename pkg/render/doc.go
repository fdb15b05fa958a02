// Package render turns composed cable cross-section scenes into files.
//
// # Overview
//
// Placement produces a [scene.Scene]: ordered primitives plus annotations in
// millimetre coordinates. The subpackages of render draw that scene:
//
//   - [sink]: SVG (svgo), PNG and PDF (gonum plot), base64 PNG and JSON
//   - [nodelink]: the layer link graph of a design as DOT or SVG (Graphviz)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The raster sink uses them
// when asked to, and falls back to its own canvas otherwise.
//
//	svg := sink.RenderSVG(s)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x zoom
//
// [scene.Scene]: github.com/matzehuels/cablesection/pkg/scene
// [sink]: github.com/matzehuels/cablesection/pkg/render/sink
// [nodelink]: github.com/matzehuels/cablesection/pkg/render/nodelink
package render
