// Package sink provides output format renderers for cross-section scenes.
//
// # Overview
//
// A "sink" transforms a composed [scene.Scene] into a final output format:
//
//   - SVG: vector output written with svgo
//   - PNG and PDF: drawn with gonum plot, or converted from SVG with
//     rsvg-convert when [WithRSVG] is given
//   - Base64 PNG: the form stored on design records
//   - JSON: the scene itself, for external tools and round trips
//
// # Coordinates
//
// Scenes are in millimetres with y pointing up. The SVG sink scales by
// [Units] and flips y. The raster sinks fit the viewport into the figure
// with equal scale on both axes. Line widths and font sizes are in points
// and stay constant relative to the figure regardless of cable size.
//
//	s := layout.Scene()
//	svg := sink.RenderSVG(s)
//	png, err := sink.RenderPNG(s, sink.WithScale(2))
//
// [scene.Scene]: github.com/matzehuels/cablesection/pkg/scene
package sink
