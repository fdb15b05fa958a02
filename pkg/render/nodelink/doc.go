// Package nodelink renders the layer link graph of a cable design.
//
// Linking resolves, for every layer, which neighbour insulates it, which
// bounds its ring, and which positions it. When a design lays out wrongly
// these links are usually the cause, and a diagram of them is the quickest
// way to see why.
//
//	l, err := cable.Link(design, cable.DefaultSchema())
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Nodes are layers in order, filled with their configured color. Edges are
// labelled "insulation", "support" or "reference"; [Options].Chain adds the
// "next" links between consecutive layers.
package nodelink
