// Package pkg provides the libraries behind cablesection, the cable
// cross-section layout engine.
//
// # Overview
//
// A cable design is an inside-out list of construction layers (phase and
// neutral conductors, insulation, fillers, tapes, sheaths and armour). The
// libraries turn a design into a labelled 2D cross-section and a stepped 3D
// model:
//
//	design (TOML/YAML/JSON)
//	         ↓
//	    [cable] package (validate + resolve layer links)
//	         ↓
//	    [placement] package (layups, sector cores, armour wires, labels)
//	         ↓
//	    [scene] package (paint order + viewport)
//	         ↓
//	    [render/sink] SVG/PNG/PDF/JSON      [extrude] + [mesh] GLB
//
// Reference data lives in [layup] (cores per ring), [conductor] (shaped
// conductor dimensions) and [colors] (IEC core color codes).
//
// # Orchestration
//
// [pipeline] runs placement, rendering and extrusion with caching through
// [cache] (file, memory, Redis). [api] serves the same pipeline over HTTP
// and keeps generated artifacts in a [store] (memory or MongoDB).
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/cablesection/pkg/cable"
//	    "github.com/matzehuels/cablesection/pkg/io"
//	    "github.com/matzehuels/cablesection/pkg/placement"
//	    "github.com/matzehuels/cablesection/pkg/render/sink"
//	)
//
//	design, _ := io.ImportDesign("nyy-4x16.toml")
//	layout, _ := placement.PlaceCable(design, cable.DefaultSchema(), placement.Env{})
//	svg := sink.RenderSVG(layout.Scene())
//
// Errors carry a code from [errors]; use errors.GetCode to branch on them.
package pkg
