package pipeline

import (
	"context"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/extrude"
	"github.com/matzehuels/cablesection/pkg/mesh"
	"github.com/matzehuels/cablesection/pkg/placement"
	"github.com/matzehuels/cablesection/pkg/render/nodelink"
	"github.com/matzehuels/cablesection/pkg/render/sink"
)

// RenderFormat renders one 2D format from a placed layout. Link formats
// (dot, links) read the resolved links from linked.
func RenderFormat(ctx context.Context, linked *cable.Linked, layout *placement.Layout, format string, opts Options) ([]byte, error) {
	s := layout.Scene()
	svgOpts := buildSVGOptions(opts)
	rasterOpts := []sink.RasterOption{sink.WithScale(opts.Scale)}
	if opts.Backend == BackendRSVG {
		rasterOpts = append(rasterOpts, sink.WithRSVG(svgOpts...))
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(s, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(s, rasterOpts...)
	case FormatPNGBase64:
		data, err := sink.RenderBase64PNG(s, rasterOpts...)
		return []byte(data), err
	case FormatPDF:
		return sink.RenderPDF(s, rasterOpts...)
	case FormatJSON:
		return sink.RenderJSON(s, sink.WithJSONDesign(layout.Name), sink.WithJSONIndent())
	case FormatDOT:
		return []byte(nodelink.ToDOT(linked, nodelink.Options{Detailed: true})), nil
	case FormatLinks:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(linked, nodelink.Options{Detailed: true}))
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q is not a drawing format", format)
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.NoLabels {
		out = append(out, sink.WithoutLabels())
	}
	if opts.NoHatching {
		out = append(out, sink.WithoutHatching())
	}
	return out
}

// BuildModel extrudes a design and encodes it as GLB. It returns the
// encoded model and the number of triangles.
func BuildModel(c cable.Cable, env placement.Env, opts Options) ([]byte, int, error) {
	var (
		m   *mesh.Mesh
		err error
	)
	if opts.Shells {
		m, err = extrude.Shells(c.Layers, opts.ExtrudeOptions())
	} else {
		m, err = extrude.Build(c, env, opts.ExtrudeOptions())
	}
	if err != nil {
		return nil, 0, err
	}
	data, err := mesh.GLB(m, c.Name)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "encode GLB")
	}
	return data, len(m.Faces), nil
}
