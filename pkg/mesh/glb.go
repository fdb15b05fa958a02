package mesh

import (
	"bytes"
	"image/color"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Document converts m to a glTF document with one primitive and one
// material per group. Faces outside any group share a grey default.
func Document(m *Mesh, name string) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "cablesection"

	pos := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		pos[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	position := modeler.WritePosition(doc, pos)

	groups := m.Groups
	if len(groups) == 0 {
		groups = []Group{{Name: name, Color: color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}, Count: len(m.Faces)}}
	}

	gm := &gltf.Mesh{Name: name}
	for _, g := range groups {
		if g.Count == 0 {
			continue
		}
		indices := make([]uint32, 0, 3*g.Count)
		for _, f := range m.Faces[g.Start : g.Start+g.Count] {
			indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
		}
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:        g.Name,
			DoubleSided: true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{
					float64(g.Color.R) / 255,
					float64(g.Color.G) / 255,
					float64(g.Color.B) / 255,
					float64(g.Color.A) / 255,
				},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(0.8),
			},
		})
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: gltf.PrimitiveAttributes{gltf.POSITION: position},
			Material:   gltf.Index(len(doc.Materials) - 1),
		})
	}
	doc.Meshes = []*gltf.Mesh{gm}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

// EncodeGLB writes m as binary glTF.
func EncodeGLB(w io.Writer, m *Mesh, name string) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(Document(m, name))
}

// GLB returns m as binary glTF bytes.
func GLB(m *Mesh, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeGLB(&buf, m, name); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
