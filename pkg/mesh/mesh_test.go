package mesh

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/cablesection/pkg/geometry"
)

func TestCylinder(t *testing.T) {
	m := Cylinder(r2.Vec{X: 1, Y: 2}, 2, 10, BodySections)
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := math.Pi * 4 * 10
	if got := m.Volume(); math.Abs(got-want)/want > 0.01 {
		t.Errorf("Volume() = %v, want ≈ %v", got, want)
	}
	min, max := m.Bounds()
	if min.Z != 0 || max.Z != 10 || math.Abs(min.X+1) > 1e-9 || math.Abs(max.X-3) > 1e-9 {
		t.Errorf("Bounds() = %v %v", min, max)
	}
}

func TestTube(t *testing.T) {
	m := Tube(r2.Vec{}, 3, 5, 4, Sections)
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := math.Pi * (25 - 9) * 4
	if got := m.Volume(); got <= 0 || math.Abs(got-want)/want > 0.02 {
		t.Errorf("Volume() = %v, want ≈ %v", got, want)
	}
	if full := Tube(r2.Vec{}, 0, 5, 4, Sections); len(full.Faces) != len(Cylinder(r2.Vec{}, 5, 4, Sections).Faces) {
		t.Error("zero inner radius should build a cylinder")
	}
}

func TestPrismOrientation(t *testing.T) {
	cw := geometry.Polygon{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 0}}
	m := Prism(cw, 5)
	if got := m.Volume(); math.Abs(got-30) > 1e-9 {
		t.Errorf("Volume() = %v, want 30", got)
	}
	if !Prism(geometry.Polygon{{}, {X: 1}}, 1).Empty() {
		t.Error("prism of a segment should be empty")
	}
}

func TestCenterZ(t *testing.T) {
	m := Cylinder(r2.Vec{}, 1, 8, Sections).CenterZ()
	min, max := m.Bounds()
	if min.Z != -4 || max.Z != 4 {
		t.Errorf("z range = %v..%v", min.Z, max.Z)
	}
}

func TestMerge(t *testing.T) {
	a := Cylinder(r2.Vec{}, 1, 2, Sections).Paint("a", color.RGBA{R: 255, A: 255})
	b := Tube(r2.Vec{}, 1, 2, 2, Sections).Paint("b", color.RGBA{B: 255, A: 255})
	m, err := Merge(a, nil, &Mesh{}, b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(m.Vertices) != len(a.Vertices)+len(b.Vertices) || len(m.Faces) != len(a.Faces)+len(b.Faces) {
		t.Errorf("merged sizes %d/%d", len(m.Vertices), len(m.Faces))
	}
	if len(m.Groups) != 2 || m.Groups[1].Start != len(a.Faces) || m.Groups[1].Count != len(b.Faces) {
		t.Errorf("groups = %+v", m.Groups)
	}
	if m.Faces[len(a.Faces)][0] < len(a.Vertices) {
		t.Error("second mesh faces not renumbered")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    *Mesh
	}{
		{"nan vertex", &Mesh{Vertices: []r3.Vec{{X: math.NaN()}, {X: 1}, {Y: 1}}, Faces: [][3]int{{0, 1, 2}}}},
		{"index out of range", &Mesh{Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}}, Faces: [][3]int{{0, 1, 3}}}},
		{"degenerate", &Mesh{Vertices: []r3.Vec{{}, {X: 1}, {X: 2}}, Faces: [][3]int{{0, 1, 2}}}},
		{"bad group", &Mesh{Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}}, Faces: [][3]int{{0, 1, 2}}, Groups: []Group{{Start: 0, Count: 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); err == nil {
				t.Error("expected error")
			}
			if _, err := Merge(tt.m); err == nil {
				t.Error("Merge accepted an invalid mesh")
			}
		})
	}
}

func TestGLB(t *testing.T) {
	a := Cylinder(r2.Vec{}, 1, 2, Sections).Paint("conductor", color.RGBA{R: 0xb8, G: 0x73, B: 0x33, A: 0xff})
	b := Tube(r2.Vec{}, 1, 2, 2, Sections).Paint("sheath", color.RGBA{A: 0xff})
	m, err := Merge(a, b)
	if err != nil {
		t.Fatal(err)
	}
	data, err := GLB(m, "3x10")
	if err != nil {
		t.Fatalf("GLB: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("glTF")) {
		t.Fatal("output is not binary glTF")
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 2 {
		t.Fatalf("meshes = %d", len(doc.Meshes))
	}
	if len(doc.Materials) != 2 || doc.Materials[1].Name != "sheath" {
		t.Errorf("materials = %+v", doc.Materials)
	}
}
