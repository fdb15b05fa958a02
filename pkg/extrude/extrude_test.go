package extrude

import (
	"math"
	"testing"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/conductor"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/placement"
	"github.com/matzehuels/cablesection/pkg/scene"
)

func threeCore() cable.Cable {
	return cable.Cable{
		Name:  "3x10",
		Cores: 3,
		Layers: []cable.Layer{
			{Type: cable.PhaseConductor, Diameter: 10, Quantity: 3},
			{Type: cable.PhaseInsulation, Diameter: 14, Thickness: 2, Quantity: 3},
			{Type: cable.Tape, Diameter: 18, Thickness: 2, Quantity: 1},
			{Type: cable.Sheath, Diameter: 22, Thickness: 2, Quantity: 1},
		},
	}
}

func TestBuild(t *testing.T) {
	m, err := Build(threeCore(), placement.Env{}, Options{Length: 100, Step: 5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.Vertices) == 0 {
		t.Fatal("no vertices")
	}
	min, max := m.Bounds()
	if math.Abs(min.Z+max.Z) > 1e-9 {
		t.Errorf("z range %v..%v is not centered", min.Z, max.Z)
	}
	if math.Abs(max.X-11) > 1e-6 {
		t.Errorf("max x = %v, want sheath radius 11", max.X)
	}
	if math.Abs(max.Z-47.5) > 1e-9 {
		t.Errorf("max z = %v, want half of the first layer height 95", max.Z)
	}
}

func TestSolids(t *testing.T) {
	solids, err := Solids(threeCore(), placement.Env{}, Options{})
	if err != nil {
		t.Fatalf("Solids: %v", err)
	}
	count := map[scene.Role]int{}
	for _, s := range solids {
		count[s.Role]++
		if want := DefaultLength - float64(s.Layer+1)*DefaultStep; s.Height != want {
			t.Errorf("layer %d height = %v, want %v", s.Layer, s.Height, want)
		}
	}
	if count[scene.RoleConductor] != 3 || count[scene.RoleSheath] != 1 || count[scene.RoleTape] != 1 {
		t.Errorf("solid roles = %v", count)
	}
	for _, s := range solids {
		if s.Role == scene.RoleSheath && (s.Kind != KindCylinder || s.Sections != 64) {
			t.Errorf("sheath solid = %v with %d sections", s.Kind, s.Sections)
		}
		if s.Role == scene.RoleConductor && s.Sections != 32 {
			t.Errorf("conductor sections = %d", s.Sections)
		}
	}
}

func TestSolidsSector(t *testing.T) {
	c := threeCore()
	for i := range c.Layers[:2] {
		c.Layers[i].Attributes = []conductor.Attribute{{Name: conductor.ShapeAttribute, Value: conductor.ShapedValue}}
	}
	solids, err := Solids(c, placement.Env{}, Options{})
	if err != nil {
		t.Fatalf("Solids: %v", err)
	}
	prisms := 0
	for _, s := range solids {
		if s.Kind == KindPrism {
			prisms++
		}
	}
	if prisms < 3 {
		t.Errorf("sector conductors should extrude as prisms, got %d", prisms)
	}
}

func TestSolidsArmourTape(t *testing.T) {
	c := threeCore()
	c.Layers = append(c.Layers, cable.Layer{
		Type: cable.Armour, Diameter: 24, Thickness: 1, Quantity: 1,
		Attributes: []conductor.Attribute{{Name: cable.ArmourShapeAttribute, Value: "Steel Tape"}},
	})
	solids, err := Solids(c, placement.Env{}, Options{})
	if err != nil {
		t.Fatalf("Solids: %v", err)
	}
	last := solids[len(solids)-1]
	if last.Kind != KindTube || last.Layer != 4 || last.Radius <= last.Inner {
		t.Errorf("armour solid = %+v", last)
	}
}

func TestBuildDegenerate(t *testing.T) {
	_, err := Build(threeCore(), placement.Env{}, Options{Length: 10, Step: 5})
	if !errors.Is(err, errors.ErrCodeDegenerateGeometry) {
		t.Errorf("error = %v, want DEGENERATE_GEOMETRY", err)
	}
}

func TestMergeEmpty(t *testing.T) {
	if _, err := merge(nil); !errors.Is(err, errors.ErrCodeEmptyMesh) {
		t.Errorf("error = %v, want EMPTY_MESH_RESULT", err)
	}
	if _, err := Shells(nil, Options{}); !errors.Is(err, errors.ErrCodeEmptyMesh) {
		t.Errorf("Shells(nil) error = %v", err)
	}
}

func TestBuildNoLayers(t *testing.T) {
	c := cable.Cable{Name: "empty", Cores: 3}
	if _, err := Build(c, placement.Env{}, Options{Length: 100, Step: 5}); !errors.Is(err, errors.ErrCodeEmptyMesh) {
		t.Errorf("Build error = %v, want EMPTY_MESH_RESULT", err)
	}
	if _, err := Solids(c, placement.Env{}, Options{}); !errors.Is(err, errors.ErrCodeEmptyMesh) {
		t.Errorf("Solids error = %v, want EMPTY_MESH_RESULT", err)
	}
}

func TestMergeFailure(t *testing.T) {
	_, err := merge([]Solid{{Kind: KindCylinder, Radius: math.NaN(), Sections: 8, Height: 1}})
	if !errors.Is(err, errors.ErrCodeMeshUnion) {
		t.Errorf("error = %v, want MESH_UNION_FAILURE", err)
	}
}

func TestShells(t *testing.T) {
	layers := []cable.Layer{
		{Type: cable.PhaseConductor, Diameter: 10},
		{Type: cable.PhaseInsulation, Diameter: 14, Thickness: 2},
		{Type: cable.Tape, Diameter: 18, Thickness: 2},
		{Type: cable.Sheath, Diameter: 22, Thickness: 2},
	}
	m, err := Shells(layers, Options{Length: 100, Step: 5})
	if err != nil {
		t.Fatalf("Shells: %v", err)
	}
	if len(m.Vertices) == 0 {
		t.Fatal("no vertices")
	}
	min, max := m.Bounds()
	if math.Abs(min.Z+max.Z) > 1e-9 {
		t.Errorf("z range %v..%v is not centered", min.Z, max.Z)
	}
	if len(m.Groups) != 4 {
		t.Errorf("groups = %d, want one per layer", len(m.Groups))
	}
}
