package conductor

import (
	"strings"
	"testing"

	"github.com/matzehuels/cablesection/pkg/errors"
)

func attrs(kv ...string) []Attribute {
	var out []Attribute
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Attribute{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

func TestResolve(t *testing.T) {
	tbl := Default()
	tests := []struct {
		name     string
		q        Query
		shape    Shape
		material string
		code     errors.Code
	}{
		{
			name:     "circular copper",
			q:        Query{Attributes: attrs("Conductor Shape", "Circular", "Conductor Material", "Copper"), Quantity: 3},
			shape:    Circular,
			material: "Copper",
		},
		{
			name:     "shaped aluminium matches core count",
			q:        Query{Attributes: attrs("Conductor Shape", "Shaped", "Conductor Material", "Aluminium"), Quantity: 4},
			shape:    Sector,
			material: "Aluminium",
		},
		{
			name: "shaped with unknown core count",
			q:    Query{Attributes: attrs("Conductor Shape", "Shaped"), Quantity: 9},
			code: errors.ErrCodeConductorDimensionNotFound,
		},
		{
			name: "unknown material",
			q:    Query{Attributes: attrs("Conductor Material", "Gold")},
			code: errors.ErrCodeConductorDimensionNotFound,
		},
		{
			name:     "unmapped attributes are ignored",
			q:        Query{Attributes: attrs("Voltage", "0.6/1kV", "Conductor Shape", "Circular")},
			shape:    Circular,
			material: "Copper",
		},
		{
			name:     "neutral shape attribute",
			q:        Query{Attributes: attrs("Neutral Conductor Shape", "Shaped", "Conductor Material", "Copper"), Quantity: 4},
			shape:    Sector,
			material: "Copper",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := tbl.Resolve(tt.q)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Resolve() error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(): %v", err)
			}
			if info.Shape != tt.shape || info.Material != tt.material {
				t.Errorf("Resolve() = %+v, want %s/%s", info, tt.shape, tt.material)
			}
		})
	}
}

func TestResolveLowestIDWins(t *testing.T) {
	tbl := NewTable([]Row{
		{ID: 9, Shape: "Circular", Material: "Aluminium"},
		{ID: 3, Shape: "Circular", Material: "Copper"},
	}, nil)
	info, err := tbl.Resolve(Query{Attributes: attrs("Conductor Shape", "Circular")})
	if err != nil {
		t.Fatal(err)
	}
	if info.RowID != 3 {
		t.Errorf("RowID = %d, want 3", info.RowID)
	}
}

func TestResolveCustomSelection(t *testing.T) {
	tbl := NewTable([]Row{
		{ID: 1, Shape: "Circular", Material: "Copper", Columns: map[string]string{"class": "2"}},
		{ID: 2, Shape: "Circular", Material: "Copper", Columns: map[string]string{"class": "5"}},
	}, nil)
	info, err := tbl.Resolve(Query{
		Attributes: attrs("Conductor Class", "5"),
		Selection:  []Selection{{Attribute: "Conductor Class", Column: "class"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if info.RowID != 2 {
		t.Errorf("RowID = %d, want 2", info.RowID)
	}
}

func TestResolveNeutral(t *testing.T) {
	tbl := NewTable([]Row{
		{ID: 1, Shape: "Circular", Material: "Copper", Size: "95"},
		{ID: 2, Shape: "Circular", Material: "Copper", Size: "50"},
	}, map[string]string{"95": "50"})
	q := Query{Attributes: attrs("Conductor Shape", "Circular")}

	info, err := tbl.ResolveNeutral(q, "95")
	if err != nil {
		t.Fatal(err)
	}
	if info.RowID != 2 {
		t.Errorf("neutral RowID = %d, want 2", info.RowID)
	}

	info, _ = tbl.ResolveNeutral(q, "")
	if info.RowID != 1 {
		t.Errorf("unmapped neutral RowID = %d, want 1", info.RowID)
	}
}

func TestLoad(t *testing.T) {
	src := `
[[conductor]]
id = 2
conductor_shape = "Shaped"
conductor_material = "Aluminium"
no_cores = 3

[[conductor]]
id = 1
conductor_shape = "Circular"
conductor_material = "Copper"

[neutral_sizes]
"95" = "50"
`
	tbl, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d", tbl.Len())
	}
	info, err := tbl.Resolve(Query{Attributes: attrs("Conductor Shape", "Shaped"), Quantity: 3})
	if err != nil || info.Shape != Sector {
		t.Errorf("Resolve shaped = %+v, %v", info, err)
	}
}
