package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/conductor"
	"github.com/matzehuels/cablesection/pkg/errors"
)

const tomlDesign = `
name = "3x10"
cores = 3
color_codes = "bn bk gy"

[[layers]]
type = "phase_conductor"
diameter = 10.0
quantity = 3

  [[layers.attributes]]
  name = "Conductor Material"
  value = "Copper"

[[layers]]
type = "phase_insulation"
diameter = 14.0
thickness = 2.0
quantity = 3

[[layers]]
type = "sheath"
diameter = 22.0
thickness = 2.0
quantity = 1
strip_width = 10.0
strip_width_measure = "degrees"
`

func TestReadDesignTOML(t *testing.T) {
	c, err := ReadDesign(strings.NewReader(tomlDesign), FormatTOML)
	if err != nil {
		t.Fatalf("ReadDesign: %v", err)
	}
	if c.Name != "3x10" || c.Cores != 3 || len(c.Layers) != 3 || c.ColorCodes != "bn bk gy" {
		t.Fatalf("design = %+v", c)
	}
	if got := c.Layers[0].Attributes; len(got) != 1 || got[0] != (conductor.Attribute{Name: "Conductor Material", Value: "Copper"}) {
		t.Errorf("attributes = %+v", got)
	}
	if c.Layers[2].StripWidthMeasure != "degrees" {
		t.Errorf("strip measure = %q", c.Layers[2].StripWidthMeasure)
	}
}

func TestRoundTrip(t *testing.T) {
	want, err := ReadDesign(strings.NewReader(tomlDesign), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteDesign(&buf, want, f); err != nil {
				t.Fatalf("WriteDesign: %v", err)
			}
			got, err := ReadDesign(&buf, f)
			if err != nil {
				t.Fatalf("ReadDesign: %v\n%s", err, buf.String())
			}
			if got.Name != want.Name || len(got.Layers) != len(want.Layers) || got.Layers[1].Thickness != 2 {
				t.Errorf("round trip = %+v", got)
			}
		})
	}
}

func TestReadDesignErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		code   errors.Code
	}{
		{"malformed json", "{", FormatJSON, errors.ErrCodeInvalidFormat},
		{"unknown json field", `{"name":"x","cores":1,"bogus":1}`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"unknown yaml field", "name: x\nbogus: 1\n", FormatYAML, errors.ErrCodeInvalidFormat},
		{"unknown toml key", "name = \"x\"\nbogus = 1\n", FormatTOML, errors.ErrCodeInvalidFormat},
		{"invalid design", `{"name":"x","cores":0,"layers":[]}`, FormatJSON, errors.ErrCodeInvalidInput},
		{"unknown format", "", Format("xml"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDesign(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	c := cable.Cable{Cores: 1, Layers: []cable.Layer{
		{Type: cable.PhaseConductor, Diameter: 4, Quantity: 1},
		{Type: cable.PhaseInsulation, Diameter: 6, Thickness: 1, Quantity: 1},
		{Type: cable.Sheath, Diameter: 9, Thickness: 1.5, Quantity: 1},
	}}
	path := filepath.Join(dir, "single.yaml")
	if err := ExportDesign(c, path); err != nil {
		t.Fatalf("ExportDesign: %v", err)
	}
	got, err := ImportDesign(path)
	if err != nil {
		t.Fatalf("ImportDesign: %v", err)
	}
	if got.Name != "single" {
		t.Errorf("Name = %q, want file base name", got.Name)
	}

	if _, err := ImportDesign(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportDesign(filepath.Join(dir, "x.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension error = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"TOML": FormatTOML, "yml": FormatYAML, "json": FormatJSON} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestImportTables(t *testing.T) {
	dir := t.TempDir()
	layups := filepath.Join(dir, "layups.toml")
	if err := os.WriteFile(layups, []byte("[[layup]]\ncores = 2\nrings = [2, 0]\nmultiplier = 2.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lt, err := ImportLayups(layups)
	if err != nil {
		t.Fatalf("ImportLayups: %v", err)
	}
	cfg, err := lt.Lookup(2)
	if err != nil || len(cfg.Rings) != 1 {
		t.Errorf("Lookup(2) = %+v, %v", cfg, err)
	}

	conductors := filepath.Join(dir, "conductors.toml")
	if err := os.WriteFile(conductors, []byte("[[conductor]]\nid = 1\nconductor_shape = \"Circular\"\nconductor_material = \"Copper\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ct, err := ImportConductors(conductors)
	if err != nil {
		t.Fatalf("ImportConductors: %v", err)
	}
	if ct.Len() != 1 {
		t.Errorf("conductor table has %d rows", ct.Len())
	}

	if _, err := ImportLayups(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing table: err = %v", err)
	}
}

func TestDesignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.toml", "notes.txt", "c.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.toml"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := DesignFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if got := strings.Join(names, ","); got != "a.toml,b.yaml,c.json" {
		t.Errorf("DesignFiles() = %s", got)
	}
}
