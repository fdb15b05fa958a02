package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/pipeline"
	"github.com/matzehuels/cablesection/pkg/placement"
)

const threeCoreTOML = `
name = "NYY 3x10"
cores = 3

[[layers]]
type = "phase_conductor"
diameter = 10.0
quantity = 3

[[layers]]
type = "phase_insulation"
diameter = 14.0
thickness = 2.0
quantity = 3

[[layers]]
type = "filler"
diameter = 18.0
thickness = 2.0
quantity = 1

[[layers]]
type = "sheath"
diameter = 22.0
thickness = 2.0
quantity = 1
`

// testCLI isolates config and cache directories and returns a CLI with a
// discarded log.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func writeDesign(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	design := writeDesign(t, dir, "nyy.toml", threeCoreTOML)

	if err := run(t, testCLI(t), "render", design, "-f", "svg,json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"nyy.svg", "nyy.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRenderCommandSingleOutput(t *testing.T) {
	dir := t.TempDir()
	design := writeDesign(t, dir, "nyy.toml", threeCoreTOML)
	out := filepath.Join(dir, "out", "drawing.svg")

	if err := run(t, testCLI(t), "render", design, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output is not SVG: %.60q", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	design := writeDesign(t, dir, "nyy.toml", threeCoreTOML)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.toml")}},
		{"bad format", []string{"render", design, "-f", "gif"}},
		{"no args", []string{"render"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, testCLI(t), tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestModelCommand(t *testing.T) {
	dir := t.TempDir()
	design := writeDesign(t, dir, "nyy.toml", threeCoreTOML)

	if err := run(t, testCLI(t), "model", design, "--length", "40", "--step", "4"); err != nil {
		t.Fatalf("model: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "nyy.glb"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("glTF")) {
		t.Errorf("output does not start with the GLB magic: %.8q", data)
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeDesign(t, dir, "a.toml", threeCoreTOML)
	writeDesign(t, dir, "b.toml", strings.Replace(threeCoreTOML, "NYY 3x10", "NYY 3x10 B", 1))
	out := t.TempDir()

	if err := run(t, testCLI(t), "batch", dir, "-o", out, "-j", "2"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, name := range []string{"a.svg", "b.svg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestBatchCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeDesign(t, dir, "good.toml", threeCoreTOML)
	writeDesign(t, dir, "bad.toml", "name = \"bad\"\ncores = 0\n")

	err := run(t, testCLI(t), "batch", dir, "-o", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("batch error = %v, want 1 of 2 designs failed", err)
	}
}

func TestInfoCommands(t *testing.T) {
	dir := t.TempDir()
	design := writeDesign(t, dir, "nyy.toml", threeCoreTOML)

	tests := [][]string{
		{"layup"},
		{"layup", "7"},
		{"colors"},
		{"colors", "bn bk gy"},
		{"links", design},
		{"links", design, "--detailed"},
		{"inspect", design, "--plain"},
		{"cache", "path"},
		{"cache", "stats"},
		{"cache", "prune"},
		{"cache", "clear"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if err := run(t, testCLI(t), args...); err != nil {
				t.Errorf("%v: %v", args, err)
			}
		})
	}
}

func TestInfoCommandErrors(t *testing.T) {
	tests := [][]string{
		{"layup", "20"},
		{"layup", "many"},
		{"colors", "bn zz"},
		{"colors", "bn bk", "--cores", "3"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if err := run(t, testCLI(t), args...); err == nil {
				t.Errorf("%v: expected an error", args)
			}
		})
	}
}

func TestExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	design := writeDesign(t, dir, "nyy.toml", threeCoreTOML)
	cfgPath := writeDesign(t, dir, "cfg.toml", "[render]\nformats = [\"json\"]\n\n[cache]\nbackend = \"none\"\n")

	if err := run(t, testCLI(t), "--config", cfgPath, "render", design); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nyy.json")); err != nil {
		t.Errorf("configured format not rendered: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nyy.svg")); err == nil {
		t.Error("svg rendered although the config selects json only")
	}

	if err := run(t, testCLI(t), "--config", filepath.Join(dir, "missing.toml"), "layup"); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestParseFormats(t *testing.T) {
	def := []string{"svg"}
	tests := []struct {
		in   string
		want []string
	}{
		{"", def},
		{"  ", def},
		{"png", []string{"png"}},
		{"svg, png ,,pdf", []string{"svg", "png", "pdf"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in, def)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLayerListModel(t *testing.T) {
	c := cable.Cable{Name: "NYY 3x10", Cores: 3, Layers: []cable.Layer{
		{Type: cable.PhaseConductor, Diameter: 10, Quantity: 3},
		{Type: cable.PhaseInsulation, Diameter: 14, Thickness: 2, Quantity: 3},
		{Type: cable.Filler, Diameter: 18, Thickness: 2, Quantity: 1},
		{Type: cable.Sheath, Diameter: 22, Thickness: 2, Quantity: 1},
	}}
	linked, err := cable.Link(c, cable.DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	layout, err := placement.Place(linked, placement.Env{})
	if err != nil {
		t.Fatal(err)
	}

	m := NewLayerListModel(linked, layout)
	view := m.View()
	for _, want := range []string{"NYY 3x10", "phase_conductor", "conductor ×"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, _ := m.Update(keyMsg("down"))
	m = next.(LayerListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}
	next, _ = m.Update(keyMsg("G"))
	m = next.(LayerListModel)
	if m.Cursor != 3 {
		t.Errorf("cursor after end = %d, want 3", m.Cursor)
	}
	next, _ = m.Update(keyMsg("up"))
	if next.(LayerListModel).Cursor != 2 {
		t.Errorf("cursor after up = %d, want 2", next.(LayerListModel).Cursor)
	}
	if got := m.linkName(cable.None); got != "—" {
		t.Errorf("linkName(None) = %q", got)
	}
}

func TestBatchRow(t *testing.T) {
	row := batchRow(pipeline.BatchItem{Design: "x", Result: &pipeline.Result{Stats: pipeline.Stats{Layers: 4, Items: 12}}}, "ok")
	if strings.Join(row, "|") != "x|4|12|ok" {
		t.Errorf("batchRow = %v", row)
	}
	row = batchRow(pipeline.BatchItem{Design: "y"}, "failed")
	if strings.Join(row, "|") != "y|—|—|failed" {
		t.Errorf("batchRow = %v", row)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"s", []string{"svg"}},
		{"p", []string{"pdf", "png", "png64"}},
		{"svg,p", []string{"svg,pdf", "svg,png", "svg,png64"}},
		{"svg,png,", []string{"svg,png,dot", "svg,png,glb", "svg,png,json", "svg,png,links", "svg,png,pdf", "svg,png,png64"}},
		{"x", nil},
	}
	for _, tt := range tests {
		got, dir := completeFormats(nil, nil, tt.in)
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Errorf("completeFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if dir&cobra.ShellCompDirectiveNoSpace == 0 {
			t.Errorf("completeFormats(%q) adds a space after the value", tt.in)
		}
	}
}

func TestCompletions(t *testing.T) {
	root := testCLI(t).RootCommand()
	for _, name := range []string{"render", "model", "links", "inspect", "batch"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.ValidArgsFunction == nil {
			t.Errorf("%s has no argument completion", name)
		}
	}

	exts, dir := completeDesign(nil, nil, "")
	if dir != cobra.ShellCompDirectiveFilterFileExt || !strings.Contains(strings.Join(exts, ","), "toml") {
		t.Errorf("completeDesign = %v, %v", exts, dir)
	}
	if _, dir := completeDesign(nil, []string{"a.toml"}, ""); dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second design argument completes files")
	}
	if got, _ := completeBackends(nil, nil, "r"); len(got) != 1 || got[0] != pipeline.BackendRSVG {
		t.Errorf("completeBackends(r) = %v", got)
	}

	var buf bytes.Buffer
	root.SetArgs([]string{"completion", "bash"})
	root.SetOut(&buf)
	if err := root.Execute(); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(buf.String(), "cablesection") {
		t.Error("bash script does not mention cablesection")
	}
}
