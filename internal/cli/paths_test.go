package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/matzehuels/cablesection/internal/config"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "designs/nyy.toml", "designs/nyy"},
		{"out/nyy.svg", "nyy.toml", "out/nyy"},
		{"out/nyy", "nyy.toml", "out/nyy"},
		{"out/nyy.v2", "nyy.toml", "out/nyy.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths([]string{"svg", "png64", "links"}, "", "nyy.toml")
	want := map[string]string{
		"svg":   "nyy.svg",
		"png64": "nyy.png.b64",
		"links": "nyy.links.svg",
	}
	for f, p := range want {
		if got[f] != p {
			t.Errorf("outputPaths[%s] = %q, want %q", f, got[f], p)
		}
	}

	single := outputPaths([]string{"pdf"}, "drawing.out", "nyy.toml")
	if single["pdf"] != "drawing.out" {
		t.Errorf("single output = %q, want drawing.out", single["pdf"])
	}
}

func TestCacheDirConfigured(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Dir = dir
	c := &CLI{Logger: newLogger(io.Discard, LogInfo), cfg: cfg}

	got, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if got != dir {
		t.Errorf("cacheDir() = %q, want %q", got, dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	c := &CLI{Logger: newLogger(io.Discard, LogInfo), cfg: config.Default()}

	got, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	want := filepath.Join("/tmp/custom-cache", appName)
	if got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
