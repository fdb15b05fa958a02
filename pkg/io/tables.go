package io

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/cablesection/pkg/conductor"
	"github.com/matzehuels/cablesection/pkg/errors"
	"github.com/matzehuels/cablesection/pkg/layup"
)

// ImportLayups reads a TOML layup table from path.
func ImportLayups(path string) (*layup.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open layup table")
	}
	defer f.Close()
	return layup.Load(f)
}

// ImportConductors reads a TOML conductor table from path.
func ImportConductors(path string) (*conductor.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open conductor table")
	}
	defer f.Close()
	return conductor.Load(f)
}

// DesignFiles lists the design files directly inside dir, sorted by name.
// Files with other extensions are ignored.
func DesignFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatOf(e.Name()); err != nil {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
