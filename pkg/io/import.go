package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cablesection/pkg/cable"
	"github.com/matzehuels/cablesection/pkg/errors"
)

// Format is a design file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported encodings.
func Formats() []Format { return []Format{FormatTOML, FormatYAML, FormatJSON} }

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown design file extension %q (want .toml, .yaml or .json)", filepath.Ext(path))
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTOML, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown design format %q", s)
}

// ReadDesign decodes a cable design from r and validates it.
//
// A design has a name, a core count, optional color codes and an ordered
// list of layers from the inside out:
//
//	name = "3x10 PVC"
//	cores = 3
//
//	[[layers]]
//	type = "phase_conductor"
//	diameter = 10.0
//	quantity = 3
//
// Unknown fields are rejected in JSON and YAML and ignored in TOML only
// when they are undecoded keys of known tables. ReadDesign does not close r.
func ReadDesign(r io.Reader, format Format) (cable.Cable, error) {
	var c cable.Cable
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&c)
		if err != nil {
			return c, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML design")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return c, errors.New(errors.ErrCodeInvalidFormat, "unknown design key %q", keys[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return c, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML design")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return c, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON design")
		}
	default:
		return c, errors.New(errors.ErrCodeInvalidFormat, "unknown design format %q", format)
	}
	if err := cable.Validate(c); err != nil {
		return c, err
	}
	return c, nil
}

// ImportDesign reads the design file at path, choosing the decoder from the
// file extension. A design without a name takes the file's base name.
func ImportDesign(path string) (cable.Cable, error) {
	format, err := FormatOf(path)
	if err != nil {
		return cable.Cable{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return cable.Cable{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()

	c, err := ReadDesign(f, format)
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}
