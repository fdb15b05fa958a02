// Package colors holds the color rules shared by the 2D and 3D renderers:
// hex parsing, the darken rule used for edges and shadows, the two-letter
// IEC core color codes and the [Source] implementations that decide which
// colors a multi-core layer is painted with.
package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/cablesection/pkg/errors"
)

// Fixed colors used by the layer renderers.
const (
	Copper         = "#ffa600"
	Aluminium      = "#b0b0b0"
	EdgeDark       = "#303030"
	InsulationGray = "#a3a3a3"
	Filler         = "#e8e8e8"
	Tape           = "#bbbbbb"
	Sheath         = "#1f1f1f"
	Armour         = "#b0b0b0"
	White          = "#ffffff"
	Black          = "#000000"
	Connector      = "#0000c8"
)

// InsulationHatch is the hatch token drawn on insulation that has no
// reference color.
const InsulationHatch = "xxx"

// codes maps IEC 60757 core identification codes to display colors.
var codes = map[string]string{
	"bk":   "#1a1a1a",
	"bn":   "#9e360a",
	"rd":   "#ff0000",
	"og":   "#ffa600",
	"ye":   "#ffff00",
	"gn":   "#008000",
	"bu":   "#0000ff",
	"vt":   "#ee82ee",
	"gy":   "#808080",
	"wh":   "#ffffff",
	"pk":   "#FF007F",
	"tq":   "#40e0d0",
	"gnye": "#8ee53f",
	"gd":   "#ffd700",
	"sr":   "#c0c0c0",
}

// Codes returns the known color codes in table order.
func Codes() []string {
	return []string{"bk", "bn", "rd", "og", "ye", "gn", "bu", "vt", "gy", "wh", "pk", "tq", "gnye", "gd", "sr"}
}

// Lookup returns the hex color for a two-letter code. Matching is
// case-insensitive.
func Lookup(code string) (string, error) {
	hex, ok := codes[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return "", errors.New(errors.ErrCodeUnknownColorCode, "%s is not a color", code)
	}
	return hex, nil
}

// ParseHex parses a "#rrggbb" string.
func ParseHex(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidInput, "invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid hex color %q", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustParseHex is ParseHex for colors known to be valid.
func MustParseHex(hex string) color.RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as a lowercase "#rrggbb" string.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Darken scales every channel of hex by (1 - percent/100), truncating and
// clamping at zero. Unparsable input is returned unchanged; layer colors are
// validated before they reach the renderers.
func Darken(hex string, percent float64) string {
	c, err := ParseHex(hex)
	if err != nil {
		return hex
	}
	factor := 1 - percent/100
	scale := func(v uint8) uint8 {
		f := float64(v) * factor
		if f < 0 {
			return 0
		}
		if f > 255 {
			return 255
		}
		return uint8(f)
	}
	return Hex(color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 0xff})
}

// Material returns the conductor color for a conductor material, or
// fallback when the material has no fixed color.
func Material(material, fallback string) string {
	switch material {
	case "Copper":
		return Copper
	case "Aluminium":
		return Aluminium
	}
	return fallback
}

// Or returns hex when set, otherwise def.
func Or(hex, def string) string {
	if strings.TrimSpace(hex) == "" {
		return def
	}
	return hex
}
