package cable

import (
	"github.com/matzehuels/cablesection/pkg/colors"
	"github.com/matzehuels/cablesection/pkg/errors"
)

// Schema holds the conventions that tie layers to their neighbours.
// Designs with up to MaxPackedCores cores are packed on a single ring whose
// bounding layer sits SupportOffsetFull layers after the conductor when the
// conductor layer carries every core, or SupportOffsetPartial layers after
// it when helper layers (a neutral with its insulation) sit in between.
type Schema struct {
	MaxPackedCores        int `toml:"max_packed_cores" json:"max_packed_cores"`
	SupportOffsetFull     int `toml:"support_offset_full" json:"support_offset_full"`
	SupportOffsetPartial  int `toml:"support_offset_partial" json:"support_offset_partial"`
	NeutralReferenceIndex int `toml:"neutral_reference_index" json:"neutral_reference_index"`
}

// DefaultSchema returns the conventional layer schema.
func DefaultSchema() Schema {
	return Schema{
		MaxPackedCores:        4,
		SupportOffsetFull:     2,
		SupportOffsetPartial:  4,
		NeutralReferenceIndex: 4,
	}
}

// WithDefaults fills zero fields from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	if s.MaxPackedCores <= 0 {
		s.MaxPackedCores = d.MaxPackedCores
	}
	if s.SupportOffsetFull <= 0 {
		s.SupportOffsetFull = d.SupportOffsetFull
	}
	if s.SupportOffsetPartial <= 0 {
		s.SupportOffsetPartial = d.SupportOffsetPartial
	}
	if s.NeutralReferenceIndex <= 0 {
		s.NeutralReferenceIndex = d.NeutralReferenceIndex
	}
	return s
}

// None marks an absent link.
const None = -1

// Links are the resolved neighbour references of one layer, as indices into
// the cable's layer list or None.
type Links struct {
	// Insulation is the layer insulating this conductor.
	Insulation int `json:"insulation"`
	// Support is the layer whose diameter bounds the core ring (phase
	// conductors) or the sector radius (neutral conductors).
	Support int `json:"support"`
	// Next is the layer wrapping this one.
	Next int `json:"next"`
	// Previous is the layer this one wraps.
	Previous int `json:"previous"`
	// Reference is the layer that positions a neutral conductor.
	Reference int `json:"reference"`
}

func noLinks() Links {
	return Links{Insulation: None, Support: None, Next: None, Previous: None, Reference: None}
}

// Linked is a validated cable with resolved links.
type Linked struct {
	Cable  Cable
	Schema Schema
	Links  []Links
}

// Layer returns layer i.
func (l *Linked) Layer(i int) Layer { return l.Cable.Layers[i] }

// Packed reports whether the cable's cores sit on a single ring.
func (l *Linked) Packed() bool { return l.Cable.Cores <= l.Schema.MaxPackedCores }

// FullRing reports whether layer i carries every core of the cable.
func (l *Linked) FullRing(i int) bool { return l.Cable.Layers[i].Quantity == l.Cable.Cores }

// Get returns the layer a link points at, failing with INDEX_OUT_OF_RANGE
// when the link is absent.
func (l *Linked) Get(i, link int, role string) (Layer, error) {
	if link == None || link < 0 || link >= len(l.Cable.Layers) {
		return Layer{}, errors.New(errors.ErrCodeIndexOutOfRange,
			"layer %d (%s) has no %s layer", i, l.Cable.Layers[i].Type, role)
	}
	return l.Cable.Layers[link], nil
}

// Link validates c and resolves the neighbour links of every layer.
//
// Links a layer always needs are checked here; a missing one fails with
// INDEX_OUT_OF_RANGE. Links that only some shapes need (the sector radius
// layer of a neutral conductor) are recorded when present and checked by
// the placement code that reads them.
func Link(c Cable, schema Schema) (*Linked, error) {
	schema = schema.WithDefaults()
	if err := Validate(c); err != nil {
		return nil, err
	}

	n := len(c.Layers)
	at := func(j int) int {
		if j < 0 || j >= n {
			return None
		}
		return j
	}
	require := func(i, j int, role string) error {
		if j < 0 || j >= n {
			return errors.New(errors.ErrCodeIndexOutOfRange,
				"layer %d (%s) needs its %s at position %d, but the cable has %d layers",
				i, c.Layers[i].Type, role, j, n)
		}
		return nil
	}

	links := make([]Links, n)
	for i, layer := range c.Layers {
		lk := noLinks()
		lk.Next = at(i + 1)
		lk.Previous = at(i - 1)

		switch layer.Type {
		case PhaseConductor:
			offset := schema.SupportOffsetPartial
			if layer.Quantity == c.Cores {
				offset = schema.SupportOffsetFull
			}
			if err := require(i, i+1, "insulation"); err != nil {
				return nil, err
			}
			if err := require(i, i+offset, "support layer"); err != nil {
				return nil, err
			}
			lk.Insulation, lk.Support = i+1, i+offset

		case PhaseInsulation:
			if c.Cores <= schema.MaxPackedCores {
				if err := require(i, i+1, "enclosing layer"); err != nil {
					return nil, err
				}
			} else if err := require(i, i-1, "conductor layer"); err != nil {
				return nil, err
			}

		case NeutralConductor:
			if err := require(i, i+1, "insulation"); err != nil {
				return nil, err
			}
			if err := require(i, schema.NeutralReferenceIndex, "reference layer"); err != nil {
				return nil, err
			}
			lk.Insulation = i + 1
			lk.Support = at(i + 2)
			lk.Reference = schema.NeutralReferenceIndex

		case Armour:
			if err := require(i, i-1, "bedding layer"); err != nil {
				return nil, err
			}
		}
		links[i] = lk
	}
	return &Linked{Cable: c, Schema: schema, Links: links}, nil
}

// Validate checks the structural invariants of a design.
func Validate(c Cable) error {
	if c.Cores <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cable must have at least one core, got %d", c.Cores)
	}
	prev := 0.0
	for i, l := range c.Layers {
		switch {
		case l.Diameter < 0 || l.Thickness < 0 || l.CustomDiameter < 0:
			return errors.New(errors.ErrCodeInvalidInput, "layer %d (%s) has negative dimensions", i, l.Type)
		case l.Quantity < 0:
			return errors.New(errors.ErrCodeInvalidInput, "layer %d (%s) has negative quantity", i, l.Type)
		case l.Diameter < prev:
			return errors.New(errors.ErrCodeInvalidInput,
				"layer %d (%s) diameter %.2f is smaller than the layer it wraps (%.2f)", i, l.Type, l.Diameter, prev)
		case l.StripWidthMeasure != "" && l.StripWidthMeasure != Degrees && l.StripWidthMeasure != Millimeters:
			return errors.New(errors.ErrCodeInvalidInput, "layer %d: unknown strip width measure %q", i, l.StripWidthMeasure)
		}
		for _, hex := range []string{l.Color, l.StripColor} {
			if hex == "" {
				continue
			}
			if _, err := colors.ParseHex(hex); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "layer %d (%s)", i, l.Type)
			}
		}
		prev = l.Diameter
	}
	return nil
}
