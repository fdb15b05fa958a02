package colors

import (
	"strings"

	"github.com/matzehuels/cablesection/pkg/errors"
)

// Pair is the two halves of a core's insulation color. Single-color cores
// carry the same value twice; striped cores such as green/yellow earth carry
// two.
type Pair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Solid returns a pair painted with one color.
func Solid(hex string) Pair { return Pair{First: hex, Second: hex} }

// Dual reports whether the halves differ.
func (p Pair) Dual() bool { return p.First != p.Second }

// Source decides how the cores of a layer are colored.
//
// A source is chosen once per generation: design previews use [Positional],
// bill-of-materials drawings use a [Reference] built from the BOM's color
// codes.
type Source interface {
	// Palette returns one pair per core for a layer holding qty cores.
	Palette(qty int) ([]Pair, error)
	// Filled reports whether palette colors paint insulation bodies. When
	// false, insulation is drawn with the neutral hatched style.
	Filled() bool
}

// Positional is the fixed default palette keyed by core count.
type Positional struct{}

var defaultPalettes = map[int][]Pair{
	1: {Solid("#9e360a")},
	2: {Solid("#0000ff"), Solid("#9e360a")},
	3: {Solid("#9e360a"), Solid("#1a1a1a"), Solid("#808080")},
	4: {Solid("#0000ff"), Solid("#9e360a"), Solid("#1a1a1a"), Solid("#808080")},
	5: {Solid("#0000ff"), Solid("#9e360a"), Solid("#1a1a1a"), Solid("#808080"), {First: "#008000", Second: "#ffff00"}},
}

// Palette implements Source.
func (Positional) Palette(qty int) ([]Pair, error) {
	return DefaultPalette(qty)
}

// Filled implements Source.
func (Positional) Filled() bool { return false }

// DefaultPalette returns the default palette for 1 to 5 cores.
func DefaultPalette(qty int) ([]Pair, error) {
	p, ok := defaultPalettes[qty]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedColorCount, "no default colors for %d cores", qty)
	}
	out := make([]Pair, len(p))
	copy(out, p)
	return out, nil
}

// Reference colors cores from a whitespace-separated list of color codes,
// one per core. A code may be a "first/second" pair for striped cores.
type Reference struct {
	Codes string
	pairs []Pair
}

// NewReference resolves codes for a cable with the given core count.
func NewReference(codes string, cores int) (*Reference, error) {
	tokens, err := tokenize(codes, cores)
	if err != nil {
		return nil, err
	}
	pairs := make([]Pair, 0, len(tokens))
	for _, tok := range tokens {
		p, err := ParsePair(tok)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return &Reference{Codes: codes, pairs: pairs}, nil
}

// Palette implements Source. The reference list always covers every core of
// the cable, so qty only bounds how many entries a layer consumes.
func (r *Reference) Palette(int) ([]Pair, error) {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out, nil
}

// Filled implements Source.
func (r *Reference) Filled() bool { return true }

// Resolve maps a color reference string to hex colors, one per core.
// Striped tokens resolve to "first/second".
func Resolve(codes string, cores int) ([]string, error) {
	tokens, err := tokenize(codes, cores)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		p, err := ParsePair(tok)
		if err != nil {
			return nil, err
		}
		if p.Dual() {
			out = append(out, p.First+"/"+p.Second)
		} else {
			out = append(out, p.First)
		}
	}
	return out, nil
}

// ParsePair resolves a single code or a "first/second" code pair.
func ParsePair(token string) (Pair, error) {
	first, second, dual := strings.Cut(token, "/")
	a, err := Lookup(first)
	if err != nil {
		return Pair{}, err
	}
	if !dual {
		return Solid(a), nil
	}
	b, err := Lookup(second)
	if err != nil {
		return Pair{}, err
	}
	return Pair{First: a, Second: b}, nil
}

func tokenize(codes string, cores int) ([]string, error) {
	tokens := strings.Fields(codes)
	if len(tokens) == 0 {
		return nil, errors.New(errors.ErrCodeColorCountMismatch, "reference %q does not refer to any color", codes)
	}
	if len(tokens) != cores {
		return nil, errors.New(errors.ErrCodeColorCountMismatch,
			"no. of referenced colors %d must be equal to no. of design cores %d", len(tokens), cores)
	}
	return tokens, nil
}
