// Package layup provides the layup configuration table: for a given core
// count, how many cores sit in each concentric ring and the diameter
// multiplication factor that spaces the rings.
//
// The table is reference data. [Default] returns the built-in rows; plants
// with their own conventions load a TOML table with [Load]:
//
//	[[layup]]
//	cores = 7
//	rings = [1, 6]
//	multiplier = 3.0
package layup

import (
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cablesection/pkg/errors"
)

// MaxRings is the number of ring columns a table row may use.
const MaxRings = 6

// Config is one layup row.
type Config struct {
	Cores            int     `toml:"cores" json:"cores"`
	Rings            []int   `toml:"rings" json:"rings"`
	MultiplierFactor float64 `toml:"multiplier" json:"multiplier_factor"`
}

// Table is an immutable set of layup rows keyed by core count.
// It is safe for concurrent use.
type Table struct {
	rows map[int]Config
}

// New builds a table from rows. Zero rings are dropped; every row must have
// at least one ring, a ring sum equal to its core count, and a positive
// multiplier.
func New(rows []Config) (*Table, error) {
	t := &Table{rows: make(map[int]Config, len(rows))}
	for _, r := range rows {
		var rings []int
		sum := 0
		for _, n := range r.Rings {
			if n < 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "layup for %d cores: negative ring count", r.Cores)
			}
			if n > 0 {
				rings = append(rings, n)
				sum += n
			}
		}
		switch {
		case len(rings) == 0 || len(rings) > MaxRings:
			return nil, errors.New(errors.ErrCodeInvalidInput, "layup for %d cores: %d rings (want 1-%d)", r.Cores, len(rings), MaxRings)
		case sum != r.Cores:
			return nil, errors.New(errors.ErrCodeInvalidInput, "layup for %d cores: rings sum to %d", r.Cores, sum)
		case r.MultiplierFactor <= 0:
			return nil, errors.New(errors.ErrCodeInvalidInput, "layup for %d cores: multiplier must be positive", r.Cores)
		}
		if _, dup := t.rows[r.Cores]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate layup for %d cores", r.Cores)
		}
		t.rows[r.Cores] = Config{Cores: r.Cores, Rings: rings, MultiplierFactor: r.MultiplierFactor}
	}
	return t, nil
}

// Lookup returns the layup for exactly cores cores.
func (t *Table) Lookup(cores int) (Config, error) {
	c, ok := t.rows[cores]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeConfigNotFound, "no layup configuration found for %d cores", cores)
	}
	c.Rings = append([]int(nil), c.Rings...)
	return c, nil
}

// Rows returns all rows ordered by core count.
func (t *Table) Rows() []Config {
	out := make([]Config, 0, len(t.rows))
	for _, c := range t.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cores < out[j].Cores })
	return out
}

// RingRadius returns the placement radius of ring (0 = innermost) for cores
// whose insulated diameter is d: multiplier·d/2 − d/2 − d·(rings − ring − 1).
func (c Config) RingRadius(ring int, multiplier, d float64) float64 {
	r := d / 2
	return multiplier*r - r - d*float64(len(c.Rings)-ring-1)
}

type file struct {
	Layup []Config `toml:"layup"`
}

// Load reads a TOML layup table.
func Load(r io.Reader) (*Table, error) {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layup table")
	}
	return New(f.Layup)
}

// Default returns the built-in table of standard layup multiplication
// factors.
func Default() *Table {
	t, err := New(defaultRows)
	if err != nil {
		panic(fmt.Sprintf("layup: default table: %v", err))
	}
	return t
}

var defaultRows = []Config{
	{Cores: 1, Rings: []int{1}, MultiplierFactor: 1.0},
	{Cores: 2, Rings: []int{2}, MultiplierFactor: 2.0},
	{Cores: 3, Rings: []int{3}, MultiplierFactor: 2.154},
	{Cores: 4, Rings: []int{4}, MultiplierFactor: 2.414},
	{Cores: 5, Rings: []int{5}, MultiplierFactor: 2.7},
	{Cores: 6, Rings: []int{6}, MultiplierFactor: 3.0},
	{Cores: 7, Rings: []int{1, 6}, MultiplierFactor: 3.0},
	{Cores: 8, Rings: []int{1, 7}, MultiplierFactor: 3.31},
	{Cores: 9, Rings: []int{2, 7}, MultiplierFactor: 3.61},
	{Cores: 10, Rings: []int{2, 8}, MultiplierFactor: 4.0},
	{Cores: 11, Rings: []int{3, 8}, MultiplierFactor: 4.0},
	{Cores: 12, Rings: []int{3, 9}, MultiplierFactor: 4.154},
	{Cores: 13, Rings: []int{4, 9}, MultiplierFactor: 4.41},
	{Cores: 14, Rings: []int{4, 10}, MultiplierFactor: 4.41},
	{Cores: 15, Rings: []int{5, 10}, MultiplierFactor: 4.7},
	{Cores: 16, Rings: []int{5, 11}, MultiplierFactor: 4.7},
	{Cores: 17, Rings: []int{1, 5, 11}, MultiplierFactor: 5.0},
	{Cores: 18, Rings: []int{1, 6, 11}, MultiplierFactor: 5.0},
	{Cores: 19, Rings: []int{1, 6, 12}, MultiplierFactor: 5.0},
	{Cores: 24, Rings: []int{2, 8, 14}, MultiplierFactor: 6.0},
	{Cores: 27, Rings: []int{3, 9, 15}, MultiplierFactor: 6.154},
	{Cores: 30, Rings: []int{4, 10, 16}, MultiplierFactor: 6.41},
	{Cores: 37, Rings: []int{1, 6, 12, 18}, MultiplierFactor: 7.0},
}
