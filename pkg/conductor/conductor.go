// Package conductor resolves the shape family and material of a conductor
// layer by matching its attributes against the conductor dimension table.
//
// Every attribute of the layer that has a diameter-selection mapping becomes
// an exact-match constraint on the mapped column. A "Shaped" conductor also
// has to match the core count, because sector geometry depends on how many
// sectors share the circle. Among matching rows the lowest ID wins.
package conductor

import (
	"io"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cablesection/pkg/errors"
)

// Shape is a conductor shape family.
type Shape string

const (
	Circular Shape = "circular"
	Sector   Shape = "sector"
)

// ShapedValue is the attribute value that selects sector conductors.
const ShapedValue = "Shaped"

// Attribute names that carry the shape value.
const (
	ShapeAttribute        = "Conductor Shape"
	NeutralShapeAttribute = "Neutral Conductor Shape"
	SizeAttribute         = "Conductor Size"
)

// Well-known table columns.
const (
	ColumnShape    = "conductor_shape"
	ColumnMaterial = "conductor_material"
	ColumnCores    = "no_cores"
	ColumnSize     = "conductor_size"
)

// Attribute is one attribute value set on a layer.
type Attribute struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Selection maps a layer attribute to the table column it constrains.
type Selection struct {
	Attribute string `json:"attribute" yaml:"attribute" toml:"attribute"`
	Column    string `json:"column" yaml:"column" toml:"column"`
}

// DefaultSelection is used for layers that do not declare their own
// mappings.
var DefaultSelection = []Selection{
	{Attribute: ShapeAttribute, Column: ColumnShape},
	{Attribute: NeutralShapeAttribute, Column: ColumnShape},
	{Attribute: "Conductor Material", Column: ColumnMaterial},
}

// Query is the lookup input derived from a layer.
type Query struct {
	Attributes []Attribute
	Selection  []Selection
	// Quantity is matched against no_cores for shaped conductors.
	Quantity int
}

// Row is one conductor dimension record.
type Row struct {
	ID       int               `toml:"id" json:"id"`
	Shape    string            `toml:"conductor_shape" json:"conductor_shape"`
	Material string            `toml:"conductor_material" json:"conductor_material"`
	Cores    int               `toml:"no_cores" json:"no_cores"`
	Size     string            `toml:"conductor_size" json:"conductor_size"`
	Columns  map[string]string `toml:"columns" json:"columns,omitempty"`
}

func (r Row) value(column string) string {
	switch column {
	case ColumnShape:
		return r.Shape
	case ColumnMaterial:
		return r.Material
	case ColumnCores:
		return strconv.Itoa(r.Cores)
	case ColumnSize:
		return r.Size
	}
	return r.Columns[column]
}

// Info is the resolved shape and material of a conductor layer.
type Info struct {
	Shape    Shape  `json:"shape"`
	Material string `json:"material"`
	RowID    int    `json:"row_id"`
}

type constraint struct {
	column, value string
}

// Table is the conductor dimension reference table. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	rows []Row
	// neutral maps a phase conductor size to its neutral conductor size.
	neutral map[string]string
}

// NewTable builds a table. Rows are ordered by ID so lookups are
// deterministic regardless of input order.
func NewTable(rows []Row, neutralSizes map[string]string) *Table {
	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	ns := make(map[string]string, len(neutralSizes))
	for k, v := range neutralSizes {
		ns[k] = v
	}
	return &Table{rows: sorted, neutral: ns}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Resolve matches q against the table.
func (t *Table) Resolve(q Query) (Info, error) {
	return t.lookup(constraints(q))
}

// ResolveNeutral resolves a neutral conductor. When the phase conductor
// size has a neutral size mapping, the neutral row must also match that
// size.
func (t *Table) ResolveNeutral(q Query, phaseSize string) (Info, error) {
	cs := constraints(q)
	if size, ok := t.neutral[phaseSize]; ok && phaseSize != "" {
		cs = append(cs, constraint{column: ColumnSize, value: size})
	}
	return t.lookup(cs)
}

func constraints(q Query) []constraint {
	sel := q.Selection
	if len(sel) == 0 {
		sel = DefaultSelection
	}
	var (
		cs     []constraint
		shaped bool
	)
	for _, attr := range q.Attributes {
		for _, s := range sel {
			if s.Attribute != attr.Name {
				continue
			}
			cs = append(cs, constraint{column: s.Column, value: attr.Value})
			if (attr.Name == ShapeAttribute || attr.Name == NeutralShapeAttribute) && attr.Value == ShapedValue && !shaped {
				shaped = true
				cs = append(cs, constraint{column: ColumnCores, value: strconv.Itoa(q.Quantity)})
			}
		}
	}
	return cs
}

func (t *Table) lookup(cs []constraint) (Info, error) {
	for _, r := range t.rows {
		if matches(r, cs) {
			shape := Circular
			if r.Shape == ShapedValue {
				shape = Sector
			}
			return Info{Shape: shape, Material: r.Material, RowID: r.ID}, nil
		}
	}
	return Info{}, errors.New(errors.ErrCodeConductorDimensionNotFound, "no related conductor dimensions record has been found")
}

func matches(r Row, cs []constraint) bool {
	for _, c := range cs {
		if r.value(c.column) != c.value {
			return false
		}
	}
	return true
}

type file struct {
	Conductor []Row             `toml:"conductor"`
	Neutral   map[string]string `toml:"neutral_sizes"`
}

// Load reads a TOML conductor table:
//
//	[[conductor]]
//	id = 1
//	conductor_shape = "Shaped"
//	conductor_material = "Copper"
//	no_cores = 3
//
//	[neutral_sizes]
//	"95" = "50"
func Load(r io.Reader) (*Table, error) {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode conductor table")
	}
	return NewTable(f.Conductor, f.Neutral), nil
}

// Default returns a small built-in table with circular and shaped copper
// and aluminium conductors for 1 to 5 cores.
func Default() *Table {
	var rows []Row
	id := 1
	for _, material := range []string{"Copper", "Aluminium"} {
		rows = append(rows, Row{ID: id, Shape: "Circular", Material: material})
		id++
		for cores := 1; cores <= 5; cores++ {
			rows = append(rows, Row{ID: id, Shape: ShapedValue, Material: material, Cores: cores})
			id++
		}
	}
	return NewTable(rows, nil)
}
