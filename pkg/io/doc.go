// Package io reads and writes cable design files in TOML, YAML and JSON.
//
// All three encodings carry the same structure: a name, the core count,
// optional bill-of-materials color codes, and the layers from the inside
// out. Field names are snake_case in every format.
//
//	name: 3x10 PVC
//	cores: 3
//	color_codes: bn bk gy
//	layers:
//	  - type: phase_conductor
//	    diameter: 10
//	    quantity: 3
//	    attributes:
//	      - {name: Conductor Shape, value: Shaped}
//	  - type: phase_insulation
//	    diameter: 14
//	    thickness: 2
//	    quantity: 3
//	  - type: sheath
//	    diameter: 22
//	    thickness: 2
//	    quantity: 1
//
// # Layer Fields
//
// Required: type, diameter (cumulative outer diameter in mm), quantity.
// Optional: thickness, name, element, display, color, custom_diameter,
// rotation, rounding_angle, number_of_wires, multiplier_factor,
// strip_width, strip_width_measure, strip_color, custom_armour_tape_width,
// attributes and diameter_selection.
//
// Designs are validated on read: a shrinking diameter, a negative
// dimension or an unparsable color is rejected with INVALID_INPUT.
package io
