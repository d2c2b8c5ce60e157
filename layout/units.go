package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-aware lengths used by lettering scripts.
// Document space is measured in pixels; pt values assume 96 DPI.

// Unit represents the original unit of a length value as written in a script.
type Unit int

const (
	UnitNone    Unit = iota // unit-less numbers, read as pixels
	UnitPX                  // pixels
	UnitPT                  // points
	UnitPercent             // percentage of a reference (usually the font size)
)

// Conversion constants between pt and px.
const (
	PtToPx = 96.0 / 72.0
	PxToPt = 1.0 / PtToPx
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPX converts the length to pixels. Percentages resolve against reference.
func (l Length) ToPX(reference float64) float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToPx
	case UnitPercent:
		return reference * l.Value / 100.0
	default:
		return l.Value
	}
}

// ToPercent converts the length to a percentage of reference. Absolute lengths
// with a non-positive reference resolve to 0.
func (l Length) ToPercent(reference float64) float64 {
	if l.Unit == UnitPercent {
		return l.Value
	}
	if reference <= 0 {
		return 0
	}
	return l.ToPX(reference) / reference * 100.0
}

// ParseLength parses a script length string preserving its unit.
// Invalid input yields the zero Length.
func ParseLength(value string) Length {
	l, _ := ParseLengthStrict(value)
	return l
}

// ParseLengthStrict is like ParseLength but reports malformed input.
func ParseLengthStrict(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"%", UnitPercent}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
