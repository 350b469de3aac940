package nerdfont

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

const header = `//! This is a generated file, produced by nerdfont-codegen
//! DO NOT EDIT BY HAND!
//!
//! This file provides info extracted from the nerd fonts patcher script,
//! specifying the scaling/positioning attributes of various glyphs.

const Constraint = @import("face.zig").RenderOptions.Constraint;

/// Get the a constraints for the provided codepoint.
pub fn getConstraint(cp: u21) Constraint {
    return switch (cp) {
`

const footer = "\n        else => .none,\n    };\n}\n"

// Generate writes the Zig source of getConstraint for the given patch sets.
func Generate(w io.Writer, patchSets []PatchSet) error {
	arms, err := Arms(patchSets)
	if err != nil {
		return err
	}
	entries := make([]string, 0, len(arms))
	for _, arm := range arms {
		entries = append(entries, emitArm(arm))
	}
	_, err = io.WriteString(w, header+strings.Join(entries, "\n")+footer)
	return err
}

func emitArm(arm Arm) string {
	var sb strings.Builder
	for i, r := range coalesce(arm.Codepoints) {
		if i > 0 {
			sb.WriteString("\n")
		}
		if r[0] == r[1] {
			fmt.Fprintf(&sb, "        %#x,", r[0])
		} else {
			fmt.Fprintf(&sb, "        %#x...%#x,", r[0], r[1])
		}
	}
	sb.WriteString("\n        => .{\n")

	field := func(name string, value any) {
		fmt.Fprintf(&sb, "            .%s = %v,\n", name, value)
	}

	e := arm.Entry
	// Approximations of how the patcher actually scales.
	switch {
	case strings.Contains(e.Stretch, "xy"):
		field("size_horizontal", ".stretch")
		field("size_vertical", ".stretch")
	case strings.Contains(e.Stretch, "!"):
		field("size_horizontal", ".cover")
		field("size_vertical", ".fit")
	case strings.Contains(e.Stretch, "^"):
		field("size_horizontal", ".cover")
		field("size_vertical", ".cover")
	default:
		field("size_horizontal", ".fit")
		field("size_vertical", ".fit")
	}

	if strings.Contains(e.Stretch, "1") || (strings.Contains(e.Stretch, "xy") && !strings.Contains(e.Stretch, "2")) {
		field("max_constraint_width", 1)
	}

	if align := parseAlignment(e.Align); align != "" {
		field("align_horizontal", align)
	}
	if valign := parseAlignment(e.Valign); valign != "" {
		field("align_vertical", valign)
	}

	// overlap and ypadding never both appear in the patcher.
	if e.Overlap.Value != 0 {
		pad := e.Overlap.Neg()
		field("pad_left", pad)
		field("pad_right", pad)
		// Vertical overlap is capped at 0.01.
		vPad := Float(0.01)
		if e.Overlap.Value < vPad.Value {
			vPad = e.Overlap
		}
		field("pad_top", vPad.Neg())
		field("pad_bottom", vPad.Neg())
	} else if e.YPadding.Value != 0 {
		field("pad_top", e.YPadding)
		field("pad_bottom", e.YPadding)
	}

	if e.XYRatio.Value > 0 {
		field("max_xy_ratio", e.XYRatio)
	}

	sb.WriteString("        },")
	return sb.String()
}

// coalesce sorts codepoints and merges consecutive runs into inclusive ranges.
func coalesce(codepoints []int64) [][2]int64 {
	if len(codepoints) == 0 {
		return nil
	}
	sorted := slices.Sorted(slices.Values(codepoints))
	ranges := make([][2]int64, 0)
	start, prev := sorted[0], sorted[0]
	for _, cp := range sorted[1:] {
		if cp == prev+1 {
			prev = cp
			continue
		}
		ranges = append(ranges, [2]int64{start, prev})
		start, prev = cp, cp
	}
	return append(ranges, [2]int64{start, prev})
}

// formatFloat prints f the way Python's repr does: the shortest round-trip digits,
// always with a decimal point or exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	exp := 0
	if f != 0 {
		sci := strconv.FormatFloat(f, 'e', -1, 64)
		exp, _ = strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	}
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
