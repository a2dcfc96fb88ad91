package stats

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ToNumber coerces a sheet cell to a non-negative count. Blank, non-numeric
// and non-finite cells are 0.
func ToNumber(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// SafeDiv returns num/den, or 0 when the result would not be finite.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func Percent(part, whole float64) float64 {
	return SafeDiv(part, whole) * 100
}

// IsPlaceholderName reports whether a name cell is a spreadsheet artifact
// (totals row, blank row) rather than a player.
func IsPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "nan") {
		return true
	}
	for _, r := range name {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
