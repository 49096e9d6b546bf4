// Package describe renders cluster description text from the valuable
// features table and parses it back into structured cluster profiles.
package describe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NeutralColor is used when an increment cannot be parsed.
const NeutralColor = "#808080"

const (
	minDiff = -0.5
	maxDiff = 0.5
)

// Color maps an increment difference to an RGB hex color running from red
// at -0.5 to green at +0.5. Values outside the range clamp to the ends;
// NaN is neutral.
func Color(diff float64) string {
	if math.IsNaN(diff) {
		return NeutralColor
	}
	clamped := diff
	if clamped < minDiff {
		clamped = minDiff
	}
	if clamped > maxDiff {
		clamped = maxDiff
	}
	ratio := (clamped - minDiff) / (maxDiff - minDiff)
	r := int((1 - ratio) * 255)
	g := int(ratio * 255)
	return fmt.Sprintf("#%02x%02x00", r, g)
}

// Confidence maps a numeric confidence tier to its label. Non-numeric input
// is returned unchanged.
func Confidence(value string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	switch {
	case v <= 0:
		return "Baja"
	case v == 1:
		return "Media"
	case v == 2:
		return "Alta"
	}
	return "Muy Alta"
}
