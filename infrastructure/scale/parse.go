// Package scale holds the pure weighing arithmetic: free-text scale
// reading parsing and tare composition. Nothing here touches storage.
package scale

import (
	"math"
	"strconv"
	"strings"
)

// ParseAverage parses operator-typed scale readings and returns their
// arithmetic mean. Decimal commas are treated as decimal points and '+'
// as a separator, so "1500,5 + 1600" averages two readings. Tokens that
// do not parse as finite numbers are dropped ("nan" and "inf" are
// operator typos, not readings); if nothing valid remains the result is
// 0, never an error.
func ParseAverage(text string) float64 {
	cleaned := strings.ReplaceAll(text, ",", ".")
	cleaned = strings.ReplaceAll(cleaned, "+", " ")

	var sum float64
	var n int
	for _, token := range strings.Fields(cleaned) {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ParseQuantity parses a box/packaging count. Blank or unparseable
// input means 0, negative values are clamped to 0.
func ParseQuantity(text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// GramsToKg converts a gram figure to kilograms. Tare entry fields are
// typed in grams; every stored weight is in kilograms.
func GramsToKg(grams float64) float64 {
	return grams / 1000
}
