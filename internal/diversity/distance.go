// Package diversity measures how distinguishable palette colors are and
// repairs palettes whose colors sit too close together.
package diversity

import (
	"math"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
)

// Channel weights. Hue differences dominate perceived distinctness.
const (
	HueWeight        = 2.0
	SaturationWeight = 1.0
	LightnessWeight  = 1.0
)

// Distance is the weighted Euclidean distance between two HSL colors with
// every channel normalized to [0,1]. Hue uses the circular gap.
func Distance(a, b model.HSL) float64 {
	dh := colorspace.HueDistance(a.H, b.H) / 180 * HueWeight
	ds := math.Abs(a.S-b.S) / 100 * SaturationWeight
	dl := math.Abs(a.L-b.L) / 100 * LightnessWeight
	return math.Sqrt(dh*dh + ds*ds + dl*dl)
}

// Pair indexes two palette entries, I < J.
type Pair struct {
	I, J int
}

// SimilarPairs returns every pair whose distance is below minDistance, in
// (i, j) lexical order.
func SimilarPairs(colors []model.Color, minDistance float64) []Pair {
	var out []Pair
	for i := 0; i < len(colors); i++ {
		for j := i + 1; j < len(colors); j++ {
			if Distance(colors[i].HSL, colors[j].HSL) < minDistance {
				out = append(out, Pair{I: i, J: j})
			}
		}
	}
	return out
}
