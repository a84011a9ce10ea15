package diversity

import (
	"math"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/harmony"
	"geni-palette/internal/model"
)

// MaxPasses caps the repair loop. Enforce stops here even when pairs remain
// too close, so it always terminates.
const MaxPasses = 10

const (
	hueConflictGap = 20.0
	hueShift       = 35.0

	monoGap       = 20.0
	monoStep      = 15.0
	monoSatMin    = 10.0
	monoSatMax    = 95.0
	monoLightMin  = 15.0
	monoLightMax  = 90.0
	nudgeGap      = 15.0
	nudgeStep     = 12.0
	nudgeSatMin   = 15.0
	nudgeSatMax   = 95.0
	nudgeLightMin = 20.0
	nudgeLightMax = 85.0
)

// Result describes one Enforce run.
type Result struct {
	Colors []model.Color
	// Passes is the number of repair passes that changed the palette.
	Passes int
	// Remaining holds the pairs still below the threshold after the last pass.
	Remaining []Pair
}

// Converged reports whether no pair is left below the threshold.
func (r Result) Converged() bool {
	return len(r.Remaining) == 0
}

// Enforce returns a copy of colors with too-similar pairs pushed apart.
func Enforce(colors []model.Color, ht model.HarmonyType) []model.Color {
	return EnforceWithResult(colors, ht).Colors
}

// EnforceWithResult runs the bounded repair loop. In each pass every pair
// (i, j) below the harmony threshold moves color j away from color i; a color
// moves at most once per pass. The input slice is never modified.
func EnforceWithResult(colors []model.Color, ht model.HarmonyType) Result {
	minDistance := harmony.MinDistance(ht)
	out := append([]model.Color(nil), colors...)

	res := Result{}
	for res.Passes < MaxPasses {
		pairs := SimilarPairs(out, minDistance)
		if len(pairs) == 0 {
			break
		}
		adjusted := make(map[int]struct{}, len(pairs))
		for _, p := range pairs {
			if _, done := adjusted[p.J]; done {
				continue
			}
			hsl := adjustAway(out[p.J].HSL, out[p.I].HSL, ht)
			out[p.J] = model.Color{
				Name: out[p.J].Name,
				Hex:  colorspace.HSLToHex(hsl.H, hsl.S, hsl.L),
				HSL:  hsl,
			}
			adjusted[p.J] = struct{}{}
		}
		res.Passes++
	}
	res.Colors = out
	res.Remaining = SimilarPairs(out, minDistance)
	return res
}

func adjustAway(c, target model.HSL, ht model.HarmonyType) model.HSL {
	if ht == model.HarmonyMonochromatic {
		if math.Abs(c.S-target.S) < monoGap {
			c.S = spread(c.S, monoStep, monoSatMin, monoSatMax)
		}
		if math.Abs(c.L-target.L) < monoGap {
			c.L = spread(c.L, monoStep, monoLightMin, monoLightMax)
		}
		return c
	}

	if colorspace.HueDistance(c.H, target.H) < hueConflictGap {
		c.H = colorspace.NormalizeHue(c.H + awayDirection(c.H, target.H)*hueShift)
	}
	if math.Abs(c.S-target.S) < nudgeGap {
		c.S = spread(c.S, nudgeStep, nudgeSatMin, nudgeSatMax)
	}
	if math.Abs(c.L-target.L) < nudgeGap {
		c.L = spread(c.L, nudgeStep, nudgeLightMin, nudgeLightMax)
	}
	return c
}

// spread pushes values above 50 up and the rest down by step, within [lo, hi].
func spread(v, step, lo, hi float64) float64 {
	if v > 50 {
		return math.Min(hi, v+step)
	}
	return math.Max(lo, v-step)
}

// awayDirection is +1 when h sits clockwise of target on the short arc, else -1.
func awayDirection(h, target float64) float64 {
	d := math.Mod(h-target+540, 360) - 180
	if d > 0 {
		return 1
	}
	return -1
}
