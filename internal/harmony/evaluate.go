package harmony

import (
	"math"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
)

// Report summarizes how a set of colors measures against a Rule.
type Report struct {
	MinHueGap      float64 `json:"minHueGap"`
	SaturationSpan float64 `json:"saturationSpan"`
	LightnessSpan  float64 `json:"lightnessSpan"`
	// HueDeviation is the largest distance of any hue from the circular mean hue.
	HueDeviation float64 `json:"hueDeviation"`

	HueSpacingOK bool `json:"hueSpacingOk"`
	SaturationOK bool `json:"saturationOk"`
	LightnessOK  bool `json:"lightnessOk"`
}

func (r Report) Satisfied() bool {
	return r.HueSpacingOK && r.SaturationOK && r.LightnessOK
}

// Evaluate measures colors against the rule's spacing and span constraints.
// For monochromatic palettes the hue check is the deviation bound instead of
// pairwise spacing.
func (r Rule) Evaluate(colors []model.HSL) Report {
	var rep Report
	if len(colors) == 0 {
		return rep
	}

	rep.MinHueGap = 180
	minS, maxS := colors[0].S, colors[0].S
	minL, maxL := colors[0].L, colors[0].L
	for i := range colors {
		minS, maxS = math.Min(minS, colors[i].S), math.Max(maxS, colors[i].S)
		minL, maxL = math.Min(minL, colors[i].L), math.Max(maxL, colors[i].L)
		for j := i + 1; j < len(colors); j++ {
			rep.MinHueGap = math.Min(rep.MinHueGap, colorspace.HueDistance(colors[i].H, colors[j].H))
		}
	}
	rep.SaturationSpan = maxS - minS
	rep.LightnessSpan = maxL - minL

	mean := circularMean(colors)
	for _, c := range colors {
		rep.HueDeviation = math.Max(rep.HueDeviation, colorspace.HueDistance(c.H, mean))
	}

	if r.Type == model.HarmonyMonochromatic {
		rep.HueSpacingOK = rep.HueDeviation <= r.MaxHueDeviation
	} else {
		rep.HueSpacingOK = len(colors) < 2 || rep.MinHueGap >= r.MinHueSpacing
	}
	rep.SaturationOK = rep.SaturationSpan >= r.MinSaturationSpan
	rep.LightnessOK = rep.LightnessSpan >= r.MinLightnessSpan
	return rep
}

func circularMean(colors []model.HSL) float64 {
	var x, y float64
	for _, c := range colors {
		rad := c.H * math.Pi / 180
		x += math.Cos(rad)
		y += math.Sin(rad)
	}
	if x == 0 && y == 0 {
		return colors[0].H
	}
	return colorspace.NormalizeHue(math.Atan2(y, x) * 180 / math.Pi)
}
