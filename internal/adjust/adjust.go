// Package adjust projects stored colors through the brightness, saturation
// and warmth sliders for display. Nothing here mutates the source color.
package adjust

import (
	"log/slog"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
)

// Neutral is the slider value that leaves a channel untouched.
const Neutral = 50.0

const maxWarmthShift = 30.0

// Apply returns hex with the slider offsets applied:
//   - brightness adds (b-50)/2 to lightness;
//   - saturation scales saturation by 1+(s-50)/100;
//   - warmth rotates hue by (w-50)/50*30 degrees.
//
// Slider values are clamped into [0,100]. An unparseable hex is returned as is.
func Apply(hex string, brightness, saturation, warmth float64) string {
	hsl, err := colorspace.HexToHSL(hex)
	if err != nil {
		slog.Debug("adjust: returning color unchanged", "hex", hex, "error", err)
		return hex
	}

	brightness = colorspace.Clamp(brightness, 0, 100)
	saturation = colorspace.Clamp(saturation, 0, 100)
	warmth = colorspace.Clamp(warmth, 0, 100)

	hsl.L = colorspace.Clamp(hsl.L+(brightness-Neutral)/2, 0, 100)
	hsl.S = colorspace.Clamp(hsl.S+hsl.S*(saturation-Neutral)/100, 0, 100)
	hsl.H = colorspace.NormalizeHue(hsl.H + (warmth-Neutral)/Neutral*maxWarmthShift)

	return colorspace.HSLToHex(hsl.H, hsl.S, hsl.L)
}

// ApplyControl is Apply with the values taken from ctl.
func ApplyControl(hex string, ctl model.ColorControl) string {
	return Apply(hex, ctl.Brightness, ctl.Saturation, ctl.Warmth)
}

// ApplyAll adjusts every color, returning a new slice.
func ApplyAll(hexes []string, ctl model.ColorControl) []string {
	out := make([]string, len(hexes))
	for i, h := range hexes {
		out[i] = ApplyControl(h, ctl)
	}
	return out
}

func IsNeutral(ctl model.ColorControl) bool {
	return ctl.Brightness == Neutral && ctl.Saturation == Neutral && ctl.Warmth == Neutral
}
