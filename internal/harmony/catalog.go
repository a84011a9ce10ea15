// Package harmony holds the per-harmony placement rules that drive both the
// generation instruction and the diversity thresholds.
//
// The numbers are design constants. They are not derived from anything and
// must stay as they are.
package harmony

import (
	"fmt"
	"strings"

	"geni-palette/internal/model"
)

// DefaultMinDistance applies to harmony types the catalog does not know.
const DefaultMinDistance = 0.30

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) String() string {
	return fmt.Sprintf("%g–%g", r.Min, r.Max)
}

// Rule describes how hues are placed for one harmony type.
type Rule struct {
	Type  model.HarmonyType `json:"type"`
	Label string            `json:"label"`

	// HueOffsets are the target hues relative to the base hue H0.
	HueOffsets []float64 `json:"hueOffsets,omitempty"`
	// OffsetTolerance is the allowed deviation of a primary hue from its target.
	OffsetTolerance float64 `json:"offsetTolerance,omitempty"`
	// MaxHueDeviation bounds every hue around H0 (monochromatic only).
	MaxHueDeviation float64 `json:"maxHueDeviation,omitempty"`
	// Window is the width range of the hue window around H0 (analogous only).
	Window Range `json:"window,omitzero"`
	// Neighbors is the distance range of extra colors around each primary hue.
	Neighbors Range `json:"neighbors,omitzero"`
	// SplitOffset is the deviation of each complement from H0+180 (split complementary only).
	SplitOffset Range `json:"splitOffset,omitzero"`

	MinHueSpacing     float64 `json:"minHueSpacing"`
	MinSaturationSpan float64 `json:"minSaturationSpan"`
	MinLightnessSpan  float64 `json:"minLightnessSpan"`

	// MinDistance is the perceptual distance below which two colors count as too similar.
	MinDistance float64 `json:"minDistance"`
}

var catalog = map[model.HarmonyType]Rule{
	model.HarmonyMonochromatic: {
		Type:              model.HarmonyMonochromatic,
		Label:             "Monochromatic",
		HueOffsets:        []float64{0},
		MaxHueDeviation:   5,
		MinSaturationSpan: 45,
		MinLightnessSpan:  40,
		MinDistance:       0.25,
	},
	model.HarmonyAnalogous: {
		Type:              model.HarmonyAnalogous,
		Label:             "Analogous",
		HueOffsets:        []float64{0},
		Window:            Range{Min: 30, Max: 45},
		MinHueSpacing:     25,
		MinSaturationSpan: 40,
		MinLightnessSpan:  35,
		MinDistance:       0.35,
	},
	model.HarmonyComplementary: {
		Type:              model.HarmonyComplementary,
		Label:             "Complementary",
		HueOffsets:        []float64{0, 180},
		OffsetTolerance:   4,
		Neighbors:         Range{Min: 18, Max: 28},
		MinHueSpacing:     15,
		MinSaturationSpan: 35,
		MinLightnessSpan:  30,
		MinDistance:       0.30,
	},
	model.HarmonyTriadic: {
		Type:              model.HarmonyTriadic,
		Label:             "Triadic",
		HueOffsets:        []float64{0, 120, 240},
		OffsetTolerance:   4,
		Neighbors:         Range{Min: 12, Max: 20},
		MinHueSpacing:     15,
		MinSaturationSpan: 35,
		MinLightnessSpan:  30,
		MinDistance:       0.28,
	},
	model.HarmonyTetradic: {
		Type:              model.HarmonyTetradic,
		Label:             "Tetradic",
		HueOffsets:        []float64{0, 90, 180, 270},
		OffsetTolerance:   4,
		Neighbors:         Range{Min: 10, Max: 18},
		MinHueSpacing:     12,
		MinSaturationSpan: 35,
		MinLightnessSpan:  30,
		MinDistance:       0.25,
	},
	model.HarmonySplitComplementary: {
		Type:              model.HarmonySplitComplementary,
		Label:             "Split-Complementary",
		HueOffsets:        []float64{0, 155, 205},
		OffsetTolerance:   4,
		SplitOffset:       Range{Min: 15, Max: 30},
		MinHueSpacing:     15,
		MinSaturationSpan: 35,
		MinLightnessSpan:  30,
		MinDistance:       0.30,
	},
}

// Lookup returns the rule for t. The returned Rule is a copy.
func Lookup(t model.HarmonyType) (Rule, bool) {
	r, ok := catalog[t]
	if !ok {
		return Rule{}, false
	}
	r.HueOffsets = append([]float64(nil), r.HueOffsets...)
	return r, true
}

// All returns every rule in model.HarmonyTypes order.
func All() []Rule {
	out := make([]Rule, 0, len(model.HarmonyTypes))
	for _, t := range model.HarmonyTypes {
		r, _ := Lookup(t)
		out = append(out, r)
	}
	return out
}

// MinDistance returns the diversity threshold for t.
func MinDistance(t model.HarmonyType) float64 {
	if r, ok := catalog[t]; ok {
		return r.MinDistance
	}
	return DefaultMinDistance
}

// Parse accepts a harmony name case-insensitively, with '-' or ' ' in place of '_'.
func Parse(s string) (model.HarmonyType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	t := model.HarmonyType(norm)
	if !t.Valid() {
		return "", fmt.Errorf("unknown harmony %q", s)
	}
	return t, nil
}

// Guidance renders the rule as the numeric placement instruction given to the generator.
func (r Rule) Guidance(colorCount int) string {
	var b strings.Builder
	b.WriteString("Work in HSL. ")
	switch r.Type {
	case model.HarmonyMonochromatic:
		fmt.Fprintf(&b, "Keep hue within ±%g° of base H0. YOU MUST create STRONG diversity through saturation and lightness: S span ≥ %g points, L span ≥ %g points. ", r.MaxHueDeviation, r.MinSaturationSpan, r.MinLightnessSpan)
		b.WriteString("CRITICAL: Ensure every pair of colors differs by at least 15 points in S OR 15 points in L. Example good palette: H=210° constant, S=[25,45,65,85], L=[30,50,70,85].")
	case model.HarmonyAnalogous:
		fmt.Fprintf(&b, "Choose base hue H0. Select window width W between %s°. Distribute %d hues EVENLY across [H0−W/2, H0+W/2]. ", r.Window, colorCount)
		fmt.Fprintf(&b, "MANDATORY minimum spacing between adjacent hues: ≥ %g°. Vary S across %g+ points and L across %g+ points.", r.MinHueSpacing, r.MinSaturationSpan, r.MinLightnessSpan)
	case model.HarmonySplitComplementary:
		fmt.Fprintf(&b, "Use base H0 and two complements at H0+180° offset by ±%s° (target {%s}, ±%g° tolerance). ", r.SplitOffset, targets(r.HueOffsets), r.OffsetTolerance)
		fmt.Fprintf(&b, "MINIMUM pairwise hue spacing: ≥ %g°. Vary S by %g+ points and L by %g+ points.", r.MinHueSpacing, r.MinSaturationSpan, r.MinLightnessSpan)
	default:
		fmt.Fprintf(&b, "Target hues {%s} (±%g° tolerance). ", targets(r.HueOffsets), r.OffsetTolerance)
		if colorCount > len(r.HueOffsets) {
			fmt.Fprintf(&b, "Since %d colors are needed, add neighbors at ±%s° around each target. ", colorCount, r.Neighbors)
		}
		fmt.Fprintf(&b, "MINIMUM pairwise hue spacing: ≥ %g°. Ensure S spans %g+ points and L spans %g+ points.", r.MinHueSpacing, r.MinSaturationSpan, r.MinLightnessSpan)
	}
	return b.String()
}

func targets(offsets []float64) string {
	parts := make([]string, 0, len(offsets))
	for _, o := range offsets {
		if o == 0 {
			parts = append(parts, "H0")
			continue
		}
		parts = append(parts, fmt.Sprintf("H0+%g°", o))
	}
	return strings.Join(parts, ", ")
}
