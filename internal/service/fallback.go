package service

import (
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"geni-palette/internal/model"
)

// FallbackPaletteName is the name of the palette served when generation fails.
const FallbackPaletteName = "Geni on Vacation"

const fallbackNameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FallbackPalette returns a fresh copy of the static palette.
func FallbackPalette(now time.Time) model.Palette {
	return model.Palette{
		PaletteName: FallbackPaletteName,
		Colors: []model.Color{
			{Name: "Purple Dawn", Hex: "#667EEA", HSL: model.HSL{H: 229.1, S: 75.9, L: 65.9}},
			{Name: "Deep Violet", Hex: "#764BA2", HSL: model.HSL{H: 269.7, S: 36.7, L: 46.5}},
			{Name: "Pink Mist", Hex: "#F093FB", HSL: model.HSL{H: 293.7, S: 92.9, L: 78}},
			{Name: "Coral Pink", Hex: "#F5576C", HSL: model.HSL{H: 352, S: 88.8, L: 65.1}},
			{Name: "Sky Blue", Hex: "#4FACFE", HSL: model.HSL{H: 208.1, S: 98.9, L: 65.3}},
		},
		Rationale: "A beautiful gradient palette with purple and pink tones, perfect for modern web designs (Geni is on vacation...).",
		Tags:      []string{"gradient", "purple", "pink", "modern", "elegant"},
		Metadata: model.PaletteMetadata{
			GeneratedAt: now.UTC(),
			Source:      model.SourceFallback,
		},
	}
}

// FallbackName returns "Geni XXXXXX" with a random uppercase suffix that is
// not already in avoid.
func FallbackName(avoid []string) (string, error) {
	seen := nameSet(avoid)
	for i := 0; i < 8; i++ {
		suffix, err := gonanoid.Generate(fallbackNameAlphabet, 6)
		if err != nil {
			return "", fmt.Errorf("generate name suffix: %w", err)
		}
		name := "Geni " + suffix
		if _, dup := seen[strings.ToLower(name)]; !dup {
			return name, nil
		}
	}
	return "", fmt.Errorf("no unused fallback name after 8 draws")
}

func nameSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return out
}
