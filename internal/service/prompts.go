package service

import (
	"fmt"
	"strings"

	"geni-palette/internal/harmony"
	"geni-palette/internal/model"
)

const (
	paletteTemperature = 0.7
	nameTemperature    = 0.95
)

func paletteInstruction(prompt string, h model.HarmonyType, colorCount int) Instruction {
	rules := "Work in HSL with numeric spacing and S/L diversity constraints. Ensure all colors are visually distinct."
	if r, ok := harmony.Lookup(h); ok {
		rules = r.Guidance(colorCount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert color palette generator. Generate exactly %d colors following %s color harmony principles.\n", colorCount, h)
	b.WriteString(`CRITICAL REQUIREMENTS (YOU MUST FOLLOW THESE):
- Return a single JSON object with keys: paletteName, colors, rationale, tags.
- Each color MUST include: name, hex (#RRGGBB format), and hsl {h,s,l}.
- Hex MUST correspond to the given HSL values (convert HSL to RGB to HEX accurately).
`)
	fmt.Fprintf(&b, "- Follow %s harmony rules with MATHEMATICAL PRECISION.\n", h)
	b.WriteString(`- Each color name MUST be EXACTLY TWO WORDS (e.g. "Electric Dreams", "Cosmic Blueberry").
- Use ONLY alphanumeric characters and spaces in names.
- Provide a palette general name (strictly 3-25 characters) as paletteName.
- Rationale MUST be under 70 words and describe the palette without naming the harmony style.
- Include 3-8 relevant tags for discoverability.
- Consider web accessibility (WCAG contrast) and modern design trends.

DIVERSITY ENFORCEMENT (MANDATORY):
- NO TWO COLORS may be visually similar or near-duplicates.
- MINIMUM hue separation as specified in harmony rules (see below).
- Saturation (S) values MUST span at least 35 points across the palette.
- Lightness (L) values MUST span at least 30 points across the palette.
- FORBIDDEN: Two colors with |ΔH| < 15°, |ΔS| < 12, AND |ΔL| < 12 simultaneously.
- For monochromatic: since hue is limited, vary S and L dramatically (S range ≥ 45, L range ≥ 40).

`)
	fmt.Fprintf(&b, "HARMONY RULES: %s\n\n", rules)
	b.WriteString(`OUTPUT STRUCTURE:
- Distribute hues evenly per the harmony (DO NOT cluster colors).
- Vary S and L strategically to create visual contrast while maintaining harmony.
- Order colors logically (by hue progression, lightness gradient, or visual flow).

REMEMBER: Each color must be DISTINCTLY DIFFERENT from all others.`)

	return Instruction{
		System:      b.String(),
		User:        fmt.Sprintf("Create a %s color palette for: %q", h, prompt),
		Temperature: paletteTemperature,
	}
}

func nameInstruction(rationale string, h model.HarmonyType, colorCount int, avoid []string, generationID int64) Instruction {
	existing := "none yet"
	if len(avoid) > 0 {
		existing = strings.Join(avoid, ", ")
	}

	var b strings.Builder
	b.WriteString(`You are a creative palette naming expert. Generate a UNIQUE, creative, and catchy name for a color palette.
Reply with a JSON object of the form {"paletteName": "..."}.

STRICT NAMING RULES:
- Name MUST be EXACTLY TWO WORDS separated by a single space.
- Use ONLY alphanumeric characters and spaces (no punctuation, accents, or hyphens).
- Each word should be capitalized (Title Case).
`)
	fmt.Fprintf(&b, "- Must be COMPLETELY DIFFERENT from these existing names: %s\n", existing)
	fmt.Fprintf(&b, "- Name should reflect this palette theme: %q\n", rationale)
	fmt.Fprintf(&b, "- The palette has %d colors with %s harmony.\n", colorCount, h)
	b.WriteString(`- AVOID generic names like "Color Palette", "Nice Colors", "Color Set", "Cool Theme".

INSPIRATION: seasons and times of day, moods, nature, eras and styles, places, abstract journeys.
Examples of EXCELLENT names: "Ocean Breeze", "Midnight Garden", "Urban Twilight", "Neon Nostalgia".

`)
	fmt.Fprintf(&b, "Generation ID: %d. Use this to ensure uniqueness across generations.", generationID)

	return Instruction{
		System:      b.String(),
		User:        fmt.Sprintf("Generate a UNIQUE and MEMORABLE TWO-WORD name for this %d-color %s palette. Make it evocative and completely original.", colorCount, h),
		Temperature: nameTemperature,
	}
}

func colorNameInstruction(rationale, hex string, avoid []string, generationID int64) Instruction {
	existing := "none yet"
	if len(avoid) > 0 {
		existing = strings.Join(avoid, ", ")
	}

	var b strings.Builder
	b.WriteString(`You are a creative color naming expert. Generate a UNIQUE, creative, and funny name for a color.
Reply with a JSON object of the form {"paletteName": "..."}.

STRICT NAMING RULES:
- Name MUST be EXACTLY TWO WORDS separated by a single space.
- Use ONLY alphanumeric characters and spaces (no punctuation, accents, or hyphens).
- Each word should be capitalized (Title Case).
`)
	fmt.Fprintf(&b, "- Must be COMPLETELY DIFFERENT from these existing names: %s\n", existing)
	fmt.Fprintf(&b, "- Name should align with this palette theme: %q\n", rationale)
	b.WriteString(`- AVOID generic names like "Blue Color", "Red One", "Dark Blue", "Light Pink".

INSPIRATION: nature, food and drinks, emotions, places, abstract concepts.
Examples of EXCELLENT names: "Electric Dreams", "Velvet Thunder", "Cosmic Blueberry", "Lavender Haze".

`)
	fmt.Fprintf(&b, "Generation ID: %d. Use this to ensure uniqueness across generations.", generationID)

	return Instruction{
		System:      b.String(),
		User:        fmt.Sprintf("Generate a UNIQUE and CREATIVE TWO-WORD name for this color: %s. Make it memorable and completely different from any existing names.", hex),
		Temperature: nameTemperature,
	}
}
