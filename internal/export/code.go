// Package export renders a palette as stylesheet code or as a PNG swatch card.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
)

type Format string

const (
	FormatHex Format = "HEX"
	FormatRGB Format = "RGB"
)

type Style string

const (
	StyleCSS       Style = "css"
	StyleTailwind3 Style = "tailwind3"
	StyleTailwind4 Style = "tailwind4"
	StylePNG       Style = "png"
)

var ErrUnknownStyle = errors.New("unknown export style")

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Slug lowercases name and replaces every non-alphanumeric character with '-'.
func Slug(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
}

// colorCode renders hex in the requested format.
func colorCode(hex string, format Format) (string, error) {
	if format == FormatRGB {
		return colorspace.HexToRGBString(hex)
	}
	return colorspace.NormalizeHex(hex)
}

type entry struct {
	name, code string
}

func entries(colors []model.ColorItem, format Format) ([]entry, error) {
	out := make([]entry, 0, len(colors))
	for i, c := range colors {
		code, err := colorCode(c.Color, format)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		out = append(out, entry{name: Slug(c.Name), code: code})
	}
	return out, nil
}

// Code renders colors as stylesheet source for a text style.
func Code(style Style, colors []model.ColorItem, format Format) (string, error) {
	es, err := entries(colors, format)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(es)+8)
	switch style {
	case StyleCSS:
		lines = append(lines, ":root {")
		for _, e := range es {
			lines = append(lines, fmt.Sprintf("  --color-%s: %s;", e.name, e.code))
		}
		lines = append(lines, "}")
	case StyleTailwind3:
		lines = append(lines, "module.exports = {", "  theme: {", "    extend: {", "      colors: {")
		for _, e := range es {
			lines = append(lines, fmt.Sprintf("        '%s': '%s',", e.name, e.code))
		}
		lines = append(lines, "      }", "    }", "  }", "}")
	case StyleTailwind4:
		lines = append(lines, `@import "tailwindcss";`, "", "@theme inline {")
		for _, e := range es {
			lines = append(lines, fmt.Sprintf("\t--color-%s: %s;", e.name, e.code))
		}
		lines = append(lines, "}")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return strings.Join(lines, "\n"), nil
}
