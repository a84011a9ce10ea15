// Package colorspace converts colors between HEX, HSL and RGB representations.
//
// Hex strings are always emitted as uppercase "#RRGGBB". HSL values use degrees
// for hue and percentages for saturation and lightness.
package colorspace

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"geni-palette/internal/model"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is matched by every ConversionError.
var ErrInvalidHex = errors.New("invalid hex color")

// ConversionError reports a hex string that is not a 6-digit color.
type ConversionError struct {
	Input string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid hex color %q: want #RRGGBB", e.Input)
}

func (e *ConversionError) Is(target error) bool {
	return target == ErrInvalidHex
}

var (
	hexPattern     = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)
	wireHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// ValidHex reports whether s is a 6-digit hex color, with or without the leading '#'.
func ValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// IsHex reports whether s is exactly "#RRGGBB", the form accepted on the wire.
func IsHex(s string) bool {
	return wireHexPattern.MatchString(s)
}

// NormalizeHex returns s as uppercase "#RRGGBB".
func NormalizeHex(s string) (string, error) {
	if !ValidHex(s) {
		return "", &ConversionError{Input: s}
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(s, "#")), nil
}

// Parse decodes a 6-digit hex string.
func Parse(hex string) (colorful.Color, error) {
	norm, err := NormalizeHex(hex)
	if err != nil {
		return colorful.Color{}, err
	}
	c, err := colorful.Hex(norm)
	if err != nil {
		return colorful.Color{}, &ConversionError{Input: hex}
	}
	return c, nil
}

// HexToHSL converts a hex color to unrounded HSL.
func HexToHSL(hex string) (model.HSL, error) {
	c, err := Parse(hex)
	if err != nil {
		return model.HSL{}, err
	}
	return FromColorful(c), nil
}

// HSLToHex encodes HSL as uppercase hex. Hue is wrapped into [0,360) and
// saturation and lightness are clamped into [0,100] first.
func HSLToHex(h, s, l float64) string {
	return strings.ToUpper(ToColorful(model.HSL{H: h, S: s, L: l}).Clamped().Hex())
}

// HexToRGBString formats a hex color as "rgb(r, g, b)".
func HexToRGBString(hex string) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b), nil
}

// FromColorful converts to percent-based HSL with hue in [0,360).
func FromColorful(c colorful.Color) model.HSL {
	h, s, l := c.Hsl()
	return model.HSL{H: NormalizeHue(h), S: s * 100, L: l * 100}
}

// ToColorful converts percent-based HSL, normalizing out-of-range input.
func ToColorful(v model.HSL) colorful.Color {
	return colorful.Hsl(NormalizeHue(v.H), Clamp(v.S, 0, 100)/100, Clamp(v.L, 0, 100)/100)
}

// NormalizeHue wraps any angle into [0,360).
func NormalizeHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HueDistance is the circular distance between two hues, in [0,180].
func HueDistance(a, b float64) float64 {
	d := math.Abs(NormalizeHue(a) - NormalizeHue(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// NewColor builds a Color whose hex is derived from hsl.
func NewColor(name string, hsl model.HSL) model.Color {
	hsl = model.HSL{H: NormalizeHue(hsl.H), S: Clamp(hsl.S, 0, 100), L: Clamp(hsl.L, 0, 100)}
	return model.Color{Name: name, Hex: HSLToHex(hsl.H, hsl.S, hsl.L), HSL: hsl}
}

// ChannelDrift returns the largest per-channel RGB difference between two hex colors.
func ChannelDrift(a, b string) (int, error) {
	ca, err := Parse(a)
	if err != nil {
		return 0, err
	}
	cb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	ar, ag, ab := ca.RGB255()
	br, bg, bb := cb.RGB255()
	drift := 0
	for _, d := range []int{int(ar) - int(br), int(ag) - int(bg), int(ab) - int(bb)} {
		if d < 0 {
			d = -d
		}
		if d > drift {
			drift = d
		}
	}
	return drift, nil
}
