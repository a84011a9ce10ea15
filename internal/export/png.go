package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
)

// DefaultBackground is the card color behind the swatches.
const DefaultBackground = "#1A1C19"

type PNGOptions struct {
	SwatchWidth  int
	SwatchHeight int
	Padding      int
	Background   string
	// PixelRatio scales the finished card; 1 keeps the base size.
	PixelRatio int
	// Labels draws each color name and hex under its swatch.
	Labels bool
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		SwatchWidth:  120,
		SwatchHeight: 160,
		Padding:      16,
		Background:   DefaultBackground,
		PixelRatio:   2,
		Labels:       true,
	}
}

const labelHeight = 36

// Card renders colors side by side on the background.
func Card(colors []model.ColorItem, opts PNGOptions) (*image.NRGBA, error) {
	if len(colors) == 0 {
		return nil, errors.New("no colors to render")
	}
	def := DefaultPNGOptions()
	if opts.SwatchWidth <= 0 {
		opts.SwatchWidth = def.SwatchWidth
	}
	if opts.SwatchHeight <= 0 {
		opts.SwatchHeight = def.SwatchHeight
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	if opts.Background == "" {
		opts.Background = def.Background
	}
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}

	bg, err := nrgba(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	extra := 0
	if opts.Labels {
		extra = labelHeight
	}
	n := len(colors)
	width := opts.Padding*(n+1) + opts.SwatchWidth*n
	height := opts.Padding*2 + opts.SwatchHeight + extra

	card := imaging.New(width, height, bg)
	for i, c := range colors {
		fill, err := nrgba(c.Color)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		x := opts.Padding + i*(opts.SwatchWidth+opts.Padding)
		swatch := imaging.New(opts.SwatchWidth, opts.SwatchHeight, fill)
		card = imaging.Paste(card, swatch, image.Pt(x, opts.Padding))

		if opts.Labels {
			hex, _ := colorspace.NormalizeHex(c.Color)
			y := opts.Padding + opts.SwatchHeight + 14
			drawLabel(card, x, y, truncate(c.Name, opts.SwatchWidth), labelColor(bg))
			drawLabel(card, x, y+15, hex, labelColor(bg))
		}
	}

	if opts.PixelRatio > 1 {
		card = imaging.Resize(card, width*opts.PixelRatio, height*opts.PixelRatio, imaging.NearestNeighbor)
	}
	return card, nil
}

// WritePNG renders the card and encodes it as PNG into w.
func WritePNG(w io.Writer, colors []model.ColorItem, opts PNGOptions) error {
	card, err := Card(colors, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(w, card, imaging.PNG)
}

func nrgba(hex string) (color.NRGBA, error) {
	c, err := colorspace.Parse(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// labelColor picks light text on dark backgrounds and dark text otherwise.
func labelColor(bg color.NRGBA) color.Color {
	hsl, err := colorspace.HexToHSL(fmt.Sprintf("#%02X%02X%02X", bg.R, bg.G, bg.B))
	if err == nil && hsl.L > 55 {
		return color.NRGBA{R: 26, G: 28, B: 25, A: 255}
	}
	return color.NRGBA{R: 240, G: 240, B: 235, A: 255}
}

func drawLabel(dst *image.NRGBA, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// truncate shortens text to fit width pixels of the 7px fixed face.
func truncate(text string, width int) string {
	limit := width / 7
	r := []rune(text)
	if len(r) <= limit || limit < 3 {
		return text
	}
	return string(r[:limit-2]) + ".."
}
