package export

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
)

var sample = []model.ColorItem{
	{Color: "#667eea", Name: "Purple Dawn"},
	{Color: "#F5576C", Name: "Coral Pink!"},
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "purple-dawn", Slug("Purple Dawn"))
	assert.Equal(t, "coral-pink-", Slug("Coral Pink!"))
	assert.Equal(t, "a--b", Slug("A  B"))
}

func TestCodeCSS(t *testing.T) {
	got, err := Code(StyleCSS, sample, FormatHex)
	require.NoError(t, err)
	assert.Equal(t, ":root {\n  --color-purple-dawn: #667EEA;\n  --color-coral-pink-: #F5576C;\n}", got)
}

func TestCodeCSSRGB(t *testing.T) {
	got, err := Code(StyleCSS, sample[:1], FormatRGB)
	require.NoError(t, err)
	assert.Equal(t, ":root {\n  --color-purple-dawn: rgb(102, 126, 234);\n}", got)
}

func TestCodeTailwind3(t *testing.T) {
	got, err := Code(StyleTailwind3, sample[:1], FormatHex)
	require.NoError(t, err)
	want := "module.exports = {\n  theme: {\n    extend: {\n      colors: {\n        'purple-dawn': '#667EEA',\n      }\n    }\n  }\n}"
	assert.Equal(t, want, got)
}

func TestCodeTailwind4(t *testing.T) {
	got, err := Code(StyleTailwind4, sample[:1], FormatHex)
	require.NoError(t, err)
	assert.Equal(t, "@import \"tailwindcss\";\n\n@theme inline {\n\t--color-purple-dawn: #667EEA;\n}", got)
}

func TestCodeErrors(t *testing.T) {
	_, err := Code("scss", sample, FormatHex)
	assert.True(t, errors.Is(err, ErrUnknownStyle))

	_, err = Code(StyleCSS, []model.ColorItem{{Color: "#12345", Name: "Bad"}}, FormatHex)
	assert.True(t, errors.Is(err, colorspace.ErrInvalidHex))
}

func TestCardLayout(t *testing.T) {
	opts := PNGOptions{SwatchWidth: 10, SwatchHeight: 20, Padding: 2, PixelRatio: 1}
	card, err := Card(sample, opts)
	require.NoError(t, err)

	b := card.Bounds()
	assert.Equal(t, 2*3+10*2, b.Dx())
	assert.Equal(t, 2*2+20, b.Dy())

	bg := card.NRGBAAt(0, 0)
	assert.Equal(t, [3]uint8{0x1A, 0x1C, 0x19}, [3]uint8{bg.R, bg.G, bg.B})

	first := card.NRGBAAt(2+5, 2+10)
	assert.Equal(t, [3]uint8{0x66, 0x7E, 0xEA}, [3]uint8{first.R, first.G, first.B})
	second := card.NRGBAAt(2+10+2+5, 2+10)
	assert.Equal(t, [3]uint8{0xF5, 0x57, 0x6C}, [3]uint8{second.R, second.G, second.B})
}

func TestCardPixelRatio(t *testing.T) {
	card, err := Card(sample, PNGOptions{SwatchWidth: 10, SwatchHeight: 20, Padding: 2, PixelRatio: 2})
	require.NoError(t, err)
	assert.Equal(t, 52, card.Bounds().Dx())
	assert.Equal(t, 48, card.Bounds().Dy())
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sample, DefaultPNGOptions()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	opts := DefaultPNGOptions()
	wantW := (opts.Padding*3 + opts.SwatchWidth*2) * opts.PixelRatio
	assert.Equal(t, wantW, img.Bounds().Dx())
}

func TestCardErrors(t *testing.T) {
	_, err := Card(nil, DefaultPNGOptions())
	assert.Error(t, err)

	_, err = Card([]model.ColorItem{{Color: "nope"}}, DefaultPNGOptions())
	assert.Error(t, err)

	_, err = Card(sample, PNGOptions{Background: "#GGGGGG"})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Sky", truncate("Sky", 70))
	assert.Equal(t, "Extraordi..", truncate("Extraordinary Lilac", 77))
}
