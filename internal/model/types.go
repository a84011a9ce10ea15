package model

import "time"

type HarmonyType string

const (
	HarmonyMonochromatic      HarmonyType = "monochromatic"
	HarmonyAnalogous          HarmonyType = "analogous"
	HarmonyComplementary      HarmonyType = "complementary"
	HarmonyTriadic            HarmonyType = "triadic"
	HarmonyTetradic           HarmonyType = "tetradic"
	HarmonySplitComplementary HarmonyType = "split_complementary"
)

// HarmonyTypes lists every supported harmony in display order.
var HarmonyTypes = []HarmonyType{
	HarmonyAnalogous,
	HarmonyMonochromatic,
	HarmonyComplementary,
	HarmonyTriadic,
	HarmonySplitComplementary,
	HarmonyTetradic,
}

func (h HarmonyType) Valid() bool {
	for _, t := range HarmonyTypes {
		if t == h {
			return true
		}
	}
	return false
}

const (
	MinColorCount     = 3
	MaxColorCount     = 8
	DefaultColorCount = 5
)

// HSL holds hue in degrees [0,360) and saturation/lightness in percent [0,100].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	HSL  HSL    `json:"hsl"`
}

type PaletteSource string

const (
	SourceProvider PaletteSource = "provider"
	SourceFallback PaletteSource = "fallback"
)

type PaletteMetadata struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Source      PaletteSource `json:"source"`
	Attempts    int           `json:"attempts"`
	// EnforcerPasses is the number of repair passes the diversity enforcer ran.
	EnforcerPasses int `json:"enforcerPasses"`
}

type Palette struct {
	PaletteName string          `json:"paletteName"`
	Colors      []Color         `json:"colors"`
	Rationale   string          `json:"rationale"`
	Tags        []string        `json:"tags"`
	Metadata    PaletteMetadata `json:"metadata"`
}

// ColorControl holds display-time slider values. 50 on every axis means no adjustment.
type ColorControl struct {
	Brightness float64 `json:"brightness" validate:"gte=0,lte=100"`
	Saturation float64 `json:"saturation" validate:"gte=0,lte=100"`
	Warmth     float64 `json:"warmth" validate:"gte=0,lte=100"`
}

func NeutralControl() ColorControl {
	return ColorControl{Brightness: 50, Saturation: 50, Warmth: 50}
}

type ColorItem struct {
	Color string `json:"color" validate:"required,hexcolor6"`
	Name  string `json:"name" validate:"max=40"`
}

type GeneratedMetadata struct {
	Prompt      string        `json:"prompt"`
	Harmony     HarmonyType   `json:"harmony"`
	Rationale   string        `json:"rationale"`
	Tags        []string      `json:"tags"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Source      PaletteSource `json:"source"`
}

// GeneratedPalette is the generate-palette response shape.
type GeneratedPalette struct {
	ID          string            `json:"id"`
	PaletteName string            `json:"paletteName"`
	Colors      []ColorItem       `json:"colors"`
	Metadata    GeneratedMetadata `json:"metadata"`
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt int64       `json:"created_at_unix_ms"`
}

type NameLedger struct {
	UserID    string   `json:"user_id"`
	Names     []string `json:"names"`
	UpdatedAt int64    `json:"updated_at_unix_ms"`
}

type StoredState struct {
	NamesByUser       map[string]NameLedger `json:"names_by_user"`
	LastUpdatedUnixMS int64                 `json:"last_updated_unix_ms"`
	CreatedAt         time.Time             `json:"created_at"`
}
