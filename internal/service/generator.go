package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/diversity"
	"geni-palette/internal/harmony"
	"geni-palette/internal/model"
	"geni-palette/internal/validation"
)

const (
	DefaultAttempts = 2

	maxPaletteNameRunes = 25
	minPaletteNameRunes = 3
	maxRationaleWords   = 69
	maxHexDrift         = 1
	minTags             = 3
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9]+ [A-Za-z0-9]+$`)

// GenerateInput is the generate-palette request after decoding.
type GenerateInput struct {
	Prompt     string            `json:"prompt" validate:"required,min=3,max=200,hasletter,theme"`
	Harmony    model.HarmonyType `json:"harmony" validate:"required,harmony"`
	ColorCount int               `json:"colorCount" validate:"gte=3,lte=8"`
}

type NameKind string

const (
	NamePalette NameKind = "palette"
	NameColor   NameKind = "color"
)

// NameInput is the regenerate-name request after decoding. Kind defaults to
// NamePalette, which needs Harmony; NameColor needs Color.
type NameInput struct {
	Kind           NameKind          `json:"type" validate:"omitempty,oneof=palette color"`
	Rationale      string            `json:"rationale" validate:"required,min=10"`
	Harmony        model.HarmonyType `json:"harmony" validate:"omitempty,harmony"`
	Color          string            `json:"color" validate:"omitempty,hexcolor6"`
	GeneratedNames []string          `json:"generatedNames"`
	ColorCount     int               `json:"colorCount" validate:"omitempty,gte=3,lte=8"`
}

func (in NameInput) validateKind() error {
	switch {
	case in.Kind == NamePalette && in.Harmony == "":
		return validation.NewError(validation.FieldError{Field: "harmony", Message: "is required"})
	case in.Kind == NameColor && in.Color == "":
		return validation.NewError(validation.FieldError{Field: "color", Message: "is required"})
	}
	return nil
}

type PaletteService struct {
	source    PaletteSource
	logger    *slog.Logger
	validator *validation.Validator
	attempts  int
	now       func() time.Time
	metrics   *generationMetrics
}

type Option func(*PaletteService)

// WithAttempts sets how many times the source is asked before falling back.
func WithAttempts(n int) Option {
	return func(s *PaletteService) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *PaletteService) { s.now = now }
}

func NewPaletteService(source PaletteSource, logger *slog.Logger, opts ...Option) *PaletteService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PaletteService{
		source:    source,
		logger:    logger,
		validator: validation.New(),
		attempts:  DefaultAttempts,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	m, err := newGenerationMetrics()
	if err != nil {
		logger.Warn("palette metrics disabled", "error", err)
	}
	s.metrics = m
	return s
}

// Generate validates the request, asks the source for a candidate, repairs
// its diversity and returns it. Source failures never surface: once the
// attempts are used up the static fallback palette is returned with a nil
// error. Only a *validation.Error is returned.
func (s *PaletteService) Generate(ctx context.Context, in GenerateInput) (model.Palette, error) {
	in.Prompt = strings.TrimSpace(in.Prompt)
	if err := s.validator.Validate(in); err != nil {
		return model.Palette{}, err
	}
	prompt := SanitizePrompt(in.Prompt)
	if utf8.RuneCountInString(prompt) < 3 {
		return model.Palette{}, validation.NewError(validation.FieldError{
			Field:   "prompt",
			Message: "must contain at least 3 characters of plain text",
		})
	}

	inst := paletteInstruction(prompt, in.Harmony, in.ColorCount)

	var lastErr error
	attempt := 0
	for attempt < s.attempts {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		attempt++

		cand, err := s.source.CandidatePalette(ctx, inst)
		if err == nil {
			var p model.Palette
			p, err = s.finish(cand, in)
			if err == nil {
				p.Metadata.Attempts = attempt
				s.metrics.recordGeneration(ctx, p, in.Harmony)
				return p, nil
			}
		}
		lastErr = err
		s.logger.Warn("palette generation attempt failed",
			"attempt", attempt,
			"max_attempts", s.attempts,
			"harmony", in.Harmony,
			"error", err,
		)
	}

	s.logger.Error("palette generation failed, serving fallback",
		"attempts", attempt,
		"harmony", in.Harmony,
		"error", lastErr,
	)
	p := FallbackPalette(s.now())
	p.Metadata.Attempts = attempt
	s.metrics.recordGeneration(ctx, p, in.Harmony)
	return p, nil
}

// finish normalizes a candidate and runs it through the diversity enforcer.
func (s *PaletteService) finish(c Candidate, in GenerateInput) (model.Palette, error) {
	if len(c.Colors) < model.MinColorCount {
		return model.Palette{}, fmt.Errorf("%w: %d colors", ErrMalformedOutput, len(c.Colors))
	}
	colors := c.Colors
	if len(colors) > in.ColorCount {
		colors = colors[:in.ColorCount]
	}

	normalized := make([]model.Color, 0, len(colors))
	for _, col := range colors {
		normalized = append(normalized, normalizeColor(col))
	}

	tags := cleanTags(c.Tags)
	if len(tags) < minTags {
		return model.Palette{}, fmt.Errorf("%w: %d distinct tags", ErrMalformedOutput, len(tags))
	}

	res := diversity.EnforceWithResult(normalized, in.Harmony)
	if rule, ok := harmony.Lookup(in.Harmony); ok {
		hsl := make([]model.HSL, 0, len(res.Colors))
		for _, col := range res.Colors {
			hsl = append(hsl, col.HSL)
		}
		rep := rule.Evaluate(hsl)
		s.logger.Debug("palette diversity",
			"harmony", in.Harmony,
			"passes", res.Passes,
			"remaining_pairs", len(res.Remaining),
			"min_hue_gap", rep.MinHueGap,
			"saturation_span", rep.SaturationSpan,
			"lightness_span", rep.LightnessSpan,
			"rule_satisfied", rep.Satisfied(),
		)
	}

	return model.Palette{
		PaletteName: shortenName(strings.TrimSpace(c.PaletteName)),
		Colors:      res.Colors,
		Rationale:   limitWords(c.Rationale, maxRationaleWords),
		Tags:        tags,
		Metadata: model.PaletteMetadata{
			GeneratedAt:    s.now().UTC(),
			Source:         model.SourceProvider,
			EnforcerPasses: res.Passes,
		},
	}, nil
}

// normalizeColor makes HSL authoritative: the hex is re-derived whenever the
// provided one is invalid or drifts from the HSL by more than one unit.
func normalizeColor(c model.Color) model.Color {
	out := colorspace.NewColor(strings.TrimSpace(c.Name), c.HSL)
	hex, err := colorspace.NormalizeHex(c.Hex)
	if err != nil {
		return out
	}
	if drift, err := colorspace.ChannelDrift(hex, out.Hex); err == nil && drift <= maxHexDrift {
		out.Hex = hex
	}
	return out
}

func shortenName(name string) string {
	if utf8.RuneCountInString(name) <= maxPaletteNameRunes {
		return name
	}
	words := strings.Fields(name)
	out := ""
	for _, w := range words {
		next := strings.TrimSpace(out + " " + w)
		if utf8.RuneCountInString(next) > maxPaletteNameRunes {
			break
		}
		out = next
	}
	if utf8.RuneCountInString(out) < minPaletteNameRunes {
		return string([]rune(name)[:maxPaletteNameRunes])
	}
	return out
}

func limitWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.TrimRight(strings.Join(words[:n], " "), ",;:") + "..."
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ToResponse shapes a palette as the generate-palette response.
func ToResponse(prompt string, h model.HarmonyType, p model.Palette) model.GeneratedPalette {
	items := make([]model.ColorItem, 0, len(p.Colors))
	for _, c := range p.Colors {
		items = append(items, model.ColorItem{Color: c.Hex, Name: c.Name})
	}
	return model.GeneratedPalette{
		ID:          uuid.NewString(),
		PaletteName: p.PaletteName,
		Colors:      items,
		Metadata: model.GeneratedMetadata{
			Prompt:      prompt,
			Harmony:     h,
			Rationale:   p.Rationale,
			Tags:        p.Tags,
			GeneratedAt: p.Metadata.GeneratedAt,
			Source:      p.Metadata.Source,
		},
	}
}

var errDuplicateName = errors.New("name already used")

// RegenerateName returns a fresh two-word Title Case name for a palette or a
// single color, absent from in.GeneratedNames. When the source keeps failing
// a "Geni XXXXXX" name is returned instead.
func (s *PaletteService) RegenerateName(ctx context.Context, in NameInput) (string, error) {
	in.Rationale = strings.TrimSpace(in.Rationale)
	if in.Kind == "" {
		in.Kind = NamePalette
	}
	if err := s.validator.Validate(in); err != nil {
		return "", err
	}
	if err := in.validateKind(); err != nil {
		return "", err
	}
	if in.ColorCount == 0 {
		in.ColorCount = model.DefaultColorCount
	}

	avoid := nameSet(in.GeneratedNames)
	rationale := SanitizePrompt(in.Rationale)

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		var inst Instruction
		if in.Kind == NameColor {
			inst = colorNameInstruction(rationale, in.Color, in.GeneratedNames, s.now().UnixMilli())
		} else {
			inst = nameInstruction(rationale, in.Harmony, in.ColorCount, in.GeneratedNames, s.now().UnixMilli())
		}
		raw, err := s.source.CandidateName(ctx, inst)
		if err == nil {
			name := NormalizeName(raw)
			switch {
			case !ValidName(name):
				err = fmt.Errorf("%w: name %q", ErrMalformedOutput, raw)
			default:
				if _, dup := avoid[strings.ToLower(name)]; dup {
					err = fmt.Errorf("%w: %q", errDuplicateName, name)
				} else {
					return name, nil
				}
			}
		}
		lastErr = err
		s.logger.Warn("palette name attempt failed", "attempt", attempt, "error", err)
	}

	name, err := FallbackName(in.GeneratedNames)
	if err != nil {
		return "", err
	}
	s.logger.Error("palette name generation failed, serving fallback", "name", name, "error", lastErr)
	return name, nil
}

// NormalizeName collapses whitespace, drops surrounding quotes and
// punctuation, and applies Title Case.
func NormalizeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	name = strings.Trim(name, ` "'.!,`)
	return cases.Title(language.English).String(name)
}

// ValidName reports whether name is two alphanumeric words of 3 to 25 characters.
func ValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= minPaletteNameRunes && n <= maxPaletteNameRunes && namePattern.MatchString(name)
}
