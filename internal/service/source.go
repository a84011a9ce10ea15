package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"geni-palette/internal/model"
	"geni-palette/internal/validation"
)

type candidateColor struct {
	Name string `json:"name" validate:"min=2,max=30"`
	Hex  string `json:"hex" validate:"hexcolor6"`
	HSL  struct {
		H float64 `json:"h" validate:"gte=0,lt=360"`
		S float64 `json:"s" validate:"gte=0,lte=100"`
		L float64 `json:"l" validate:"gte=0,lte=100"`
	} `json:"hsl"`
}

type candidateSchema struct {
	Colors      []candidateColor `json:"colors" validate:"min=3,max=8,dive"`
	Rationale   string           `json:"rationale" validate:"required"`
	PaletteName string           `json:"paletteName" validate:"min=3,max=30"`
	Tags        []string         `json:"tags" validate:"min=3,max=8,dive,min=1,max=20"`
}

type nameSchema struct {
	PaletteName string `json:"paletteName" validate:"required"`
}

// ChatSource adapts a ChatClient into a PaletteSource by asking for JSON and
// checking the reply against the candidate schema.
type ChatSource struct {
	client    ChatClient
	validator *validation.Validator
}

func NewChatSource(client ChatClient) *ChatSource {
	return &ChatSource{client: client, validator: validation.New()}
}

func (s *ChatSource) Name() string {
	return s.client.Name()
}

func (s *ChatSource) CandidatePalette(ctx context.Context, inst Instruction) (Candidate, error) {
	content, err := s.client.Chat(ctx, ChatRequest{System: inst.System, User: inst.User, Temperature: inst.Temperature, JSON: true})
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	var raw candidateSchema
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &raw); err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := s.validator.Validate(raw); err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	out := Candidate{
		PaletteName: strings.TrimSpace(raw.PaletteName),
		Rationale:   strings.TrimSpace(raw.Rationale),
		Tags:        raw.Tags,
		Colors:      make([]model.Color, 0, len(raw.Colors)),
	}
	for _, c := range raw.Colors {
		out.Colors = append(out.Colors, model.Color{
			Name: c.Name,
			Hex:  c.Hex,
			HSL:  model.HSL{H: c.HSL.H, S: c.HSL.S, L: c.HSL.L},
		})
	}
	return out, nil
}

func (s *ChatSource) CandidateName(ctx context.Context, inst Instruction) (string, error) {
	content, err := s.client.Chat(ctx, ChatRequest{System: inst.System, User: inst.User, Temperature: inst.Temperature, JSON: true})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	var raw nameSchema
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := s.validator.Validate(raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return raw.PaletteName, nil
}

// extractJSONObject strips markdown fences and returns the first balanced
// {...} object in s, or s itself when none is found.
func extractJSONObject(s string) string {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(t, "```")
	t = strings.TrimSpace(t)

	start := -1
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(t); i++ {
		ch := t[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				return t[start : i+1]
			}
		}
	}
	return t
}
