package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"geni-palette/internal/config"
	"geni-palette/internal/model"
)

var (
	ErrNoAPIKey         = errors.New("generative provider api key not configured")
	ErrExternalService  = errors.New("external generative service failed")
	ErrMalformedOutput  = errors.New("generative service returned malformed output")
	ErrUnsupportedModel = errors.New("unsupported ai provider")
)

// ChatRequest is one system+user exchange with a chat model.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	// JSON asks the provider for a JSON-only response when it supports it.
	JSON bool
}

// ChatClient is a concrete generative text provider.
type ChatClient interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// Instruction is the structured prompt handed to a PaletteSource.
type Instruction struct {
	System      string
	User        string
	Temperature float64
}

// Candidate is an unvalidated palette produced by the generative service.
type Candidate struct {
	PaletteName string
	Colors      []model.Color
	Rationale   string
	Tags        []string
}

// PaletteSource produces candidate palettes and names from an instruction.
type PaletteSource interface {
	CandidatePalette(ctx context.Context, inst Instruction) (Candidate, error)
	CandidateName(ctx context.Context, inst Instruction) (string, error)
}

// NewChatClient picks the provider named by cfg.AIProvider.
func NewChatClient(cfg config.Config) (ChatClient, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "openai", "aihubmix":
		return NewOpenAIClient(cfg), nil
	case "google", "gemini", "":
		return NewGeminiClient(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, cfg.AIProvider)
	}
}
