package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"geni-palette/internal/model"
)

const meterName = "geni-palette/service"

type generationMetrics struct {
	generations metric.Int64Counter
	attempts    metric.Int64Counter
	passes      metric.Int64Counter
}

// newGenerationMetrics registers the counters on the global meter provider.
// Without a configured provider they are no-ops.
func newGenerationMetrics() (*generationMetrics, error) {
	meter := otel.Meter(meterName)

	generations, err := meter.Int64Counter(
		"palette.generations",
		metric.WithDescription("Palettes returned, by source"),
		metric.WithUnit("{palette}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating generations counter: %w", err)
	}

	attempts, err := meter.Int64Counter(
		"palette.provider_attempts",
		metric.WithDescription("Calls made to the generative provider"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating attempts counter: %w", err)
	}

	passes, err := meter.Int64Counter(
		"palette.enforcer_passes",
		metric.WithDescription("Diversity repair passes run"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating passes counter: %w", err)
	}

	return &generationMetrics{generations: generations, attempts: attempts, passes: passes}, nil
}

func (m *generationMetrics) recordGeneration(ctx context.Context, p model.Palette, h model.HarmonyType) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", string(p.Metadata.Source)),
		attribute.String("harmony", string(h)),
	)
	m.generations.Add(ctx, 1, attrs)
	m.attempts.Add(ctx, int64(p.Metadata.Attempts))
	if p.Metadata.EnforcerPasses > 0 {
		m.passes.Add(ctx, int64(p.Metadata.EnforcerPasses), attrs)
	}
}
