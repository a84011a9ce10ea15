package diversity

import (
	"math/rand"
	"testing"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceHueCircularity(t *testing.T) {
	a := model.HSL{H: 350, S: 50, L: 50}
	b := model.HSL{H: 10, S: 50, L: 50}
	assert.InDelta(t, 20.0/180*HueWeight, Distance(a, b), 1e-9)
}

func TestDistanceSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := model.HSL{H: r.Float64() * 360, S: r.Float64() * 100, L: r.Float64() * 100}
		b := model.HSL{H: r.Float64() * 360, S: r.Float64() * 100, L: r.Float64() * 100}
		assert.Equal(t, Distance(a, b), Distance(b, a))
	}
}

func TestDistanceWeights(t *testing.T) {
	base := model.HSL{H: 100, S: 40, L: 40}
	assert.InDelta(t, 0, Distance(base, base), 1e-12)
	assert.InDelta(t, 2.0, Distance(base, model.HSL{H: 280, S: 40, L: 40}), 1e-9)
	assert.InDelta(t, 0.5, Distance(base, model.HSL{H: 100, S: 90, L: 40}), 1e-9)
	assert.InDelta(t, 0.3, Distance(base, model.HSL{H: 100, S: 40, L: 70}), 1e-9)
}

func TestSimilarPairs(t *testing.T) {
	colors := []model.Color{
		colorspace.NewColor("a", model.HSL{H: 10, S: 50, L: 50}),
		colorspace.NewColor("b", model.HSL{H: 12, S: 50, L: 50}),
		colorspace.NewColor("c", model.HSL{H: 190, S: 50, L: 50}),
		colorspace.NewColor("d", model.HSL{H: 11, S: 52, L: 50}),
	}
	assert.Equal(t, []Pair{{0, 1}, {0, 3}, {1, 3}}, SimilarPairs(colors, 0.3))
}

func TestEnforceAnalogousScenario(t *testing.T) {
	in := []model.Color{
		colorspace.NewColor("First", model.HSL{H: 200, S: 50, L: 50}),
		colorspace.NewColor("Second", model.HSL{H: 202, S: 52, L: 51}),
	}
	require.Less(t, Distance(in[0].HSL, in[1].HSL), 0.05)

	res := EnforceWithResult(in, model.HarmonyAnalogous)
	require.Len(t, res.Colors, 2)
	assert.Equal(t, in[0], res.Colors[0])

	second := res.Colors[1]
	assert.GreaterOrEqual(t, colorspace.HueDistance(second.HSL.H, 202), 25.0)
	assert.Greater(t, Distance(res.Colors[0].HSL, second.HSL), 0.35)
	assert.Equal(t, colorspace.HSLToHex(second.HSL.H, second.HSL.S, second.HSL.L), second.Hex)
	assert.Equal(t, "Second", second.Name)
	assert.True(t, res.Converged())
	assert.Equal(t, 1, res.Passes)
}

func TestEnforceFixedPoint(t *testing.T) {
	in := []model.Color{
		colorspace.NewColor("a", model.HSL{H: 20, S: 30, L: 30}),
		colorspace.NewColor("b", model.HSL{H: 140, S: 70, L: 60}),
		colorspace.NewColor("c", model.HSL{H: 260, S: 50, L: 45}),
	}
	for _, ht := range model.HarmonyTypes {
		res := EnforceWithResult(in, ht)
		assert.Equal(t, in, res.Colors, ht)
		assert.Zero(t, res.Passes, ht)
	}
}

func TestEnforceTerminatesOnIdenticalColors(t *testing.T) {
	same := colorspace.NewColor("Same", model.HSL{H: 120, S: 50, L: 50})
	in := make([]model.Color, 8)
	for i := range in {
		in[i] = same
	}
	harmonies := append([]model.HarmonyType{"unknown"}, model.HarmonyTypes...)
	for _, ht := range harmonies {
		res := EnforceWithResult(in, ht)
		assert.LessOrEqual(t, res.Passes, MaxPasses, ht)
		assert.Len(t, res.Colors, 8, ht)
	}
	for _, c := range in {
		assert.Equal(t, same, c, "input must not be modified")
	}
}

func TestEnforceMonochromaticKeepsHue(t *testing.T) {
	in := []model.Color{
		colorspace.NewColor("a", model.HSL{H: 210, S: 60, L: 60}),
		colorspace.NewColor("b", model.HSL{H: 211, S: 62, L: 58}),
		colorspace.NewColor("c", model.HSL{H: 209, S: 40, L: 40}),
	}
	res := EnforceWithResult(in, model.HarmonyMonochromatic)
	for i, c := range res.Colors {
		assert.Equal(t, in[i].HSL.H, c.HSL.H)
		assert.GreaterOrEqual(t, c.HSL.S, 10.0)
		assert.LessOrEqual(t, c.HSL.S, 95.0)
		assert.GreaterOrEqual(t, c.HSL.L, 15.0)
		assert.LessOrEqual(t, c.HSL.L, 90.0)
	}
	assert.Greater(t, Distance(res.Colors[0].HSL, res.Colors[1].HSL), Distance(in[0].HSL, in[1].HSL))
}

func TestEnforceShiftsAcrossZero(t *testing.T) {
	in := []model.Color{
		colorspace.NewColor("a", model.HSL{H: 355, S: 50, L: 30}),
		colorspace.NewColor("b", model.HSL{H: 5, S: 52, L: 32}),
	}
	res := EnforceWithResult(in, model.HarmonyComplementary)
	assert.InDelta(t, 40, res.Colors[1].HSL.H, 1e-9)
}

func TestEnforceEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Enforce(nil, model.HarmonyTriadic))
	one := []model.Color{colorspace.NewColor("x", model.HSL{H: 1, S: 2, L: 3})}
	assert.Equal(t, one, Enforce(one, model.HarmonyTriadic))
}
