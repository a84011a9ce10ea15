package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/config"
	"geni-palette/internal/model"
	"geni-palette/internal/service"
	"geni-palette/internal/storage"
	"geni-palette/internal/ws"
)

type stubSource struct {
	mu        sync.Mutex
	candidate service.Candidate
	err       error
	name      string
	lastInst  service.Instruction
	calls     int
}

func (s *stubSource) CandidatePalette(_ context.Context, inst service.Instruction) (service.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastInst = inst
	if s.err != nil {
		return service.Candidate{}, s.err
	}
	return s.candidate, nil
}

func (s *stubSource) CandidateName(_ context.Context, inst service.Instruction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastInst = inst
	if s.err != nil {
		return "", s.err
	}
	return s.name, nil
}

func wheelCandidate(n int) service.Candidate {
	colors := make([]model.Color, 0, n)
	for i := 0; i < n; i++ {
		hsl := model.HSL{
			H: float64(i * 360 / n),
			S: float64(30 + (i*17)%60),
			L: float64(25 + (i*13)%55),
		}
		colors = append(colors, colorspace.NewColor(fmt.Sprintf("Tone %d", i+1), hsl))
	}
	return service.Candidate{
		PaletteName: "Quiet Harbor",
		Colors:      colors,
		Rationale:   "Fog over the pier with a single orange buoy keeping watch.",
		Tags:        []string{"coastal", "fog", "calm"},
	}
}

type testEnv struct {
	handler http.Handler
	store   *storage.Store
	source  *stubSource
}

func newTestEnv(t *testing.T, src *stubSource, burst int) testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "names.json"), 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	cfg := config.Config{
		RateLimitRPS:   0.001,
		RateLimitBurst: burst,
		CORSOrigins:    []string{"*"},
	}
	palettes := service.NewPaletteService(src, logger)
	return testEnv{
		handler: NewRouter(cfg, logger, store, hub, palettes),
		store:   store,
		source:  src,
	}
}

func (e testEnv) do(method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)
	rec := env.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListHarmonies(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)
	rec := env.do(http.MethodGet, "/v1/harmonies", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Harmonies []struct {
			Type string `json:"type"`
		} `json:"harmonies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Harmonies, len(model.HarmonyTypes))
}

func TestGeneratePalette(t *testing.T) {
	env := newTestEnv(t, &stubSource{candidate: wheelCandidate(5)}, 5)

	rec := env.do(http.MethodPost, "/v1/palettes/generate", map[string]interface{}{
		"prompt":  "foggy harbor at dawn",
		"harmony": "triadic",
	}, map[string]string{userHeader: "u1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.GeneratedPalette
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Quiet Harbor", resp.PaletteName)
	assert.Len(t, resp.Colors, model.DefaultColorCount)
	assert.Equal(t, "foggy harbor at dawn", resp.Metadata.Prompt)
	assert.Equal(t, model.HarmonyTriadic, resp.Metadata.Harmony)
	assert.Equal(t, model.SourceProvider, resp.Metadata.Source)
	for _, c := range resp.Colors {
		assert.True(t, colorspace.ValidHex(c.Color), c.Color)
	}

	assert.Equal(t, []string{"Quiet Harbor"}, env.store.Names("u1"))
}

func TestGeneratePaletteValidationDetails(t *testing.T) {
	env := newTestEnv(t, &stubSource{candidate: wheelCandidate(5)}, 5)

	rec := env.do(http.MethodPost, "/v1/palettes/generate", map[string]interface{}{
		"prompt":     "12345",
		"harmony":    "pastel",
		"colorCount": 9,
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	fields := make([]string, 0, len(resp.Details))
	for _, d := range resp.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "prompt")
	assert.Contains(t, fields, "harmony")
	assert.Contains(t, fields, "colorCount")
	assert.Zero(t, env.source.calls)
}

func TestGeneratePaletteInvalidJSON(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)
	req := httptest.NewRequest(http.MethodPost, "/v1/palettes/generate", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid JSON body"}`, rec.Body.String())
}

func TestGeneratePaletteFallback(t *testing.T) {
	env := newTestEnv(t, &stubSource{err: service.ErrExternalService}, 5)

	rec := env.do(http.MethodPost, "/v1/palettes/generate", map[string]interface{}{
		"prompt":     "desert sunset",
		"harmony":    "analogous",
		"colorCount": 4,
	}, map[string]string{userHeader: "u2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.GeneratedPalette
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.FallbackPaletteName, resp.PaletteName)
	assert.Equal(t, model.SourceFallback, resp.Metadata.Source)
	assert.Empty(t, env.store.Names("u2"))
}

func TestGeneratePaletteRateLimited(t *testing.T) {
	env := newTestEnv(t, &stubSource{candidate: wheelCandidate(5)}, 1)
	body := map[string]interface{}{"prompt": "neon arcade", "harmony": "complementary"}

	first := env.do(http.MethodPost, "/v1/palettes/generate", body, nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := env.do(http.MethodPost, "/v1/palettes/generate", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later."}`, second.Body.String())
}

func TestRegenerateNameUsesLedger(t *testing.T) {
	src := &stubSource{name: "velvet comet"}
	env := newTestEnv(t, src, 5)
	require.NoError(t, env.store.AppendNames("u3", "Amber Tide"))

	rec := env.do(http.MethodPost, "/v1/palettes/regenerate-name", map[string]interface{}{
		"rationale":      "Warm lanterns against a deep indigo sky.",
		"harmony":        "complementary",
		"generatedNames": []string{"Copper Moon"},
	}, map[string]string{userHeader: "u3"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"name":"Velvet Comet","type":"palette"}`, rec.Body.String())

	assert.Contains(t, src.lastInst.System, "Amber Tide")
	assert.Contains(t, src.lastInst.System, "Copper Moon")
	assert.Equal(t, []string{"Amber Tide", "Velvet Comet"}, env.store.Names("u3"))
}

func TestRegenerateNameRejectsMissingHarmony(t *testing.T) {
	env := newTestEnv(t, &stubSource{name: "velvet comet"}, 5)
	rec := env.do(http.MethodPost, "/v1/palettes/regenerate-name", map[string]interface{}{
		"type":      "palette",
		"rationale": "Warm lanterns against a deep indigo sky.",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdjustColors(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)

	rec := env.do(http.MethodPost, "/v1/colors/adjust", map[string]interface{}{
		"colors": []string{"#336699", "#CC3300"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Colors  []string           `json:"colors"`
		Control model.ColorControl `json:"control"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"#336699", "#CC3300"}, resp.Colors)
	assert.Equal(t, model.NeutralControl(), resp.Control)

	rec = env.do(http.MethodPost, "/v1/colors/adjust", map[string]interface{}{
		"colors":     []string{"#336699"},
		"brightness": 80,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Colors, 1)
	assert.NotEqual(t, "#336699", resp.Colors[0])
}

func TestAdjustColorsValidation(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)

	rec := env.do(http.MethodPost, "/v1/colors/adjust", map[string]interface{}{
		"colors": []string{"#GGGGGG"},
		"warmth": 120,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "details")

	rec = env.do(http.MethodPost, "/v1/colors/adjust", map[string]interface{}{
		"colors": []string{"336699"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"colors[0]"`)
}

func TestExportPaletteCSS(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)

	rec := env.do(http.MethodPost, "/v1/palettes/export", map[string]interface{}{
		"style":  "css",
		"colors": []model.ColorItem{{Color: "#FF0000", Name: "Ruby Red"}},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, ":root {\n  --color-ruby-red: #FF0000;\n}", rec.Body.String())
}

func TestExportPalettePNG(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)

	rec := env.do(http.MethodPost, "/v1/palettes/export", map[string]interface{}{
		"style":       "png",
		"paletteName": "Quiet Harbor",
		"colors": []model.ColorItem{
			{Color: "#FF0000", Name: "Ruby Red"},
			{Color: "#0000FF", Name: "Deep Blue"},
		},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "quiet-harbor.png")

	_, err := png.Decode(rec.Body)
	require.NoError(t, err)
}

func TestExportPaletteRejectsUnknownStyle(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)
	rec := env.do(http.MethodPost, "/v1/palettes/export", map[string]interface{}{
		"style":  "sass",
		"colors": []model.ColorItem{{Color: "#FF0000", Name: "Ruby Red"}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNamesLedger(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)
	require.NoError(t, env.store.AppendNames("u4", "Ocean Breeze"))

	rec := env.do(http.MethodGet, "/v1/names", nil, map[string]string{userHeader: "u4"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"u4","names":["Ocean Breeze"]}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/v1/names", nil, map[string]string{userHeader: "u4"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.store.Names("u4"))
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	env := newTestEnv(t, &stubSource{}, 5)
	rec := env.do(http.MethodGet, "/v1/ws", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
