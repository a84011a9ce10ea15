package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"geni-palette/internal/adjust"
	"geni-palette/internal/export"
	"geni-palette/internal/harmony"
	"geni-palette/internal/model"
	"geni-palette/internal/service"
	"geni-palette/internal/storage"
	"geni-palette/internal/validation"
	"geni-palette/internal/ws"
)

const userHeader = "X-User-ID"

type Handler struct {
	logger    *slog.Logger
	store     *storage.Store
	hub       *ws.Hub
	palettes  *service.PaletteService
	validator *validation.Validator
	upgrader  websocket.Upgrader
}

type apiError struct {
	Error string `json:"error"`
}

type validationError struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		writeErr(w, http.StatusBadRequest, errors.New("websocket upgrade required"))
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	client := ws.NewClient(h.hub, conn)
	h.hub.Publish(ws.EventClientConnected, map[string]string{"id": uuid.NewString()})
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

func (h *Handler) ListHarmonies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"harmonies": harmony.All()})
}

func (h *Handler) GeneratePalette(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt     string            `json:"prompt"`
		Harmony    model.HarmonyType `json:"harmony"`
		ColorCount *int              `json:"colorCount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	count := model.DefaultColorCount
	if req.ColorCount != nil {
		count = *req.ColorCount
	}

	p, err := h.palettes.Generate(r.Context(), service.GenerateInput{
		Prompt:     req.Prompt,
		Harmony:    req.Harmony,
		ColorCount: count,
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	resp := service.ToResponse(strings.TrimSpace(req.Prompt), req.Harmony, p)
	if p.Metadata.Source == model.SourceProvider {
		h.remember(userIDFromRequest(r), p.PaletteName)
	}
	h.hub.Publish(ws.EventPaletteGenerated, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) RegenerateName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type           service.NameKind  `json:"type"`
		Rationale      string            `json:"rationale"`
		Harmony        model.HarmonyType `json:"harmony"`
		Color          string            `json:"color"`
		GeneratedNames []string          `json:"generatedNames"`
		ExistingNames  []string          `json:"existingNames"`
		ColorCount     int               `json:"colorCount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := userIDFromRequest(r)

	avoid := append([]string{}, req.GeneratedNames...)
	avoid = append(avoid, req.ExistingNames...)
	avoid = append(avoid, h.store.Names(userID)...)

	name, err := h.palettes.RegenerateName(r.Context(), service.NameInput{
		Kind:           req.Type,
		Rationale:      req.Rationale,
		Harmony:        req.Harmony,
		Color:          req.Color,
		GeneratedNames: avoid,
		ColorCount:     req.ColorCount,
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	kind := req.Type
	if kind == "" {
		kind = service.NamePalette
	}
	h.remember(userID, name)
	payload := map[string]string{"name": name, "type": string(kind)}
	h.hub.Publish(ws.EventNameRegenerated, payload)
	writeJSON(w, http.StatusOK, payload)
}

type adjustRequest struct {
	Colors     []string `json:"colors" validate:"required,min=1,max=8,dive,hexcolor6"`
	Brightness *float64 `json:"brightness" validate:"omitempty,gte=0,lte=100"`
	Saturation *float64 `json:"saturation" validate:"omitempty,gte=0,lte=100"`
	Warmth     *float64 `json:"warmth" validate:"omitempty,gte=0,lte=100"`
}

func (h *Handler) AdjustColors(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.writeFailure(w, err)
		return
	}

	ctl := model.NeutralControl()
	if req.Brightness != nil {
		ctl.Brightness = *req.Brightness
	}
	if req.Saturation != nil {
		ctl.Saturation = *req.Saturation
	}
	if req.Warmth != nil {
		ctl.Warmth = *req.Warmth
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"colors":  adjust.ApplyAll(req.Colors, ctl),
		"control": ctl,
	})
}

type exportRequest struct {
	PaletteName string            `json:"paletteName" validate:"omitempty,max=40"`
	Colors      []model.ColorItem `json:"colors" validate:"required,min=1,max=8,dive"`
	Format      export.Format     `json:"format" validate:"omitempty,oneof=HEX RGB"`
	Style       export.Style      `json:"style" validate:"required,oneof=css tailwind3 tailwind4 png"`
}

var exportContentTypes = map[export.Style]string{
	export.StyleCSS:       "text/css; charset=utf-8",
	export.StyleTailwind3: "text/javascript; charset=utf-8",
	export.StyleTailwind4: "text/css; charset=utf-8",
}

func (h *Handler) ExportPalette(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.writeFailure(w, err)
		return
	}
	if req.Format == "" {
		req.Format = export.FormatHex
	}

	if req.Style == export.StylePNG {
		var buf bytes.Buffer
		if err := export.WritePNG(&buf, req.Colors, export.DefaultPNGOptions()); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		name := export.Slug(strings.TrimSpace(req.PaletteName))
		if name == "" {
			name = "palette"
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.png"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	code, err := export.Code(req.Style, req.Colors, req.Format)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", exportContentTypes[req.Style])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(code))
}

func (h *Handler) ListNames(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{"userId": userID, "names": h.store.Names(userID)})
}

func (h *Handler) ClearNames(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearNames(userIDFromRequest(r)); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) remember(userID, name string) {
	if err := h.store.AppendNames(userID, name); err != nil {
		h.logger.Error("record palette name", "user_id", userID, "error", err)
	}
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, validationError{Error: verr.First(), Details: verr.Fields})
		return
	}
	h.logger.Error("request failed", "error", err)
	writeErr(w, http.StatusInternalServerError, errors.New("internal error"))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, apiError{Error: err.Error()})
}

func userIDFromRequest(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get(userHeader))
	if v != "" {
		return v
	}
	return "anon"
}
