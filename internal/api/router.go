package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"geni-palette/internal/config"
	"geni-palette/internal/service"
	"geni-palette/internal/storage"
	"geni-palette/internal/validation"
	"geni-palette/internal/ws"
)

const maxBodyBytes = 1 << 20

func NewRouter(
	cfg config.Config,
	logger *slog.Logger,
	store *storage.Store,
	hub *ws.Hub,
	palettes *service.PaletteService,
) http.Handler {
	h := &Handler{
		logger:    logger,
		store:     store,
		hub:       hub,
		palettes:  palettes,
		validator: validation.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	limiter := newKeyedLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", userHeader},
		MaxAge:         300,
	}))
	r.Use(limitBody(maxBodyBytes))

	r.Get("/healthz", h.Healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ws", h.WebSocket)
		r.Get("/harmonies", h.ListHarmonies)

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(limiter, logger))
			r.Post("/palettes/generate", h.GeneratePalette)
			r.Post("/palettes/regenerate-name", h.RegenerateName)
		})
		r.Post("/palettes/export", h.ExportPalette)
		r.Post("/colors/adjust", h.AdjustColors)

		r.Get("/names", h.ListNames)
		r.Delete("/names", h.ClearNames)
	})
	return r
}

func limitBody(maxSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
