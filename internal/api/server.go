// Package api provides the HTTP API server and handlers for the Soundfolio CMS.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/soundfolio/soundfolio-server/internal/config"
	"github.com/soundfolio/soundfolio-server/internal/media"
	"github.com/soundfolio/soundfolio-server/internal/sse"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// Version is reported by the health endpoint and the OpenAPI document.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	sseManager *sse.Manager
	sseHandler *sse.Handler

	// media is nil when the media host credentials are not configured;
	// the listing endpoint then answers 404.
	media *media.Client

	authRateLimiter    *RateLimiter
	contactRateLimiter *RateLimiter

	startedAt time.Time
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	st *store.Store,
	services *Services,
	sseManager *sse.Manager,
	sseHandler *sse.Handler,
	mediaClient *media.Client,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	// The envelope is the whole wire contract. Replacing the default
	// transformer chain keeps $schema links from landing inside data.
	humaConfig.Transformers = []huma.Transformer{EnvelopeTransformer}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:              st,
		services:           services,
		router:             router,
		api:                api,
		logger:             logger,
		sseManager:         sseManager,
		sseHandler:         sseHandler,
		media:              mediaClient,
		authRateLimiter:    newPerMinuteLimiter(cfg.Auth.LoginRatePerMinute),
		contactRateLimiter: newPerMinuteLimiter(cfg.Auth.ContactRatePerMinute),
		startedAt:          time.Now(),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerPageRoutes()
	s.registerTrackRoutes()
	s.registerPlaylistRoutes()
	s.registerContactRoutes()
	s.registerSearchRoutes()
	s.registerMediaRoutes()
	s.registerEventRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// newPerMinuteLimiter builds a keyed limiter for a per-minute budget,
// allowing half the budget as an initial burst.
func newPerMinuteLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return NewRateLimiter(perMinute, time.Minute, max(1, perMinute/2))
}
