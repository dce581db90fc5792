package server

import (
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/nextgenai/nextgen/internal/observability"
	"github.com/nextgenai/nextgen/internal/server/handlers"
	servermw "github.com/nextgenai/nextgen/internal/server/middleware"
)

// GeneratePath is the content generation endpoint.
const GeneratePath = "/functions/v1/generate-content"

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	health := s.opts.Health
	s.router.Get("/health", health.HealthHandler)
	s.router.Get("/health/live", health.LivenessHandler)
	s.router.Get("/health/ready", health.ReadinessHandler)
	s.router.Get("/health/startup", health.StartupHandler)

	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	s.registerFunctions()
	s.registerAdminEndpoint()
}

// registerFunctions mounts the browser-facing generation routes.
func (s *Server) registerFunctions() {
	gen := &handlers.GenerateHandler{
		Generator:    s.opts.Generator,
		MaxBodyBytes: s.opts.MaxBodyBytes,
	}

	s.router.Route("/functions/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:     s.opts.AllowedOrigins,
			AllowedMethods:     []string{"POST", "OPTIONS"},
			AllowedHeaders:     handlers.PreflightHeaders,
			ExposedHeaders:     []string{servermw.RequestIDHeader},
			MaxAge:             86400,
			OptionsPassthrough: true,
		}))

		// Preflight never requires the client key.
		r.Options("/generate-content", handlers.PreflightHandler)
		r.With(requireClientKey(s.opts.ClientKey)).Post("/generate-content", gen.ServeHTTP)
	})
}

// registerAdminEndpoint optionally registers the admin signal endpoint
func (s *Server) registerAdminEndpoint() {
	logger := observability.ServerLogger

	if s.opts.AdminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (server.admin_token not set)")
		}
		return
	}

	// Create HTTP signal handler with bearer token auth and rate limiting
	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: s.opts.AdminToken,
		RateLimit: 10,  // 10 requests per minute
		RateBurst: 5,   // burst size
		Manager:   nil, // use default global manager
	})

	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("auth", "bearer token"),
			zap.String("rate_limit", "10/min, burst 5"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
