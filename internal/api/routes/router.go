package routes

import (
	"net/http"

	"github.com/alokrajg/hcp-profiling-agent/internal/api/handlers"
	"github.com/alokrajg/hcp-profiling-agent/internal/api/middleware"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	profileHandler *handlers.ProfileHandler
	ingestHandler  *handlers.IngestHandler
	emailHandler   *handlers.EmailHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	profileHandler *handlers.ProfileHandler,
	ingestHandler *handlers.IngestHandler,
	emailHandler *handlers.EmailHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		profileHandler: profileHandler,
		ingestHandler:  ingestHandler,
		emailHandler:   emailHandler,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Profile endpoints
	r.mux.HandleFunc("POST /api/profiles", r.profileHandler.GenerateProfiles)
	r.mux.HandleFunc("GET /api/profiles/{npi}", r.profileHandler.GetProfile)

	// Ingestion endpoint
	r.mux.HandleFunc("POST /api/ingest", r.ingestHandler.IngestCSV)

	// Email dispatch endpoint
	r.mux.HandleFunc("POST /api/email/dispatch", r.emailHandler.DispatchEmail)

	var handler http.Handler = r.mux
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
