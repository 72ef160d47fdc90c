package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/oasis-sync/internal/api/schema"
	"github.com/skybi/oasis-sync/internal/config"
	"github.com/skybi/oasis-sync/internal/oasis"
	"github.com/skybi/oasis-sync/internal/observability"
)

// Service represents the HTTP API exposing authentication, sync and read operations
type Service struct {
	server *http.Server

	Config *config.Config
	Oasis  *oasis.Service

	// Gatherer is served at /metrics; the endpoint is not registered if nil
	Gatherer prometheus.Gatherer

	writer *schema.Writer
}

// Startup starts up the API
func (service *Service) Startup() error {
	server := &http.Server{
		Addr:              service.Config.ListenAddress,
		Handler:           service.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	service.server = server
	return server.ListenAndServe()
}

// Shutdown shuts down the API
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}

// Handler builds the HTTP handler serving every API endpoint
func (service *Service) Handler() http.Handler {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the API experienced an unexpected error")
		},
	}

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(hlog.NewHandler(log.Logger))
	router.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	router.Use(hlog.AccessHandler(func(request *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(request).Debug().
			Str("method", request.Method).
			Stringer("url", request.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("handled request")
	}))
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: service.Config.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"*"},
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	// Register the API endpoint handlers
	service.registerEndpoints(router)

	return observability.InstrumentHandler(router)
}

func (service *Service) registerEndpoints(router chi.Router) {
	router.Route("/oasis", func(router chi.Router) {
		router.Post("/auth/session", service.EndpointCreateSession)

		router.Post("/sync", service.EndpointSyncAll)
		router.Post("/student/info/sync", service.EndpointSyncStudentInfo)
		router.Post("/credits/sync", service.EndpointSyncCredits)
		router.Post("/taken-courses/sync", service.EndpointSyncTakenCourses)

		router.Get("/student/info/{std_no}", service.EndpointGetStudentInfo)
		router.Get("/credits/{std_no}", service.EndpointGetCredits)
		router.Get("/taken-courses/{std_no}", service.EndpointGetTakenCourses)
	})

	if service.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", observability.Handler(service.Gatherer))
	}
}
