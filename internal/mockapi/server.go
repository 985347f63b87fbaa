package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is an in-memory stand-in for the CDN control plane's admin API.
// It implements the full REST contract the client depends on, so the CLI can
// run against it locally and the test suite can exercise real HTTP.
type Server struct {
	router chi.Router
	logger zerolog.Logger
	store  *Store
}

func NewServer(logger zerolog.Logger, store *Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		store:  store,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(chimw.Recoverer)
	s.router.Use(metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/api/admin", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		// Everything else requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(s.auth)

			r.Route("/user", func(r chi.Router) {
				r.Get("/info", s.handleSelfInfo)
				r.Get("/list", s.handleUserList)
				r.Get("/info/{id}", s.handleUserGet)
				r.Post("/create", s.handleUserCreate)
				r.Patch("/info/{id}", s.handleUserUpdate)
				r.Put("/username/{id}", s.handleUserUsername)
				r.Put("/password/{id}", s.handleUserPassword)
				r.Put("/role/{id}", s.handleUserRole)
				r.Delete("/delete/{id}", s.handleUserDelete)
			})

			r.Route("/instance", func(r chi.Router) {
				r.Get("/list", s.handleInstanceList)
				r.Get("/info/{id}", s.handleInstanceGet)
				r.Post("/create", s.handleInstanceCreate)
				r.Patch("/info/{id}", s.handleInstanceUpdate)
				r.Post("/rotate-token/{id}", s.handleInstanceRotateToken)
				r.Delete("/delete/{id}", s.handleInstanceDelete)
			})

			r.Route("/site", func(r chi.Router) {
				r.Get("/list", s.handleSiteList)
				r.Get("/info/{id}", s.handleSiteGet)
				r.Post("/create", s.handleSiteCreate)
				r.Patch("/info/{id}", s.handleSiteUpdate)
				r.Delete("/delete/{id}", s.handleSiteDelete)
			})

			r.Route("/cert", func(r chi.Router) {
				r.Get("/list", s.handleCertList)
				r.Get("/info/{id}", s.handleCertGet)
				r.Post("/create", s.handleCertCreate)
				r.Patch("/info/{id}", s.handleCertUpdate)
				r.Post("/renew/{id}", s.handleCertRenew)
				r.Delete("/delete/{id}", s.handleCertDelete)
			})

			r.Route("/template", func(r chi.Router) {
				r.Get("/list", s.handleTemplateList)
				r.Get("/info/{id}", s.handleTemplateGet)
				r.Post("/create", s.handleTemplateCreate)
				r.Patch("/info/{id}", s.handleTemplateUpdate)
				r.Delete("/delete/{id}", s.handleTemplateDelete)
			})

			r.Route("/additional-file", func(r chi.Router) {
				r.Get("/list", s.handleFileList)
				r.Get("/info/{id}", s.handleFileGet)
				r.Post("/create", s.handleFileCreate)
				r.Patch("/info/{id}", s.handleFileUpdate)
				r.Post("/replace/{id}", s.handleFileReplace)
				r.Get("/download/{id}", s.handleFileDownload)
				r.Delete("/delete/{id}", s.handleFileDelete)
			})
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
