package proxy

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kahdian/wikiproxy/internal/proxy/handler"
	"github.com/kahdian/wikiproxy/internal/proxy/middleware"
)

// Server holds dependencies for the HTTP proxy server.
type Server struct {
	Router   chi.Router
	Handlers *handler.Handlers
}

// ServerConfig holds configuration for creating a new Server.
type ServerConfig struct {
	Handlers *handler.Handlers
	Logger   *zap.Logger                // optional, enables request logging
	Observer middleware.RequestObserver // optional, enables request metrics
}

// NewServer creates a chi router with all routes configured.
func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.NewRequestLogger(cfg.Logger))
	r.Use(middleware.NewInstrumentMiddleware(cfg.Observer))
	r.Use(chiMiddleware.Recoverer)

	s := &Server{
		Router:   r,
		Handlers: cfg.Handlers,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.Router

	r.Get("/", s.Handlers.Liveness)
	r.Get("/search", s.Handlers.Search)

	r.Route("/links", func(r chi.Router) {
		// A bare /links or /links/ has an empty title and is rejected by the handler.
		r.Get("/", s.Handlers.Links)
		r.Get("/{title}", s.Handlers.Links)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
