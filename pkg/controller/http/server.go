package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/keepsake-lab/keepsake/pkg/usecase"
	"github.com/keepsake-lab/keepsake/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/messages", s.handleListMessages)
				r.Put("/mode", s.handleSetMode)
				r.Put("/transcript", s.handleUpdateTranscript)
				r.Post("/turns", s.handleRunTurn)

				r.Route("/proposal", func(r chi.Router) {
					r.Get("/", s.handleGetProposal)
					r.Post("/confirm", s.handleConfirmProposal)
					r.Post("/dismiss", s.handleDismissProposal)
				})
			})
		})

		r.Route("/memories", func(r chi.Router) {
			r.Post("/", s.handleCreateMemory)
			r.Get("/", s.handleListMemories)
			r.Get("/{memoryID}", s.handleGetMemory)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
