package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	alpha   *alpha.Provider
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured. alphaProvider may be nil,
// in which case the CSV import endpoint is not registered.
func New(tr *tracker.Tracker, alphaProvider *alpha.Provider, log *slog.Logger) *Server {
	s := &Server{
		tracker: tr,
		alpha:   alphaProvider,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches an extra handler, such as the MCP endpoint, under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(ReloadOnRead(s.tracker))

		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Put("/sessions/{id}", s.handleEditSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)

		r.Post("/draft", s.handleCreateDraft)
		r.Get("/draft", s.handleGetDraft)
		r.Post("/draft/exercises", s.handleAddDraftExercise)
		r.Delete("/draft/exercises/{index}", s.handleRemoveDraftExercise)
		r.Post("/draft/exercises/{index}/sets", s.handleAddDraftSet)
		r.Get("/draft/exercises/{index}/quick-add", s.handleQuickAdd)
		r.Post("/draft/finish", s.handleFinishDraft)

		r.Get("/exercises/available", s.handleAvailableExercises)
		r.Get("/exercises/custom", s.handleListCustomExercises)
		r.Post("/exercises/custom", s.handleAddCustomExercise)
		r.Delete("/exercises/custom/{type}/{name}", s.handleRemoveCustomExercise)

		r.Get("/progress", s.handleProgress)
		r.Get("/progress/exercises", s.handleProgressExercises)
		r.Get("/stats", s.handleStats)

		if s.alpha != nil {
			r.Post("/import/alpha", s.handleAlphaImport)
		}
	})
}
