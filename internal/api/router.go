package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.Healthz)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.GetRuns)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetRun)
			r.Get("/report", s.GetRunReport)
		})
	})

	r.Post("/run", s.TriggerRun)

	return r
}
