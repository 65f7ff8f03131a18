package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the API surface shared by the server binary and the
// handler tests. Global middleware (CORS, rate limiting) is applied by the
// caller.
func NewRouter(uploadHandler *UploadHandler, dashboardHandler *DashboardHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/upload", uploadHandler.Routes())
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Get("/health", HandleHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"message": "Stokdash backend is running"})
	})

	return r
}
