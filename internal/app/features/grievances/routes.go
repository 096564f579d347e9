package grievances

import (
	"net/http"

	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the grievance endpoints, mounted under /api/grievances.
// mutating wraps the write endpoints.
func Routes(h *Handler, mutating ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ListOpen)
	r.Get("/my-grievances", h.Mine)

	r.Group(func(wr chi.Router) {
		wr.Use(mutating...)
		wr.Post("/", h.Create)
		wr.Put("/{id}/resolve", h.Resolve)
	})
	return r
}
