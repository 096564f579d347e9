package cases

import (
	"net/http"

	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the case endpoints, mounted under /api/cases. Every route
// requires a signed-in caller; role and ownership checks happen in the
// service. mutating wraps the write endpoints (rate limiting).
func Routes(h *Handler, mutating ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.List)
	r.Get("/my-case", h.Mine)

	r.Group(func(wr chi.Router) {
		wr.Use(mutating...)
		wr.Post("/", h.Create)
		wr.Put("/{caseId}/status", h.PromoteStatus)
		wr.Post("/{caseId}/documents", h.AttachDocument)
	})
	return r
}
