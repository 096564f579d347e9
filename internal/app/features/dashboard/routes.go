package dashboard

import (
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under /api/dashboard.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/counts", h.ServeCounts)
	return r
}
