// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under /api/audit. Admins only; the check
// happens in the handler so denials are audited.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeList)
	return r
}
