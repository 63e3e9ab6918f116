// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all audit log routes under the path where this
// router is mounted (typically "/api/audit" from bootstrap).
//
// Access is restricted to platform admins and organizers, and every query is
// scoped to the caller's organization.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "organizer"))

		pr.Get("/", h.ServeList)
	})

	return r
}
