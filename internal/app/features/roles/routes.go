// internal/app/features/roles/routes.go
package roles

import (
	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/hackathon-roles.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Route("/{hackathonId}", func(hr chi.Router) {
			hr.Get("/", h.ServeList)
			hr.Put("/", h.HandleAssign)
			hr.Post("/", h.HandleAssign)
			hr.Delete("/{userId}", h.HandleRemove)
		})
	})

	return r
}
