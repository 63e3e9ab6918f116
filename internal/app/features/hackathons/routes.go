// internal/app/features/hackathons/routes.go
package hackathons

import (
	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/hackathons. Creating a hackathon needs a platform
// admin or organizer; PATCH is authorized per hackathon in the handler.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.With(sm.RequireRole("admin", "organizer")).Post("/", h.HandleCreate)
	})

	return r
}
