// internal/app/features/teams/routes.go
package teams

import (
	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/teams.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/my-teams", h.ServeMyTeams)

		pr.Route("/hackathons/{hackathonId}", func(hr chi.Router) {
			hr.Post("/register", h.HandleRegister)
			hr.Get("/teams", h.ServeTeams)
			hr.Get("/my", h.ServeMyTeam)
			hr.Put("/teams/{teamId}", h.HandleUpdate)
			hr.Delete("/teams/{teamId}", h.HandleWithdraw)
		})
	})

	return r
}
