// internal/app/features/teams/list.go
package teams

import (
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
)

// ServeTeams handles GET /hackathons/{hackathonId}/teams.
func (h *Handler) ServeTeams(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, ok := apiutil.PathID(w, r, h.ErrLog, "hackathonId", "Hackathon not found.")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list teams")
	defer cancel()

	views, err := h.Svc.Teams(ctx, hackathonID, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, teamsResponse{Teams: views, Total: len(views)})
}

// ServeMyTeam handles GET /hackathons/{hackathonId}/my.
func (h *Handler) ServeMyTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, ok := apiutil.PathID(w, r, h.ErrLog, "hackathonId", "Hackathon not found.")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "my team")
	defer cancel()

	view, err := h.Svc.MyTeam(ctx, hackathonID, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, teamResponse{Team: view})
}

// ServeMyTeams handles GET /my-teams.
func (h *Handler) ServeMyTeams(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "my teams")
	defer cancel()

	views, err := h.Svc.MyTeams(ctx, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, teamsResponse{Teams: views, Total: len(views)})
}
