// internal/app/features/teams/update.go
package teams

import (
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/system/inputval"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
)

// HandleUpdate handles PUT /hackathons/{hackathonId}/teams/{teamId}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, ok := apiutil.PathID(w, r, h.ErrLog, "hackathonId", "Hackathon not found.")
	if !ok {
		return
	}
	teamID, ok := apiutil.PathID(w, r, h.ErrLog, "teamId", "Team not found.")
	if !ok {
		return
	}

	var req teamRequest
	if err := inputval.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update team")
	defer cancel()

	view, change, err := h.Svc.Update(ctx, hackathonID, teamID, actor, req.input())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Audit.TeamUpdated(ctx, r, actor.UserID, teamRef(view), len(change.Added), len(change.Removed))
	apierrors.WriteJSON(w, http.StatusOK, teamResponse{
		Message: "Team updated successfully.",
		Team:    view,
	})
}
