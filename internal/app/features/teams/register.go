// internal/app/features/teams/register.go
package teams

import (
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/system/inputval"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
)

// HandleRegister handles POST /hackathons/{hackathonId}/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, ok := apiutil.PathID(w, r, h.ErrLog, "hackathonId", "Hackathon not found.")
	if !ok {
		return
	}

	var req teamRequest
	if err := inputval.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "register team")
	defer cancel()

	view, err := h.Svc.Register(ctx, hackathonID, actor, req.input())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Audit.TeamRegistered(ctx, r, actor.UserID, teamRef(view), len(view.Members))
	apierrors.WriteJSON(w, http.StatusCreated, teamResponse{
		Message: "Team registered successfully.",
		Team:    view,
	})
}
