// internal/app/features/teams/withdraw.go
package teams

import (
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
)

// HandleWithdraw handles DELETE /hackathons/{hackathonId}/teams/{teamId}.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "withdraw team")
	defer cancel()

	snapshot, err := h.Svc.Withdraw(ctx, hackathonID, teamID, actor)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Audit.TeamWithdrawn(ctx, r, actor.UserID, teamRef(snapshot))
	apierrors.WriteJSON(w, http.StatusOK, messageResponse{Message: "Team withdrawn successfully."})
}
