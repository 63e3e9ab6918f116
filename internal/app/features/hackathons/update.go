// internal/app/features/hackathons/update.go
package hackathons

import (
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	hackathonrolestore "github.com/dalemusser/hackhub/internal/app/store/hackathonroles"
	hackathonstore "github.com/dalemusser/hackhub/internal/app/store/hackathons"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hackhub/internal/app/system/inputval"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleUpdate handles PATCH /{id}. Platform staff of the organization and
// organizers of the hackathon may change its settings.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	id, ok := apiutil.PathID(w, r, h.ErrLog, "id", "Hackathon not found.")
	if !ok {
		return
	}

	var req updateRequest
	if err := inputval.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update hackathon")
	defer cancel()

	store := hackathonstore.New(h.DB)
	hack, err := store.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, apperr.NotFound("Hackathon not found."))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get hackathon failed", err, "Could not load hackathon.")
		return
	}
	hr, err := hackathonrolestore.New(h.DB).RoleFor(ctx, hack.ID, actor.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load hackathon role failed", err, "Could not load hackathon role.")
		return
	}
	if !actor.CanOrganize(hack.OrganizationID, hr) {
		h.ErrLog.Write(w, r, apperr.AccessDenied("You don't have permission to change this hackathon."))
		return
	}

	upd, changed := req.toUpdate()
	if upd.Title != nil && *upd.Title == "" {
		h.ErrLog.Validation(w, r, "title is required.")
		return
	}
	if len(changed) == 0 {
		apierrors.WriteJSON(w, http.StatusOK, hackathonResponse{Message: "Nothing to update.", Hackathon: hack})
		return
	}

	next, err := store.UpdateSettings(ctx, hack.ID, upd)
	if errors.Is(err, hackathonstore.ErrInvalidBounds) {
		h.ErrLog.Validation(w, r, "Team size bounds must satisfy 1 <= minimum <= maximum.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update hackathon failed", err, "Could not update hackathon.")
		return
	}

	h.Audit.HackathonUpdated(ctx, r, actor.UserID, next.ID, next.OrganizationID, string(actor.Role), strings.Join(changed, ","))
	apierrors.WriteJSON(w, http.StatusOK, hackathonResponse{
		Message:   "Hackathon updated successfully.",
		Hackathon: next,
	})
}

// toUpdate converts the request into a store update and lists the fields it sets.
func (req updateRequest) toUpdate() (hackathonstore.Update, []string) {
	var upd hackathonstore.Update
	var changed []string
	if req.Title != nil {
		t := cleanTitle(*req.Title)
		upd.Title = &t
		changed = append(changed, "title")
	}
	if req.Description != nil {
		d := htmlsanitize.Sanitize(*req.Description)
		upd.Description = &d
		changed = append(changed, "description")
	}
	if req.IsActive != nil {
		upd.IsActive = req.IsActive
		changed = append(changed, "is_active")
	}
	if req.MinimumTeamSize != nil {
		upd.MinimumTeamSize = req.MinimumTeamSize
		changed = append(changed, "minimum_team_size")
	}
	if req.MaximumTeamSize != nil {
		upd.MaximumTeamSize = req.MaximumTeamSize
		changed = append(changed, "maximum_team_size")
	}
	if req.Rounds != nil {
		rounds := toRounds(*req.Rounds)
		upd.Rounds = &rounds
		changed = append(changed, "rounds")
	}
	return upd, changed
}
