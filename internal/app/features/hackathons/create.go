// internal/app/features/hackathons/create.go
package hackathons

import (
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	hackathonrolestore "github.com/dalemusser/hackhub/internal/app/store/hackathonroles"
	hackathonstore "github.com/dalemusser/hackhub/internal/app/store/hackathons"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hackhub/internal/app/system/inputval"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /. The creator is recorded as an organizer of
// the new hackathon.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	if actor.OrganizationID.IsZero() {
		h.ErrLog.Write(w, r, apperr.AccessDenied("Your account does not belong to an organization."))
		return
	}

	var req createRequest
	if err := inputval.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	title := cleanTitle(req.Title)
	if title == "" {
		h.ErrLog.Validation(w, r, "title is required.")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create hackathon")
	defer cancel()

	created, err := hackathonstore.New(h.DB).Create(ctx, models.Hackathon{
		OrganizationID:  actor.OrganizationID,
		Title:           title,
		Description:     htmlsanitize.Sanitize(req.Description),
		IsActive:        active,
		MinimumTeamSize: req.MinimumTeamSize,
		MaximumTeamSize: req.MaximumTeamSize,
		Rounds:          toRounds(req.Rounds),
		CreatedByID:     actor.UserID,
	})
	if errors.Is(err, hackathonstore.ErrInvalidBounds) {
		h.ErrLog.Validation(w, r, "Team size bounds must satisfy 1 <= minimum <= maximum.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create hackathon failed", err, "Could not create hackathon.")
		return
	}

	// The hackathon is usable without the role; platform staff already
	// organize it.
	if _, err := hackathonrolestore.New(h.DB).Assign(ctx, created.ID, actor.UserID, authz.HackathonOrganizer, actor.UserID); err != nil {
		h.Log.Warn("assign creator organizer role failed",
			zap.String("hackathon_id", created.ID.Hex()),
			zap.Error(err))
	}

	h.Audit.HackathonCreated(ctx, r, actor.UserID, created.ID, created.OrganizationID, string(actor.Role), created.Title)
	apierrors.WriteJSON(w, http.StatusCreated, hackathonResponse{
		Message:   "Hackathon created successfully.",
		Hackathon: created,
	})
}
