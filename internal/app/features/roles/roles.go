// internal/app/features/roles/roles.go
package roles

import (
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/policy/teampolicy"
	hackathonrolestore "github.com/dalemusser/hackhub/internal/app/store/hackathonroles"
	userstore "github.com/dalemusser/hackhub/internal/app/store/users"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/app/system/inputval"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignRequest struct {
	UserID string `json:"user_id" validate:"required,objectid"`
	Role   string `json:"role" validate:"required,hackathonrole"`
}

type roleResponse struct {
	Message string               `json:"message"`
	Role    models.HackathonRole `json:"role"`
}

type rolesResponse struct {
	Roles []models.HackathonRole `json:"roles"`
	Total int                    `json:"total"`
}

// ServeList handles GET /. Staff of the organization and any staff role
// holder of the hackathon may see who holds which role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, ok := apiutil.PathID(w, r, h.ErrLog, "hackathonId", "Hackathon not found.")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list hackathon roles")
	defer cancel()

	hack, err := h.loadHackathon(ctx, hackathonID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	store := hackathonrolestore.New(h.DB)
	hr, err := store.RoleFor(ctx, hack.ID, actor.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load hackathon role failed", err, "Could not load hackathon role.")
		return
	}
	if !teampolicy.CanViewAllTeams(actor, hack.OrganizationID, hr) {
		h.ErrLog.Write(w, r, apperr.AccessDenied("You don't have permission to view hackathon roles."))
		return
	}

	list, err := store.ListByHackathon(ctx, hack.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list hackathon roles failed", err, "Could not load hackathon roles.")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, rolesResponse{Roles: list, Total: len(list)})
}

// HandleAssign handles PUT /. The role is set unconditionally, replacing
// whatever the user held before.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, ok := apiutil.PathID(w, r, h.ErrLog, "hackathonId", "Hackathon not found.")
	if !ok {
		return
	}
	var req assignRequest
	if err := inputval.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	role, _ := authz.ParseHackathonRole(req.Role)
	userID := apiutil.Hex(req.UserID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "assign hackathon role")
	defer cancel()

	hack, err := h.loadHackathon(ctx, hackathonID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !teampolicy.CanManageRoles(actor, hack.OrganizationID) {
		h.ErrLog.Write(w, r, apperr.AccessDenied("You don't have permission to manage hackathon roles."))
		return
	}

	n, err := userstore.New(h.DB).CountActiveInOrg(ctx, hack.OrganizationID, []primitive.ObjectID{userID})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check user failed", err, "Could not load user.")
		return
	}
	if n == 0 {
		h.ErrLog.Write(w, r, apperr.NotFound("User not found in this organization."))
		return
	}

	doc, err := hackathonrolestore.New(h.DB).Assign(ctx, hack.ID, userID, role, actor.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assign hackathon role failed", err, "Could not assign role.")
		return
	}

	h.Audit.RoleAssigned(ctx, r, actor.UserID, userID, hack.ID, hack.OrganizationID, string(actor.Role), string(role))
	apierrors.WriteJSON(w, http.StatusOK, roleResponse{Message: "Role assigned successfully.", Role: doc})
}

// HandleRemove handles DELETE /{userId}.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, ok := apiutil.PathID(w, r, h.ErrLog, "hackathonId", "Hackathon not found.")
	if !ok {
		return
	}
	userID, ok := apiutil.PathID(w, r, h.ErrLog, "userId", "Role not found.")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "remove hackathon role")
	defer cancel()

	hack, err := h.loadHackathon(ctx, hackathonID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !teampolicy.CanManageRoles(actor, hack.OrganizationID) {
		h.ErrLog.Write(w, r, apperr.AccessDenied("You don't have permission to manage hackathon roles."))
		return
	}

	err = hackathonrolestore.New(h.DB).Remove(ctx, hack.ID, userID)
	if errors.Is(err, hackathonrolestore.ErrNotFound) {
		h.ErrLog.Write(w, r, apperr.NotFound("Role not found."))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "remove hackathon role failed", err, "Could not remove role.")
		return
	}

	h.Audit.RoleRemoved(ctx, r, actor.UserID, userID, hack.ID, hack.OrganizationID, string(actor.Role))
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": "Role removed successfully."})
}
