// internal/app/features/hackathons/list.go
package hackathons

import (
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	hackathonstore "github.com/dalemusser/hackhub/internal/app/store/hackathons"
	teamstore "github.com/dalemusser/hackhub/internal/app/store/teams"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeList handles GET / for the caller's organization. ?active=true
// limits the list to hackathons open for registration.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	if actor.OrganizationID.IsZero() {
		apierrors.WriteJSON(w, http.StatusOK, hackathonsResponse{Hackathons: []models.Hackathon{}})
		return
	}
	activeOnly := strings.EqualFold(query.Get(r, "active"), "true")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list hackathons")
	defer cancel()

	list, err := hackathonstore.New(h.DB).ListByOrg(ctx, actor.OrganizationID, activeOnly)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list hackathons failed", err, "Could not load hackathons.")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, hackathonsResponse{Hackathons: list, Total: len(list)})
}

// ServeGet handles GET /{id}. The response carries the number of teams
// registered so far.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	id, ok := apiutil.PathID(w, r, h.ErrLog, "id", "Hackathon not found.")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get hackathon")
	defer cancel()

	hack, err := hackathonstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, apperr.NotFound("Hackathon not found."))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get hackathon failed", err, "Could not load hackathon.")
		return
	}
	if !actor.InOrg(hack.OrganizationID) {
		h.ErrLog.Write(w, r, apperr.AccessDenied("This hackathon belongs to another organization."))
		return
	}
	teams, err := teamstore.New(h.DB).CountByHackathon(ctx, hack.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count teams failed", err, "Could not load hackathon.")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, hackathonResponse{Hackathon: hack, TeamCount: &teams})
}
