// internal/app/features/ideas/ideas.go
package ideas

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	hackathonstore "github.com/dalemusser/hackhub/internal/app/store/hackathons"
	ideastore "github.com/dalemusser/hackhub/internal/app/store/ideas"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hackhub/internal/app/system/inputval"
	"github.com/dalemusser/hackhub/internal/app/system/normalize"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createRequest struct {
	HackathonID string `json:"hackathon_id" validate:"required,objectid"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=20000"`
}

type ideaResponse struct {
	Message string      `json:"message"`
	Idea    models.Idea `json:"idea"`
}

type ideasResponse struct {
	Ideas []models.Idea `json:"ideas"`
	Total int           `json:"total"`
}

// HandleCreate handles POST /. Any signed-in member of the hackathon's
// organization may submit an idea.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}

	var req createRequest
	if err := inputval.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	title := normalize.Name(htmlsanitize.StripTags(req.Title))
	if title == "" {
		h.ErrLog.Validation(w, r, "title is required.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create idea")
	defer cancel()

	hack, err := h.hackathonFor(ctx, actor, apiutil.Hex(req.HackathonID))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	idea, err := ideastore.New(h.DB).Create(ctx, models.Idea{
		OrganizationID: hack.OrganizationID,
		HackathonID:    hack.ID,
		Title:          title,
		Description:    htmlsanitize.Sanitize(req.Description),
		CreatedByID:    actor.UserID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create idea failed", err, "Could not create idea.")
		return
	}

	h.Audit.IdeaCreated(ctx, r, actor.UserID, idea.ID, hack.ID, hack.OrganizationID, idea.Title)
	apierrors.WriteJSON(w, http.StatusCreated, ideaResponse{
		Message: "Idea created successfully.",
		Idea:    idea,
	})
}

// ServeList handles GET /?hackathon={id}.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	hackathonID, err := primitive.ObjectIDFromHex(query.Get(r, "hackathon"))
	if err != nil {
		h.ErrLog.Validation(w, r, "hackathon must be a valid id.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ideas")
	defer cancel()

	hack, err := h.hackathonFor(ctx, actor, hackathonID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	list, err := ideastore.New(h.DB).ListByHackathon(ctx, hack.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list ideas failed", err, "Could not load ideas.")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, ideasResponse{Ideas: list, Total: len(list)})
}

// hackathonFor loads the hackathon and checks the actor belongs to its organization.
func (h *Handler) hackathonFor(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (models.Hackathon, error) {
	hack, err := hackathonstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Hackathon{}, apperr.NotFound("Hackathon not found.")
	}
	if err != nil {
		return models.Hackathon{}, apperr.Internal("Could not load hackathon.", err)
	}
	if !actor.InOrg(hack.OrganizationID) {
		return models.Hackathon{}, apperr.AccessDenied("This hackathon belongs to another organization.")
	}
	return hack, nil
}
