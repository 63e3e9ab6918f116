// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/system/auth"
)

// Handler serves the identity of the current session.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type meResponse struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	ID              string `json:"id,omitempty"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Role            string `json:"role,omitempty"`
	OrganizationID  string `json:"organization_id,omitempty"`
}

// ServeMe handles GET /api/me. Anonymous callers get
// {"is_authenticated": false} rather than a 401 so clients can probe the
// session cheaply.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.WriteJSON(w, http.StatusOK, meResponse{})
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, meResponse{
		IsAuthenticated: true,
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		OrganizationID:  user.OrganizationID,
	})
}
