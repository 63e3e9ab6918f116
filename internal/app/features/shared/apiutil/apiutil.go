// internal/app/features/shared/apiutil/apiutil.go
package apiutil

import (
	"net/http"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor resolves the caller or writes a 401/403 and returns false.
func Actor(w http.ResponseWriter, r *http.Request, el *apierrors.ErrorLogger) (authz.Actor, bool) {
	if a, ok := authz.ActorFromRequest(r); ok {
		return a, true
	}
	if _, signedIn := auth.CurrentUser(r); !signedIn {
		apierrors.WriteJSON(w, http.StatusUnauthorized, apierrors.Body{
			Error:   "unauthorized",
			Message: "Please sign in to continue.",
		})
		return authz.Actor{}, false
	}
	el.Write(w, r, apperr.AccessDenied("Your account cannot perform this action."))
	return authz.Actor{}, false
}

// PathID parses the named chi URL parameter as an ObjectID. A malformed ID
// is reported as notFound, since no record can have it.
func PathID(w http.ResponseWriter, r *http.Request, el *apierrors.ErrorLogger, name, notFound string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		el.Write(w, r, apperr.NotFound(notFound))
		return primitive.NilObjectID, false
	}
	return id, true
}

// Hex parses a hex ObjectID, returning NilObjectID when malformed.
func Hex(s string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(s)
	return id
}
