// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID         primitive.ObjectID
	OrganizationID primitive.ObjectID
	Name           string
	Role           Role
}

// ActorFromRequest builds an Actor from the session user.
// It fails closed: a missing user, malformed user ID, or unknown role
// returns ok=false. OrganizationID may be NilObjectID for users without
// an organization; such actors never pass a tenant check.
func ActorFromRequest(r *http.Request) (Actor, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return Actor{}, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return Actor{}, false
	}
	role, ok := ParseRole(user.Role)
	if !ok {
		return Actor{}, false
	}
	a := Actor{UserID: userID, Name: user.Name, Role: role}
	if user.OrganizationID != "" {
		if oid, err := primitive.ObjectIDFromHex(user.OrganizationID); err == nil {
			a.OrganizationID = oid
		}
	}
	return a, true
}

// InOrg reports whether the actor belongs to orgID.
func (a Actor) InOrg(orgID primitive.ObjectID) bool {
	return !a.OrganizationID.IsZero() && a.OrganizationID == orgID
}

// IsStaff reports whether the actor holds an organizer or admin platform role.
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleOrganizer
}

// CanOrganize reports whether the actor has organizer/admin privilege over a
// hackathon in orgID, either through the platform role or through an
// organizer role on that hackathon.
func (a Actor) CanOrganize(orgID primitive.ObjectID, hr HackathonRole) bool {
	if !a.InOrg(orgID) {
		return false
	}
	return a.IsStaff() || hr == HackathonOrganizer
}
