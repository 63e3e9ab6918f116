// internal/app/policy/teampolicy/teampolicy.go
package teampolicy

import (
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanEditTeam reports whether the actor can change a team's name, idea, or members:
// - The team leader can
// - Platform admins/organizers of the team's organization can
// - Users holding the organizer hackathon role for the team's hackathon can
// hr is the actor's role for the team's hackathon (NoHackathonRole if none).
func CanEditTeam(a authz.Actor, t models.Team, hr authz.HackathonRole) bool {
	if a.UserID == t.LeaderID && a.InOrg(t.OrganizationID) {
		return true
	}
	return a.CanOrganize(t.OrganizationID, hr)
}

// CanWithdrawTeam reports whether the actor can withdraw (delete) a team:
// any member of the team, or anyone with organizer/admin privilege.
func CanWithdrawTeam(a authz.Actor, t models.Team, hr authz.HackathonRole) bool {
	if t.HasMember(a.UserID) && a.InOrg(t.OrganizationID) {
		return true
	}
	return a.CanOrganize(t.OrganizationID, hr)
}

// CanViewAllTeams reports whether the actor can list every team of a hackathon
// in orgID. Organizers and admins can; so can judges and mentors of the
// hackathon since they evaluate submissions.
func CanViewAllTeams(a authz.Actor, orgID primitive.ObjectID, hr authz.HackathonRole) bool {
	if !a.InOrg(orgID) {
		return false
	}
	return a.IsStaff() || hr.IsStaff()
}

// CanManageRoles reports whether the actor can assign or remove hackathon roles.
// Only platform admins and organizers of the organization can; a hackathon
// organizer role is not enough to appoint other organizers.
func CanManageRoles(a authz.Actor, orgID primitive.ObjectID) bool {
	return a.InOrg(orgID) && a.IsStaff()
}
