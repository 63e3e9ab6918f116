// internal/app/system/authz/roles.go
package authz

import "strings"

// Role is a platform role stored on the user document.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

// Roles lists every platform role.
var Roles = []Role{RoleAdmin, RoleOrganizer, RoleParticipant}

// ParseRole normalizes s and reports whether it names a platform role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleOrganizer, RoleParticipant:
		return r, true
	}
	return "", false
}

// HackathonRole is a per-hackathon role stored in hackathon_roles.
type HackathonRole string

const (
	HackathonParticipant HackathonRole = "participant"
	HackathonOrganizer   HackathonRole = "organizer"
	HackathonJudge       HackathonRole = "judge"
	HackathonMentor      HackathonRole = "mentor"

	// NoHackathonRole means the user holds no role document for the hackathon.
	NoHackathonRole HackathonRole = ""
)

// HackathonRoles lists every assignable hackathon role.
var HackathonRoles = []HackathonRole{
	HackathonParticipant,
	HackathonOrganizer,
	HackathonJudge,
	HackathonMentor,
}

// ParseHackathonRole normalizes s and reports whether it names a hackathon role.
func ParseHackathonRole(s string) (HackathonRole, bool) {
	r := HackathonRole(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range HackathonRoles {
		if r == known {
			return r, true
		}
	}
	return NoHackathonRole, false
}

// IsStaff reports whether the hackathon role runs or evaluates the event.
func (r HackathonRole) IsStaff() bool {
	return r == HackathonOrganizer || r == HackathonJudge || r == HackathonMentor
}
