// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a registration for one hackathon.
//
// NOTE:
//   - Members is replaced wholesale on update, never diffed in place.
//   - LeaderID is always one of Members.
//   - OrganizationID is denormalized from the hackathon.
//   - Exclusivity (one team per user per hackathon) is enforced by the
//     team_seats collection, not by this document.
type Team struct {
	ID             primitive.ObjectID   `bson:"_id" json:"id"`
	Name           string               `bson:"name" json:"name"`
	NameCI         string               `bson:"name_ci" json:"-"`
	IdeaID         primitive.ObjectID   `bson:"idea_id" json:"idea_id"`
	Members        []primitive.ObjectID `bson:"members" json:"members"`
	LeaderID       primitive.ObjectID   `bson:"leader_id" json:"leader_id"`
	OrganizationID primitive.ObjectID   `bson:"organization_id" json:"organization_id"`
	HackathonID    primitive.ObjectID   `bson:"hackathon_id" json:"hackathon_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID is on the team.
func (t Team) HasMember(userID primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}
