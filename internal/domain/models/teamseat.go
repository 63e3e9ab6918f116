// internal/domain/models/teamseat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamSeat claims a user's single seat in a hackathon for one team.
// Exactly one document per (hackathon_id, user_id), enforced by a unique index.
type TeamSeat struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HackathonID primitive.ObjectID `bson:"hackathon_id" json:"hackathon_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	TeamID      primitive.ObjectID `bson:"team_id" json:"team_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
