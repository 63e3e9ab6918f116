// internal/domain/models/hackathonrole.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HackathonRole is the per-hackathon role of a user.
// Exactly one document per (user_id, hackathon_id); role is a scalar
// ("participant" | "organizer" | "judge" | "mentor").
type HackathonRole struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	HackathonID  primitive.ObjectID `bson:"hackathon_id" json:"hackathon_id"`
	Role         string             `bson:"role" json:"role"`
	AssignedByID primitive.ObjectID `bson:"assigned_by_id" json:"assigned_by_id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
