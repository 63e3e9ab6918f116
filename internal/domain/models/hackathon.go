// internal/domain/models/hackathon.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hackathon is an event run by an organization. Teams register against it
// while IsActive is true and their size must fall within
// [MinimumTeamSize, MaximumTeamSize].
type Hackathon struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Title          string             `bson:"title" json:"title"`
	TitleCI        string             `bson:"title_ci" json:"-"`
	Description    string             `bson:"description" json:"description"`

	IsActive        bool `bson:"is_active" json:"is_active"`
	MinimumTeamSize int  `bson:"minimum_team_size" json:"minimum_team_size"`
	MaximumTeamSize int  `bson:"maximum_team_size" json:"maximum_team_size"`

	// Rounds are kept ordered by StartsAt.
	Rounds []Round `bson:"rounds" json:"rounds"`

	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Round is one stage of a hackathon (ideation, prototype, final pitch, ...).
type Round struct {
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	StartsAt    time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt      time.Time `bson:"ends_at" json:"ends_at"`
}

// SizeAllowed reports whether a team of n members fits the hackathon bounds.
func (h Hackathon) SizeAllowed(n int) bool {
	return n >= h.MinimumTeamSize && n <= h.MaximumTeamSize
}
