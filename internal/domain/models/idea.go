// internal/domain/models/idea.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea is a project proposal. Teams reference an idea; they never own it.
type Idea struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	HackathonID    primitive.ObjectID `bson:"hackathon_id" json:"hackathon_id"`
	Title          string             `bson:"title" json:"title"`
	TitleCI        string             `bson:"title_ci" json:"-"`
	Description    string             `bson:"description" json:"description"`
	CreatedByID    primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
