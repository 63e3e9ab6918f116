// internal/app/system/events/events.go
package events

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind names what happened to the published resource.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Sink receives domain events. Publish never blocks the caller and never
// fails: delivery is best effort.
type Sink interface {
	Publish(orgID primitive.ObjectID, kind Kind, payload any)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(primitive.ObjectID, Kind, any) {}

// Envelope is the JSON frame delivered to subscribers.
type Envelope struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	OrganizationID string    `json:"organization_id"`
	At             time.Time `json:"at"`
	Payload        any       `json:"payload"`
}
