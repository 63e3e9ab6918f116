// internal/app/store/hackathonroles/hackathonrolestore.go
package hackathonrolestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/dalemusser/hackhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("hackathon role not found")

// Store manages hackathon_roles. There is at most one document per
// (user_id, hackathon_id); the unique index enforces it.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("hackathon_roles")}
}

// EnsureParticipants gives each user the participant role for the hackathon
// unless the user already holds a role there. Existing roles (organizer,
// judge, mentor, or participant) are left untouched.
func (s *Store) EnsureParticipants(ctx context.Context, hackathonID primitive.ObjectID, userIDs []primitive.ObjectID, assignedBy primitive.ObjectID) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(userIDs))
	for _, u := range userIDs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"user_id": u, "hackathon_id": hackathonID}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{
				"_id":            primitive.NewObjectID(),
				"role":           string(authz.HackathonParticipant),
				"assigned_by_id": assignedBy,
				"created_at":     now,
				"updated_at":     now,
			}}).
			SetUpsert(true))
	}

	_, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil && wafflemongo.IsDup(err) {
		// A concurrent writer inserted the same pair first; the role exists.
		return nil
	}
	return err
}

// RemoveParticipants deletes the participant role of each user for the
// hackathon. Any other role is kept.
func (s *Store) RemoveParticipants(ctx context.Context, hackathonID primitive.ObjectID, userIDs []primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{
		"hackathon_id": hackathonID,
		"user_id":      bson.M{"$in": userIDs},
		"role":         string(authz.HackathonParticipant),
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RemoveParticipantsSince deletes the participant roles of the users for the
// hackathon that were created at or after since. It undoes an
// EnsureParticipants call without touching roles that predate it.
func (s *Store) RemoveParticipantsSince(ctx context.Context, hackathonID primitive.ObjectID, userIDs []primitive.ObjectID, since time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{
		"hackathon_id": hackathonID,
		"user_id":      bson.M{"$in": userIDs},
		"role":         string(authz.HackathonParticipant),
		"created_at":   bson.M{"$gte": since},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Assign sets the user's role for the hackathon, replacing any previous role.
func (s *Store) Assign(ctx context.Context, hackathonID, userID primitive.ObjectID, role authz.HackathonRole, assignedBy primitive.ObjectID) (models.HackathonRole, error) {
	now := time.Now().UTC()
	filter := bson.M{"user_id": userID, "hackathon_id": hackathonID}
	update := bson.M{
		"$set": bson.M{
			"role":           string(role),
			"assigned_by_id": assignedBy,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.HackathonRole
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if err != nil && wafflemongo.IsDup(err) {
		// Lost an upsert race; the document now exists, so the retry updates it.
		err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	}
	if err != nil {
		return models.HackathonRole{}, err
	}
	return out, nil
}

// Remove deletes the user's role for the hackathon, whatever it is.
func (s *Store) Remove(ctx context.Context, hackathonID, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "hackathon_id": hackathonID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the role document for (user, hackathon).
func (s *Store) Get(ctx context.Context, hackathonID, userID primitive.ObjectID) (models.HackathonRole, error) {
	var hr models.HackathonRole
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "hackathon_id": hackathonID}).Decode(&hr)
	if err == mongo.ErrNoDocuments {
		return models.HackathonRole{}, ErrNotFound
	}
	return hr, err
}

// RoleFor returns the user's role for the hackathon, or NoHackathonRole.
func (s *Store) RoleFor(ctx context.Context, hackathonID, userID primitive.ObjectID) (authz.HackathonRole, error) {
	hr, err := s.Get(ctx, hackathonID, userID)
	if errors.Is(err, ErrNotFound) {
		return authz.NoHackathonRole, nil
	}
	if err != nil {
		return authz.NoHackathonRole, err
	}
	role, ok := authz.ParseHackathonRole(hr.Role)
	if !ok {
		return authz.NoHackathonRole, nil
	}
	return role, nil
}

// ListByHackathon returns every role document for the hackathon, grouped by role.
func (s *Store) ListByHackathon(ctx context.Context, hackathonID primitive.ObjectID) ([]models.HackathonRole, error) {
	opts := options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"hackathon_id": hackathonID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.HackathonRole{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
