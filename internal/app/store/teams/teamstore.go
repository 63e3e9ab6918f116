// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("team not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Create inserts t. A zero ID is replaced with a new one; callers that claim
// seats before inserting set the ID themselves.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.NameCI = text.Fold(t.Name)
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Team{}, ErrNotFound
		}
		return models.Team{}, err
	}
	return t, nil
}

// FindConflicting returns a team in the hackathon, other than excludeID,
// that shares at least one member with members. It returns (nil, nil) when
// there is none. Pass primitive.NilObjectID to exclude nothing.
func (s *Store) FindConflicting(ctx context.Context, hackathonID primitive.ObjectID, members []primitive.ObjectID, excludeID primitive.ObjectID) (*models.Team, error) {
	if len(members) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"hackathon_id": hackathonID,
		"members":      bson.M{"$in": members},
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	var t models.Team
	err := s.c.FindOne(ctx, filter).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ReplaceInfo overwrites the editable fields of a team. Members are replaced
// wholesale. Returns ErrNotFound if the team does not exist.
func (s *Store) ReplaceInfo(ctx context.Context, id primitive.ObjectID, name string, ideaID primitive.ObjectID, members []primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"idea_id":    ideaID,
		"members":    members,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a team by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByHackathon returns every team of the hackathon ordered by name.
func (s *Store) ListByHackathon(ctx context.Context, hackathonID primitive.ObjectID) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"hackathon_id": hackathonID}, opts)
}

// FindByMember returns the user's team in the hackathon or ErrNotFound.
func (s *Store) FindByMember(ctx context.Context, hackathonID, userID primitive.ObjectID) (models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"hackathon_id": hackathonID, "members": userID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Team{}, ErrNotFound
	}
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// ListByMember returns all teams the user belongs to, newest first.
func (s *Store) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"members": userID}, opts)
}

// CountByHackathon returns the number of registered teams.
func (s *Store) CountByHackathon(ctx context.Context, hackathonID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"hackathon_id": hackathonID})
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Team, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Team{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
