// internal/app/store/ideas/ideastore.go
package ideastore

import (
	"context"
	"time"

	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ideas")}
}

func (s *Store) Create(ctx context.Context, idea models.Idea) (models.Idea, error) {
	now := time.Now().UTC()
	idea.ID = primitive.NewObjectID()
	idea.TitleCI = text.Fold(idea.Title)
	idea.CreatedAt = now
	idea.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, idea); err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Idea, error) {
	var idea models.Idea
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&idea); err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

// ExistsInOrg reports whether the idea exists and belongs to the organization.
func (s *Store) ExistsInOrg(ctx context.Context, id, orgID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByHackathon returns the hackathon's ideas ordered by title.
func (s *Store) ListByHackathon(ctx context.Context, hackathonID primitive.ObjectID) ([]models.Idea, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"hackathon_id": hackathonID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Idea{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Titles loads idea titles keyed by ID.
func (s *Store) Titles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Idea, error) {
	out := make(map[primitive.ObjectID]models.Idea, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "title": 1, "hackathon_id": 1, "organization_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idea models.Idea
		if err := cur.Decode(&idea); err != nil {
			return nil, err
		}
		out[idea.ID] = idea
	}
	return out, cur.Err()
}
