// internal/app/store/hackathons/hackathonstore.go
package hackathonstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxTeamSize caps maximum_team_size. Team request bodies accept at most
// this many member ids.
const MaxTeamSize = 50

// ErrInvalidBounds is returned when team size bounds violate
// 1 <= min <= max <= MaxTeamSize.
var ErrInvalidBounds = errors.New("team size bounds must satisfy 1 <= minimum <= maximum <= 50")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("hackathons")}
}

// ValidBounds reports whether min and max form a usable team size range.
func ValidBounds(min, max int) bool {
	return min >= 1 && min <= max && max <= MaxTeamSize
}

// SortRounds orders rounds by start time in place.
func SortRounds(rounds []models.Round) {
	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].StartsAt.Before(rounds[j].StartsAt)
	})
}

func (s *Store) Create(ctx context.Context, h models.Hackathon) (models.Hackathon, error) {
	if !ValidBounds(h.MinimumTeamSize, h.MaximumTeamSize) {
		return models.Hackathon{}, ErrInvalidBounds
	}
	now := time.Now().UTC()
	h.ID = primitive.NewObjectID()
	h.TitleCI = text.Fold(h.Title)
	if h.Rounds == nil {
		h.Rounds = []models.Round{}
	}
	SortRounds(h.Rounds)
	h.CreatedAt = now
	h.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, h); err != nil {
		return models.Hackathon{}, err
	}
	return h, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Hackathon, error) {
	var h models.Hackathon
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&h); err != nil {
		return models.Hackathon{}, err
	}
	return h, nil
}

// ListByOrg returns the organization's hackathons ordered by title.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID, activeOnly bool) ([]models.Hackathon, error) {
	filter := bson.M{"organization_id": orgID}
	if activeOnly {
		filter["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Hackathon{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update carries the mutable settings of a hackathon. Nil fields are left as is.
type Update struct {
	Title           *string
	Description     *string
	IsActive        *bool
	MinimumTeamSize *int
	MaximumTeamSize *int
	Rounds          *[]models.Round
}

// Apply merges upd into h and validates the resulting bounds.
func (upd Update) Apply(h models.Hackathon) (models.Hackathon, error) {
	if upd.Title != nil {
		h.Title = *upd.Title
		h.TitleCI = text.Fold(*upd.Title)
	}
	if upd.Description != nil {
		h.Description = *upd.Description
	}
	if upd.IsActive != nil {
		h.IsActive = *upd.IsActive
	}
	if upd.MinimumTeamSize != nil {
		h.MinimumTeamSize = *upd.MinimumTeamSize
	}
	if upd.MaximumTeamSize != nil {
		h.MaximumTeamSize = *upd.MaximumTeamSize
	}
	if upd.Rounds != nil {
		h.Rounds = append([]models.Round{}, (*upd.Rounds)...)
		SortRounds(h.Rounds)
	}
	if !ValidBounds(h.MinimumTeamSize, h.MaximumTeamSize) {
		return h, ErrInvalidBounds
	}
	return h, nil
}

// UpdateSettings applies upd to the stored hackathon and returns the result.
// Returns mongo.ErrNoDocuments if the hackathon does not exist.
func (s *Store) UpdateSettings(ctx context.Context, id primitive.ObjectID, upd Update) (models.Hackathon, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Hackathon{}, err
	}
	next, err := upd.Apply(cur)
	if err != nil {
		return models.Hackathon{}, err
	}
	next.UpdatedAt = time.Now().UTC()

	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":             next.Title,
		"title_ci":          next.TitleCI,
		"description":       next.Description,
		"is_active":         next.IsActive,
		"minimum_team_size": next.MinimumTeamSize,
		"maximum_team_size": next.MaximumTeamSize,
		"rounds":            next.Rounds,
		"updated_at":        next.UpdatedAt,
	}})
	if err != nil {
		return models.Hackathon{}, err
	}
	return next, nil
}
