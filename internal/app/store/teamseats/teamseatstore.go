// internal/app/store/teamseats/teamseatstore.go
package teamseatstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hackhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrSeatTaken means at least one user already holds a seat in the hackathon.
var ErrSeatTaken = errors.New("user already holds a team seat in this hackathon")

// Store manages team_seats: one document per (hackathon_id, user_id), backed
// by a unique index. Claiming a seat is the atomic step that makes team
// membership exclusive within a hackathon.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_seats")}
}

// Claim takes a seat for every user on behalf of teamID. Either all seats
// are claimed or none are: on a duplicate, any seats this call inserted are
// removed and ErrSeatTaken is returned.
func (s *Store) Claim(ctx context.Context, hackathonID, teamID primitive.ObjectID, users []primitive.ObjectID) error {
	if len(users) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(users))
	for _, u := range users {
		docs = append(docs, models.TeamSeat{
			ID:          primitive.NewObjectID(),
			HackathonID: hackathonID,
			UserID:      u,
			TeamID:      teamID,
			CreatedAt:   now,
		})
	}

	_, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return nil
	}
	if !wafflemongo.IsDup(err) {
		return err
	}

	// Inside an aborted transaction this cleanup fails too; the abort
	// already discarded the inserts.
	if _, cerr := s.c.DeleteMany(ctx, bson.M{"team_id": teamID, "user_id": bson.M{"$in": users}}); cerr != nil {
		zap.L().Debug("seat claim cleanup skipped", zap.Error(cerr))
	}
	return ErrSeatTaken
}

// Release frees the seats the given users hold for teamID.
func (s *Store) Release(ctx context.Context, teamID primitive.ObjectID, users []primitive.ObjectID) (int64, error) {
	if len(users) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID, "user_id": bson.M{"$in": users}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ReleaseTeam frees every seat held by teamID.
func (s *Store) ReleaseTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByTeam returns the seats held by teamID.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.TeamSeat, error) {
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.TeamSeat{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Holder returns the team holding the user's seat in the hackathon, or
// primitive.NilObjectID when the seat is free.
func (s *Store) Holder(ctx context.Context, hackathonID, userID primitive.ObjectID) (primitive.ObjectID, error) {
	var seat models.TeamSeat
	err := s.c.FindOne(ctx, bson.M{"hackathon_id": hackathonID, "user_id": userID}).Decode(&seat)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, nil
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return seat.TeamID, nil
}

// SweepOrphans deletes seats created before cutoff whose team no longer
// exists or no longer lists the seat's user as a member. Such seats are left
// behind only when a withdrawal or member update ran without a transaction
// and failed after writing the team. A stale seat can never become valid
// again: any claim for the same (hackathon, user) hits the unique index.
func (s *Store) SweepOrphans(ctx context.Context, cutoff time.Time) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$lt": cutoff}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "teams",
			"localField":   "team_id",
			"foreignField": "_id",
			"as":           "team",
		}}},
		{{Key: "$match", Value: bson.M{"$expr": bson.M{"$not": bson.A{
			bson.M{"$in": bson.A{"$user_id", bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$team.members", 0}},
				bson.A{},
			}}}},
		}}}}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
