package indexes_test

import (
	"testing"

	"github.com/dalemusser/hackhub/internal/app/system/indexes"
	"github.com/dalemusser/hackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_CreatesNamedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":           {"uniq_users_email", "idx_users_org_status"},
		"organizations":   {"uniq_orgs_nameci"},
		"hackathons":      {"idx_hackathons_org_titleci__id", "idx_hackathons_org_active"},
		"ideas":           {"idx_ideas_hackathon_titleci__id"},
		"teams":           {"idx_teams_hackathon_members", "idx_teams_members_created"},
		"team_seats":      {"uniq_team_seats_hackathon_user", "idx_team_seats_team"},
		"hackathon_roles": {"uniq_hackathon_roles_user_hackathon"},
		"audit_events":    {"idx_audit_hackathon_timestamp"},
	}

	for coll, want := range expected {
		names := indexNames(t, db, coll)
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_SeatUniquenessEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	h := primitive.NewObjectID()
	u := primitive.NewObjectID()
	if _, err := db.Collection("team_seats").InsertOne(ctx, bson.M{"hackathon_id": h, "user_id": u, "team_id": primitive.NewObjectID()}); err != nil {
		t.Fatalf("Insert seat failed: %v", err)
	}
	_, err := db.Collection("team_seats").InsertOne(ctx, bson.M{"hackathon_id": h, "user_id": u, "team_id": primitive.NewObjectID()})
	if err == nil {
		t.Error("expected duplicate key error for a second seat in the same hackathon")
	}

	// Same user, other hackathon is fine.
	if _, err := db.Collection("team_seats").InsertOne(ctx, bson.M{"hackathon_id": primitive.NewObjectID(), "user_id": u, "team_id": primitive.NewObjectID()}); err != nil {
		t.Errorf("expected seat in another hackathon to succeed: %v", err)
	}
}
