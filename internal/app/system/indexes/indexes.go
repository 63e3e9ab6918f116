// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, step := range []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"organizations", ensureOrganizations},
		{"hackathons", ensureHackathons},
		{"ideas", ensureIdeas},
		{"teams", ensureTeams},
		{"team_seats", ensureTeamSeats},
		{"hackathon_roles", ensureHackathonRoles},
		{"audit_events", ensureAuditEvents},
	} {
		if err := step.fn(ctx, db); err != nil {
			problems = append(problems, step.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// duplicateHint points at the aggregation that finds offending documents
// when a unique index cannot be built.
var duplicateHint = map[string]string{
	"users":           `db.users.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
	"team_seats":      `db.team_seats.aggregate([{ $group: { _id: { h: "$hackathon_id", u: "$user_id" }, n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
	"hackathon_roles": `db.hackathon_roles.aggregate([{ $group: { _id: { u: "$user_id", h: "$hackathon_id" }, n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
}

// desired is one index we want, with its options unpacked.
type desired struct {
	model  mongo.IndexModel
	name   string
	unique bool
	sig    string
}

func describe(m mongo.IndexModel) desired {
	d := desired{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = isUnique(m.Options.Unique)
	}
	return d
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// createErr turns a CreateOne failure into a readable problem string.
func createErr(coll *mongo.Collection, d desired, err error) string {
	if d.unique && wafflemongo.IsDup(err) {
		msg := fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), d.name)
		if hint, ok := duplicateHint[coll.Name()]; ok {
			msg += ". Example finder:\n" + hint
		}
		return msg
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err)
}

// replace drops an index with the same keys and creates the desired one.
func replace(ctx context.Context, coll *mongo.Collection, d desired, ex existingIndex) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		zap.L().Warn("drop existing index failed",
			zap.String("collection", coll.Name()),
			zap.String("name", ex.Name),
			zap.String("keys", d.sig),
			zap.Error(err))
		return fmt.Errorf("%s(%s): drop %s failed: %v", coll.Name(), d.name, ex.Name, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, d.model); err != nil {
		return errors.New(createErr(coll, d, err))
	}
	return nil
}

// ensureOne reconciles a single index. Indexes with the same key pattern are
// reused when uniqueness and name agree, and replaced otherwise.
func ensureOne(ctx context.Context, coll *mongo.Collection, existing map[string]existingIndex, d desired) error {
	fields := []zap.Field{
		zap.String("collection", coll.Name()),
		zap.String("name", d.name),
		zap.String("keys", d.sig),
		zap.Bool("unique", d.unique),
	}
	start := time.Now()

	if ex, ok := existing[d.sig]; ok {
		switch {
		case isUnique(ex.Unique) != d.unique:
			// Options mismatch (e.g., upgrading to unique).
			if err := replace(ctx, coll, d, ex); err != nil {
				return err
			}
			zap.L().Info("index dropped and recreated", append(fields, zap.Duration("took", time.Since(start)))...)
		case d.name != "" && ex.Name != d.name:
			if err := replace(ctx, coll, d, ex); err != nil {
				return err
			}
			zap.L().Info("index renamed", append(fields, zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))...)
		default:
			zap.L().Info("reusing existing index", append(fields, zap.Duration("took", time.Since(start)))...)
		}
		return nil
	}

	created, err := coll.Indexes().CreateOne(ctx, d.model)
	if err == nil {
		zap.L().Info("index ensured", append(fields, zap.String("created_name", created), zap.Duration("took", time.Since(start)))...)
		return nil
	}

	// Another process may have created the same keys since we listed.
	if isOptionsConflictErr(err) {
		if ex, ok := listExisting(ctx, coll)[d.sig]; ok {
			if isUnique(ex.Unique) == d.unique {
				zap.L().Info("reusing existing index (post-conflict)", append(fields, zap.String("existing", ex.Name))...)
				return nil
			}
			if rerr := replace(ctx, coll, d, ex); rerr != nil {
				return rerr
			}
			zap.L().Info("index dropped and recreated (post-conflict)", append(fields, zap.Duration("took", time.Since(start)))...)
			return nil
		}
	}

	zap.L().Warn("index ensure failed", append(fields, zap.Duration("took", time.Since(start)), zap.Error(err))...)
	return errors.New(createErr(coll, d, err))
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing := listExisting(ctx, coll)

	var errs []string
	for _, m := range models {
		if err := ensureOne(ctx, coll, existing, describe(m)); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email is unique across all users (global, cross-org).
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Org membership checks during registration: {_id in ids, org, status}.
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_users_org_status"),
		},
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "role", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_org_role_fullnameci_id"),
		},
	})
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("organizations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Organization names are globally unique (case/diacritics folded).
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_orgs_nameci"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_orgs_status_nameci__id"),
		},
	})
}

func ensureHackathons(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("hackathons")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Tenant-scoped lists sorted by title.
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_hackathons_org_titleci__id"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_hackathons_org_active"),
		},
	})
}

func ensureIdeas(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("ideas")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "hackathon_id", Value: 1}, {Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_ideas_hackathon_titleci__id"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_ideas_org__id"),
		},
	})
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("teams")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exclusivity pre-check and "my team": {hackathon_id, members $in}.
		{
			Keys:    bson.D{{Key: "hackathon_id", Value: 1}, {Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_teams_hackathon_members"),
		},
		// Hackathon team listing sorted by name.
		{
			Keys:    bson.D{{Key: "hackathon_id", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_teams_hackathon_nameci__id"),
		},
		// "My teams" across hackathons.
		{
			Keys:    bson.D{{Key: "members", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_teams_members_created"),
		},
	})
}

func ensureTeamSeats(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("team_seats")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One seat per user per hackathon. This is what makes team
		// membership exclusive under concurrent registrations.
		{
			Keys:    bson.D{{Key: "hackathon_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_team_seats_hackathon_user"),
		},
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}},
			Options: options.Index().SetName("idx_team_seats_team"),
		},
	})
}

func ensureHackathonRoles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("hackathon_roles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "hackathon_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_hackathon_roles_user_hackathon"),
		},
		{
			Keys:    bson.D{{Key: "hackathon_id", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().SetName("idx_hackathon_roles_hackathon_role"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_org_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "hackathon_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_hackathon_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
	})
}
