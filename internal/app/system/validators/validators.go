// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Reference data
	ensure("users", usersSchema())
	ensure("organizations", orgsSchema())
	ensure("hackathons", hackathonsSchema())
	ensure("ideas", ideasSchema())

	// Registration
	ensure("teams", teamsSchema())
	ensure("team_seats", teamSeatsSchema())
	ensure("hackathon_roles", hackathonRolesSchema())

	// Written by the audit logger; no validator needed.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	objectID = bson.M{"bsonType": "objectId"}
	intType  = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1}
)

func enumOf[T ~string](vals []T) bson.A {
	out := make(bson.A, 0, len(vals))
	for _, v := range vals {
		out = append(out, string(v))
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "role", "status"},
			"properties": bson.M{
				"full_name":       nonBlank,
				"full_name_ci":    bson.M{"bsonType": "string"},
				"email":           nonBlank,
				"role":            bson.M{"enum": enumOf(authz.Roles)},
				"status":          bson.M{"enum": bson.A{"active", "disabled"}},
				"organization_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func orgsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "status"},
			"properties": bson.M{
				"name":    nonBlank,
				"name_ci": nonBlank,
				"status":  bson.M{"enum": bson.A{"active", "disabled"}},
			},
		},
	}
}

func hackathonsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"organization_id", "title", "title_ci", "is_active", "minimum_team_size", "maximum_team_size"},
			"properties": bson.M{
				"organization_id":   objectID,
				"title":             nonBlank,
				"title_ci":          nonBlank,
				"is_active":         bson.M{"bsonType": "bool"},
				"minimum_team_size": intType,
				"maximum_team_size": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1, "maximum": 50},
				"rounds": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"name", "starts_at", "ends_at"},
						"properties": bson.M{
							"name":      nonBlank,
							"starts_at": bson.M{"bsonType": "date"},
							"ends_at":   bson.M{"bsonType": "date"},
						},
					},
				},
			},
		},
	}
}

func ideasSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"organization_id", "hackathon_id", "title", "title_ci"},
			"properties": bson.M{
				"organization_id": objectID,
				"hackathon_id":    objectID,
				"title":           nonBlank,
				"title_ci":        nonBlank,
			},
		},
	}
}

func teamsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "idea_id", "members", "leader_id", "organization_id", "hackathon_id"},
			"properties": bson.M{
				"name":    nonBlank,
				"name_ci": nonBlank,
				"idea_id": objectID,
				"members": bson.M{
					"bsonType":    "array",
					"minItems":    1,
					"uniqueItems": true,
					"items":       objectID,
				},
				"leader_id":       objectID,
				"organization_id": objectID,
				"hackathon_id":    objectID,
			},
		},
	}
}

func teamSeatsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"hackathon_id", "user_id", "team_id"},
			"properties": bson.M{
				"hackathon_id": objectID,
				"user_id":      objectID,
				"team_id":      objectID,
			},
		},
	}
}

func hackathonRolesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "hackathon_id", "role"},
			"properties": bson.M{
				"user_id":      objectID,
				"hackathon_id": objectID,
				"role":         bson.M{"enum": enumOf(authz.HackathonRoles)},
			},
		},
	}
}
