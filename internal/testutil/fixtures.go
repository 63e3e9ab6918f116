package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/hackhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	return WithChiURLParams(r, map[string]string{key: value})
}

// WithChiURLParams adds several chi URL parameters at once.
func WithChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser creates a test user with the given platform role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Email:          email,
		Role:           role,
		Status:         "active",
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateParticipant creates an active participant in the organization.
func (f *Fixtures) CreateParticipant(ctx context.Context, fullName string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, text.Fold(fullName)+"@test.com", "participant", &orgID)
}

// CreateOrganizer creates an active organizer in the organization.
func (f *Fixtures) CreateOrganizer(ctx context.Context, fullName string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, text.Fold(fullName)+"@test.com", "organizer", &orgID)
}

// CreateAdmin creates an active admin in the organization.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, text.Fold(fullName)+"@test.com", "admin", &orgID)
}

// CreateHackathon creates an active hackathon with the given team size bounds.
func (f *Fixtures) CreateHackathon(ctx context.Context, title string, orgID primitive.ObjectID, min, max int) models.Hackathon {
	f.t.Helper()

	now := time.Now().UTC()
	h := models.Hackathon{
		ID:              primitive.NewObjectID(),
		OrganizationID:  orgID,
		Title:           title,
		TitleCI:         text.Fold(title),
		IsActive:        true,
		MinimumTeamSize: min,
		MaximumTeamSize: max,
		Rounds:          []models.Round{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("hackathons").InsertOne(ctx, h); err != nil {
		f.t.Fatalf("failed to create test hackathon: %v", err)
	}
	return h
}

// CloseHackathon marks the hackathon inactive.
func (f *Fixtures) CloseHackathon(ctx context.Context, id primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection("hackathons").UpdateByID(ctx, id, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		f.t.Fatalf("failed to close hackathon: %v", err)
	}
}

// Disable sets status "disabled" on the document with id in collection
// (users or organizations).
func (f *Fixtures) Disable(ctx context.Context, collection string, id primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": "disabled", "updated_at": time.Now().UTC()}})
	if err != nil {
		f.t.Fatalf("failed to disable %s: %v", collection, err)
	}
}

// CreateIdea creates an idea for the hackathon.
func (f *Fixtures) CreateIdea(ctx context.Context, title string, h models.Hackathon) models.Idea {
	f.t.Helper()

	now := time.Now().UTC()
	idea := models.Idea{
		ID:             primitive.NewObjectID(),
		OrganizationID: h.OrganizationID,
		HackathonID:    h.ID,
		Title:          title,
		TitleCI:        text.Fold(title),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("ideas").InsertOne(ctx, idea); err != nil {
		f.t.Fatalf("failed to create test idea: %v", err)
	}
	return idea
}

// CreateHackathonRole writes a role document directly.
func (f *Fixtures) CreateHackathonRole(ctx context.Context, userID, hackathonID primitive.ObjectID, role string) models.HackathonRole {
	f.t.Helper()

	now := time.Now().UTC()
	hr := models.HackathonRole{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		HackathonID: hackathonID,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("hackathon_roles").InsertOne(ctx, hr); err != nil {
		f.t.Fatalf("failed to create test hackathon role: %v", err)
	}
	return hr
}
