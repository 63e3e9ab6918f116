package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want authz.Role
		ok   bool
	}{
		{"admin", authz.RoleAdmin, true},
		{" Organizer ", authz.RoleOrganizer, true},
		{"PARTICIPANT", authz.RoleParticipant, true},
		{"judge", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := authz.ParseRole(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseHackathonRole(t *testing.T) {
	for _, r := range authz.HackathonRoles {
		got, ok := authz.ParseHackathonRole(string(r))
		if !ok || got != r {
			t.Errorf("ParseHackathonRole(%q) = (%q, %v)", r, got, ok)
		}
	}
	if _, ok := authz.ParseHackathonRole("admin"); ok {
		t.Error("admin is a platform role, not a hackathon role")
	}
}

func TestActorFromRequest(t *testing.T) {
	orgID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:             userID.Hex(),
		Role:           "Organizer",
		OrganizationID: orgID.Hex(),
	})

	a, ok := authz.ActorFromRequest(req)
	if !ok {
		t.Fatal("expected actor")
	}
	if a.UserID != userID || a.OrganizationID != orgID || a.Role != authz.RoleOrganizer {
		t.Errorf("unexpected actor %+v", a)
	}
}

func TestActorFromRequest_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		user *auth.SessionUser
	}{
		{"no user", nil},
		{"bad id", &auth.SessionUser{ID: "not-an-oid", Role: "admin"}},
		{"unknown role", &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "superhero"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			if _, ok := authz.ActorFromRequest(req); ok {
				t.Error("expected ok=false")
			}
		})
	}
}

func TestCanOrganize(t *testing.T) {
	org := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name  string
		actor authz.Actor
		org   primitive.ObjectID
		hr    authz.HackathonRole
		want  bool
	}{
		{"admin same org", authz.Actor{OrganizationID: org, Role: authz.RoleAdmin}, org, authz.NoHackathonRole, true},
		{"admin other org", authz.Actor{OrganizationID: other, Role: authz.RoleAdmin}, org, authz.NoHackathonRole, false},
		{"participant with organizer role", authz.Actor{OrganizationID: org, Role: authz.RoleParticipant}, org, authz.HackathonOrganizer, true},
		{"participant with judge role", authz.Actor{OrganizationID: org, Role: authz.RoleParticipant}, org, authz.HackathonJudge, false},
		{"no org", authz.Actor{Role: authz.RoleAdmin}, org, authz.NoHackathonRole, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.CanOrganize(tt.org, tt.hr); got != tt.want {
				t.Errorf("CanOrganize = %v, want %v", got, tt.want)
			}
		})
	}
}
