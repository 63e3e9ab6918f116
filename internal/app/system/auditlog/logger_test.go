package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/hackhub/internal/app/store/audit"
	"github.com/dalemusser/hackhub/internal/app/system/auditlog"
	"github.com/dalemusser/hackhub/internal/app/system/ratelimit"
	"github.com/dalemusser/hackhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func teamRef() auditlog.TeamRef {
	return auditlog.TeamRef{
		TeamID:      primitive.NewObjectID(),
		HackathonID: primitive.NewObjectID(),
		OrgID:       primitive.NewObjectID(),
		Name:        "Rocket",
	}
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/", nil)

	// These should all be no-ops, not panic
	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.TeamRegistered(ctx, req, primitive.NewObjectID(), teamRef(), 2)
	logger.TeamWithdrawn(ctx, req, primitive.NewObjectID(), teamRef())
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Registration: "off",
		Admin:        "off",
	})

	ref := teamRef()
	logger.TeamRegistered(ctx, httptest.NewRequest("POST", "/", nil), primitive.NewObjectID(), ref, 3)

	events, err := store.GetByHackathon(ctx, ref.HackathonID, 10)
	if err != nil {
		t.Fatalf("GetByHackathon failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_TeamLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Registration: "db"})
	req := httptest.NewRequest("POST", "/", nil)
	actor := primitive.NewObjectID()
	ref := teamRef()

	logger.TeamRegistered(ctx, req, actor, ref, 2)
	logger.TeamUpdated(ctx, req, actor, ref, 1, 1)
	logger.TeamWithdrawn(ctx, req, actor, ref)

	events, err := store.GetByHackathon(ctx, ref.HackathonID, 10)
	if err != nil {
		t.Fatalf("GetByHackathon failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	// newest first
	if events[0].EventType != audit.EventTeamWithdrawn {
		t.Errorf("EventType: got %q, want %q", events[0].EventType, audit.EventTeamWithdrawn)
	}
	if events[2].Details["member_count"] != "2" {
		t.Errorf("member_count: got %q", events[2].Details["member_count"])
	}
	for _, ev := range events {
		if ev.Details["team_id"] != ref.TeamID.Hex() {
			t.Errorf("team_id detail: got %q", ev.Details["team_id"])
		}
		if ev.ActorID == nil || *ev.ActorID != actor {
			t.Error("expected ActorID to be set")
		}
	}
}

func TestLogger_CategoryFilteredByConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Registration: "off",
		Admin:        "db",
	})
	req := httptest.NewRequest("PUT", "/", nil)

	ref := teamRef()
	logger.TeamRegistered(ctx, req, primitive.NewObjectID(), ref, 2)

	target := primitive.NewObjectID()
	logger.RoleAssigned(ctx, req, primitive.NewObjectID(), target, ref.HackathonID, ref.OrgID, "organizer", "judge")

	events, _ := store.GetByHackathon(ctx, ref.HackathonID, 10)
	if len(events) != 1 {
		t.Fatalf("expected only the admin event, got %d", len(events))
	}
	if events[0].EventType != audit.EventRoleAssigned {
		t.Errorf("EventType: got %q", events[0].EventType)
	}
	if events[0].UserID == nil || *events[0].UserID != target {
		t.Error("expected UserID to be the role holder")
	}
	if events[0].Details["role"] != "judge" {
		t.Errorf("role detail: got %q", events[0].Details["role"])
	}
}

func TestLogger_RecordsClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		remote string
		wantIP string
	}{
		{"forwarded by trusted proxy", "203.0.113.195", "192.168.1.1", "127.0.0.1:12345", "203.0.113.195"},
		{"forwarded chain", "203.0.113.195, 127.0.0.2", "", "127.0.0.1:12345", "203.0.113.195"},
		{"real ip from trusted proxy", "", "192.168.1.100", "127.0.0.1:12345", "192.168.1.100"},
		{"forwarded from untrusted peer", "203.0.113.195", "", "10.0.0.5:12345", "10.0.0.5"},
		{"remote addr port stripped", "", "", "10.0.0.5:12345", "10.0.0.5"},
	}
	proxies, err := ratelimit.ParseProxies([]string{"127.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseProxies failed: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: "db"})

			req := httptest.NewRequest("DELETE", "/", nil)
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			req.RemoteAddr = tc.remote

			user := primitive.NewObjectID()
			proxies.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.RoleRemoved(ctx, r, primitive.NewObjectID(), user, primitive.NewObjectID(), primitive.NewObjectID(), "admin")
			})).ServeHTTP(httptest.NewRecorder(), req)

			events, _ := store.Query(ctx, audit.QueryFilter{UserID: &user, Limit: 10})
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].IP != tc.wantIP {
				t.Errorf("IP: got %q, want %q", events[0].IP, tc.wantIP)
			}
		})
	}
}
