// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/hackhub/internal/app/store/audit"
	"github.com/dalemusser/hackhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
type Config struct {
	// Registration covers team register/update/withdraw and idea submissions.
	Registration string
	// Admin covers hackathon management and hackathon role assignment.
	Admin string
}

// Logger writes audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.HackathonID != nil {
		fields = append(fields, zap.String("hackathon_id", event.HackathonID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests and optional wiring can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryRegistration:
		setting = l.config.Registration
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// TeamRef identifies the team an event is about.
type TeamRef struct {
	TeamID      primitive.ObjectID
	HackathonID primitive.ObjectID
	OrgID       primitive.ObjectID
	Name        string
}

func (l *Logger) teamEvent(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, t TeamRef, details map[string]string) {
	if l == nil {
		return
	}
	if details == nil {
		details = map[string]string{}
	}
	details["team_id"] = t.TeamID.Hex()
	details["team_name"] = t.Name
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryRegistration,
		EventType:      eventType,
		ActorID:        &actorID,
		OrganizationID: &t.OrgID,
		HackathonID:    &t.HackathonID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details:        details,
	})
}

// --- Registration Events ---

// TeamRegistered logs a new team registration.
func (l *Logger) TeamRegistered(ctx context.Context, r *http.Request, actorID primitive.ObjectID, t TeamRef, memberCount int) {
	l.teamEvent(ctx, r, audit.EventTeamRegistered, actorID, t, map[string]string{
		"member_count": strconv.Itoa(memberCount),
	})
}

// TeamUpdated logs a team edit with the size of the membership change.
func (l *Logger) TeamUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, t TeamRef, added, removed int) {
	l.teamEvent(ctx, r, audit.EventTeamUpdated, actorID, t, map[string]string{
		"members_added":   strconv.Itoa(added),
		"members_removed": strconv.Itoa(removed),
	})
}

// TeamWithdrawn logs a team withdrawal.
func (l *Logger) TeamWithdrawn(ctx context.Context, r *http.Request, actorID primitive.ObjectID, t TeamRef) {
	l.teamEvent(ctx, r, audit.EventTeamWithdrawn, actorID, t, nil)
}

// IdeaCreated logs an idea submission.
func (l *Logger) IdeaCreated(ctx context.Context, r *http.Request, actorID, ideaID, hackathonID, orgID primitive.ObjectID, title string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryRegistration,
		EventType:      audit.EventIdeaCreated,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		HackathonID:    &hackathonID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"idea_id": ideaID.Hex(),
			"title":   title,
		},
	})
}

// --- Admin Events ---

// HackathonCreated logs creation of a hackathon.
func (l *Logger) HackathonCreated(ctx context.Context, r *http.Request, actorID, hackathonID, orgID primitive.ObjectID, actorRole, title string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventHackathonCreated,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		HackathonID:    &hackathonID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"actor_role": actorRole,
			"title":      title,
		},
	})
}

// HackathonUpdated logs a hackathon edit.
func (l *Logger) HackathonUpdated(ctx context.Context, r *http.Request, actorID, hackathonID, orgID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventHackathonUpdated,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		HackathonID:    &hackathonID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"actor_role":     actorRole,
			"fields_changed": fieldsChanged,
		},
	})
}

// RoleAssigned logs a hackathon role being set for a user.
func (l *Logger) RoleAssigned(ctx context.Context, r *http.Request, actorID, targetUserID, hackathonID, orgID primitive.ObjectID, actorRole, role string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventRoleAssigned,
		ActorID:        &actorID,
		UserID:         &targetUserID,
		OrganizationID: &orgID,
		HackathonID:    &hackathonID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"actor_role": actorRole,
			"role":       role,
		},
	})
}

// RoleRemoved logs a hackathon role being removed from a user.
func (l *Logger) RoleRemoved(ctx context.Context, r *http.Request, actorID, targetUserID, hackathonID, orgID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventRoleRemoved,
		ActorID:        &actorID,
		UserID:         &targetUserID,
		OrganizationID: &orgID,
		HackathonID:    &hackathonID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"actor_role": actorRole,
		},
	})
}
