// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/hackhub/internal/app/store/audit"
	"github.com/dalemusser/hackhub/internal/app/system/paging"
)

// listItem is a single audit event with user names resolved.
type listItem struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Category    string            `json:"category"`
	EventType   string            `json:"event_type"`
	HackathonID string            `json:"hackathon_id,omitempty"`
	ActorID     string            `json:"actor_id,omitempty"`
	ActorName   string            `json:"actor_name,omitempty"`
	TargetID    string            `json:"target_id,omitempty"`
	TargetName  string            `json:"target_name,omitempty"`
	IP          string            `json:"ip"`
	Success     bool              `json:"success"`
	Details     map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events []listItem   `json:"events"`
	Total  int64        `json:"total"`
	Range  paging.Range `json:"range"`
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	registrationEvents := []string{
		audit.EventTeamRegistered,
		audit.EventTeamUpdated,
		audit.EventTeamWithdrawn,
		audit.EventIdeaCreated,
	}

	adminEvents := []string{
		audit.EventHackathonCreated,
		audit.EventHackathonUpdated,
		audit.EventRoleAssigned,
		audit.EventRoleRemoved,
	}

	switch category {
	case audit.CategoryRegistration:
		return registrationEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(registrationEvents)+len(adminEvents))
		all = append(all, registrationEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return nil
	}
}

func knownEventType(category, eventType string) bool {
	for _, et := range eventTypesForCategory(category) {
		if et == eventType {
			return true
		}
	}
	return false
}
