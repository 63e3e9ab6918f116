// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"time"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/store/audit"
	userstore "github.com/dalemusser/hackhub/internal/app/store/users"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/normalize"
	"github.com/dalemusser/hackhub/internal/app/system/paging"
	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /api/audit. Filters: hackathon, category,
// event_type, start_date and end_date (YYYY-MM-DD), start (1-based).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	if actor.OrganizationID.IsZero() {
		h.ErrLog.Write(w, r, apperr.AccessDenied("Your account does not belong to an organization."))
		return
	}

	orgID := actor.OrganizationID
	start := paging.ParseStart(r)
	filter := audit.QueryFilter{
		OrganizationID: &orgID,
		Category:       normalize.QueryParam(query.Get(r, "category")),
		EventType:      normalize.QueryParam(query.Get(r, "event_type")),
		Limit:          paging.PageSize,
		Offset:         paging.Offset(start),
	}

	if filter.Category != "" && eventTypesForCategory(filter.Category) == nil {
		h.ErrLog.Validation(w, r, "category must be one of registration, admin.")
		return
	}
	if filter.EventType != "" && !knownEventType(filter.Category, filter.EventType) {
		h.ErrLog.Validation(w, r, "event_type is not valid.")
		return
	}
	if hs := query.Get(r, "hackathon"); hs != "" {
		hid, err := primitive.ObjectIDFromHex(hs)
		if err != nil {
			h.ErrLog.Validation(w, r, "hackathon must be a valid id.")
			return
		}
		filter.HackathonID = &hid
	}
	if ds := query.Get(r, "start_date"); ds != "" {
		t, err := time.Parse("2006-01-02", ds)
		if err != nil {
			h.ErrLog.Validation(w, r, "start_date must be YYYY-MM-DD.")
			return
		}
		filter.StartTime = &t
	}
	if ds := query.Get(r, "end_date"); ds != "" {
		t, err := time.Parse("2006-01-02", ds)
		if err != nil {
			h.ErrLog.Validation(w, r, "end_date must be YYYY-MM-DD.")
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	store := audit.New(h.DB)
	events, err := store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "Could not load audit events.")
		return
	}
	total, err := store.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "Could not load audit events.")
		return
	}

	// Collect unique user IDs for name resolution
	idSet := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			idSet[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			idSet[*e.UserID] = struct{}{}
		}
	}
	names := make(map[primitive.ObjectID]string, len(idSet))
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		users, err := userstore.New(h.DB).Summaries(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		}
		for id, u := range users {
			names[id] = u.FullName
		}
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			IP:        e.IP,
			Success:   e.Success,
			Details:   e.Details,
		}
		if e.HackathonID != nil {
			item.HackathonID = e.HackathonID.Hex()
		}
		if e.ActorID != nil {
			item.ActorID = e.ActorID.Hex()
			item.ActorName = names[*e.ActorID]
		}
		if e.UserID != nil {
			item.TargetID = e.UserID.Hex()
			item.TargetName = names[*e.UserID]
		}
		items = append(items, item)
	}

	apierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events: items,
		Total:  total,
		Range:  paging.ComputeRange(start, len(items), total),
	})
}
