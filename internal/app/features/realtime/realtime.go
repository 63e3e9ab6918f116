// internal/app/features/realtime/realtime.go
package realtime

import (
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/hackhub/internal/app/features/errors"
	"github.com/dalemusser/hackhub/internal/app/features/shared/apiutil"
	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/dalemusser/hackhub/internal/app/system/events"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades signed-in requests to websockets subscribed to the
// caller's organization on the hub.
type Handler struct {
	Hub      *events.Hub
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the handler. With no allowed origins the upgrader only
// accepts same-host requests.
func NewHandler(hub *events.Hub, allowedOrigins []string, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	h := &Handler{Hub: hub, ErrLog: errLog, Log: logger}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]struct{}, len(allowedOrigins))
		for _, o := range allowedOrigins {
			allowed[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[strings.ToLower(origin)]
			return ok
		}
	}
	return h
}

// ServeWS handles GET /ws.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiutil.Actor(w, r, h.ErrLog)
	if !ok {
		return
	}
	if actor.OrganizationID.IsZero() {
		h.ErrLog.Write(w, r, apperr.AccessDenied("Your account does not belong to an organization."))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := events.NewClient(conn, h.Log)
	if !h.Hub.Register(actor.OrganizationID, client) {
		client.Close()
		return
	}
	h.Log.Debug("websocket subscribed",
		zap.String("user_id", actor.UserID.Hex()),
		zap.String("org_id", actor.OrganizationID.Hex()))

	go func() {
		defer func() {
			h.Hub.Unregister(actor.OrganizationID, client)
			client.Close()
		}()
		client.Serve()
	}()
}

// Routes mounts at /ws.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.RequireSignedIn).Get("/", h.ServeWS)
	return r
}
