package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/hackhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// SubscriberCounter reports connected realtime clients.
type SubscriberCounter interface {
	Subscribers() int64
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Hub    SubscriberCounter
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
// hub may be nil.
func NewHandler(client *mongo.Client, hub SubscriberCounter, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Hub:    hub,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string         `json:"status"`
	Database string         `json:"database"`
	Message  string         `json:"message,omitempty"`
	Error    string         `json:"error,omitempty"`
	Realtime *realtimeStats `json:"realtime,omitempty"`
}

type realtimeStats struct {
	Subscribers int64 `json:"subscribers"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "realtime":{"subscribers":3} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Hub != nil {
		resp.Realtime = &realtimeStats{Subscribers: h.Hub.Subscribers()}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
