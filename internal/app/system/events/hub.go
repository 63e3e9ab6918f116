// internal/app/system/events/hub.go
package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultBuffer is the number of events queued before Publish starts dropping.
const DefaultBuffer = 256

// Subscriber is a connected stream client. Send is called from the hub
// loop and must not block; an error removes the subscriber.
type Subscriber interface {
	Send([]byte) error
	Close()
}

type subscription struct {
	orgID  string
	client Subscriber
}

type message struct {
	orgID   string
	payload []byte
}

// Hub fans published events out to the subscribers of each organization.
// A single goroutine owns the subscription map; Register, Unregister and
// Publish only talk to it over channels.
type Hub struct {
	log       *zap.Logger
	clients   map[string]map[Subscriber]struct{}
	register  chan subscription
	unreg     chan subscription
	broadcast chan message
	stopCh    chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	subs      atomic.Int64
}

// NewHub creates a hub whose publish queue holds buffer events.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		log:       logger,
		clients:   make(map[string]map[Subscriber]struct{}),
		register:  make(chan subscription),
		unreg:     make(chan subscription),
		broadcast: make(chan message, buffer),
		stopCh:    make(chan struct{}),
	}
}

// Start begins the hub loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
	h.log.Info("event hub started", zap.Int("buffer", cap(h.broadcast)))
}

// Stop closes every subscriber and waits for the loop to exit.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		h.wg.Wait()
		h.log.Info("event hub stopped")
	})
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.stopCh:
			for _, clients := range h.clients {
				for c := range clients {
					c.Close()
				}
			}
			h.clients = map[string]map[Subscriber]struct{}{}
			h.subs.Store(0)
			return
		case sub := <-h.register:
			if _, ok := h.clients[sub.orgID]; !ok {
				h.clients[sub.orgID] = make(map[Subscriber]struct{})
			}
			if _, dup := h.clients[sub.orgID][sub.client]; !dup {
				h.clients[sub.orgID][sub.client] = struct{}{}
				h.subs.Add(1)
			}
		case sub := <-h.unreg:
			if clients, ok := h.clients[sub.orgID]; ok {
				if _, had := clients[sub.client]; had {
					delete(clients, sub.client)
					h.subs.Add(-1)
				}
				if len(clients) == 0 {
					delete(h.clients, sub.orgID)
				}
			}
		case msg := <-h.broadcast:
			clients, ok := h.clients[msg.orgID]
			if !ok {
				continue
			}
			for c := range clients {
				if err := c.Send(msg.payload); err != nil {
					c.Close()
					delete(clients, c)
					h.subs.Add(-1)
				}
			}
			if len(clients) == 0 {
				delete(h.clients, msg.orgID)
			}
		}
	}
}

// Subscribers reports how many clients are currently subscribed.
func (h *Hub) Subscribers() int64 {
	return h.subs.Load()
}

// Register subscribes client to the organization's events.
// It returns false if the hub is stopped.
func (h *Hub) Register(orgID primitive.ObjectID, client Subscriber) bool {
	select {
	case h.register <- subscription{orgID: orgID.Hex(), client: client}:
		return true
	case <-h.stopCh:
		return false
	}
}

// Unregister removes client from the organization's subscribers.
func (h *Hub) Unregister(orgID primitive.ObjectID, client Subscriber) {
	select {
	case h.unreg <- subscription{orgID: orgID.Hex(), client: client}:
	case <-h.stopCh:
	}
}

// Publish queues an event for the organization. When the queue is full the
// event is dropped and a warning logged.
func (h *Hub) Publish(orgID primitive.ObjectID, kind Kind, payload any) {
	env := Envelope{
		ID:             uuid.NewString(),
		Kind:           kind,
		OrganizationID: orgID.Hex(),
		At:             time.Now().UTC(),
		Payload:        payload,
	}
	b, err := json.Marshal(env)
	if err != nil {
		h.log.Error("event marshal failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- message{orgID: env.OrganizationID, payload: b}:
	default:
		h.log.Warn("event dropped: hub queue full",
			zap.String("kind", string(kind)),
			zap.String("org_id", env.OrganizationID),
			zap.String("event_id", env.ID))
	}
}
