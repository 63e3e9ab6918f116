// internal/app/system/events/client.go
package events

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// SendQueue is the number of frames a client may have waiting for its
	// writer before it counts as slow.
	SendQueue = 16
)

// ErrSlowClient is returned by Send when the client's queue is full.
var ErrSlowClient = errors.New("websocket client too slow")

// Client wraps a websocket connection as a hub Subscriber. Frames are
// queued by Send and written by the client's own goroutine, so a stalled
// peer never holds up the hub.
type Client struct {
	conn *websocket.Conn
	log  *zap.Logger
	send chan []byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewClient wraps conn and starts its writer.
func NewClient(conn *websocket.Conn, logger *zap.Logger) *Client {
	c := &Client{
		conn: conn,
		log:  logger,
		send: make(chan []byte, SendQueue),
		done: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// Send queues one text frame without blocking. A full queue returns
// ErrSlowClient and the hub drops the client.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	select {
	case c.send <- payload:
		return nil
	default:
		c.log.Warn("websocket client too slow, dropping", zap.Int("queued", len(c.send)))
		return ErrSlowClient
	}
}

// Close terminates the connection and stops the writer. Safe to call more
// than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	_ = c.conn.Close()
}

// writeLoop is the only writer on the connection. It drains the queue and
// pings the peer until the client is closed or a write fails.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.log.Warn("websocket send failed", zap.Error(err))
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.Close()
				return
			}
		}
	}
}

// Serve blocks reading (and discarding) client frames and returns once the
// connection fails or is closed.
func (c *Client) Serve() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
