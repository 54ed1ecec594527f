package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"studiobooking/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// Event is a real-time booking event pushed to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
)

type bookingPayload struct {
	ID        int64  `json:"id"`
	StudioID  int64  `json:"studio_id"`
	Reference string `json:"reference"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type connection struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans booking lifecycle events out to every connected client. It is the
// Notifier the booking workflow publishes through.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]bool
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*connection]bool),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c] {
		delete(h.connections, c)
		close(c.send)
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		select {
		case c.send <- data:
		default:
			// Slow client, drop the frame
		}
	}
}

func (h *Hub) NotifyBookingCreated(ctx context.Context, b *domain.Booking) error {
	h.Broadcast(&Event{Type: EventBookingCreated, Payload: toPayload(b, "")})
	return nil
}

func (h *Hub) NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error {
	h.Broadcast(&Event{Type: EventBookingConfirmed, Payload: toPayload(b, "")})
	return nil
}

func (h *Hub) NotifyBookingCancelled(ctx context.Context, b *domain.Booking, reason string) error {
	h.Broadcast(&Event{Type: EventBookingCancelled, Payload: toPayload(b, reason)})
	return nil
}

func toPayload(b *domain.Booking, reason string) bookingPayload {
	return bookingPayload{
		ID:        b.ID,
		StudioID:  b.StudioID,
		Reference: b.Reference,
		Date:      b.Date.Format("2006-01-02"),
		StartTime: b.Range.Start.String(),
		EndTime:   b.Range.End.String(),
		Status:    string(b.Status),
		Reason:    reason,
	}
}

// ServeWS registers a new connection and starts read/write loops.
func (h *Hub) ServeWS(conn *websocket.Conn) {
	c := &connection{
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c) // blocks until disconnect
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The feed is one-way; inbound frames only keep the connection alive.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
