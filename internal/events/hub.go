package events

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 64
)

// Event is an invalidation signal. It names what changed and nothing more;
// receivers re-fetch.
type Event struct {
	Name           string `json:"event"`
	QuotationID    string `json:"quotationId,omitempty"`
	NotificationID string `json:"notificationId,omitempty"`
}

// Audience selects who receives an event.
type Audience struct {
	UserIDs []uint
	Admins  bool
}

func ToUser(id uint) Audience { return Audience{UserIDs: []uint{id}} }

// ToOwnerAndAdmins is the audience of every quotation change.
func ToOwnerAndAdmins(owner uint) Audience {
	return Audience{UserIDs: []uint{owner}, Admins: true}
}

type Publisher interface {
	Publish(ev Event, to Audience)
}

type client struct {
	userID uint
	admin  bool
	send   chan []byte
}

func (c *client) wants(to Audience) bool {
	if to.Admins && c.admin {
		return true
	}
	for _, id := range to.UserIDs {
		if id == c.userID {
			return true
		}
	}
	return false
}

// Hub fans events out to connected websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}

	delivered *atomic.Int64
	dropped   *atomic.Int64
}

var _ Publisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients:   map[*client]struct{}{},
		delivered: atomic.NewInt64(0),
		dropped:   atomic.NewInt64(0),
	}
}

func (h *Hub) Publish(ev Event, to Audience) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("marshal event failed", "event", ev.Name, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.wants(to) {
			continue
		}
		select {
		case c.send <- payload:
			h.delivered.Inc()
		default:
			// Slow reader; it will re-sync on reconnect.
			h.dropped.Inc()
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Delivered() int64 { return h.delivered.Load() }
func (h *Hub) Dropped() int64   { return h.dropped.Load() }

// Serve pumps events to conn until the peer goes away. It blocks.
func (h *Hub) Serve(conn *websocket.Conn, userID uint, admin bool) {
	c := &client{userID: userID, admin: admin, send: make(chan []byte, sendBuffer)}
	h.register(c)
	slog.Debug("socket connected", "userID", userID, "admin", admin)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(conn, c)
	}()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// Clients never send application messages; reading only drives
		// control frames and close detection.
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	<-done
	slog.Debug("socket disconnected", "userID", userID)
}

func (h *Hub) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
