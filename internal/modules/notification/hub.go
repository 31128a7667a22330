package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// UserChannel is the per-recipient channel name convention.
func UserChannel(userID int64) string {
	return fmt.Sprintf("user-%d", userID)
}

// WSEvent is a real-time event pushed to subscribers of a channel.
type WSEvent struct {
	Event   string      `json:"event"`
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload,omitempty"`
}

// connection represents a single WebSocket client
type connection struct {
	channel string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub manages all active WebSocket connections, grouped by channel.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*connection]bool
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]map[*connection]bool),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c.channel] == nil {
		h.connections[c.channel] = make(map[*connection]bool)
	}
	h.connections[c.channel][c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.connections[c.channel]; ok && set[c] {
		delete(set, c)
		if len(set) == 0 {
			delete(h.connections, c.channel)
		}
		close(c.send)
	}
}

// Publish sends an event to every subscriber of the channel. It never
// blocks and never fails: slow or absent clients are skipped.
func (h *Hub) Publish(channel, event string, payload interface{}) error {
	data, err := json.Marshal(&WSEvent{Event: event, Channel: channel, Payload: payload})
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[channel] {
		select {
		case c.send <- data:
		default:
			// client too slow, skip
		}
	}
	return nil
}

// ServeWS subscribes the connection to the user's channel and starts the
// read/write loops.
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64) {
	c := &connection{
		channel: UserChannel(userID),
		conn:    conn,
		send:    make(chan []byte, 256),
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

	for {
		// Clients only listen; any read error ends the session.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
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
