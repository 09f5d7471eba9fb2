// Package realtime pushes events to connected users over websockets and
// tracks who is online.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	sendBuffer      = 256
	shutdownTimeout = 5 * time.Second
)

// Event is the envelope written to clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// PresenceFunc records a user going online or offline.
type PresenceFunc func(ctx context.Context, userID string, online bool, at time.Time)

// Notifier is what services use to reach connected users.
type Notifier interface {
	Push(userID string, eventType string, data interface{})
}

// Client is one websocket connection of a user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, Send: make(chan []byte, sendBuffer)}
}

// Hub keeps every live connection, keyed by user. A user may hold several.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	presence   PresenceFunc
}

func NewHub(presence PresenceFunc) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		presence:   presence,
	}
}

var _ Notifier = (*Hub)(nil)

// Start runs the registration loop until ctx is cancelled. On shutdown every
// connected user is reported offline.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.register:
				h.add(ctx, client)
			case client := <-h.unregister:
				h.remove(ctx, client)
			case <-ctx.Done():
				close(h.done)
				h.closeAll()
				return
			}
		}
	}()
}

// Register adds the client. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister drops the client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) add(ctx context.Context, client *Client) {
	h.mutex.Lock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[client.UserID] = conns
	}
	conns[client] = struct{}{}
	first := len(conns) == 1
	h.mutex.Unlock()

	logrus.WithField("user_id", client.UserID).Debug("websocket client registered")
	if first && h.presence != nil {
		h.presence(ctx, client.UserID, true, time.Now())
	}
}

func (h *Hub) remove(ctx context.Context, client *Client) {
	h.mutex.Lock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		h.mutex.Unlock()
		return
	}
	if _, ok := conns[client]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(conns, client)
	close(client.Send)
	last := len(conns) == 0
	if last {
		delete(h.clients, client.UserID)
	}
	h.mutex.Unlock()

	logrus.WithField("user_id", client.UserID).Debug("websocket client unregistered")
	if last && h.presence != nil {
		h.presence(ctx, client.UserID, false, time.Now())
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	users := make([]string, 0, len(h.clients))
	for userID, conns := range h.clients {
		for client := range conns {
			close(client.Send)
		}
		delete(h.clients, userID)
		users = append(users, userID)
	}
	h.mutex.Unlock()

	if h.presence == nil || len(users) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	now := time.Now()
	for _, userID := range users {
		h.presence(ctx, userID, false, now)
	}
}

// Online reports whether the user has at least one open connection.
func (h *Hub) Online(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID]) > 0
}

// SendToUser queues a raw message on every connection of the user.
// Slow connections drop the message instead of blocking the caller.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- message:
		default:
			logrus.WithField("user_id", userID).Warn("websocket send buffer full, dropping message")
		}
	}
}

func (h *Hub) Push(userID string, eventType string, data interface{}) {
	message, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		logrus.WithError(err).WithField("event", eventType).Error("failed to encode websocket event")
		return
	}
	h.SendToUser(userID, message)
}

// Serve registers the connection and pumps it until the peer goes away.
func (h *Hub) Serve(client *Client) {
	if !h.Register(client) {
		client.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		client.Conn.Close()
		return
	}
	go client.WritePump()
	client.ReadPump(h)
}

// ReadPump drains the connection; clients only send pings and close frames.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("user_id", c.UserID).Warn("websocket closed unexpectedly")
			}
			return
		}
	}
}

// WritePump sends queued messages and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithError(err).WithField("user_id", c.UserID).Warn("websocket write failed")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
