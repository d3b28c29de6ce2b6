package notifications

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Hub tracks websocket connections per user and routes pushed notifications
// to them. A user can hold several connections (multiple tabs).
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]map[*connection]struct{}
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

type connection struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan Message
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]map[*connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades the request and pumps messages until the client
// goes away. The caller has already authenticated the user.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		userID: userID,
		conn:   ws,
		send:   make(chan Message, 64),
	}

	h.mu.Lock()
	if h.connections[userID] == nil {
		h.connections[userID] = make(map[*connection]struct{})
	}
	h.connections[userID][c] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("websocket connected", zap.String("user_id", userID.String()))

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	if conns, ok := h.connections[c.userID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.connections, c.userID)
			}
		}
	}
	h.mu.Unlock()
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
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
			if err := c.conn.WriteJSON(msg); err != nil {
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

// SendToUser queues the message on every connection the user holds. Slow
// consumers are dropped rather than blocking the sender.
func (h *Hub) SendToUser(userID uuid.UUID, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[userID] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping message for slow websocket consumer",
				zap.String("user_id", userID.String()))
		}
	}
}

// Broadcast queues the message for every connected user.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.connections {
		for c := range conns {
			select {
			case c.send <- msg:
			default:
			}
		}
	}
}

// ConnectedUsers reports how many distinct users hold a live connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
