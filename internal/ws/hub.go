package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Hub routes sync events to the websocket clients of the affected user.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	logger  *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	if h == nil || c == nil {
		return
	}
	h.mu.Lock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	total := len(set)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{"user_id": c.userID, "connections": total}).Debug("ws client connected")
}

func (h *Hub) Unregister(c *Client) {
	if h == nil || c == nil {
		return
	}
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		if _, present := set[c]; present {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
}

// Send delivers the message to every connection of the given user; slow
// consumers are dropped rather than blocking the sender.
func (h *Hub) Send(userID uuid.UUID, message []byte) {
	if h == nil {
		return
	}
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- message:
		default:
			h.Unregister(c)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
