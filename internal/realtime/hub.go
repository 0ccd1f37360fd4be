// Package realtime implements the websocket fan-out channel: a process-wide
// hub with one room per user identity, plus a global broadcast. Delivery is
// best-effort and non-persistent: there is no backlog or replay, and clients
// that reconnect must reconcile via a full re-fetch.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/api/metrics"
)

// Presence records which users currently hold a live connection. A nil
// Presence disables tracking.
type Presence interface {
	MarkOnline(ctx context.Context, userID string) error
	MarkOffline(ctx context.Context, userID string) error
}

const presenceOpTimeout = 2 * time.Second

// Hub routes events to connected clients. Rooms are keyed by user ID, so one
// user with several devices occupies one room with several connections.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*client]struct{}
	presence Presence
	logger   zerolog.Logger
}

func NewHub(presence Presence, logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:    make(map[string]map[*client]struct{}),
		presence: presence,
		logger:   logger,
	}
}

// envelope is the wire format for every pushed event.
type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Broadcast delivers the event to every connected client regardless of room.
func (h *Hub) Broadcast(event string, payload any) {
	msg := envelope{Event: event, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.rooms {
		for c := range conns {
			c.trySend(msg)
		}
	}
	metrics.NotificationsSentTotal.WithLabelValues(event).Inc()
}

// SendToUser delivers the event only to connections in the given user's room.
// Sending to a user with no live connections is a no-op.
func (h *Hub) SendToUser(userID, event string, payload any) {
	msg := envelope{Event: event, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[userID] {
		c.trySend(msg)
	}
	metrics.NotificationsSentTotal.WithLabelValues(event).Inc()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	if h.rooms[c.userID] == nil {
		h.rooms[c.userID] = make(map[*client]struct{})
	}
	h.rooms[c.userID][c] = struct{}{}
	h.mu.Unlock()

	metrics.WebsocketConnections.Inc()
	h.markOnline(c.userID)
	h.logger.Debug().Str("user_id", c.userID).Msg("realtime client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	conns, ok := h.rooms[c.userID]
	if ok {
		if _, present := conns[c]; present {
			delete(conns, c)
			c.closeSend()
			metrics.WebsocketConnections.Dec()
		}
		if len(conns) == 0 {
			delete(h.rooms, c.userID)
		}
	}
	lastConn := h.rooms[c.userID] == nil
	h.mu.Unlock()

	if lastConn {
		h.markOffline(c.userID)
	}
	h.logger.Debug().Str("user_id", c.userID).Msg("realtime client disconnected")
}

func (h *Hub) markOnline(userID string) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceOpTimeout)
	defer cancel()
	if err := h.presence.MarkOnline(ctx, userID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to mark user online")
	}
}

func (h *Hub) markOffline(userID string) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceOpTimeout)
	defer cancel()
	if err := h.presence.MarkOffline(ctx, userID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to mark user offline")
	}
}
