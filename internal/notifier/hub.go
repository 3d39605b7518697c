package notifier

import (
	"context"
	"sync"

	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.uber.org/zap"
)

// Channel is a single live delivery target, typically one websocket
// connection. Writes must be safe for concurrent use.
type Channel interface {
	WriteJSON(v interface{}) error
}

// MessageFrame is what subscribers receive for every published notification.
type MessageFrame struct {
	Message string `json:"message"`
}

// AckFrame is sent once to a connection right after it subscribes.
type AckFrame struct {
	Username string `json:"username"`
}

// Hub fans notifications out to the live connections of each user. A user may
// hold any number of simultaneous connections; all of them receive every
// message published for that user. Delivery is best effort: a failed write is
// logged and skipped, the connection's own read loop is responsible for
// tearing it down.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[Channel]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[int64]map[Channel]struct{}),
		logger: logger,
	}
}

func (h *Hub) Subscribe(userID int64, ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[Channel]struct{})
	}
	h.subs[userID][ch] = struct{}{}
}

func (h *Hub) Unsubscribe(userID int64, ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.subs[userID]
	if !ok {
		return
	}

	delete(conns, ch)
	if len(conns) == 0 {
		delete(h.subs, userID)
	}
}

// Subscribers reports the number of live connections for the user.
func (h *Hub) Subscribers(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[userID])
}

// Publish delivers the message to every live connection of the user. Users
// with no connections are a no-op.
func (h *Hub) Publish(ctx context.Context, userID int64, message string) {
	h.mu.RLock()
	targets := make([]Channel, 0, len(h.subs[userID]))
	for ch := range h.subs[userID] {
		targets = append(targets, ch)
	}
	h.mu.RUnlock()

	frame := MessageFrame{Message: message}
	for _, ch := range targets {
		if err := ch.WriteJSON(frame); err != nil {
			mylogger.Warn(
				ctx,
				h.logger,
				"Failed to push notification to connection",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}
}
