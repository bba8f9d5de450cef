// Package broadcast fans newly stored events out to live-monitoring
// sessions and mirrors them onto the message bus.
package broadcast

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
	"github.com/sentryline-systems/sentryline-receiver/internal/metrics"
	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// Session is one live-monitor subscriber. Send must return promptly: a
// session whose transport has stalled returns an error instead of blocking
// the publisher.
type Session interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Envelope is the payload pushed to monitoring sessions for each stored
// event.
type Envelope struct {
	Type string        `json:"type"`
	Data *models.Event `json:"data"`
}

// Hub owns the subscriber set. Fan-out is best-effort: a failed send
// silently unsubscribes that session and publishing continues with the rest.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]Session
	logger   *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]Session),
		logger:   logger,
	}
}

// Subscribe registers a session for event fan-out.
func (h *Hub) Subscribe(s Session) {
	h.mu.Lock()
	h.sessions[s.ID()] = s
	count := len(h.sessions)
	h.mu.Unlock()

	metrics.BroadcastSubscribers.Set(float64(count))
	h.logger.Debug("monitor session subscribed", logging.Session(s.ID()))
}

// Unsubscribe removes a session. Unknown IDs are a no-op.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	count := len(h.sessions)
	h.mu.Unlock()

	if ok {
		s.Close()
		metrics.BroadcastSubscribers.Set(float64(count))
		h.logger.Debug("monitor session unsubscribed", logging.Session(id))
	}
}

// Publish pushes one stored event to every subscribed session.
func (h *Hub) Publish(event *models.Event) {
	data, err := json.Marshal(Envelope{Type: "new_alarm", Data: event})
	if err != nil {
		h.logger.Error("failed to encode broadcast payload", logging.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(data); err != nil {
			metrics.BroadcastDropped.Inc()
			h.logger.Debug("dropping dead monitor session",
				logging.Session(s.ID()), logging.Error(err))
			h.Unsubscribe(s.ID())
		}
	}
}

// SubscriberCount reports the live subscriber set size.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close unsubscribes every session, closing their transports.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	metrics.BroadcastSubscribers.Set(0)
}

// DefaultSendTimeout bounds how long a session may leave its send buffer
// full before the hub treats it as dead.
const DefaultSendTimeout = 2 * time.Second
