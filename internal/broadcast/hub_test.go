package broadcast

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

func testLogger() *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// fakeSession records sends and can be told to fail.
type fakeSession struct {
	id string

	mu       sync.Mutex
	received [][]byte
	fail     bool
	closed   bool
}

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("transport gone")
	}
	s.received = append(s.received, data)
	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

func testEvent() *models.Event {
	return &models.Event{
		ID:       "ev-1",
		PanelID:  1,
		Account:  "1234",
		Protocol: models.ProtocolSIA,
		Code:     "B", Qualifier: "A", ZoneOrUser: "1",
		Timestamp:  time.Now().UTC(),
		ReceivedAt: time.Now().UTC(),
	}
}

func TestPublishFansOut(t *testing.T) {
	hub := NewHub(testLogger())
	a := &fakeSession{id: "a"}
	b := &fakeSession{id: "b"}
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.Publish(testEvent())

	if a.count() != 1 || b.count() != 1 {
		t.Errorf("counts = %d/%d, want 1/1", a.count(), b.count())
	}

	var env Envelope
	if err := json.Unmarshal(a.received[0], &env); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if env.Type != "new_alarm" {
		t.Errorf("envelope type = %q, want new_alarm", env.Type)
	}
	if env.Data == nil || env.Data.ID != "ev-1" {
		t.Errorf("envelope data = %+v", env.Data)
	}
}

func TestDeadSessionSilentlyUnsubscribed(t *testing.T) {
	hub := NewHub(testLogger())
	dead := &fakeSession{id: "dead", fail: true}
	live := &fakeSession{id: "live"}
	hub.Subscribe(dead)
	hub.Subscribe(live)

	hub.Publish(testEvent())

	if live.count() != 1 {
		t.Errorf("live session count = %d, want 1 (publish must continue past failures)", live.count())
	}
	if hub.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %d, want 1 after dropping dead session", hub.SubscriberCount())
	}
	if !dead.closed {
		t.Error("dead session transport not closed")
	}

	// Later publishes skip the dropped session entirely.
	hub.Publish(testEvent())
	if live.count() != 2 {
		t.Errorf("live session count = %d, want 2", live.count())
	}
}

func TestUnsubscribeUnknownIsNoOp(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Unsubscribe("never-subscribed")
	if hub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", hub.SubscriberCount())
	}
}

func TestCloseDropsAllSessions(t *testing.T) {
	hub := NewHub(testLogger())
	a := &fakeSession{id: "a"}
	hub.Subscribe(a)

	hub.Close()

	if hub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", hub.SubscriberCount())
	}
	if !a.closed {
		t.Error("session not closed on hub shutdown")
	}
}
