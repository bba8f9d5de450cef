// Package storage persists normalized alarm events.
//
// Delivery is at-least-once: a panel that never sees its ACK retransmits,
// and the same physical message may be stored twice. The receiver does not
// deduplicate; the wire formats carry no sequence number to key on.
package storage

import (
	"context"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// EventStore persists events and returns the stored ID.
type EventStore interface {
	Insert(ctx context.Context, event *models.Event) (string, error)
}
