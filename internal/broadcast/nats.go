package broadcast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// NATSPublisher mirrors stored events onto the message bus. Publishing is
// fire-and-forget; a bus outage never affects the ACK decision.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *logging.Logger
}

func NewNATSPublisher(url string, logger *logging.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sentryline-receiver"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", logging.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// Publish sends one stored event to SubjectEventsStored.
func (p *NATSPublisher) Publish(event *models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode event for bus", logging.Error(err))
		return
	}
	if err := p.conn.Publish(SubjectEventsStored, data); err != nil {
		p.logger.Warn("failed to publish event to bus",
			logging.EventID(event.ID), logging.Error(err))
	}
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
