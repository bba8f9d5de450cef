// Package service runs framed messages through classification, parsing,
// panel resolution, persistence and broadcast. It is the receiver's
// processing entry point and is usable without a socket.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
	"github.com/sentryline-systems/sentryline-receiver/internal/metrics"
	"github.com/sentryline-systems/sentryline-receiver/internal/models"
	"github.com/sentryline-systems/sentryline-receiver/internal/protocol"
	"github.com/sentryline-systems/sentryline-receiver/internal/ratelimit"
	"github.com/sentryline-systems/sentryline-receiver/internal/registry"
	"github.com/sentryline-systems/sentryline-receiver/internal/storage"
)

// Broadcaster receives every stored event. Implementations must not block.
type Broadcaster interface {
	Publish(event *models.Event)
}

// ConnContext identifies the connection a message arrived on, for logging.
type ConnContext struct {
	SessionID  string
	RemoteAddr string
}

// Pipeline wires the processing stages together. Safe for concurrent use;
// the registry and store are responsible for their own concurrency control.
type Pipeline struct {
	registry     registry.Registry
	store        storage.EventStore
	limiter      ratelimit.Limiter
	broadcasters []Broadcaster
	logger       *logging.Logger
}

func NewPipeline(
	reg registry.Registry,
	store storage.EventStore,
	limiter ratelimit.Limiter,
	logger *logging.Logger,
	broadcasters ...Broadcaster,
) *Pipeline {
	if limiter == nil {
		limiter = &ratelimit.NoOpLimiter{}
	}
	return &Pipeline{
		registry:     reg,
		store:        store,
		limiter:      limiter,
		broadcasters: broadcasters,
		logger:       logger,
	}
}

// Process runs one framed message to a terminal outcome. It never returns an
// error: every fault is handled here, logged, and folded into the outcome
// that tells the connection loop whether to ACK.
func (p *Pipeline) Process(ctx context.Context, raw []byte, conn ConnContext) Outcome {
	metrics.MessageBytesTotal.Add(float64(len(raw)))

	connAttrs := []any{logging.Session(conn.SessionID), logging.RemoteAddr(conn.RemoteAddr)}

	parsed, err := protocol.Decode(raw)
	if err != nil {
		var parseErr *protocol.ParseError
		switch {
		case errors.Is(err, protocol.ErrUnrecognized):
			p.logger.Warn("unrecognized message dropped",
				append(connAttrs, logging.Fault("classification_miss"))...)
			return p.count("unknown", OutcomeUnrecognized)
		case errors.As(err, &parseErr):
			p.logger.Warn("malformed message dropped",
				append(connAttrs,
					logging.Fault("parse_fault"),
					logging.Protocol(string(parseErr.Protocol)),
					logging.Error(err))...)
			return p.count(string(parseErr.Protocol), OutcomeParseFault)
		default:
			p.logger.Error("message decode failed", append(connAttrs, logging.Error(err))...)
			return p.count("unknown", OutcomeParseFault)
		}
	}

	proto := string(parsed.Protocol)

	allowed, err := p.limiter.Allow(ctx, parsed.Account)
	if err != nil {
		// Fail open: flood control is protection, not a gate worth
		// dropping alarms over when Redis is down.
		p.logger.Warn("rate limiter unavailable",
			append(connAttrs, logging.Error(err))...)
		allowed = true
	}
	if !allowed {
		p.logger.Warn("account over message budget",
			append(connAttrs, logging.Account(parsed.Account))...)
		return p.count(proto, OutcomeRateLimited)
	}

	panelID, err := p.registry.Resolve(ctx, parsed.Account)
	if err != nil {
		if errors.Is(err, registry.ErrPanelNotFound) {
			p.logger.Warn("message from unregistered panel dropped",
				append(connAttrs,
					logging.Fault("unregistered_account"),
					logging.Account(parsed.Account))...)
			return p.count(proto, OutcomeUnregistered)
		}
		// A registry that cannot answer is the storage layer being down;
		// withhold the ACK so the panel retries.
		p.logger.Error("panel lookup failed",
			append(connAttrs, logging.Account(parsed.Account), logging.Error(err))...)
		return p.count(proto, OutcomeStoreFault)
	}

	receivedAt := time.Now().UTC()
	timestamp := receivedAt
	if parsed.PanelTime != nil {
		timestamp = *parsed.PanelTime
	}

	event := &models.Event{
		ID:         uuid.New().String(),
		PanelID:    panelID,
		Account:    parsed.Account,
		Protocol:   parsed.Protocol,
		Qualifier:  parsed.Qualifier,
		Code:       parsed.Code,
		ZoneOrUser: parsed.ZoneOrUser,
		RawMessage: string(raw),
		Timestamp:  timestamp,
		PanelTime:  parsed.PanelTime,
		ReceivedAt: receivedAt,
	}

	start := time.Now()
	storedID, err := p.store.Insert(ctx, event)
	metrics.StoreDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrors.Inc()
		p.logger.Error("event persistence failed",
			append(connAttrs,
				logging.Fault("store_fault"),
				logging.Account(parsed.Account),
				logging.Error(err))...)
		return p.count(proto, OutcomeStoreFault)
	}

	for _, b := range p.broadcasters {
		b.Publish(event)
	}

	p.logger.Info("event stored",
		append(connAttrs,
			logging.EventID(storedID),
			logging.Account(parsed.Account),
			logging.PanelID(panelID),
			logging.Protocol(proto))...)

	return p.count(proto, OutcomeStored)
}

func (p *Pipeline) count(proto string, o Outcome) Outcome {
	metrics.MessagesTotal.WithLabelValues(proto, o.String()).Inc()
	return o
}
