package receiver

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/sentryline-systems/sentryline-receiver/internal/framer"
	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
	"github.com/sentryline-systems/sentryline-receiver/internal/metrics"
	"github.com/sentryline-systems/sentryline-receiver/internal/protocol"
	"github.com/sentryline-systems/sentryline-receiver/internal/service"
)

const ackWriteTimeout = 5 * time.Second

// session is the per-connection state: identity, peer address, the framing
// buffer, and the running message count. Nothing here is shared across
// connections.
type session struct {
	id     string
	conn   net.Conn
	frames *framer.Framer
	server *Server
	logger *logging.Logger

	messageCount int
}

func newSession(conn net.Conn, server *Server) *session {
	id := uuid.New().String()
	return &session{
		id:     id,
		conn:   conn,
		frames: framer.New(conn, server.cfg.MaxMessageSize),
		server: server,
		logger: server.logger.With(
			logging.Session(id),
			logging.RemoteAddr(conn.RemoteAddr().String()),
		),
	}
}

// run drives the connection loop: frame, process, ACK, repeat. All faults
// terminate this session only; nothing propagates to the supervisor. The
// next message is not read until the current one has been acknowledged or
// definitively dropped, which is what gives panels their per-connection
// ordering guarantee.
func (s *session) run() {
	defer func() {
		s.conn.Close()
		s.server.remove(s.id)
		s.logger.Debug("connection closed", "messages", s.messageCount)
	}()

	s.logger.Info("panel connected")

	connCtx := service.ConnContext{
		SessionID:  s.id,
		RemoteAddr: s.conn.RemoteAddr().String(),
	}

	for {
		// The idle clock starts when we begin waiting for a message and is
		// deliberately not extended mid-frame: a sender dripping bytes
		// without ever completing a frame still gets cut off.
		s.conn.SetReadDeadline(time.Now().Add(s.server.cfg.IdleTimeout))

		frame, err := s.frames.Next()
		if err != nil {
			s.logReadFault(err)
			return
		}

		s.messageCount++
		outcome := s.server.pipeline.Process(context.Background(), frame, connCtx)

		if outcome.Ack() {
			s.conn.SetWriteDeadline(time.Now().Add(ackWriteTimeout))
			if _, err := s.conn.Write([]byte{protocol.Ack}); err != nil {
				metrics.AckFailures.Inc()
				s.logger.Warn("ack write failed", logging.Error(err))
				return
			}
			metrics.AcksTotal.Inc()
		}

		if s.server.isDraining() {
			return
		}
	}
}

func (s *session) logReadFault(err error) {
	switch {
	case errors.Is(err, io.EOF):
		// Peer closed; any partial frame was discarded by the framer.
	case errors.Is(err, framer.ErrFrameTooLarge):
		metrics.FramingFaults.Inc()
		s.logger.Warn("oversized message, closing connection",
			logging.Fault("framing_fault"))
	case isTimeout(err):
		s.logger.Info("idle timeout, closing connection")
	default:
		s.logger.Warn("connection fault",
			logging.Fault("connection_fault"), logging.Error(err))
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
