// Package receiver implements the alarm-panel TCP listener: it accepts
// persistent connections, drives each through frame/process/ACK strictly in
// order, and isolates every connection's faults from the rest.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
	"github.com/sentryline-systems/sentryline-receiver/internal/metrics"
	"github.com/sentryline-systems/sentryline-receiver/internal/service"
)

// Config holds the listener settings.
type Config struct {
	ListenAddr     string
	MaxMessageSize int
	IdleTimeout    time.Duration
	ShutdownGrace  time.Duration
}

// Server supervises panel connections. One goroutine runs the accept loop
// and one goroutine runs per connection; within a connection, processing is
// strictly sequential so a message's ACK is always written before the next
// message is read.
type Server struct {
	cfg      Config
	pipeline *service.Pipeline
	logger   *logging.Logger

	ln net.Listener
	wg sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*session
	draining bool
}

func New(cfg Config, pipeline *service.Pipeline, logger *logging.Logger) *Server {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 90 * time.Second
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Start binds the listening socket and launches the accept loop. A bind
// failure is the one unrecoverable startup fault and is returned to the
// caller to exit on.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp4", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln

	s.logger.Info("alarm receiver listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// ConnectionCount reports the number of open panel connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	var backoff time.Duration
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.isDraining() || errors.Is(err, net.ErrClosed) {
				return
			}
			// Transient faults like EMFILE during a connection flood must
			// not kill the loop and leave a deaf listener behind.
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff < time.Second {
				backoff *= 2
			}
			s.logger.Warn("accept failed, retrying",
				logging.Error(err), "backoff", backoff.String())
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		sess := newSession(conn, s)

		s.mu.Lock()
		if s.draining {
			s.mu.Unlock()
			conn.Close()
			continue
		}
		s.sessions[sess.id] = sess
		s.mu.Unlock()

		metrics.ConnectionsTotal.Inc()
		metrics.ConnectionsActive.Inc()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess.run()
		}()
	}
}

// remove deregisters a session after its loop exits.
func (s *Server) remove(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if ok {
		metrics.ConnectionsActive.Dec()
	}
}

// Shutdown stops accepting, lets in-flight connections finish their current
// message, and force-closes whatever remains once the grace period or ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()

	if s.ln != nil {
		s.ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	grace := time.NewTimer(s.cfg.ShutdownGrace)
	defer grace.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	case <-grace.C:
	}

	// Hard deadline passed; closing the sockets unblocks any reads.
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.conn.Close()
	}
	s.mu.Unlock()

	<-done
	return nil
}

// isDraining tells sessions to stop after their current message.
func (s *Server) isDraining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draining
}
