package broadcast

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
)

var errSessionStalled = errors.New("session send buffer full")

// WSSession adapts a gorilla websocket connection to the Session interface.
// Outbound events go through a buffered channel drained by a single write
// pump; Send fails once the buffer has stayed full past the send timeout,
// which the hub treats as a dead subscriber.
type WSSession struct {
	id          string
	conn        *websocket.Conn
	sendCh      chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	sendTimeout time.Duration
}

// WSConfig controls session buffering.
type WSConfig struct {
	SendTimeout time.Duration
	Buffer      int
}

func NewWSSession(conn *websocket.Conn, cfg WSConfig) *WSSession {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 64
	}

	s := &WSSession{
		id:          uuid.New().String(),
		conn:        conn,
		sendCh:      make(chan []byte, cfg.Buffer),
		done:        make(chan struct{}),
		sendTimeout: cfg.SendTimeout,
	}
	go s.writePump()
	return s
}

func (s *WSSession) ID() string { return s.id }

func (s *WSSession) Send(data []byte) error {
	timer := time.NewTimer(s.sendTimeout)
	defer timer.Stop()

	select {
	case s.sendCh <- data:
		return nil
	case <-s.done:
		return websocket.ErrCloseSent
	case <-timer.C:
		return errSessionStalled
	}
}

// Close is idempotent and safe for concurrent callers: both the write pump
// and the hub's failure path may race to tear the session down.
func (s *WSSession) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.conn.Close()
}

func (s *WSSession) writePump() {
	for {
		select {
		case data := <-s.sendCh:
			s.conn.SetWriteDeadline(time.Now().Add(s.sendTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The ops listener fronts dashboards on other origins; access control
	// belongs to the reverse proxy in front of it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to websocket monitor sessions and
// subscribes them to the hub. The read loop exists only to notice the peer
// going away.
func Handler(hub *Hub, cfg WSConfig, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed",
				logging.RemoteAddr(r.RemoteAddr), logging.Error(err))
			return
		}

		session := NewWSSession(conn, cfg)
		hub.Subscribe(session)

		go func() {
			defer hub.Unsubscribe(session.ID())
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
