// Package telemetry implements a small websocket broadcast hub for
// pushing live training progress to subscribers. It has no knowledge
// of cfr.Engine: a host harness polls the engine and calls Hub.Publish,
// keeping the "no training harness" boundary (spec.md §6) true of the
// core packages.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Progress is one broadcast update: a snapshot of where training stands.
type Progress struct {
	Iteration        int           `json:"iteration"`
	RegretTableSize  int           `json:"regret_table_size"`
	ElapsedIteration time.Duration `json:"elapsed_iteration"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscriber wraps one accepted websocket connection. It mirrors
// internal/server.Connection's pump/buffered-channel shape, trimmed to
// the single responsibility of fan-out broadcast: no auth, no game
// protocol, no read-side message handling beyond keepalive.
type subscriber struct {
	conn      *websocket.Conn
	send      chan Progress
	logger    *log.Logger
	closeOnce sync.Once
}

func newSubscriber(conn *websocket.Conn, logger *log.Logger) *subscriber {
	return &subscriber{
		conn:   conn,
		send:   make(chan Progress, sendBuffer),
		logger: logger.WithPrefix("telemetry"),
	}
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.send)
		_ = s.conn.Close()
	})
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case p, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(p); err != nil {
				s.logger.Error("failed to write progress", "error", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump does nothing but drain pongs; a subscriber never sends us
// anything meaningful, but we still need to read to observe the close
// handshake and honor SetReadDeadline/SetPongHandler.
func (s *subscriber) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub fans out Progress updates to every currently connected
// subscriber. The zero value is not usable; construct with NewHub.
type Hub struct {
	logger *log.Logger

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

// NewHub builds a Hub that logs subscriber lifecycle events through
// logger (see cfr.WithLogger for the same io.Discard-default idiom if
// the caller wants a silent Hub).
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// resulting connection as a subscriber until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sub := newSubscriber(conn, h.logger)
	h.register(sub)
	defer h.unregister(sub)

	go sub.writePump()
	sub.readPump()
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[s] = struct{}{}
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[s]
	delete(h.subscribers, s)
	h.mu.Unlock()
	if ok {
		s.close()
	}
}

// Publish broadcasts p to every connected subscriber. A subscriber
// whose send buffer is full is dropped rather than allowed to stall
// the broadcaster, matching Connection.SendMessage's full-buffer
// handling in internal/server/connection.go.
func (h *Hub) Publish(p Progress) {
	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		select {
		case s.send <- p:
		default:
			h.logger.Warn("subscriber send buffer full, dropping connection")
			h.unregister(s)
		}
	}
}

// Count returns the number of currently connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
