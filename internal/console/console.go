// Package console implements chessdip.Console: a recording sink for tests
// and a WebSocket fan-out hub for live games, adapted from a game service's
// WebSocket hub.
package console

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/th-rtyf-re/chessdip/pkg/chessdip"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// MultiConsole fans a single Event out to every Console in the slice, in
// order. Useful for attaching both a RecordingConsole (tests, logging) and a
// BroadcastConsole (live subscribers) to the same Executor run.
type MultiConsole []chessdip.Console

// Report implements chessdip.Console.
func (m MultiConsole) Report(e chessdip.Event) {
	for _, c := range m {
		c.Report(e)
	}
}

// RecordingConsole accumulates every Event it receives, for tests and
// post-hoc inspection. Safe for concurrent use.
type RecordingConsole struct {
	mu     sync.Mutex
	events []chessdip.Event
}

// NewRecordingConsole returns an empty RecordingConsole.
func NewRecordingConsole() *RecordingConsole {
	return &RecordingConsole{}
}

// Report implements chessdip.Console.
func (c *RecordingConsole) Report(e chessdip.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of every Event reported so far.
func (c *RecordingConsole) Events() []chessdip.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chessdip.Event(nil), c.events...)
}

// WSEvent is the envelope for order-resolution events sent over WebSocket.
type WSEvent struct {
	Type    string `json:"type"`
	GameID  string `json:"game_id"`
	Kind    string `json:"kind"`
	Square  string `json:"square"`
	Message string `json:"message"`
}

// WSConn wraps a WebSocket connection subscribed to one or more games.
type WSConn struct {
	conn *websocket.Conn
	send chan []byte
}

// NewWSConn wraps conn for use with a Hub.
func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn, send: make(chan []byte, 32)}
}

// Run drains c's send channel onto the underlying WebSocket connection,
// pinging on an interval to keep it alive. Callers spawn one goroutine
// running this per connection; it returns once the connection breaks or
// send is closed, closing conn on the way out.
func (c *WSConn) Run() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub fans Events out to every connection subscribed to a game.
type Hub struct {
	mu    sync.RWMutex
	games map[string]map[*WSConn]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{games: make(map[string]map[*WSConn]bool)}
}

// Subscribe adds c to gameID's channel.
func (h *Hub) Subscribe(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[*WSConn]bool)
	}
	h.games[gameID][c] = true
}

// Unsubscribe removes c from gameID's channel. It does not close c's send
// channel; the connection's owner does that.
func (h *Hub) Unsubscribe(c *WSConn, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.games[gameID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.games, gameID)
		}
	}
}

// GameSubscriberCount returns how many connections are subscribed to gameID.
func (h *Hub) GameSubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

func (h *Hub) broadcast(gameID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("failed to marshal console event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.games[gameID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("gameId", gameID).Msg("dropping console event, buffer full")
		}
	}
}

// BroadcastConsole implements chessdip.Console by fanning each Event out to
// a single game's WebSocket subscribers.
type BroadcastConsole struct {
	hub    *Hub
	gameID string
}

// NewBroadcastConsole returns a Console scoped to one game's Hub channel.
func NewBroadcastConsole(hub *Hub, gameID string) *BroadcastConsole {
	return &BroadcastConsole{hub: hub, gameID: gameID}
}

// Report implements chessdip.Console.
func (bc *BroadcastConsole) Report(e chessdip.Event) {
	bc.hub.broadcast(bc.gameID, WSEvent{
		Type:    "order_resolved",
		GameID:  bc.gameID,
		Kind:    e.Kind,
		Square:  e.Square.String(),
		Message: e.Message,
	})
}
