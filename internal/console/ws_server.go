package console

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/th-rtyf-re/chessdip/internal/session"
)

const (
	pongWait   = 60 * time.Second
	maxMsgSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSServer upgrades HTTP connections to WebSocket and subscribes them to a
// game's broadcast channel, gated by a session token issued by
// internal/session. It implements http.Handler so it can be mounted directly
// on a ServeMux.
type WSServer struct {
	hub      *Hub
	sessions *session.Manager
}

// NewWSServer returns a WSServer fanning connections into hub, authenticated
// against sessions.
func NewWSServer(hub *Hub, sessions *session.Manager) *WSServer {
	return &WSServer{hub: hub, sessions: sessions}
}

// ServeHTTP handles GET ?token=...&game=...: upgrades the connection,
// subscribes it to the named game's channel, and spawns its write pump.
// Auth is via query parameter since a WebSocket handshake can't carry a
// bearer header.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, `{"error":"missing game parameter"}`, http.StatusBadRequest)
		return
	}
	if _, err := s.sessions.ValidateToken(r.URL.Query().Get("token")); err != nil {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("console WebSocket upgrade failed")
		return
	}

	client := NewWSConn(conn)
	s.hub.Subscribe(client, gameID)

	go client.Run()
	go s.readLoop(client, gameID)

	log.Info().Str("gameId", gameID).Msg("console WebSocket client connected")
}

// readLoop keeps the connection's read deadline alive via pongs and detects
// disconnection, unsubscribing and closing send so Run exits. Messages the
// client sends are read and discarded; only control frames have an effect.
func (s *WSServer) readLoop(c *WSConn, gameID string) {
	defer func() {
		s.hub.Unsubscribe(c, gameID)
		close(c.send)
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
