package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a separately served frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one websocket connection bound to a user identity.
type client struct {
	userID    string
	conn      *websocket.Conn
	send      chan envelope
	closeOnce sync.Once
}

// trySend queues msg without blocking. A client too slow to drain its buffer
// gets its connection closed; the read pump then unregisters it. Dropped
// messages are never retried, delivery is best-effort.
func (c *client) trySend(msg envelope) {
	select {
	case c.send <- msg:
	default:
		_ = c.conn.Close()
	}
}

func (c *client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ServeWS returns the GET /ws handler. The handshake requires a valid token in
// the "token" query parameter; a missing or invalid token is rejected with
// 401 Unauthorized before the connection is upgraded. On success the
// connection is auto-subscribed to the room keyed by the token's user identity.
func (h *Hub) ServeWS(jwtSecret string) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := verifyToken(c.QueryParam("token"), jwtSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}

		cl := &client{
			userID: userID,
			conn:   conn,
			send:   make(chan envelope, sendBuffer),
		}
		h.register(cl)

		go cl.writePump()
		go cl.readPump(h)

		return nil
	}
}

// verifyToken validates an HS256 token and extracts its user identity claim.
func verifyToken(token, secret string) (string, error) {
	if token == "" {
		return "", jwt.ErrTokenMalformed
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}

// writePump serialises queued events onto the connection and keeps it alive
// with periodic pings. One writer per connection; gorilla allows at most one
// concurrent writer.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames (the channel is server-push only) and
// unregisters the client when the connection drops.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		// Each pong also refreshes the presence TTL, keeping long-lived
		// connections marked online.
		h.markOnline(c.userID)
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
