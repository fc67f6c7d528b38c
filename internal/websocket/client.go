package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"petmatch/internal/pkg/logger"
	"petmatch/pkg/auth"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// SessionMessage is what the page receives for every auth-state change.
type SessionMessage struct {
	Type          string `json:"type"`
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

const initialSession = "INITIAL_SESSION"

// Conn is the subset of *websocket.Conn the pumps use.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one browser tab watching its session.
type Client struct {
	Conn      Conn
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte

	done     chan struct{}
	doneOnce sync.Once
	logger   logger.ILogger
}

func newClient(conn Conn, sessionID string, log logger.ILogger) *Client {
	return &Client{
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 16),
		done:      make(chan struct{}),
		logger:    log,
	}
}

// push queues msg without blocking. Messages for a slow or closed client are dropped.
func (c *Client) push(msg SessionMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.Send <- payload:
	default:
		c.logger.Warn("WebSocket", "Dropping session message for slow client", map[string]interface{}{
			"session_id": c.SessionID,
			"type":       msg.Type,
		})
	}
}

func (c *Client) stop() {
	c.doneOnce.Do(func() { close(c.done) })
}

func messageFor(eventType string, session *auth.Session) SessionMessage {
	msg := SessionMessage{Type: eventType, Authenticated: session != nil}
	if session != nil {
		msg.Email = session.User.Email
	}
	return msg
}

// readPump only keeps the read deadline moving; the page never sends anything.
// writePump owns closing the connection.
func (c *Client) readPump() {
	defer c.stop()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.stop()
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.stop()
				return
			}
		}
	}
}
