package ws

import (
	"time"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	// identity is set for observers.
	identity auth.Identity
	// serial and seq are guarded by hub.mu.
	serial string
	seq    uint64
}

func newClient(h *Hub, conn *websocket.Conn, id string) *client {
	return &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   id,
	}
}

// readPump delivers client messages to handle until the connection fails,
// then calls done.
func (c *client) readPump(handle func(c *client, data []byte), done func()) {
	defer func() {
		done()
		_ = c.conn.Close()
	}()

	wait := c.hub.conf.WSPingInterval + c.hub.conf.WSPongTimeout
	c.conn.SetReadLimit(c.hub.conf.WSMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(
		func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(wait))
		},
	)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("websocket read error", zap.String("conn", c.id), zap.Error(err))
			} else {
				zap.L().Debug("websocket closed", zap.String("conn", c.id), zap.Error(err))
			}
			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(wait))
		handle(c, data)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.conf.WSPingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.conf.WSPongTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.conf.WSPongTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend drops the message when the client is gone or its buffer is full.
func (c *client) trySend(data []byte) {
	defer func() {
		_ = recover()
	}()

	select {
	case c.send <- data:
	default:
		zap.L().Debug("websocket client buffer full", zap.String("conn", c.id))
	}
}

func (c *client) sendMessage(id, typ string, payload any) {
	data, err := json.Marshal(
		Message{
			Type:      typ,
			ID:        id,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Payload:   payload,
		},
	)
	if err != nil {
		zap.L().Error("failed to marshal message", zap.String("type", typ), zap.Error(err))
		return
	}
	c.trySend(data)
}

func (c *client) sendError(id, message string) {
	c.sendMessage(id, TypeError, map[string]string{"message": message})
}
