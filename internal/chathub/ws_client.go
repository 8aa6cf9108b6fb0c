package chathub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizblog/gateway/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	ConnID    string
	Namespace string
	Identity  *models.Identity
	Conn      *websocket.Conn
	Hub       *ManagerService
	Send      chan models.Outbound
	Log       *zap.Logger
}

func (c *WebSocketClient) GetConnID() string                      { return c.ConnID }
func (c *WebSocketClient) GetNamespace() string                   { return c.Namespace }
func (c *WebSocketClient) GetIdentity() *models.Identity          { return c.Identity }
func (c *WebSocketClient) GetSendChannel() chan<- models.Outbound { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close is called by the hub only; it stops the write pump, which closes the socket.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Debug("websocket read failed", zap.String("conn_id", c.ConnID), zap.Error(err))
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			c.Log.Debug("dropping malformed frame", zap.String("conn_id", c.ConnID), zap.Error(err))
			continue
		}

		c.Hub.Submit(models.Inbound{
			ConnID:     c.ConnID,
			Event:      env.Event,
			Data:       env.Data,
			ReceivedAt: time.Now(),
		})
	}
}

// writePump writes one text frame per outbound event.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case out, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(out)
			if err != nil {
				c.Log.Error("encoding outbound event", zap.String("conn_id", c.ConnID), zap.String("event", out.Event), zap.Error(err))
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
