package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizblog/gateway/internal/chathub"
	"quizblog/gateway/internal/models"
)

func (h *Handler) ServeWebSocket(c *gin.Context) {
	h.serve(c, models.NamespaceDefault)
}

func (h *Handler) ServeSupportWebSocket(c *gin.Context) {
	h.serve(c, models.NamespaceSupport)
}

// serve resolves the caller's identity, upgrades the connection and hands it
// to the hub. A bad or missing token still connects, anonymously.
func (h *Handler) serve(c *gin.Context, namespace string) {
	identity := h.Verifier.Identify(c.Request.Context(), tokenFromContext(c))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &chathub.WebSocketClient{
		ConnID:    uuid.NewString(),
		Namespace: namespace,
		Identity:  identity,
		Conn:      conn,
		Hub:       h.Hub,
		Send:      make(chan models.Outbound, h.SendBuffer),
		Log:       h.Log,
	}

	if err := h.Hub.Register(client); err != nil {
		if errors.Is(err, chathub.ErrHubStopped) {
			h.Log.Warn("hub stopped, refusing connection", zap.String("conn_id", client.ConnID))
		}
		conn.Close()
		return
	}

	client.Run()
}
