// Package handler exposes the hub over HTTP: the two WebSocket namespaces,
// the quiz-control API, stats, health and metrics.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizblog/gateway/internal/auth"
	"quizblog/gateway/internal/chathub"
	"quizblog/gateway/internal/metrics"
)

// Handler holds the hub and the collaborators used at the HTTP edge.
type Handler struct {
	Hub        *chathub.ManagerService
	Verifier   *auth.Verifier
	Log        *zap.Logger
	SendBuffer int

	upgrader websocket.Upgrader
}

func NewHandler(hub *chathub.ManagerService, verifier *auth.Verifier, allowedOrigins []string, sendBuffer int, log *zap.Logger) *Handler {
	return &Handler{
		Hub:        hub,
		Verifier:   verifier,
		Log:        log,
		SendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// Router wires every route onto a fresh gin engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/ws/support", h.ServeSupportWebSocket)

	api := r.Group("/api")
	api.GET("/stats", h.Stats)

	quizzes := api.Group("/quizzes", h.AdminOnly())
	quizzes.PUT("/:quizId/status", h.SetQuizStatus)
	quizzes.POST("/:quizId/results", h.RecordQuizResult)

	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// originChecker allows every origin when the list is empty or contains "*".
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
