package chathub

import (
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

// HandlerFunc handles one inbound event for a registered connection.
type HandlerFunc func(c *connection, in models.Inbound)

type Middleware func(HandlerFunc) HandlerFunc

// chain wraps h so that mws run in the order given.
func chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (m *ManagerService) buildRoutes() map[string]map[string]HandlerFunc {
	return map[string]map[string]HandlerFunc{
		models.NamespaceDefault: {
			"ping":               m.handlePing,
			"updatePresence":     m.handleUpdatePresence,
			"privateMessage":     m.handlePrivateMessage,
			"typing":             m.handleTyping,
			"joinRoom":           m.handleJoinRoom,
			"leaveRoom":          m.handleLeaveRoom,
			"roomMessage":        m.handleRoomMessage,
			"joinQuiz":           m.handleJoinQuiz,
			"submitAnswer":       m.handleSubmitAnswer,
			"requestLeaderboard": m.handleRequestLeaderboard,
		},
		models.NamespaceSupport: {
			"ping":               m.handlePing,
			"submitContactForm":  m.handleSubmitContactForm,
			"claimContact":       adminOnly(m.handleClaimContact),
			"sendContactMessage": m.handleSendContactMessage,
			"resolveContact":     adminOnly(m.handleResolveContact),
			"getContactStats":    adminOnly(m.handleGetContactStats),
			"getPendingContacts": adminOnly(m.handleGetPendingContacts),
			"joinContactChat":    m.handleJoinContactChat,
			"contactTyping":      m.handleContactTyping,
		},
	}
}

func (m *ManagerService) handleInbound(in models.Inbound) {
	c, ok := m.conns[in.ConnID]
	if !ok {
		return
	}
	metrics.EventsReceived.WithLabelValues(c.namespace).Inc()
	m.pipeline(c, in)
}

// touchActivity runs for every event, including ones later rejected.
func (m *ManagerService) touchActivity(next HandlerFunc) HandlerFunc {
	return func(c *connection, in models.Inbound) {
		now := m.clock.Now()
		c.lastActivity = now
		if p, ok := m.presence[c.id]; ok {
			p.LastActivity = now
		}
		next(c, in)
	}
}

func (m *ManagerService) admission(next HandlerFunc) HandlerFunc {
	return func(c *connection, in models.Inbound) {
		if !c.limiter.allow(m.clock.Now()) {
			metrics.EventsRejected.WithLabelValues("rate_limit").Inc()
			m.log.Debug("rate limit exceeded", zap.String("conn_id", c.id), zap.String("event", in.Event))
			m.send(c, "error", models.ErrorPayload{Message: "rate limit exceeded"})
			return
		}
		next(c, in)
	}
}

// adminOnly drops the event without a reply for non-admin callers.
func adminOnly(next HandlerFunc) HandlerFunc {
	return func(c *connection, in models.Inbound) {
		if !c.isAdmin() {
			metrics.EventsRejected.WithLabelValues("forbidden").Inc()
			return
		}
		next(c, in)
	}
}

func (m *ManagerService) route(c *connection, in models.Inbound) {
	h, ok := m.routes[c.namespace][in.Event]
	if !ok {
		metrics.EventsRejected.WithLabelValues("unknown_event").Inc()
		m.log.Debug("unknown event", zap.String("conn_id", c.id), zap.String("event", in.Event))
		return
	}
	h(c, in)
}

func (m *ManagerService) rejectPayload(c *connection, in models.Inbound, err error) {
	metrics.EventsRejected.WithLabelValues("decode").Inc()
	m.log.Debug("bad payload", zap.String("conn_id", c.id), zap.String("event", in.Event), zap.Error(err))
}

func (m *ManagerService) handlePing(c *connection, _ models.Inbound) {
	m.send(c, "pong", models.PongPayload{Timestamp: m.clock.Now()})
}
