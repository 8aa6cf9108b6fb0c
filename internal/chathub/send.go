package chathub

import (
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

// send never blocks the hub: a full client queue drops the event.
// Payloads must not be mutated after they are handed over.
func (m *ManagerService) send(c *connection, event string, data any) {
	select {
	case c.client.GetSendChannel() <- models.Outbound{Event: event, Data: data}:
	default:
		metrics.SendQueueFull.Inc()
		m.log.Warn("send queue full, dropping event", zap.String("conn_id", c.id), zap.String("event", event))
	}
}

func (m *ManagerService) sendTo(connID, event string, data any) bool {
	c, ok := m.conns[connID]
	if !ok {
		return false
	}
	m.send(c, event, data)
	return true
}

// broadcast sends to every connection of a namespace except one.
func (m *ManagerService) broadcast(namespace, event string, data any, except string) {
	for id, c := range m.conns {
		if id == except || c.namespace != namespace {
			continue
		}
		m.send(c, event, data)
	}
}

func (m *ManagerService) broadcastToRoom(roomID, event string, data any, except string) {
	room, ok := m.rooms[roomID]
	if !ok {
		return
	}
	for id := range room.Members {
		if id == except {
			continue
		}
		m.sendTo(id, event, data)
	}
}

// broadcastToAdmins reaches admin connections on the support namespace.
func (m *ManagerService) broadcastToAdmins(event string, data any, except string) {
	for id, c := range m.conns {
		if id == except || c.namespace != models.NamespaceSupport || !c.isAdmin() {
			continue
		}
		m.send(c, event, data)
	}
}
