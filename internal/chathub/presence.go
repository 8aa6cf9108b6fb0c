package chathub

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

// registerPresence tracks authenticated default-namespace connections only.
func (m *ManagerService) registerPresence(c *connection) {
	if c.identity == nil || c.namespace != models.NamespaceDefault {
		return
	}
	if _, ok := m.presence[c.id]; ok {
		return
	}

	now := m.clock.Now()
	m.presence[c.id] = &models.PresenceEntry{
		ConnID:       c.id,
		Identity:     *c.identity,
		Status:       models.PresenceOnline,
		JoinedAt:     now,
		LastActivity: now,
	}
	uid := c.identity.UserID
	m.userConns[uid] = append(m.userConns[uid], c.id)
	metrics.OnlineUsers.Set(float64(len(m.presence)))

	m.broadcast(models.NamespaceDefault, "userOnline", models.PresenceChange{
		UserID:    uid,
		Name:      c.name(),
		Timestamp: now,
	}, c.id)
	m.broadcastRoster()
}

func (m *ManagerService) removePresence(c *connection) {
	entry, ok := m.presence[c.id]
	if !ok {
		return
	}
	delete(m.presence, c.id)

	uid := entry.Identity.UserID
	ids := m.userConns[uid]
	for i, id := range ids {
		if id == c.id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(m.userConns, uid)
	} else {
		m.userConns[uid] = ids
	}
	metrics.OnlineUsers.Set(float64(len(m.presence)))

	m.broadcastRoster()
	m.broadcast(models.NamespaceDefault, "userOffline", models.PresenceChange{
		UserID:    uid,
		Name:      entry.Identity.DisplayName(),
		Timestamp: m.clock.Now(),
	}, c.id)
}

func (m *ManagerService) setStatus(c *connection, status models.PresenceStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	entry, ok := m.presence[c.id]
	if !ok {
		return nil
	}
	entry.Status = status
	entry.LastActivity = m.clock.Now()
	m.broadcastRoster()
	return nil
}

// roster lists visible entries, oldest first.
func (m *ManagerService) roster() []models.OnlineUser {
	entries := make([]*models.PresenceEntry, 0, len(m.presence))
	for _, p := range m.presence {
		if p.Status == models.PresenceInvisible {
			continue
		}
		entries = append(entries, p)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].JoinedAt.Equal(entries[j].JoinedAt) {
			return entries[i].JoinedAt.Before(entries[j].JoinedAt)
		}
		return entries[i].ConnID < entries[j].ConnID
	})

	out := make([]models.OnlineUser, 0, len(entries))
	for _, p := range entries {
		out = append(out, models.OnlineUser{
			UserID:       p.Identity.UserID,
			Name:         p.Identity.DisplayName(),
			Status:       p.Status,
			LastActivity: p.LastActivity,
		})
	}
	return out
}

func (m *ManagerService) broadcastRoster() {
	m.broadcast(models.NamespaceDefault, "onlineUsers", m.roster(), "")
}

// findConnectionByUserID returns the user's earliest registered connection.
func (m *ManagerService) findConnectionByUserID(userID string) (*connection, bool) {
	ids := m.userConns[userID]
	if len(ids) == 0 {
		return nil, false
	}
	c, ok := m.conns[ids[0]]
	return c, ok
}

func (m *ManagerService) handleUpdatePresence(c *connection, in models.Inbound) {
	status, err := decodeID(in.Data, "status")
	if err != nil {
		m.rejectPayload(c, in, err)
		return
	}
	if err := m.setStatus(c, models.PresenceStatus(status)); err != nil {
		m.rejectPayload(c, in, err)
	}
}

func (m *ManagerService) handlePrivateMessage(c *connection, in models.Inbound) {
	var req models.PrivateMessageRequest
	if err := decodeInto(in.Data, &req); err != nil || req.RecipientID == "" {
		m.send(c, "messageError", models.ErrorPayload{Message: "Invalid message"})
		return
	}
	if c.identity == nil {
		m.send(c, "messageError", models.ErrorPayload{Message: "Authentication required"})
		return
	}

	recipient, ok := m.findConnectionByUserID(req.RecipientID)
	if !ok {
		m.send(c, "messageError", models.ErrorPayload{Message: "Recipient not found or offline"})
		return
	}

	now := m.clock.Now()
	msg := models.PrivateMessage{
		ID:         uuid.NewString(),
		SenderID:   c.userID(),
		SenderName: c.name(),
		Message:    req.Message,
		Type:       defaultType(req.Type),
		Timestamp:  now,
	}
	m.send(recipient, "privateMessage", msg)
	m.send(c, "messageDelivered", models.MessageDelivered{
		MessageID:   msg.ID,
		RecipientID: req.RecipientID,
		Timestamp:   now,
	})
	m.log.Debug("private message delivered", zap.String("conn_id", c.id), zap.String("user_id", req.RecipientID))
}

func defaultType(t string) string {
	if t == "" {
		return "text"
	}
	return t
}
