package chathub

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

// Localization keys of support-surface strings.
const (
	msgContactReceived   = "contact.received"
	msgEstimatedResponse = "contact.estimated_response"
	msgContactRequired   = "contact.error.required"
	msgContactEmail      = "contact.error.email"
	msgContactNotFound   = "contact.error.not_found"
	msgAlreadyClaimed    = "contact.error.already_claimed"
	msgAlreadyResolved   = "contact.error.already_resolved"
	msgChatNotFound      = "contact.error.chat_not_found"
	msgAdminDisconnected = "contact.admin_disconnected"
	msgAutoAssigned      = "contact.auto_assigned"
)

const (
	defaultLang = "en"
	supportRoom = "support"
)

func contactRoomID(contactID string) string {
	return "contact:" + contactID
}

// onlineAdmins returns admin connections of the support namespace in
// connection order.
func (m *ManagerService) onlineAdmins() []*connection {
	var out []*connection
	for _, c := range m.conns {
		if c.namespace == models.NamespaceSupport && c.isAdmin() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].connectedAt.Equal(out[j].connectedAt) {
			return out[i].connectedAt.Before(out[j].connectedAt)
		}
		return out[i].id < out[j].id
	})
	return out
}

// canAccessChat admits any admin and the ticket's requester.
func canAccessChat(c *connection, contact *models.ContactSession) bool {
	if c.isAdmin() || c.id == contact.RequesterConnID {
		return true
	}
	return c.identity != nil && contact.RequesterUserID != "" && c.identity.UserID == contact.RequesterUserID
}

func (m *ManagerService) contactLang(contact *models.ContactSession) string {
	if contact.Lang == "" {
		return defaultLang
	}
	return contact.Lang
}

func (m *ManagerService) handleSubmitContactForm(c *connection, in models.Inbound) {
	var req models.ContactFormRequest
	if err := decodeInto(in.Data, &req); err != nil {
		m.send(c, "contactFormError", models.ErrorPayload{Message: m.text.GetString(defaultLang, msgContactRequired)})
		return
	}
	lang := req.Lang
	if lang == "" {
		lang = defaultLang
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		m.send(c, "contactFormError", models.ErrorPayload{Message: m.text.GetString(lang, msgContactRequired)})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		m.send(c, "contactFormError", models.ErrorPayload{Message: m.text.GetString(lang, msgContactEmail)})
		return
	}

	now := m.clock.Now()
	contact := &models.ContactSession{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Email:           req.Email,
		Subject:         strings.TrimSpace(req.Subject),
		Message:         req.Message,
		Lang:            lang,
		Status:          models.ContactPending,
		SubmittedAt:     now,
		RequesterConnID: c.id,
	}
	if c.identity != nil {
		contact.RequesterUserID = c.identity.UserID
	}
	m.contacts[contact.ID] = contact
	c.tickets[contact.ID] = struct{}{}
	m.counters.totalContacts++
	metrics.ContactsSubmitted.Inc()

	snap := contact.Snapshot()
	admins := m.onlineAdmins()
	notified := make([]string, 0, len(admins))
	for _, a := range admins {
		m.send(a, "newContactSubmission", &snap)
		notified = append(notified, a.userID())
	}

	m.send(c, "contactFormSubmitted", models.ContactFormSubmitted{
		ContactID:         contact.ID,
		Message:           m.text.GetString(lang, msgContactReceived),
		EstimatedResponse: m.text.GetString(lang, msgEstimatedResponse),
	})

	m.scheduleAutoAssign(contact.ID)
	m.publish(models.TopicContactSubmitted, contact.ID, models.ContactEvent{Contact: snap, NotifiedAdmins: notified})
	m.log.Info("contact submitted", zap.String("contact_id", contact.ID), zap.Int("admins_notified", len(notified)))
}

func (m *ManagerService) handleClaimContact(c *connection, in models.Inbound) {
	id, err := decodeID(in.Data, "contactId", "ticketId", "id")
	if err != nil {
		m.rejectPayload(c, in, err)
		return
	}

	contact, ok := m.contacts[id]
	if !ok {
		m.send(c, "claimError", models.ContactError{Message: m.text.GetString(defaultLang, msgContactNotFound), ContactID: id})
		return
	}
	// check-then-set runs on the hub goroutine, so two claims cannot interleave
	if contact.Assigned != nil {
		m.send(c, "claimError", models.ContactError{
			Message:   m.text.GetString(defaultLang, msgAlreadyClaimed),
			ContactID: id,
			ClaimedBy: contact.Assigned.Name,
		})
		return
	}
	if contact.Status == models.ContactResolved {
		m.send(c, "claimError", models.ContactError{Message: m.text.GetString(defaultLang, msgAlreadyResolved), ContactID: id})
		return
	}

	now := m.clock.Now()
	contact.Assigned = &models.AssignedAdmin{
		UserID:    c.identity.UserID,
		Name:      c.name(),
		Email:     c.identity.Email,
		ClaimedAt: now,
	}
	contact.Status = models.ContactInProgress
	m.stopAutoAssign(id)

	chat := &models.ActiveChat{
		ContactID:   id,
		RoomID:      contactRoomID(id),
		AdminConnID: c.id,
		StartedAt:   now,
	}
	m.chats[id] = chat
	m.joinRoom(c, chat.RoomID, supportRoom)

	snap := contact.Snapshot()
	m.broadcastToAdmins("contactClaimed", models.ContactClaimed{
		ContactID: id,
		AdminID:   c.userID(),
		AdminName: c.name(),
	}, c.id)
	m.send(c, "contactClaimed", models.ContactClaimed{
		ContactID: id,
		AdminID:   c.userID(),
		AdminName: c.name(),
		RoomID:    chat.RoomID,
		Contact:   &snap,
	})

	m.publish(models.TopicContactClaimed, id, models.ContactEvent{Contact: snap})
	m.log.Info("contact claimed", zap.String("contact_id", id), zap.String("user_id", c.userID()))
}

func (m *ManagerService) handleSendContactMessage(c *connection, in models.Inbound) {
	var req models.ContactMessageRequest
	if err := decodeInto(in.Data, &req); err != nil || req.ContactID == "" {
		m.rejectPayload(c, in, err)
		return
	}
	chat, ok := m.chats[req.ContactID]
	contact := m.contacts[req.ContactID]
	if !ok || contact == nil {
		m.send(c, "messageError", models.ErrorPayload{Message: m.text.GetString(defaultLang, msgChatNotFound)})
		return
	}
	if !canAccessChat(c, contact) {
		return
	}

	msg := models.ContactMessage{
		ID:         uuid.NewString(),
		ContactID:  req.ContactID,
		SenderID:   c.userID(),
		SenderName: c.name(),
		Role:       c.role(),
		Message:    req.Message,
		Type:       defaultType(req.Type),
		Timestamp:  m.clock.Now(),
	}
	chat.Messages = append(chat.Messages, msg)
	m.counters.messagesExchanged++

	if room, ok := m.rooms[chat.RoomID]; ok {
		room.LastActivity = msg.Timestamp
	}
	m.broadcastToRoom(chat.RoomID, "contactMessage", msg, "")

	if c.isAdmin() {
		m.pushToRequester(contact, chat, "adminResponse", msg)
	}
}

// pushToRequester reaches a requester that is online but not in the chat room.
func (m *ManagerService) pushToRequester(contact *models.ContactSession, chat *models.ActiveChat, event string, data any) {
	if contact.RequesterConnID == "" {
		return
	}
	rc, ok := m.conns[contact.RequesterConnID]
	if !ok || m.isMember(rc, chat.RoomID) {
		return
	}
	m.send(rc, event, data)
}

func (m *ManagerService) handleResolveContact(c *connection, in models.Inbound) {
	id, err := decodeID(in.Data, "contactId", "ticketId", "id")
	if err != nil {
		m.rejectPayload(c, in, err)
		return
	}
	contact, ok := m.contacts[id]
	if !ok {
		m.send(c, "resolveError", models.ContactError{Message: m.text.GetString(defaultLang, msgContactNotFound), ContactID: id})
		return
	}
	if contact.Status == models.ContactResolved {
		m.send(c, "resolveError", models.ContactError{Message: m.text.GetString(defaultLang, msgAlreadyResolved), ContactID: id})
		return
	}

	now := m.clock.Now()
	contact.Status = models.ContactResolved
	contact.ResolvedAt = &now
	contact.ResolvedBy = c.name()

	minutes := now.Sub(contact.SubmittedAt).Minutes()
	m.counters.resolvedContacts++
	m.counters.avgResponseMins += (minutes - m.counters.avgResponseMins) / float64(m.counters.resolvedContacts)
	metrics.ContactsResolved.Inc()
	m.stopAutoAssign(id)

	resolved := models.ContactResolution{
		ContactID:    id,
		ResolvedBy:   contact.ResolvedBy,
		ResponseTime: int64(minutes),
	}
	m.broadcastToAdmins("contactResolved", resolved, "")
	if rc, ok := m.conns[contact.RequesterConnID]; ok && !(rc.namespace == models.NamespaceSupport && rc.isAdmin()) {
		m.send(rc, "contactResolved", resolved)
	}

	// chat history is discarded with the chat
	if chat, ok := m.chats[id]; ok {
		m.removeRoom(chat.RoomID)
		delete(m.chats, id)
	}

	m.publish(models.TopicContactResolved, id, models.ContactEvent{Contact: contact.Snapshot(), ResponseMinutes: int64(minutes)})
	m.log.Info("contact resolved", zap.String("contact_id", id), zap.Int64("response_minutes", int64(minutes)))
}

func (m *ManagerService) contactStats() models.ContactStats {
	stats := models.ContactStats{
		TotalContacts:       m.counters.totalContacts,
		ActiveChats:         len(m.chats),
		OnlineAdmins:        len(m.onlineAdmins()),
		AverageResponseTime: m.counters.avgResponseMins,
		MessagesExchanged:   m.counters.messagesExchanged,
	}
	for _, contact := range m.contacts {
		switch contact.Status {
		case models.ContactPending:
			stats.PendingContacts++
		case models.ContactInProgress:
			stats.InProgressContacts++
		case models.ContactResolved:
			stats.ResolvedContacts++
		}
	}
	return stats
}

// pendingContacts lists unclaimed tickets, newest first.
func (m *ManagerService) pendingContacts() []models.ContactSession {
	out := make([]models.ContactSession, 0)
	for _, contact := range m.contacts {
		if contact.Status == models.ContactPending {
			out = append(out, contact.Snapshot())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *ManagerService) handleGetContactStats(c *connection, _ models.Inbound) {
	m.send(c, "contactStats", m.contactStats())
}

func (m *ManagerService) handleGetPendingContacts(c *connection, _ models.Inbound) {
	m.send(c, "pendingContacts", m.pendingContacts())
}

func (m *ManagerService) handleJoinContactChat(c *connection, in models.Inbound) {
	id, err := decodeID(in.Data, "contactId", "ticketId", "id")
	if err != nil {
		m.rejectPayload(c, in, err)
		return
	}
	chat, ok := m.chats[id]
	contact := m.contacts[id]
	if !ok || contact == nil {
		m.send(c, "messageError", models.ErrorPayload{Message: m.text.GetString(defaultLang, msgChatNotFound)})
		return
	}
	if !canAccessChat(c, contact) {
		return
	}

	if c.isAdmin() {
		if chat.AdminConnID == "" {
			m.takeOver(c, contact, chat)
		}
	} else {
		contact.RequesterConnID = c.id
		c.tickets[id] = struct{}{}
	}

	m.joinRoom(c, chat.RoomID, supportRoom)
	m.send(c, "contactChatJoined", models.ContactChatJoined{
		ContactID: id,
		RoomID:    chat.RoomID,
		Messages:  append([]models.ContactMessage(nil), chat.Messages...),
	})
}

// takeOver reassigns an orphaned chat to the joining admin.
func (m *ManagerService) takeOver(c *connection, contact *models.ContactSession, chat *models.ActiveChat) {
	chat.AdminConnID = c.id
	contact.Assigned = &models.AssignedAdmin{
		UserID:    c.identity.UserID,
		Name:      c.name(),
		Email:     c.identity.Email,
		ClaimedAt: m.clock.Now(),
	}
	m.broadcastToAdmins("contactClaimed", models.ContactClaimed{
		ContactID: contact.ID,
		AdminID:   c.userID(),
		AdminName: c.name(),
		RoomID:    chat.RoomID,
	}, c.id)
	m.publish(models.TopicContactClaimed, contact.ID, models.ContactEvent{Contact: contact.Snapshot()})
	m.log.Info("contact chat taken over", zap.String("contact_id", contact.ID), zap.String("user_id", c.userID()))
}

func (m *ManagerService) handleContactTyping(c *connection, in models.Inbound) {
	var req models.ContactTypingRequest
	if err := decodeInto(in.Data, &req); err != nil || req.ContactID == "" {
		m.rejectPayload(c, in, err)
		return
	}
	chat, ok := m.chats[req.ContactID]
	contact := m.contacts[req.ContactID]
	if !ok || contact == nil || !canAccessChat(c, contact) {
		return
	}
	typing := models.ContactTyping{
		ContactID: req.ContactID,
		UserID:    c.userID(),
		UserName:  c.name(),
		IsTyping:  req.IsTyping,
	}
	m.broadcastToRoom(chat.RoomID, "contactTyping", typing, c.id)
	if c.isAdmin() {
		m.pushToRequester(contact, chat, "contactTyping", typing)
	}
}

// releaseContacts runs on disconnect. Chats held by the leaving admin stay
// open for another admin to take over.
func (m *ManagerService) releaseContacts(c *connection) {
	for id := range c.tickets {
		if contact, ok := m.contacts[id]; ok && contact.RequesterConnID == c.id {
			contact.RequesterConnID = ""
		}
	}

	for id, chat := range m.chats {
		if chat.AdminConnID != c.id {
			continue
		}
		chat.AdminConnID = ""
		contact, ok := m.contacts[id]
		if !ok {
			continue
		}
		notice := models.AdminDisconnected{
			ContactID: id,
			AdminName: c.name(),
			Message:   m.text.GetString(defaultLang, msgAdminDisconnected),
		}
		m.broadcastToAdmins("adminDisconnected", notice, c.id)
		if contact.RequesterConnID != "" {
			m.sendTo(contact.RequesterConnID, "adminDisconnected", models.AdminDisconnected{
				ContactID: id,
				AdminName: c.name(),
				Message:   m.text.GetString(m.contactLang(contact), msgAdminDisconnected),
			})
		}
		m.publish(models.TopicContactUnclaimed, id, models.ContactEvent{Contact: contact.Snapshot()})
	}
}
