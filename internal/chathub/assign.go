package chathub

import (
	"go.uber.org/zap"

	"quizblog/gateway/internal/models"
)

// SelectAdmin picks the admin for the given attempt number round-robin.
func SelectAdmin(attempt int, admins []string) (string, bool) {
	if len(admins) == 0 || attempt < 0 {
		return "", false
	}
	return admins[attempt%len(admins)], true
}

// scheduleAutoAssign arms the one-shot unclaimed-ticket check.
func (m *ManagerService) scheduleAutoAssign(contactID string) {
	m.stopAutoAssign(contactID)
	m.assignTimers[contactID] = m.clock.AfterFunc(m.cfg.AutoAssignDelay, func() {
		m.enqueue(func() { m.autoAssignCheck(contactID) })
	})
}

func (m *ManagerService) stopAutoAssign(contactID string) {
	if t, ok := m.assignTimers[contactID]; ok {
		t.Stop()
		delete(m.assignTimers, contactID)
	}
}

// autoAssignCheck nudges one admin about a ticket nobody claimed in time.
// It is not retried.
func (m *ManagerService) autoAssignCheck(contactID string) {
	delete(m.assignTimers, contactID)

	contact, ok := m.contacts[contactID]
	if !ok || contact.Status != models.ContactPending || contact.Assigned != nil {
		return
	}

	snap := contact.Snapshot()
	admins := m.onlineAdmins()
	ids := make([]string, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.id)
	}

	chosen, ok := SelectAdmin(m.counters.assignAttempts, ids)
	if !ok {
		m.log.Info("no admin online for unclaimed contact", zap.String("contact_id", contactID))
		m.publish(models.TopicContactUnclaimed, contactID, models.ContactEvent{Contact: snap})
		return
	}
	m.counters.assignAttempts++

	admin := m.conns[chosen]
	m.send(admin, "autoAssignedContact", models.AutoAssignedContact{
		ContactID: contactID,
		Contact:   &snap,
		Message:   m.text.GetString(defaultLang, msgAutoAssigned),
	})
	m.publish(models.TopicContactUnclaimed, contactID, models.ContactEvent{
		Contact:        snap,
		NotifiedAdmins: []string{admin.userID()},
	})
	m.log.Info("unclaimed contact assigned", zap.String("contact_id", contactID), zap.String("conn_id", chosen))
}
