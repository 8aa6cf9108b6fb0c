package chathub

import "quizblog/gateway/internal/models"

// publish hands a domain event to the configured sinks. payload must be a
// value detached from hub state.
func (m *ManagerService) publish(topic, key string, payload any) {
	m.publisher.Publish(models.DomainEvent{
		Topic:      topic,
		Key:        key,
		OccurredAt: m.clock.Now(),
		Payload:    payload,
	})
}
