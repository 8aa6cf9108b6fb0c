package chathub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quizblog/gateway/internal/models"
)

func TestRateLimiter_Window(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(time.Minute, 100, start)

	for i := 0; i < 100; i++ {
		assert.True(t, rl.allow(start.Add(time.Duration(i)*time.Millisecond)), "event %d", i+1)
	}
	assert.False(t, rl.allow(start.Add(59*time.Second)))

	assert.True(t, rl.allow(start.Add(time.Minute)))
	assert.Len(t, rl.requests, 1)
}

func TestAdmission_RejectsWithErrorEvent(t *testing.T) {
	h := newTestHub(t)
	c := h.connect("c1", models.NamespaceDefault, nil)

	for i := 0; i < 100; i++ {
		h.emit(t, c, "ping", nil)
	}
	assert.Len(t, c.events("pong"), 100)

	h.emit(t, c, "ping", nil)
	out := c.drain()
	if assert.Len(t, out, 1) {
		assert.Equal(t, "error", out[0].Event)
		assert.Equal(t, models.ErrorPayload{Message: "rate limit exceeded"}, out[0].Data)
	}

	h.clock.Advance(time.Minute)
	h.emit(t, c, "ping", nil)
	assert.Len(t, c.events("pong"), 1)
}

func TestAdmission_TouchesActivityEvenWhenRejected(t *testing.T) {
	h := newTestHub(t)
	c := h.connect("c1", models.NamespaceDefault, user("u1", "Ana"))
	for i := 0; i < 100; i++ {
		h.emit(t, c, "ping", nil)
	}

	h.clock.Advance(10 * time.Second)
	h.emit(t, c, "ping", nil)
	assert.Equal(t, h.clock.Now(), h.presence["c1"].LastActivity)
	assert.Equal(t, h.clock.Now(), h.conns["c1"].lastActivity)
}

func TestRoute_UnknownAndWrongNamespace(t *testing.T) {
	h := newTestHub(t)
	def := h.connect("c1", models.NamespaceDefault, nil)
	sup := h.connect("c2", models.NamespaceSupport, nil)

	h.emit(t, def, "submitContactForm", map[string]string{"name": "Ana", "email": "ana@x.com"})
	h.emit(t, sup, "joinRoom", map[string]string{"roomId": "r1"})
	h.emit(t, def, "noSuchEvent", nil)

	assert.Empty(t, def.drain())
	assert.Empty(t, sup.drain())
	assert.Empty(t, h.contacts)
	assert.Empty(t, h.rooms)
}
