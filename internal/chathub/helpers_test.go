package chathub

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"quizblog/gateway/internal/config"
	"quizblog/gateway/internal/models"
)

type mockClient struct {
	id        string
	namespace string
	identity  *models.Identity
	send      chan models.Outbound
	closed    atomic.Bool
}

func newMockClient(id, namespace string, identity *models.Identity) *mockClient {
	return &mockClient{
		id:        id,
		namespace: namespace,
		identity:  identity,
		send:      make(chan models.Outbound, 512),
	}
}

func (c *mockClient) GetConnID() string                      { return c.id }
func (c *mockClient) GetNamespace() string                   { return c.namespace }
func (c *mockClient) GetIdentity() *models.Identity          { return c.identity }
func (c *mockClient) GetSendChannel() chan<- models.Outbound { return c.send }
func (c *mockClient) Run()                                   {}
func (c *mockClient) Close()                                 { c.closed.Store(true) }

// drain returns everything queued so far.
func (c *mockClient) drain() []models.Outbound {
	var out []models.Outbound
	for {
		select {
		case o := <-c.send:
			out = append(out, o)
		default:
			return out
		}
	}
}

func (c *mockClient) events(name string) []any {
	var out []any
	for _, o := range c.drain() {
		if o.Event == name {
			out = append(out, o.Data)
		}
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

func (p *recordingPublisher) Publish(e models.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

type testHub struct {
	*ManagerService
	clock     *clockwork.FakeClock
	published *recordingPublisher
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	pub := &recordingPublisher{}
	m := NewManagerService(Options{
		Config:    config.DefaultRealtime(),
		Clock:     clock,
		Publisher: pub,
	})
	return &testHub{ManagerService: m, clock: clock, published: pub}
}

func (h *testHub) connect(id, namespace string, identity *models.Identity) *mockClient {
	c := newMockClient(id, namespace, identity)
	h.register(c)
	return c
}

func (h *testHub) emit(t *testing.T, c *mockClient, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	h.handleInbound(models.Inbound{ConnID: c.id, Event: event, Data: raw, ReceivedAt: h.clock.Now()})
}

// runPending executes one queued timer callback.
func (h *testHub) runPending(t *testing.T) {
	t.Helper()
	select {
	case fn := <-h.commands:
		fn()
	case <-time.After(time.Second):
		t.Fatal("no pending hub command")
	}
}

func user(id, name string) *models.Identity {
	return &models.Identity{UserID: id, Name: name, Role: "user"}
}

func admin(id, name string) *models.Identity {
	return &models.Identity{UserID: id, Name: name, Role: "admin", Email: id + "@quizblog.test"}
}
