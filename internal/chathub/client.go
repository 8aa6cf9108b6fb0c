package chathub

import (
	"time"

	"quizblog/gateway/internal/models"
)

// Client is the interface for any transport connection. The hub only ever
// writes to it through the send channel and closes it on unregister.
type Client interface {
	// GetConnID returns the transport-assigned connection id.
	GetConnID() string
	// GetNamespace returns models.NamespaceDefault or models.NamespaceSupport.
	GetNamespace() string
	// GetIdentity returns the verified identity, or nil for anonymous connections.
	GetIdentity() *models.Identity

	// GetSendChannel returns the channel the hub pushes outbound events into.
	GetSendChannel() chan<- models.Outbound

	Run()
	Close()
}

// connection is the hub-side bookkeeping for one registered Client.
type connection struct {
	id        string
	namespace string
	identity  *models.Identity
	client    Client

	connectedAt  time.Time
	lastActivity time.Time
	limiter      *rateLimiter

	// rooms and quizzes let disconnect cleanup avoid scanning every room.
	rooms   map[string]struct{}
	quizzes map[string]struct{}
	// tickets submitted from this connection
	tickets map[string]struct{}
}

func newConnection(c Client, now time.Time, window time.Duration, max int) *connection {
	return &connection{
		id:           c.GetConnID(),
		namespace:    c.GetNamespace(),
		identity:     c.GetIdentity(),
		client:       c,
		connectedAt:  now,
		lastActivity: now,
		limiter:      newRateLimiter(window, max, now),
		rooms:        make(map[string]struct{}),
		quizzes:      make(map[string]struct{}),
		tickets:      make(map[string]struct{}),
	}
}

// userID falls back to the connection id for anonymous connections.
func (c *connection) userID() string {
	if c.identity != nil && c.identity.UserID != "" {
		return c.identity.UserID
	}
	return c.id
}

func (c *connection) name() string {
	return c.identity.DisplayName()
}

func (c *connection) role() string {
	if c.identity.IsAdmin() {
		return "admin"
	}
	return "user"
}

func (c *connection) isAdmin() bool {
	return c.identity.IsAdmin()
}
