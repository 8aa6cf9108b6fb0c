package models

import "time"

type PresenceStatus string

const (
	PresenceOnline    PresenceStatus = "online"
	PresenceAway      PresenceStatus = "away"
	PresenceBusy      PresenceStatus = "busy"
	PresenceInvisible PresenceStatus = "invisible"
)

// Valid reports whether s is one of the four accepted statuses.
func (s PresenceStatus) Valid() bool {
	switch s {
	case PresenceOnline, PresenceAway, PresenceBusy, PresenceInvisible:
		return true
	}
	return false
}

// PresenceEntry is keyed by connection id; several entries may share a user id.
type PresenceEntry struct {
	ConnID       string
	Identity     Identity
	Status       PresenceStatus
	JoinedAt     time.Time
	LastActivity time.Time
}

// OnlineUser is one roster row as broadcast in onlineUsers.
type OnlineUser struct {
	UserID       string         `json:"userId"`
	Name         string         `json:"name"`
	Status       PresenceStatus `json:"status"`
	LastActivity time.Time      `json:"lastActivity"`
}

type PresenceChange struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}
