package models

import "strings"

// Identity is the authenticated user attached to a connection at handshake time.
// It never changes for the lifetime of the connection.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the identity may use staff-only support operations.
func (i *Identity) IsAdmin() bool {
	if i == nil {
		return false
	}
	return strings.EqualFold(i.Role, "admin") || strings.EqualFold(i.Role, "superadmin")
}

// DisplayName falls back to "Anonymous" for unauthenticated connections.
func (i *Identity) DisplayName() string {
	if i == nil || i.Name == "" {
		return "Anonymous"
	}
	return i.Name
}
