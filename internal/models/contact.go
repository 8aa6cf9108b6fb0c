package models

import "time"

type ContactStatus string

const (
	ContactPending    ContactStatus = "pending"
	ContactInProgress ContactStatus = "in_progress"
	ContactResolved   ContactStatus = "resolved"
)

// AssignedAdmin records which staff member holds a ticket.
type AssignedAdmin struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	ClaimedAt time.Time `json:"claimedAt"`
}

// ContactSession is a support ticket. Tickets are never deleted while the
// process lives; only their chat is.
type ContactSession struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Subject     string         `json:"subject,omitempty"`
	Message     string         `json:"message,omitempty"`
	Lang        string         `json:"lang,omitempty"`
	Status      ContactStatus  `json:"status"`
	Assigned    *AssignedAdmin `json:"assignedAdmin,omitempty"`
	SubmittedAt time.Time      `json:"submittedAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
	ResolvedBy  string         `json:"resolvedBy,omitempty"`

	// RequesterConnID is the submitting connection, cleared when it disconnects.
	RequesterConnID string `json:"-"`
	RequesterUserID string `json:"requesterUserId,omitempty"`
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (c *ContactSession) Snapshot() ContactSession {
	cp := *c
	if c.Assigned != nil {
		a := *c.Assigned
		cp.Assigned = &a
	}
	if c.ResolvedAt != nil {
		t := *c.ResolvedAt
		cp.ResolvedAt = &t
	}
	return cp
}

// ActiveChat is the live conversation bound to a claimed ticket.
type ActiveChat struct {
	ContactID   string
	RoomID      string
	AdminConnID string
	Messages    []ContactMessage
	StartedAt   time.Time
}

type ContactMessage struct {
	ID         string    `json:"id"`
	ContactID  string    `json:"contactId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Role       string    `json:"role"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}

type ContactFormRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Lang    string `json:"lang"`
}

type ContactMessageRequest struct {
	ContactID string `json:"contactId"`
	Message   string `json:"message"`
	Type      string `json:"type"`
}

type ContactTypingRequest struct {
	ContactID string `json:"contactId"`
	IsTyping  bool   `json:"isTyping"`
}

type ContactFormSubmitted struct {
	ContactID         string `json:"contactId"`
	Message           string `json:"message"`
	EstimatedResponse string `json:"estimatedResponse"`
}

type ContactClaimed struct {
	ContactID string          `json:"contactId"`
	AdminID   string          `json:"adminId"`
	AdminName string          `json:"adminName"`
	RoomID    string          `json:"roomId,omitempty"`
	Contact   *ContactSession `json:"contact,omitempty"`
}

type ContactError struct {
	Message   string `json:"message"`
	ContactID string `json:"contactId"`
	ClaimedBy string `json:"claimedBy,omitempty"`
}

// ContactResolution is the payload of the contactResolved event.
type ContactResolution struct {
	ContactID    string `json:"contactId"`
	ResolvedBy   string `json:"resolvedBy"`
	ResponseTime int64  `json:"responseTime"` // whole minutes
}

type ContactChatJoined struct {
	ContactID string           `json:"contactId"`
	RoomID    string           `json:"roomId"`
	Messages  []ContactMessage `json:"messages"`
}

type ContactTyping struct {
	ContactID string `json:"contactId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	IsTyping  bool   `json:"isTyping"`
}

type AutoAssignedContact struct {
	ContactID string          `json:"contactId"`
	Contact   *ContactSession `json:"contact"`
	Message   string          `json:"message"`
}

type AdminDisconnected struct {
	ContactID string `json:"contactId"`
	AdminName string `json:"adminName"`
	Message   string `json:"message"`
}

type ContactStats struct {
	TotalContacts       int     `json:"totalContacts"`
	PendingContacts     int     `json:"pendingContacts"`
	InProgressContacts  int     `json:"inProgressContacts"`
	ResolvedContacts    int     `json:"resolvedContacts"`
	ActiveChats         int     `json:"activeChats"`
	OnlineAdmins        int     `json:"onlineAdmins"`
	AverageResponseTime float64 `json:"averageResponseTime"` // minutes
	MessagesExchanged   int     `json:"messagesExchanged"`
}
