package models

import (
	"encoding/json"
	"time"
)

// Namespaces separate general traffic from the support surface.
const (
	NamespaceDefault = "default"
	NamespaceSupport = "support"
)

// Envelope is the wire frame used in both directions: {"event": ..., "data": ...}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Outbound is an event queued for a single client's write pump.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound is a decoded client event handed to the hub loop.
type Inbound struct {
	ConnID     string
	Event      string
	Data       json.RawMessage
	ReceivedAt time.Time
}

// ErrorPayload is the body of every *Error outbound event.
type ErrorPayload struct {
	Message string `json:"message"`
}

type PongPayload struct {
	Timestamp time.Time `json:"timestamp"`
}

type PrivateMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
	Type        string `json:"type"`
}

type PrivateMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}

type MessageDelivered struct {
	MessageID   string    `json:"messageId"`
	RecipientID string    `json:"recipientId"`
	Timestamp   time.Time `json:"timestamp"`
}

type TypingRequest struct {
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}

type UserTyping struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}
