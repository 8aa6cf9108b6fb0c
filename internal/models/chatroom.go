package models

import "time"

// ChatRoom is an ad-hoc broadcast group created lazily on first join.
type ChatRoom struct {
	// RoomID is the caller-supplied identifier.
	RoomID string
	// Topic is the freeform room type tag given by the first joiner.
	Topic string
	// Members holds connection ids, never user ids.
	Members map[string]struct{}
	// CreatedAt is set once when the room is created.
	CreatedAt time.Time
	// LastActivity moves on joins, leaves and messages.
	LastActivity time.Time
}

type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	RoomType string `json:"roomType"`
}

type RoomMessageRequest struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type RoomJoined struct {
	RoomID      string `json:"roomId"`
	RoomType    string `json:"roomType"`
	MemberCount int    `json:"memberCount"`
}

type RoomMembership struct {
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	MemberCount int       `json:"memberCount"`
	Timestamp   time.Time `json:"timestamp"`
}

// RoomMessage is fanned out to every member, sender included. It is not stored.
type RoomMessage struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	SenderRole string    `json:"senderRole,omitempty"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}
