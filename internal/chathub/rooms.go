package chathub

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

const defaultRoomType = "general"

// joinRoom creates the room lazily. It reports false when c was already a member.
func (m *ManagerService) joinRoom(c *connection, roomID, topic string) (*models.ChatRoom, bool) {
	now := m.clock.Now()
	room, ok := m.rooms[roomID]
	if !ok {
		if topic == "" {
			topic = defaultRoomType
		}
		room = &models.ChatRoom{
			RoomID:    roomID,
			Topic:     topic,
			Members:   make(map[string]struct{}),
			CreatedAt: now,
		}
		m.rooms[roomID] = room
		metrics.ActiveRooms.Set(float64(len(m.rooms)))
	}
	room.LastActivity = now

	if _, member := room.Members[c.id]; member {
		return room, false
	}
	room.Members[c.id] = struct{}{}
	c.rooms[roomID] = struct{}{}

	m.broadcastToRoom(roomID, "userJoinedRoom", models.RoomMembership{
		RoomID:      roomID,
		UserID:      c.userID(),
		UserName:    c.name(),
		MemberCount: len(room.Members),
		Timestamp:   now,
	}, c.id)
	return room, true
}

// leaveRoom deletes the room as soon as it is empty.
func (m *ManagerService) leaveRoom(c *connection, roomID string) {
	delete(c.rooms, roomID)
	room, ok := m.rooms[roomID]
	if !ok {
		return
	}
	if _, member := room.Members[c.id]; !member {
		return
	}
	delete(room.Members, c.id)

	if len(room.Members) == 0 {
		delete(m.rooms, roomID)
		metrics.ActiveRooms.Set(float64(len(m.rooms)))
		return
	}

	now := m.clock.Now()
	room.LastActivity = now
	m.broadcastToRoom(roomID, "userLeftRoom", models.RoomMembership{
		RoomID:      roomID,
		UserID:      c.userID(),
		UserName:    c.name(),
		MemberCount: len(room.Members),
		Timestamp:   now,
	}, "")
}

// removeRoom drops a room and every membership pointing at it.
func (m *ManagerService) removeRoom(roomID string) {
	room, ok := m.rooms[roomID]
	if !ok {
		return
	}
	for id := range room.Members {
		if c, ok := m.conns[id]; ok {
			delete(c.rooms, roomID)
		}
	}
	delete(m.rooms, roomID)
	metrics.ActiveRooms.Set(float64(len(m.rooms)))
}

func (m *ManagerService) isMember(c *connection, roomID string) bool {
	_, ok := c.rooms[roomID]
	return ok
}

func (m *ManagerService) handleJoinRoom(c *connection, in models.Inbound) {
	var req models.JoinRoomRequest
	if err := decodeInto(in.Data, &req); err != nil {
		// a bare room id is accepted too
		id, idErr := decodeID(in.Data, "roomId")
		if idErr != nil {
			m.rejectPayload(c, in, err)
			return
		}
		req.RoomID = id
	}
	if req.RoomID == "" {
		m.rejectPayload(c, in, ErrMissingID)
		return
	}

	room, _ := m.joinRoom(c, req.RoomID, req.RoomType)
	m.send(c, "roomJoined", models.RoomJoined{
		RoomID:      room.RoomID,
		RoomType:    room.Topic,
		MemberCount: len(room.Members),
	})
	m.log.Debug("joined room", zap.String("conn_id", c.id), zap.String("room_id", room.RoomID))
}

func (m *ManagerService) handleLeaveRoom(c *connection, in models.Inbound) {
	roomID, err := decodeID(in.Data, "roomId")
	if err != nil {
		m.rejectPayload(c, in, err)
		return
	}
	m.leaveRoom(c, roomID)
}

func (m *ManagerService) handleRoomMessage(c *connection, in models.Inbound) {
	var req models.RoomMessageRequest
	if err := decodeInto(in.Data, &req); err != nil || req.RoomID == "" {
		m.rejectPayload(c, in, err)
		return
	}
	if !m.isMember(c, req.RoomID) {
		return
	}

	now := m.clock.Now()
	if room, ok := m.rooms[req.RoomID]; ok {
		room.LastActivity = now
	}
	m.broadcastToRoom(req.RoomID, "roomMessage", models.RoomMessage{
		ID:         uuid.NewString(),
		RoomID:     req.RoomID,
		SenderID:   c.userID(),
		SenderName: c.name(),
		SenderRole: roleOf(c),
		Message:    req.Message,
		Type:       defaultType(req.Type),
		Timestamp:  now,
	}, "")
}

func (m *ManagerService) handleTyping(c *connection, in models.Inbound) {
	var req models.TypingRequest
	if err := decodeInto(in.Data, &req); err != nil || req.RoomID == "" {
		m.rejectPayload(c, in, err)
		return
	}
	if !m.isMember(c, req.RoomID) {
		return
	}
	m.broadcastToRoom(req.RoomID, "userTyping", models.UserTyping{
		RoomID:   req.RoomID,
		UserID:   c.userID(),
		UserName: c.name(),
		IsTyping: req.IsTyping,
	}, c.id)
}

// roleOf is empty for anonymous senders.
func roleOf(c *connection) string {
	if c.identity == nil {
		return ""
	}
	return c.identity.Role
}
