package models

import "time"

// ServerStats is the aggregate snapshot broadcast as serverStats.
type ServerStats struct {
	CurrentConnections int       `json:"currentConnections"`
	TotalConnections   int       `json:"totalConnections"`
	PeakConnections    int       `json:"peakConnections"`
	OnlineUsers        int       `json:"onlineUsers"`
	ActiveRooms        int       `json:"activeRooms"`
	ActiveQuizSessions int       `json:"activeQuizSessions"`
	UptimeSeconds      int64     `json:"uptime"`
	MemoryAllocBytes   uint64    `json:"memoryAlloc"`
	MemorySysBytes     uint64    `json:"memorySys"`
	Timestamp          time.Time `json:"timestamp"`
}
