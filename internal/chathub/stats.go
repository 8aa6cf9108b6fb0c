package chathub

import (
	"context"
	"runtime"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

func (m *ManagerService) snapshot() models.ServerStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	now := m.clock.Now()
	return models.ServerStats{
		CurrentConnections: len(m.conns),
		TotalConnections:   m.counters.totalConnections,
		PeakConnections:    m.counters.peakConnections,
		OnlineUsers:        len(m.presence),
		ActiveRooms:        len(m.rooms),
		ActiveQuizSessions: len(m.quizzes),
		UptimeSeconds:      int64(now.Sub(m.counters.startedAt).Seconds()),
		MemoryAllocBytes:   mem.Alloc,
		MemorySysBytes:     mem.Sys,
		Timestamp:          now,
	}
}

// broadcastStats pushes serverStats to every default-namespace connection.
func (m *ManagerService) broadcastStats() {
	stats := m.snapshot()
	metrics.ActiveRooms.Set(float64(stats.ActiveRooms))
	metrics.ActiveQuizSessions.Set(float64(stats.ActiveQuizSessions))
	metrics.OnlineUsers.Set(float64(stats.OnlineUsers))
	m.broadcast(models.NamespaceDefault, "serverStats", stats, "")
}

// Stats returns the current snapshot from the hub goroutine.
func (m *ManagerService) Stats(ctx context.Context) (models.ServerStats, error) {
	var stats models.ServerStats
	err := m.Exec(ctx, func() { stats = m.snapshot() })
	return stats, err
}

// ContactStats returns support counters from the hub goroutine.
func (m *ManagerService) ContactStats(ctx context.Context) (models.ContactStats, error) {
	var stats models.ContactStats
	err := m.Exec(ctx, func() { stats = m.contactStats() })
	return stats, err
}
