package chathub

import (
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
)

// sweep removes idle state. Keys are collected before deleting.
//
// Rooms go once empty and idle past RoomIdleTimeout; occupied rooms are
// never reaped. Quiz sessions go once every participant finished and
// QuizGracePeriod passed since their last activity. A session without
// participants counts as finished.
func (m *ManagerService) sweep() {
	now := m.clock.Now()

	var idleRooms []string
	for id, room := range m.rooms {
		if len(room.Members) == 0 && now.Sub(room.LastActivity) >= m.cfg.RoomIdleTimeout {
			idleRooms = append(idleRooms, id)
		}
	}
	for _, id := range idleRooms {
		delete(m.rooms, id)
	}

	var doneQuizzes []string
	for id, session := range m.quizzes {
		if session.AllFinished() && now.Sub(session.LastActivity) >= m.cfg.QuizGracePeriod {
			doneQuizzes = append(doneQuizzes, id)
		}
	}
	for _, id := range doneQuizzes {
		for connID := range m.quizzes[id].Participants {
			if c, ok := m.conns[connID]; ok {
				delete(c.quizzes, id)
			}
		}
		delete(m.quizzes, id)
	}

	metrics.SweptEntries.WithLabelValues("room").Add(float64(len(idleRooms)))
	metrics.SweptEntries.WithLabelValues("quiz").Add(float64(len(doneQuizzes)))
	metrics.ActiveRooms.Set(float64(len(m.rooms)))
	metrics.ActiveQuizSessions.Set(float64(len(m.quizzes)))

	if len(idleRooms) > 0 || len(doneQuizzes) > 0 {
		m.log.Info("sweep finished", zap.Int("rooms", len(idleRooms)), zap.Int("quizzes", len(doneQuizzes)))
	}
}
