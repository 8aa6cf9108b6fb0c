package chathub

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

func (m *ManagerService) joinQuiz(c *connection, quizID, userID string) *models.QuizSession {
	now := m.clock.Now()
	session, ok := m.quizzes[quizID]
	if !ok {
		session = &models.QuizSession{
			QuizID:       quizID,
			Participants: make(map[string]*models.Participant),
			StartTime:    now,
			Status:       models.QuizWaiting,
		}
		m.quizzes[quizID] = session
		metrics.ActiveQuizSessions.Set(float64(len(m.quizzes)))
	}
	session.LastActivity = now

	if _, joined := session.Participants[c.id]; joined {
		return session
	}

	if c.identity != nil && c.identity.UserID != "" {
		userID = c.identity.UserID
	} else if userID == "" {
		userID = c.id
	}
	m.counters.participantSeq++
	p := &models.Participant{
		ConnID:   c.id,
		UserID:   userID,
		Name:     c.name(),
		JoinedAt: now,
		Answers:  make(map[string]models.Answer),
		Seq:      m.counters.participantSeq,
	}
	session.Participants[c.id] = p
	c.quizzes[quizID] = struct{}{}

	m.broadcastToQuiz(quizID, "participantJoined", models.ParticipantChange{
		QuizID:           quizID,
		UserID:           p.UserID,
		UserName:         p.Name,
		ParticipantCount: len(session.Participants),
	}, c.id)
	m.publish(models.TopicQuizJoined, quizID, models.QuizEvent{
		QuizID:           quizID,
		UserID:           p.UserID,
		ParticipantCount: len(session.Participants),
	})
	return session
}

// leaveQuiz deletes the session once its last participant is gone.
func (m *ManagerService) leaveQuiz(c *connection, quizID string) {
	delete(c.quizzes, quizID)
	session, ok := m.quizzes[quizID]
	if !ok {
		return
	}
	p, ok := session.Participants[c.id]
	if !ok {
		return
	}
	delete(session.Participants, c.id)

	m.publish(models.TopicQuizLeft, quizID, models.QuizEvent{
		QuizID:           quizID,
		UserID:           p.UserID,
		ParticipantCount: len(session.Participants),
	})

	if len(session.Participants) == 0 {
		delete(m.quizzes, quizID)
		metrics.ActiveQuizSessions.Set(float64(len(m.quizzes)))
		return
	}
	session.LastActivity = m.clock.Now()
	m.broadcastToQuiz(quizID, "participantLeft", models.ParticipantChange{
		QuizID:           quizID,
		UserID:           p.UserID,
		UserName:         p.Name,
		ParticipantCount: len(session.Participants),
	}, "")
}

// submitAnswer is a silent no-op when the session or participant is unknown.
func (m *ManagerService) submitAnswer(c *connection, req models.SubmitAnswerRequest) {
	session, ok := m.quizzes[req.QuizID]
	if !ok {
		return
	}
	p, ok := session.Participants[c.id]
	if !ok {
		return
	}

	now := m.clock.Now()
	p.Answers[req.QuestionID] = models.Answer{
		Answer:      req.Answer,
		TimeSpent:   req.TimeSpent,
		SubmittedAt: now,
	}
	session.LastActivity = now

	m.broadcastToQuiz(req.QuizID, "participantProgress", models.ParticipantProgress{
		QuizID:            req.QuizID,
		UserID:            p.UserID,
		UserName:          p.Name,
		QuestionID:        req.QuestionID,
		QuestionsAnswered: len(p.Answers),
	}, c.id)
}

// leaderboard ranks by score, then by join order.
func (m *ManagerService) leaderboard(session *models.QuizSession) []models.LeaderboardEntry {
	ps := make([]*models.Participant, 0, len(session.Participants))
	for _, p := range session.Participants {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Score != ps[j].Score {
			return ps[i].Score > ps[j].Score
		}
		if !ps[i].JoinedAt.Equal(ps[j].JoinedAt) {
			return ps[i].JoinedAt.Before(ps[j].JoinedAt)
		}
		return ps[i].Seq < ps[j].Seq
	})

	out := make([]models.LeaderboardEntry, 0, len(ps))
	for i, p := range ps {
		out = append(out, models.LeaderboardEntry{
			Rank:              i + 1,
			UserID:            p.UserID,
			Name:              p.Name,
			Score:             p.Score,
			QuestionsAnswered: len(p.Answers),
			Finished:          p.Finished,
		})
	}
	return out
}

func (m *ManagerService) broadcastToQuiz(quizID, event string, data any, except string) {
	session, ok := m.quizzes[quizID]
	if !ok {
		return
	}
	for id := range session.Participants {
		if id == except {
			continue
		}
		m.sendTo(id, event, data)
	}
}

func (m *ManagerService) handleJoinQuiz(c *connection, in models.Inbound) {
	var req models.JoinQuizRequest
	if err := decodeInto(in.Data, &req); err != nil {
		id, idErr := decodeID(in.Data, "quizId")
		if idErr != nil {
			m.rejectPayload(c, in, err)
			return
		}
		req.QuizID = id
	}
	if req.QuizID == "" {
		m.rejectPayload(c, in, ErrMissingID)
		return
	}

	session := m.joinQuiz(c, req.QuizID, req.UserID)
	m.send(c, "quizJoined", models.QuizJoined{
		QuizID:           session.QuizID,
		ParticipantCount: len(session.Participants),
		Status:           session.Status,
	})
	m.log.Debug("joined quiz", zap.String("conn_id", c.id), zap.String("quiz_id", session.QuizID))
}

func (m *ManagerService) handleSubmitAnswer(c *connection, in models.Inbound) {
	var req models.SubmitAnswerRequest
	if err := decodeInto(in.Data, &req); err != nil || req.QuizID == "" || req.QuestionID == "" {
		m.rejectPayload(c, in, err)
		return
	}
	m.submitAnswer(c, req)
}

func (m *ManagerService) handleRequestLeaderboard(c *connection, in models.Inbound) {
	quizID, err := decodeID(in.Data, "quizId")
	if err != nil {
		m.rejectPayload(c, in, err)
		return
	}
	session, ok := m.quizzes[quizID]
	if !ok {
		return
	}
	m.send(c, "leaderboardUpdate", models.Leaderboard{
		QuizID:      quizID,
		Leaderboard: m.leaderboard(session),
		Timestamp:   m.clock.Now(),
	})
}

// SetQuizStatus is the quiz-control entry point for status transitions.
func (m *ManagerService) SetQuizStatus(ctx context.Context, quizID string, status models.QuizStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	var result error
	err := m.Exec(ctx, func() {
		session, ok := m.quizzes[quizID]
		if !ok {
			result = ErrQuizNotFound
			return
		}
		session.Status = status
		session.LastActivity = m.clock.Now()
		m.broadcastToQuiz(quizID, "quizStatus", models.QuizStatusChange{QuizID: quizID, Status: status}, "")
	})
	if err != nil {
		return err
	}
	return result
}

// RecordQuizResult applies a grading result to every connection of the user
// in the session and pushes the new leaderboard to all participants.
func (m *ManagerService) RecordQuizResult(ctx context.Context, quizID string, res models.QuizResult) error {
	var result error
	err := m.Exec(ctx, func() {
		session, ok := m.quizzes[quizID]
		if !ok {
			result = ErrQuizNotFound
			return
		}
		found := false
		for _, p := range session.Participants {
			if p.UserID != res.UserID {
				continue
			}
			p.Score = res.Score
			p.Finished = res.Finished
			found = true
		}
		if !found {
			result = ErrParticipantNotFound
			return
		}
		now := m.clock.Now()
		session.LastActivity = now
		m.broadcastToQuiz(quizID, "leaderboardUpdate", models.Leaderboard{
			QuizID:      quizID,
			Leaderboard: m.leaderboard(session),
			Timestamp:   now,
		}, "")
	})
	if err != nil {
		return err
	}
	return result
}
