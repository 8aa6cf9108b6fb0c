package models

import "time"

type QuizStatus string

const (
	QuizWaiting   QuizStatus = "waiting"
	QuizActive    QuizStatus = "active"
	QuizCompleted QuizStatus = "completed"
)

func (s QuizStatus) Valid() bool {
	return s == QuizWaiting || s == QuizActive || s == QuizCompleted
}

// QuizSession tracks live participants of one quiz id.
type QuizSession struct {
	QuizID          string
	Participants    map[string]*Participant // conn id -> participant
	StartTime       time.Time
	Status          QuizStatus
	LastActivity    time.Time
}

// AllFinished is true when every participant has been marked finished.
// A session without participants counts as finished.
func (s *QuizSession) AllFinished() bool {
	for _, p := range s.Participants {
		if !p.Finished {
			return false
		}
	}
	return true
}

type Participant struct {
	ConnID   string
	UserID   string
	Name     string
	JoinedAt time.Time
	Answers  map[string]Answer // question id -> answer
	Score    float64
	Finished bool

	// seq orders participants that joined within the same instant.
	Seq uint64
}

type Answer struct {
	Answer      any       `json:"answer"`
	TimeSpent   float64   `json:"timeSpent"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type JoinQuizRequest struct {
	QuizID string `json:"quizId"`
	UserID string `json:"userId"`
}

type SubmitAnswerRequest struct {
	QuizID     string  `json:"quizId"`
	QuestionID string  `json:"questionId"`
	Answer     any     `json:"answer"`
	TimeSpent  float64 `json:"timeSpent"`
}

type QuizJoined struct {
	QuizID           string     `json:"quizId"`
	ParticipantCount int        `json:"participantCount"`
	Status           QuizStatus `json:"status"`
}

type ParticipantChange struct {
	QuizID           string `json:"quizId"`
	UserID           string `json:"userId"`
	UserName         string `json:"userName"`
	ParticipantCount int    `json:"participantCount"`
}

type ParticipantProgress struct {
	QuizID            string `json:"quizId"`
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	QuestionID        string `json:"questionId"`
	QuestionsAnswered int    `json:"questionsAnswered"`
}

type LeaderboardEntry struct {
	Rank              int     `json:"rank"`
	UserID            string  `json:"userId"`
	Name              string  `json:"name"`
	Score             float64 `json:"score"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	Finished          bool    `json:"finished"`
}

type Leaderboard struct {
	QuizID      string             `json:"quizId"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Timestamp   time.Time          `json:"timestamp"`
}

// QuizResult is posted by the grading collaborator for one participant.
type QuizResult struct {
	UserID   string  `json:"userId" binding:"required"`
	Score    float64 `json:"score"`
	Finished bool    `json:"finished"`
}

type QuizStatusChange struct {
	QuizID string     `json:"quizId"`
	Status QuizStatus `json:"status"`
}
