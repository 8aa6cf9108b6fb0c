package models

import "time"

// Domain event topics published to the configured sinks.
const (
	TopicContactSubmitted = "contact.submitted"
	TopicContactClaimed   = "contact.claimed"
	TopicContactResolved  = "contact.resolved"
	TopicContactUnclaimed = "contact.unclaimed"
	TopicQuizJoined       = "quiz.joined"
	TopicQuizLeft         = "quiz.left"
)

// DomainEvent leaves the hub loop by value; Payload must not alias hub state.
type DomainEvent struct {
	Topic      string    `json:"topic"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// ContactEvent is the payload of every contact.* topic.
type ContactEvent struct {
	Contact         ContactSession `json:"contact"`
	NotifiedAdmins  []string       `json:"notifiedAdmins,omitempty"`
	ResponseMinutes int64          `json:"responseMinutes,omitempty"`
}

// QuizEvent is the payload of quiz.* topics.
type QuizEvent struct {
	QuizID           string `json:"quizId"`
	UserID           string `json:"userId"`
	ParticipantCount int    `json:"participantCount"`
}
