package chathub

import "errors"

var (
	ErrHubStopped          = errors.New("chathub: hub is not running")
	ErrEmptyPayload        = errors.New("chathub: empty payload")
	ErrMissingID           = errors.New("chathub: payload carries no id")
	ErrQuizNotFound        = errors.New("chathub: quiz session not found")
	ErrParticipantNotFound = errors.New("chathub: participant not found")
	ErrInvalidStatus       = errors.New("chathub: invalid status")
)
