package config

import "time"

const (
	// Admission
	DefaultRateLimitWindow = 60 * time.Second
	DefaultRateLimitMax    = 100

	// Timers
	DefaultSweepInterval  = 5 * time.Minute
	DefaultStatsInterval  = 30 * time.Second
	DefaultRosterInterval = 60 * time.Second

	// Eviction
	DefaultRoomIdleTimeout = 30 * time.Minute
	DefaultQuizGracePeriod = 10 * time.Minute

	// Support
	DefaultAutoAssignDelay = 5 * time.Minute

	// Per-client outbound queue
	DefaultSendBuffer = 256
)

// RealtimeConfig tunes the hub's admission, timers and eviction policy.
type RealtimeConfig struct {
	RateLimitWindow time.Duration
	RateLimitMax    int
	SweepInterval   time.Duration
	StatsInterval   time.Duration
	RosterInterval  time.Duration
	RoomIdleTimeout time.Duration
	QuizGracePeriod time.Duration
	AutoAssignDelay time.Duration
	SendBuffer      int
}

// DefaultRealtime returns the stock tuning.
func DefaultRealtime() RealtimeConfig {
	return RealtimeConfig{
		RateLimitWindow: DefaultRateLimitWindow,
		RateLimitMax:    DefaultRateLimitMax,
		SweepInterval:   DefaultSweepInterval,
		StatsInterval:   DefaultStatsInterval,
		RosterInterval:  DefaultRosterInterval,
		RoomIdleTimeout: DefaultRoomIdleTimeout,
		QuizGracePeriod: DefaultQuizGracePeriod,
		AutoAssignDelay: DefaultAutoAssignDelay,
		SendBuffer:      DefaultSendBuffer,
	}
}
