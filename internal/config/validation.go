package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwtSecret is required", ErrInvalidConfig)
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("%w: telegram.chatId is required when telegram.token is set", ErrInvalidConfig)
	}
	return c.Realtime.Validate()
}

func (r RealtimeConfig) Validate() error {
	durations := map[string]int64{
		"rateLimitWindow": int64(r.RateLimitWindow),
		"sweepInterval":   int64(r.SweepInterval),
		"statsInterval":   int64(r.StatsInterval),
		"rosterInterval":  int64(r.RosterInterval),
		"roomIdleTimeout": int64(r.RoomIdleTimeout),
		"quizGracePeriod": int64(r.QuizGracePeriod),
		"autoAssignDelay": int64(r.AutoAssignDelay),
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%w: realtime.%s must be positive", ErrInvalidConfig, name)
		}
	}
	if r.RateLimitMax < 1 {
		return fmt.Errorf("%w: realtime.rateLimitMax must be at least 1", ErrInvalidConfig)
	}
	if r.SendBuffer < 1 {
		return fmt.Errorf("%w: realtime.sendBuffer must be at least 1", ErrInvalidConfig)
	}
	return nil
}
