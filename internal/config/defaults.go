package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.allowedOrigins", []string{})

	// Auth
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.revocationKey", "jwt:revoked")
	v.SetDefault("auth.tokenTTL", 24*time.Hour)

	// Sinks, empty means disabled
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "quizblog:events")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "quizblog.events")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chatId", 0)

	v.SetDefault("log.level", "info")

	// Realtime
	v.SetDefault("realtime.rateLimitWindow", DefaultRateLimitWindow)
	v.SetDefault("realtime.rateLimitMax", DefaultRateLimitMax)
	v.SetDefault("realtime.sweepInterval", DefaultSweepInterval)
	v.SetDefault("realtime.statsInterval", DefaultStatsInterval)
	v.SetDefault("realtime.rosterInterval", DefaultRosterInterval)
	v.SetDefault("realtime.roomIdleTimeout", DefaultRoomIdleTimeout)
	v.SetDefault("realtime.quizGracePeriod", DefaultQuizGracePeriod)
	v.SetDefault("realtime.autoAssignDelay", DefaultAutoAssignDelay)
	v.SetDefault("realtime.sendBuffer", DefaultSendBuffer)
}
