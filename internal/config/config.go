// Package config loads gateway settings from defaults, an optional .env file,
// an optional YAML file and QUIZBLOG_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix     = "QUIZBLOG"
	ConfigFileEnv = "QUIZBLOG_CONFIG_FILE"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Postgres PostgresConfig
	Telegram TelegramConfig
	Log      LogConfig
	Realtime RealtimeConfig
}

type ServerConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type AuthConfig struct {
	JWTSecret     string
	RevocationKey string
	TokenTTL      time.Duration
}

// RedisConfig with an empty Address disables the Redis sink and revocation checks.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Channel  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type PostgresConfig struct {
	DSN string
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

type LogConfig struct {
	Level string
}

// Load reads the configuration. envFiles are passed to godotenv; a missing
// file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
