package config

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FlagListen     = "listen"
	FlagLogLevel   = "log-level"
	FlagMaxAnswers = "max-answers"
)

type Config struct {
	Postgres        PostgresConfig
	Listen          string
	JWTSecret       string
	LogLevel        string
	MaxAnswers      int
	MaxPollsPerUser int
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

// DSN renders the connection URL understood by lib/pq.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DB,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// RegisterFlags adds the command line overrides to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagListen, "0.0.0.0:8080", "address the HTTP server listens on")
	fs.String(FlagLogLevel, "info", "log level (debug, info, warn, error)")
	fs.Int(FlagMaxAnswers, 10, "answers after which a draft is published automatically")
}

// Load reads .env (when present), the environment and the parsed flags in fs, in increasing precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_DB", "pollbot")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("LISTEN", "0.0.0.0:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_ANSWERS", 10)
	v.SetDefault("MAX_POLLS_PER_USER", 50)

	if fs != nil {
		for key, flag := range map[string]string{
			"LISTEN":      FlagListen,
			"LOG_LEVEL":   FlagLogLevel,
			"MAX_ANSWERS": FlagMaxAnswers,
		} {
			f := fs.Lookup(flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg := &Config{
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DB:       v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		Listen:          v.GetString("LISTEN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		MaxAnswers:      v.GetInt("MAX_ANSWERS"),
		MaxPollsPerUser: v.GetInt("MAX_POLLS_PER_USER"),
	}

	if cfg.MaxAnswers < 1 {
		return nil, fmt.Errorf("max answers must be positive, got %d", cfg.MaxAnswers)
	}
	if cfg.MaxPollsPerUser < 1 {
		return nil, fmt.Errorf("max polls per user must be positive, got %d", cfg.MaxPollsPerUser)
	}

	return cfg, nil
}
