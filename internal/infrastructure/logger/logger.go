package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/domain"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// New creates a new zerolog logger based on config.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a logger writing to out.
func NewWithWriter(cfg Config, out io.Writer) zerolog.Logger {
	output := out

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level := parseLevel(cfg.Level)

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "walletledger").
		Logger()
}

// WithContext returns l enriched with the request id and the authenticated
// actor carried by ctx.
func WithContext(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	c := l.With()
	if id := domain.RequestIDFromContext(ctx); id != "" {
		c = c.Str("request_id", id)
	}
	if u, ok := domain.UserFromContext(ctx); ok {
		c = c.Str("actor_id", u.ID)
	}
	return c.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
