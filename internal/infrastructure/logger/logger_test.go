package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/walletledger/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "parseLevel(%q)", tt.input)
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "warn", Format: "json"}, &buf)

	l.Info().Msg("dropped")
	l.Warn().Str("owner_id", "alice").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "alice", entry["owner_id"])
	assert.Equal(t, "walletledger", entry["service"])
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "debug", Format: "console"}, &buf)

	l.Debug().Msg("hello console")
	assert.Contains(t, buf.String(), "hello console")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(Config{Level: "info"}, &buf)

	ctx := domain.ContextWithRequestID(context.Background(), "req-1")
	ctx = domain.ContextWithUser(ctx, &domain.User{ID: "admin-1", Role: domain.RoleAdmin})

	l := WithContext(ctx, base)
	l.Info().Msg("approved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "admin-1", entry["actor_id"])
}
