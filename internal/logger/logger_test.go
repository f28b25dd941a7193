package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Setup(false, FileOptions{}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, Setup(true, FileOptions{}).GetLevel())
}

func TestSetupWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surplus.log")

	logger := Setup(false, FileOptions{Path: path})
	logger.Info().Str("user", "u1").Msg("logged in")
	logger.Debug().Msg("filtered out")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "u1", entry["user"])
	assert.Equal(t, "logged in", entry["message"])
}

func TestNewRotatingFileDefaults(t *testing.T) {
	l := newRotatingFile(FileOptions{Path: "x.log"})
	assert.Equal(t, 10, l.MaxSize)
	assert.Equal(t, 3, l.MaxBackups)

	l = newRotatingFile(FileOptions{Path: "x.log", MaxSizeMB: 50, MaxBackups: 1})
	assert.Equal(t, 50, l.MaxSize)
	assert.Equal(t, 1, l.MaxBackups)
}
