package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "info"})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("hidden")
	logger.Info().Str("layer", "test").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "cloudinfo", entry["app"])
	assert.NotEmpty(t, entry["invocation"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(&buf, Options{Level: "warn", Format: "console", NoColor: true})
	require.NoError(t, err)

	logger.Warn().Msg("careful")
	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "WRN")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudinfo.log")
	var buf bytes.Buffer
	logger, closer, err := New(&buf, Options{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info().Msg("to both")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestVerbose(t *testing.T) {
	base := zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel)

	assert.Equal(t, zerolog.WarnLevel, Verbose(base, false, 1).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, Verbose(base, true, 0).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, Verbose(base, false, 3).GetLevel())
}
