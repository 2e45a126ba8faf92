package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true, Output: os.Stdout}) })

	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Info().Msg("dropped")
	Warn().Str("key", "student:1").Msg("kept")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "student:1", line["key"])

	for _, level := range []LogLevel{"", "verbose"} {
		Configure(Config{Level: level, Output: &buf})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel(), "level %q", level)
	}
}
