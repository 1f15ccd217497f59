package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw   string
		level zerolog.Level
		ok    bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"", zerolog.InfoLevel, false},
		{"loud", zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			level, ok := ParseLevel(tt.raw)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNew(t *testing.T) {
	old := log.Logger
	t.Cleanup(func() { log.Logger = old })

	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Service: "cursor-search", Writer: &buf, NoColor: true})

	logger.Info().Msg("hidden")
	log.Warn().Str("repo", "acme/widgets").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "app=cursor-search")
	assert.Contains(t, out, "repo=acme/widgets")
}

func TestNew_EnvLevel(t *testing.T) {
	old := log.Logger
	t.Cleanup(func() { log.Logger = old })
	t.Setenv(EnvLogLevel, "error")

	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, NoColor: true})
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
}
