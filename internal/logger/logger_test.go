package logger_test

import (
	"bytes"
	"testing"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, logger.DebugLevel, level)

	level, ok = logger.ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, logger.WarnLevel, level)

	_, ok = logger.ParseLevel("verbose")
	assert.False(t, ok)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, logger.WarnLevel, true)
	defer logger.SetLogLevel(logger.InfoLevel)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, logger.DebugLevel, true)
	defer logger.SetLogLevel(logger.InfoLevel)

	logger.Default().ErrorWithCode(errors.New().New(errors.ErrNotReady)).Msg("gate closed")

	assert.Contains(t, buf.String(), "not_ready")
	assert.Contains(t, buf.String(), "gate closed")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, logger.DebugLevel, true)
	defer logger.SetLogLevel(logger.InfoLevel)

	log := logger.Default().With("storage").With("state")
	log.Info().Msg("opened")
	log.Debug().Msg("schema ready")

	assert.Contains(t, buf.String(), "component=storage.state")
	assert.Contains(t, buf.String(), "schema ready")
}
