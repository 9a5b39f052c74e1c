package telemetry_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(preset string, ok bool) *telemetry.CycleRecord {
	exit := 0
	if !ok {
		exit = 1
	}

	return &telemetry.CycleRecord{
		Timestamp:   time.Unix(1_760_000_000, 0),
		SessionID:   "3f1c2b8e-0000-4000-8000-000000000001",
		Preset:      preset,
		Arguments:   "--stapm-limit=6000",
		PowerSource: "battery",
		ExitCode:    exit,
		Succeeded:   ok,
		Duration:    120 * time.Millisecond,
	}
}

func TestDisabledIsNoop(t *testing.T) {
	c, err := telemetry.NewService(telemetry.DefaultConfig(""), logger.Default())
	require.NoError(t, err)

	require.NoError(t, c.Record(context.Background(), record("Eco", true)))
	recent, err := c.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
	require.NoError(t, c.Close())
}

func TestInvalidConfig(t *testing.T) {
	cfg := telemetry.DefaultConfig("")
	cfg.Enabled = true

	_, err := telemetry.NewService(cfg, logger.Default())
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidConfig))
}

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	cfg := telemetry.DefaultConfig(path)
	cfg.Enabled = true
	cfg.BatchSize = 2

	c, err := telemetry.NewService(cfg, logger.Default())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Record(ctx, record("Extreme", true)))
	require.NoError(t, c.Record(ctx, record("Eco", true)))
	require.NoError(t, c.Record(ctx, record("Eco", false)))

	recent, err := c.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Eco", recent[0].Preset)
	assert.False(t, recent[0].Succeeded)
	assert.Equal(t, 1, recent[0].ExitCode)
	assert.Equal(t, 120*time.Millisecond, recent[0].Duration)
	assert.True(t, recent[1].Succeeded)

	require.NoError(t, c.Close())

	// Buffered records survive a restart.
	c, err = telemetry.NewService(cfg, logger.Default())
	require.NoError(t, err)
	defer c.Close()

	recent, err = c.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestRecordNil(t *testing.T) {
	cfg := telemetry.DefaultConfig(filepath.Join(t.TempDir(), "telemetry.db"))
	cfg.Enabled = true

	c, err := telemetry.NewService(cfg, logger.Default())
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, errors.HasCode(c.Record(context.Background(), nil), telemetry.ErrInvalidRecord))
}

func TestRecordCancelledContext(t *testing.T) {
	cfg := telemetry.DefaultConfig(filepath.Join(t.TempDir(), "telemetry.db"))
	cfg.Enabled = true

	c, err := telemetry.NewService(cfg, logger.Default())
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.HasCode(c.Record(ctx, record("Eco", true)), telemetry.ErrOperationTimeout))
}
