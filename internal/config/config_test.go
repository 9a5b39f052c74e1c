package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/ryzenctl/internal/config"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ryzenctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
interval = 5
reapply = true
dynamic = true
apply_on_start = false
log_level = "debug"
required_policy = "7F000000"
data_dir = "/tmp/ryzenctl"
telemetry = true
`)
	t.Setenv("RYZENCTL_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Interval)
	assert.True(t, cfg.Reapply)
	assert.True(t, cfg.Dynamic)
	assert.False(t, cfg.ApplyOnStart)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "7F000000", cfg.RequiredPolicy)
	assert.Equal(t, config.DefaultBootFlag, cfg.BootFlag)
	assert.True(t, cfg.Telemetry)
	assert.Equal(t, "/tmp/ryzenctl/state.db", cfg.StateDBPath())
	assert.Equal(t, "/tmp/ryzenctl/telemetry.db", cfg.TelemetryDBPath())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RYZENCTL_CONFIG", "")

	cfg, err := config.Load(config.WithSearchPaths(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.False(t, cfg.Reapply)
	assert.False(t, cfg.Dynamic)
	assert.True(t, cfg.ApplyOnStart)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultBootFlag, cfg.BootFlag)
	assert.Equal(t, config.DefaultRequiredPolicy, cfg.RequiredPolicy)
	assert.Equal(t, config.DefaultDataDir(), cfg.DataDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "interval = 5\n")

	t.Setenv("RYZENCTL_INTERVAL", "12")
	t.Setenv("RYZENCTL_SUDO_PASSWORD", "hunter2")

	cfg, err := config.Load(config.WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Interval)
	assert.Equal(t, "hunter2", cfg.SudoPassword)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("RYZENCTL_CONFIG", "")
	t.Setenv("RYZENCTL_INTERVAL", "12")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("interval", config.DefaultInterval, "")
	fs.String("log-level", config.DefaultLogLevel, "")
	require.NoError(t, fs.Parse([]string{"--interval", "3", "--log-level", "error"}))

	cfg, err := config.Load(config.WithSearchPaths(t.TempDir()), config.WithFlags(fs))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Interval)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	path := writeConfig(t, "This is not a valid TOML file\n")

	_, err := config.Load(config.WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "invalid"`)

	_, err := config.Load(config.WithConfigFile(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestInvalidInterval(t *testing.T) {
	path := writeConfig(t, "interval = 0\n")

	_, err := config.Load(config.WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestDataDirFor(t *testing.T) {
	assert.Equal(t, config.SystemDataDir, config.DataDirFor(true))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	userDir, err := os.UserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(userDir, "ryzenctl"), config.DataDirFor(false))
	assert.NotEqual(t, config.SystemDataDir, config.DataDirFor(false))
}
