package telemetry

import (
	"time"

	"codeberg.org/mutker/ryzenctl/internal/errors"
)

const (
	defaultBatchSize    = 10
	defaultBatchTimeout = 30 * time.Second
)

type Config struct {
	DBPath       string
	Enabled      bool
	BatchSize    int
	BatchTimeout time.Duration
}

func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:       dbPath,
		Enabled:      false,
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// DBPath only matters when history is kept
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 0 || c.BatchTimeout < 0 {
		return errFactory.WithMessage(ErrInvalidConfig, "batch size and timeout must not be negative")
	}

	return nil
}
