// Package telemetry records the history of apply cycles in SQLite.
package telemetry

import (
	"context"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
)

type service struct {
	repo *repository
	cfg  Config
}

type noopCollector struct{}

// NewService returns a SQLite-backed collector, or a no-op collector when
// telemetry is disabled.
func NewService(cfg Config, log logger.Logger) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Telemetry disabled, using no-op collector")
		return noopCollector{}, nil
	}

	repo, err := newRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create telemetry repository")
		return nil, err
	}

	return &service{repo: repo, cfg: cfg}, nil
}

func (s *service) Record(ctx context.Context, record *CycleRecord) error {
	errFactory := errors.New()

	if record == nil {
		return errFactory.New(ErrInvalidRecord)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(record); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]CycleRecord, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrServiceShutdown, err)
	}

	return nil
}

func (noopCollector) Record(context.Context, *CycleRecord) error { return nil }

func (noopCollector) Recent(context.Context, int) ([]CycleRecord, error) { return nil, nil }

func (noopCollector) Close() error { return nil }
