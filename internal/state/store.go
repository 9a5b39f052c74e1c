// Package state persists the detected hardware profile and the applied
// preset state across runs.
package state

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/cpu"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/hardware"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/preset"
	"codeberg.org/mutker/ryzenctl/internal/storage"
)

// Profile is the result of hardware detection: the inventory, its
// classification and the preset group resolved for it.
type Profile struct {
	Hardware       hardware.Info      `json:"hardware"`
	Classification cpu.Classification `json:"classification"`
	Group          preset.GroupID     `json:"preset_group"`
	DetectedAt     time.Time          `json:"detected_at"`
}

type Store struct {
	db  *sql.DB
	log logger.Logger
	mu  sync.Mutex
}

// Open opens the state database at path.
func Open(path string, log logger.Logger) (*Store, error) {
	db, err := storage.Open(path, schema, log)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Msg("State store opened")

	return &Store{db: db, log: log}, nil
}

// SaveProfile replaces the stored hardware profile.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hw := p.Hardware
	c := p.Classification
	_, err := s.db.ExecContext(ctx, upsertProfileSQL,
		hw.ModelName, hw.Vendor, hw.Signature, hw.Voltage, hw.MaxSpeed, hw.CurrentSpeed,
		hw.CoreCount, hw.CoreEnabled, hw.ThreadCount, hw.Source,
		c.Architecture, c.Codename.String(), string(c.Category), string(p.Group),
		p.DetectedAt.Unix(),
	)
	if err != nil {
		return errors.New().Wrap(errors.ErrStorageAccess, err)
	}

	return nil
}

// LoadProfile returns the stored profile, or a state_not_found error when
// detection has not run yet.
func (s *Store) LoadProfile(ctx context.Context) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		p                         Profile
		codename, category, group string
		detectedAt                int64
	)

	hw := &p.Hardware
	err := s.db.QueryRowContext(ctx, selectProfileSQL).Scan(
		&hw.ModelName, &hw.Vendor, &hw.Signature, &hw.Voltage, &hw.MaxSpeed, &hw.CurrentSpeed,
		&hw.CoreCount, &hw.CoreEnabled, &hw.ThreadCount, &hw.Source,
		&p.Classification.Architecture, &codename, &category, &group, &detectedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, errors.New().WithMessage(errors.ErrStateNotFound,
			"No hardware profile saved, run detection first")
	}
	if err != nil {
		return Profile{}, errors.New().Wrap(errors.ErrStorageAccess, err)
	}

	p.Classification.Codename = cpu.ParseCodename(codename)
	p.Classification.Category = cpu.Category(category)
	p.Group = preset.GroupID(group)
	p.DetectedAt = time.Unix(detectedAt, 0)

	return p, nil
}

// SaveApplied replaces the stored applied state.
func (s *Store) SaveApplied(ctx context.Context, a Applied) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.Normalize()

	_, err := s.db.ExecContext(ctx, upsertAppliedSQL,
		a.Preset, a.CustomArgs,
		storage.BoolToInt(a.DynamicMode),
		storage.BoolToInt(a.AutoReapply),
		storage.BoolToInt(a.ApplyOnStart),
		a.IntervalSeconds,
		time.Now().Unix(),
	)
	if err != nil {
		return errors.New().Wrap(errors.ErrStorageAccess, err)
	}

	return nil
}

// LoadApplied returns the stored applied state, or a state_not_found error
// when none has been saved.
func (s *Store) LoadApplied(ctx context.Context) (Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a Applied
	err := s.db.QueryRowContext(ctx, selectAppliedSQL).Scan(
		&a.Preset, &a.CustomArgs, &a.DynamicMode, &a.AutoReapply, &a.ApplyOnStart, &a.IntervalSeconds,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Applied{}, errors.New().New(errors.ErrStateNotFound)
	}
	if err != nil {
		return Applied{}, errors.New().Wrap(errors.ErrStorageAccess, err)
	}

	a.Normalize()

	return a, nil
}

// LoadAppliedOr returns the stored applied state or fallback when none has
// been saved.
func (s *Store) LoadAppliedOr(ctx context.Context, fallback Applied) (Applied, error) {
	a, err := s.LoadApplied(ctx)
	if errors.HasCode(err, errors.ErrStateNotFound) {
		fallback.Normalize()
		return fallback, nil
	}

	return a, err
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.Close(s.db); err != nil {
		return err
	}

	s.log.Debug().Msg("State store closed")

	return nil
}
