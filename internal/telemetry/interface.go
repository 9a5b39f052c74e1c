package telemetry

import (
	"context"
	"time"
)

// Collector keeps the history of apply cycles.
type Collector interface {
	Record(ctx context.Context, record *CycleRecord) error
	Recent(ctx context.Context, limit int) ([]CycleRecord, error)
	Close() error
}

// CycleRecord describes one RyzenAdj invocation.
type CycleRecord struct {
	Timestamp   time.Time     `json:"timestamp"`
	SessionID   string        `json:"session_id"`
	Preset      string        `json:"preset"`
	Arguments   string        `json:"arguments"`
	PowerSource string        `json:"power_source"`
	ExitCode    int           `json:"exit_code"`
	Succeeded   bool          `json:"succeeded"`
	Duration    time.Duration `json:"duration"`
}
