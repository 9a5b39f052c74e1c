package apply

import (
	"context"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/gate"
	"codeberg.org/mutker/ryzenctl/internal/sysexec"
)

// ReadinessGate reports whether RyzenAdj may run.
type ReadinessGate interface {
	Check(ctx context.Context) gate.Report
}

// Utility applies an argument vector.
type Utility interface {
	Apply(ctx context.Context, args []string) (sysexec.Result, error)
}

// Recorder receives cycle metrics.
type Recorder interface {
	ObserveCycle(preset string, ok bool, d time.Duration)
	ObserveBlocked(reason string)
	SetPowerSource(source string)
	SetState(previous, current string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveCycle(string, bool, time.Duration) {}
func (noopRecorder) ObserveBlocked(string)                    {}
func (noopRecorder) SetPowerSource(string)                    {}
func (noopRecorder) SetState(string, string)                  {}
