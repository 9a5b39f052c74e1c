// Package apply drives RyzenAdj: it gates each apply request, picks the
// argument set for the current power source and reapplies it on an interval
// until cancelled.
package apply

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/cpu"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/power"
	"codeberg.org/mutker/ryzenctl/internal/preset"
	"codeberg.org/mutker/ryzenctl/internal/state"
	"codeberg.org/mutker/ryzenctl/internal/telemetry"
	"github.com/google/uuid"
)

// Request is a single apply request, one-shot or looping depending on
// Applied.AutoReapply.
type Request struct {
	Classification cpu.Classification
	Group          preset.Group
	// Applied is owned by the running request. Forced changes are undone
	// before Run returns.
	Applied *state.Applied
}

// Outcome summarizes a finished request.
type Outcome struct {
	Final     State  `json:"final"`
	SessionID string `json:"session_id"`
	Cycles    int    `json:"cycles"`
	Failures  int    `json:"failures"`
}

// Snapshot is a point-in-time view of the controller for status readers.
type Snapshot struct {
	State        State     `json:"state"`
	SessionID    string    `json:"session_id,omitempty"`
	Preset       string    `json:"preset,omitempty"`
	PowerSource  string    `json:"power_source,omitempty"`
	DynamicMode  bool      `json:"dynamic_mode"`
	Cycles       int       `json:"cycles"`
	Failures     int       `json:"failures"`
	LastExitCode int       `json:"last_exit_code"`
	LastApplied  time.Time `json:"last_applied,omitempty"`
}

// invokeTimeout bounds a single RyzenAdj run.
const invokeTimeout = 30 * time.Second

type Option func(*Controller)

// WithTelemetry records every cycle in c.
func WithTelemetry(c telemetry.Collector) Option {
	return func(ctl *Controller) {
		ctl.telemetry = c
	}
}

// WithRecorder reports metrics to r.
func WithRecorder(r Recorder) Option {
	return func(ctl *Controller) {
		ctl.recorder = r
	}
}

// WithTick sets the wait granularity. Cancellation is observed within one
// tick; the interval is counted in ticks.
func WithTick(d time.Duration) Option {
	return func(ctl *Controller) {
		ctl.tick = d
	}
}

type Controller struct {
	gate      ReadinessGate
	utility   Utility
	sampler   power.Sampler
	telemetry telemetry.Collector
	recorder  Recorder
	tick      time.Duration

	inFlight sync.Mutex
	state    atomic.Int32

	mu   sync.Mutex
	snap Snapshot
}

func New(g ReadinessGate, u Utility, p power.Sampler, opts ...Option) *Controller {
	c := &Controller{
		gate:     g,
		utility:  u,
		sampler:  p,
		recorder: noopRecorder{},
		tick:     time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current controller state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Snapshot returns a copy of the current status.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.snap
	snap.State = c.State()

	return snap
}

// Run executes req. It returns when a one-shot request has been applied,
// the request is blocked, or ctx is cancelled while looping. Blocked
// requests return a not_ready or unsupported_platform error; failed
// invocations never end a loop.
func (c *Controller) Run(ctx context.Context, req Request) (Outcome, error) {
	errFactory := errors.New()

	if req.Applied == nil {
		return Outcome{}, errFactory.WithMessage(errors.ErrInvalidArgument, "apply request without state")
	}
	if !c.inFlight.TryLock() {
		return Outcome{Final: c.State()}, errFactory.New(errors.ErrApplyBusy)
	}
	defer c.inFlight.Unlock()

	applied := req.Applied
	out := Outcome{SessionID: uuid.NewString()}

	c.mu.Lock()
	c.snap = Snapshot{SessionID: out.SessionID, DynamicMode: applied.DynamicMode}
	c.mu.Unlock()

	c.setState(Gating)
	if err := c.checkGate(ctx, req.Classification); err != nil {
		out.Final = c.setState(Blocked)
		return out, err
	}

	if applied.DynamicMode && !applied.AutoReapply {
		applied.AutoReapply = true
		defer func() { applied.AutoReapply = false }()
	}

	logger.Debug().
		Str("session_id", out.SessionID).
		Str("preset", applied.Preset).
		Bool("dynamic", applied.DynamicMode).
		Bool("reapply", applied.AutoReapply).
		Int("interval", applied.IntervalSeconds).
		Msg("Apply request started")

	for {
		if ctx.Err() != nil {
			out.Final = c.setState(Cancelled)
			return out, nil
		}

		c.setState(SelectingArguments)
		name, args, source, err := c.selectArguments(ctx, req.Group, *applied)
		if err != nil {
			out.Final = c.setState(Idle)
			return out, err
		}

		c.setState(Invoking)
		if !c.invoke(ctx, out.SessionID, name, args, source) {
			out.Failures++
		}
		out.Cycles++

		if !applied.AutoReapply {
			out.Final = c.setState(Idle)
			return out, nil
		}

		c.setState(Waiting)
		if !c.wait(ctx, applied.IntervalSeconds) {
			out.Final = c.setState(Cancelled)
			logger.Info().
				Str("session_id", out.SessionID).
				Int("cycles", out.Cycles).
				Msg("Reapply loop cancelled")
			return out, nil
		}
	}
}

func (c *Controller) checkGate(ctx context.Context, classification cpu.Classification) error {
	report := c.gate.Check(ctx)
	if !report.Ready {
		err := report.AsError()
		c.recorder.ObserveBlocked(string(errors.ErrNotReady))
		logger.Warn().
			Err(err).
			Bool("boot_flag_present", report.BootFlagPresent).
			Bool("policy_matches", report.PolicyMatches).
			Msg("Apply blocked")
		return err
	}

	if classification.Category == cpu.CategoryIntel {
		c.recorder.ObserveBlocked(string(errors.ErrUnsupportedPlatform))
		return errors.New().WithMessage(errors.ErrUnsupportedPlatform,
			"Intel processors are not supported by RyzenAdj")
	}

	return nil
}

func (c *Controller) selectArguments(
	ctx context.Context,
	group preset.Group,
	applied state.Applied,
) (name, args string, source power.Source, err error) {
	errFactory := errors.New()

	switch {
	case applied.DynamicMode:
		source, err = c.sampler.Source(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Power source unavailable, assuming battery")
			source = power.Unknown
		}
		c.recorder.SetPowerSource(source.String())

		name = preset.Eco
		if source == power.OnACPower {
			name = preset.Extreme
		}
	case applied.IsCustom():
		return preset.Custom, applied.CustomArgs, power.Unknown, nil
	default:
		name = applied.Preset
	}

	p, ok := group.Lookup(name)
	if !ok {
		return "", "", source, errFactory.WithData(errors.ErrUnresolvedPreset,
			string(group.ID)+"/"+name)
	}

	return name, p.Args, source, nil
}

// invoke runs one cycle and reports whether RyzenAdj succeeded.
func (c *Controller) invoke(ctx context.Context, session, name, args string, source power.Source) bool {
	// The invocation runs to completion after ctx is cancelled; the next
	// wait observes the cancellation.
	invokeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invokeTimeout)
	defer cancel()

	start := time.Now()
	res, err := c.utility.Apply(invokeCtx, strings.Fields(args))
	elapsed := time.Since(start)
	ok := err == nil

	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.WarnWithCode(appErr).Str("preset", name).Msg("RyzenAdj cycle failed, retrying next cycle")
		} else {
			logger.Warn().Err(err).Str("preset", name).Msg("RyzenAdj cycle failed, retrying next cycle")
		}
	} else {
		logger.Info().
			Str("preset", name).
			Str("power_source", source.String()).
			Dur("duration", elapsed).
			Msg("Preset applied")
	}

	c.mu.Lock()
	c.snap.Preset = name
	c.snap.PowerSource = source.String()
	c.snap.Cycles++
	if !ok {
		c.snap.Failures++
	}
	c.snap.LastExitCode = res.ExitCode
	c.snap.LastApplied = start
	c.mu.Unlock()

	c.recorder.ObserveCycle(name, ok, elapsed)

	if c.telemetry != nil {
		record := &telemetry.CycleRecord{
			Timestamp:   start,
			SessionID:   session,
			Preset:      name,
			Arguments:   args,
			PowerSource: source.String(),
			ExitCode:    res.ExitCode,
			Succeeded:   ok,
			Duration:    elapsed,
		}
		if err := c.telemetry.Record(context.WithoutCancel(ctx), record); err != nil {
			logger.Debug().Err(err).Msg("Failed to record cycle")
		}
	}

	return ok
}

// wait sleeps for interval ticks and reports false if ctx ended first.
func (c *Controller) wait(ctx context.Context, interval int) bool {
	if interval < 1 {
		interval = state.DefaultInterval
	}

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for i := 0; i < interval; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}

	return ctx.Err() == nil
}

func (c *Controller) setState(s State) State {
	previous := State(c.state.Swap(int32(s)))
	if previous != s {
		c.recorder.SetState(previous.String(), s.String())
	}

	return s
}
