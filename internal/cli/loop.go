package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"codeberg.org/mutker/ryzenctl/internal/apply"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/metrics"
	"codeberg.org/mutker/ryzenctl/internal/pid"
	"codeberg.org/mutker/ryzenctl/internal/power"
	"codeberg.org/mutker/ryzenctl/internal/preset"
	"codeberg.org/mutker/ryzenctl/internal/state"
	"codeberg.org/mutker/ryzenctl/internal/status"
	"codeberg.org/mutker/ryzenctl/internal/sysexec"
	"codeberg.org/mutker/ryzenctl/internal/telemetry"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

// execute runs one apply request for profile. Looping requests hold the PID
// file, listen for "b" on an interactive stdin and for SIGINT/SIGTERM, and
// serve status when a listen address is configured.
func (a *app) execute(ctx context.Context, profile state.Profile, group preset.Group, applied *state.Applied) (apply.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var utility apply.Utility = unsupportedUtility{}
	if !isIntel(profile) {
		u, err := a.utility()
		if err != nil {
			return apply.Outcome{}, err
		}
		utility = u
	}

	looping := applied.AutoReapply || applied.DynamicMode
	if looping {
		if err := pid.Write(a.cfg.DataDir); err != nil {
			return apply.Outcome{}, err
		}
		defer func() {
			if err := pid.Remove(a.cfg.DataDir); err != nil {
				logger.Warn().Err(err).Msg("Failed to remove PID file")
			}
		}()

		go watchSignals(ctx, cancel)
		if isatty.IsTerminal(os.Stdin.Fd()) {
			logger.Info().Msg("Reapply loop running, enter b to stop")
			go watchStdin(os.Stdin, cancel)
		}
	}

	tcfg := telemetry.DefaultConfig(a.cfg.TelemetryDBPath())
	tcfg.Enabled = a.cfg.Telemetry
	cycles, err := telemetry.NewService(tcfg, logger.Default().With("telemetry"))
	if err != nil {
		return apply.Outcome{}, err
	}
	defer func() {
		if err := cycles.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close telemetry")
		}
	}()

	opts := []apply.Option{apply.WithTelemetry(cycles)}
	var m *metrics.Metrics
	if looping && a.cfg.Listen != "" {
		m = metrics.New()
		opts = append(opts, apply.WithRecorder(m))
	}

	controller := apply.New(a.gate(), utility, power.NewSampler(a.runner), opts...)
	req := apply.Request{
		Classification: profile.Classification,
		Group:          group,
		Applied:        applied,
	}

	if m == nil {
		return controller.Run(ctx, req)
	}

	var out apply.Outcome
	g, gctx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	g.Go(func() error {
		defer stopServer()
		var err error
		out, err = controller.Run(gctx, req)
		return err
	})
	g.Go(func() error {
		srv := status.NewServer(controller, cycles, m.Handler(), profile)
		return srv.Serve(serverCtx, a.cfg.Listen)
	})

	return out, g.Wait()
}

// unsupportedUtility stands in for RyzenAdj on Intel hosts, where the
// controller blocks before any invocation.
type unsupportedUtility struct{}

func (unsupportedUtility) Apply(context.Context, []string) (sysexec.Result, error) {
	return sysexec.Result{ExitCode: -1}, errors.New().New(errors.ErrUnsupportedPlatform)
}

func watchSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal")
		cancel()
	case <-ctx.Done():
	}
}

// watchStdin cancels when a line reading "b" arrives.
func watchStdin(r io.Reader, cancel context.CancelFunc) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "b") {
			cancel()
			return
		}
	}
}
