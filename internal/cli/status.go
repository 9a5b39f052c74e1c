package cli

import (
	"fmt"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/pid"
	"codeberg.org/mutker/ryzenctl/internal/state"
	"codeberg.org/mutker/ryzenctl/internal/telemetry"
	"github.com/spf13/cobra"
)

func init() {
	statusCmd.Flags().Int("cycles", 10, "Number of recent cycles to show when telemetry is enabled")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored profile, saved preset and reapply loop status",
	Args:  cobra.NoArgs,
	RunE:  withApp(runStatus),
}

type statusOutput struct {
	Profile    *state.Profile          `json:"profile,omitempty"`
	Applied    state.Applied           `json:"applied"`
	LoopPID    int                     `json:"loop_pid,omitempty"`
	LastCycles []telemetry.CycleRecord `json:"last_cycles,omitempty"`
}

func runStatus(cmd *cobra.Command, a *app, _ []string) error {
	ctx := cmd.Context()
	var out statusOutput

	profile, err := a.store.LoadProfile(ctx)
	switch {
	case err == nil:
		out.Profile = &profile
	case !errors.HasCode(err, errors.ErrStateNotFound):
		return err
	}

	if out.Applied, err = a.applied(ctx); err != nil {
		return err
	}

	if out.LoopPID, err = pid.Running(a.cfg.DataDir); err != nil {
		logger.Debug().Err(err).Msg("Failed to read PID file")
	}

	if a.cfg.Telemetry {
		limit, _ := cmd.Flags().GetInt("cycles")
		tcfg := telemetry.DefaultConfig(a.cfg.TelemetryDBPath())
		tcfg.Enabled = true
		cycles, err := telemetry.NewService(tcfg, logger.Default().With("telemetry"))
		if err != nil {
			return err
		}
		defer cycles.Close()

		if out.LastCycles, err = cycles.Recent(ctx, limit); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, out)
	}

	if out.Profile != nil {
		if err := printProfile(w, *out.Profile); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, "No processor classification stored. Run ryzenctl detect.")
	}
	fmt.Fprintln(w)

	if err := printApplied(w, out.Applied); err != nil {
		return err
	}

	if out.LoopPID != 0 {
		fmt.Fprintf(w, "Reapply loop running (pid %d)\n", out.LoopPID)
	} else {
		fmt.Fprintln(w, "Reapply loop not running")
	}

	if len(out.LastCycles) > 0 {
		fmt.Fprintln(w)
		t := newTable(w)
		fmt.Fprintln(t, "TIME\tPRESET\tPOWER\tEXIT\tDURATION")
		for _, c := range out.LastCycles {
			fmt.Fprintf(t, "%s\t%s\t%s\t%d\t%s\n",
				c.Timestamp.Local().Format("2006-01-02 15:04:05"),
				c.Preset, c.PowerSource, c.ExitCode, c.Duration.Round(time.Millisecond))
		}
		return t.Flush()
	}

	return nil
}
