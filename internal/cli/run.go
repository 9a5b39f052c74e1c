package cli

import (
	"fmt"

	"codeberg.org/mutker/ryzenctl/internal/config"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"github.com/spf13/cobra"
)

func init() {
	flags := runCmd.Flags()
	flags.Bool("reapply", false, "Reapply on the interval until stopped")
	flags.Bool("dynamic", false, "Switch between Extreme on AC and Eco on battery")
	flags.Int("interval", config.DefaultInterval, "Reapply interval in seconds")
	flags.Bool("telemetry", false, "Record every cycle in the telemetry database")
	flags.String("listen", "", "Serve status and metrics on this address while looping")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply the saved preset at startup",
	Long: `Apply the saved preset when apply_on_start is set, detecting the processor
first if no classification is stored. With reapply or dynamic mode the preset
is reapplied until SIGINT, SIGTERM or a "b" line on the terminal.`,
	Args: cobra.NoArgs,
	RunE: withApp(runRun),
}

func runRun(cmd *cobra.Command, a *app, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	profile, err := a.profile(ctx)
	if err != nil {
		return err
	}

	applied, err := a.applied(ctx)
	if err != nil {
		return err
	}
	if !applied.ApplyOnStart {
		logger.Info().Msg("apply_on_start is off, nothing to do")
		fmt.Fprintln(cmd.OutOrStdout(), "Apply on start is disabled.")
		return nil
	}

	group, err := a.applyGroup(profile)
	if err != nil {
		return err
	}

	if flags.Changed("dynamic") && a.cfg.Dynamic {
		applied.SelectDynamic()
	}
	if flags.Changed("reapply") {
		applied.AutoReapply = a.cfg.Reapply
	}
	if flags.Changed("interval") {
		applied.IntervalSeconds = a.cfg.Interval
	}

	out, err := a.execute(ctx, profile, group, &applied)
	if err != nil {
		return err
	}

	return printOutcome(cmd.OutOrStdout(), out)
}
