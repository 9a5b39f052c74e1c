package cli

import (
	"fmt"
	"io"

	"codeberg.org/mutker/ryzenctl/internal/apply"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"github.com/spf13/cobra"
)

func init() {
	flags := applyCmd.Flags()
	flags.String("preset", "", "Apply a named preset once (disables dynamic mode for this run)")
	flags.String("custom", "", "Apply a custom RyzenAdj argument string")
	flags.Bool("dynamic", false, "Run dynamic mode until stopped")
	flags.Bool("save", false, "Save the selection before applying")
	flags.Bool("reapply", false, "Keep reapplying on the interval until stopped")
	flags.Int("interval", 0, "Reapply interval in seconds")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a preset now",
	Long: `Apply the saved preset, or the one given by --preset, --custom or --dynamic.

The selection is only saved with --save. Without --reapply or dynamic mode
RyzenAdj runs once.`,
	Args: cobra.NoArgs,
	RunE: withApp(runApply),
}

func runApply(cmd *cobra.Command, a *app, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	var sel selection
	sel.name, _ = flags.GetString("preset")
	sel.custom, _ = flags.GetString("custom")
	sel.dynamic, _ = flags.GetBool("dynamic")
	if err := sel.validate(); err != nil {
		return err
	}

	profile, err := a.profile(ctx)
	if err != nil {
		return err
	}
	group, err := a.applyGroup(profile)
	if err != nil {
		return err
	}

	applied, err := a.applied(ctx)
	if err != nil {
		return err
	}

	// Intel requests go straight to the controller, which blocks them.
	if !isIntel(profile) {
		if err := sel.apply(group, &applied); err != nil {
			return err
		}

		if save, _ := flags.GetBool("save"); save {
			if err := a.store.SaveApplied(ctx, applied); err != nil {
				return err
			}
			logger.Info().Str("preset", applied.Preset).Msg("Preset saved")
		}
	}

	if flags.Changed("reapply") {
		applied.AutoReapply, _ = flags.GetBool("reapply")
	} else if !applied.DynamicMode {
		applied.AutoReapply = false
	}
	if flags.Changed("interval") {
		applied.IntervalSeconds, _ = flags.GetInt("interval")
		if applied.IntervalSeconds < 1 {
			return errors.New().WithData(errors.ErrInvalidInterval, applied.IntervalSeconds)
		}
	}

	out, err := a.execute(ctx, profile, group, &applied)
	if err != nil {
		return err
	}

	return printOutcome(cmd.OutOrStdout(), out)
}

func printOutcome(w io.Writer, out apply.Outcome) error {
	if jsonOutput {
		return printJSON(w, out)
	}

	t := newTable(w)
	fmt.Fprintf(t, "Result:\t%s\n", out.Final)
	fmt.Fprintf(t, "Cycles:\t%d\n", out.Cycles)
	if out.Failures > 0 {
		fmt.Fprintf(t, "Failed cycles:\t%d\n", out.Failures)
	}

	return t.Flush()
}
