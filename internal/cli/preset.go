package cli

import (
	"fmt"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/preset"
	"codeberg.org/mutker/ryzenctl/internal/state"
	"github.com/spf13/cobra"
)

func init() {
	flags := presetCmd.Flags()
	flags.String("custom", "", "Persist a custom RyzenAdj argument string")
	flags.Bool("dynamic", false, "Persist dynamic mode (Extreme on AC, Eco on battery)")
	flags.Bool("reapply", false, "Reapply the preset on an interval")
	flags.Int("interval", 0, "Reapply interval in seconds")
	flags.Bool("apply-on-start", true, "Apply the saved preset when run starts")
	rootCmd.AddCommand(presetCmd)
}

var presetCmd = &cobra.Command{
	Use:   "preset [NAME]",
	Short: "Select and save a preset, custom arguments or dynamic mode",
	Long: `Select and save the preset applied by run and apply.

A named preset (Eco, Balance, Performance, Extreme) or --custom disables
dynamic mode. --dynamic selects Balance with dynamic mode and reapply on.
Without arguments the saved selection is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runPreset),
}

// selection is a preset choice from command line flags.
type selection struct {
	name    string
	custom  string
	dynamic bool
}

func (s selection) empty() bool {
	return s.name == "" && s.custom == "" && !s.dynamic
}

func (s selection) validate() error {
	n := 0
	for _, set := range []bool{s.name != "", s.custom != "", s.dynamic} {
		if set {
			n++
		}
	}
	if n > 1 {
		return errors.New().WithMessage(errors.ErrInvalidArgument,
			"choose one of a preset name, --custom or --dynamic")
	}

	return nil
}

// apply validates s against group and updates a.
func (s selection) apply(group preset.Group, a *state.Applied) error {
	switch {
	case s.dynamic:
		for _, required := range []string{preset.Eco, preset.Extreme} {
			if _, ok := group.Lookup(required); !ok {
				return errors.New().WithData(errors.ErrUnresolvedPreset, string(group.ID)+"/"+required)
			}
		}
		a.SelectDynamic()
	case s.custom != "":
		a.SelectCustom(s.custom)
	case s.name != "":
		name, err := canonicalPreset(group, s.name)
		if err != nil {
			return err
		}
		a.SelectPreset(name)
	}

	return nil
}

func selectionFromFlags(cmd *cobra.Command, args []string) (selection, error) {
	var s selection
	if len(args) > 0 {
		s.name = args[0]
	}
	s.custom, _ = cmd.Flags().GetString("custom")
	s.dynamic, _ = cmd.Flags().GetBool("dynamic")

	if s.name == preset.Custom {
		return s, errors.New().WithMessage(errors.ErrInvalidArgument, "use --custom to set custom arguments")
	}

	return s, s.validate()
}

func runPreset(cmd *cobra.Command, a *app, args []string) error {
	ctx := cmd.Context()

	sel, err := selectionFromFlags(cmd, args)
	if err != nil {
		return err
	}

	applied, err := a.applied(ctx)
	if err != nil {
		return err
	}

	if !sel.empty() {
		profile, err := a.profile(ctx)
		if err != nil {
			return err
		}
		group, err := a.group(profile)
		if err != nil {
			return err
		}
		if err := sel.apply(group, &applied); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("reapply") {
		applied.AutoReapply, _ = flags.GetBool("reapply")
	}
	if flags.Changed("interval") {
		applied.IntervalSeconds, _ = flags.GetInt("interval")
		if applied.IntervalSeconds < 1 {
			return errors.New().WithData(errors.ErrInvalidInterval, applied.IntervalSeconds)
		}
	}
	if flags.Changed("apply-on-start") {
		applied.ApplyOnStart, _ = flags.GetBool("apply-on-start")
	}

	changed := !sel.empty() || flags.Changed("reapply") || flags.Changed("interval") || flags.Changed("apply-on-start")
	if changed {
		if err := a.store.SaveApplied(ctx, applied); err != nil {
			return err
		}
		logger.Info().Str("preset", applied.Preset).Bool("dynamic", applied.DynamicMode).Msg("Preset saved")
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, applied)
	}
	if changed {
		fmt.Fprintln(w, "Saved:")
	}

	return printApplied(w, applied)
}
