package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the boot configuration allows RyzenAdj",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a := &app{cfg: cfg, runner: newRunner(cfg)}
	report := a.gate().Check(cmd.Context())

	w := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(w, report); err != nil {
			return err
		}
		return report.AsError()
	}

	t := newTable(w)
	if cfg.BootFlag != "" {
		fmt.Fprintf(t, "Boot flag %s:\t%s\n", cfg.BootFlag, yesNo(report.BootFlagPresent))
	}
	if cfg.RequiredPolicy != "" {
		fmt.Fprintf(t, "Protection policy %s:\t%s\n", cfg.RequiredPolicy, yesNo(report.PolicyMatches))
	}
	fmt.Fprintf(t, "Ready:\t%s\n", yesNo(report.Ready))
	if err := t.Flush(); err != nil {
		return err
	}

	return report.AsError()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
