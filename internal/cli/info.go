package cli

import (
	"fmt"

	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/state"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the stored hardware profile and SMU interface version",
	Args:  cobra.NoArgs,
	RunE:  withApp(runInfo),
}

type infoOutput struct {
	Profile      state.Profile `json:"profile"`
	CoreCount    int           `json:"core_count"`
	ThreadCount  int           `json:"thread_count"`
	Voltage      string        `json:"voltage,omitempty"`
	MaxSpeed     string        `json:"max_speed,omitempty"`
	CurrentSpeed string        `json:"current_speed,omitempty"`
	SMUVersion   string        `json:"smu_version,omitempty"`
	RyzenAdj     string        `json:"ryzenadj,omitempty"`
}

func runInfo(cmd *cobra.Command, a *app, _ []string) error {
	ctx := cmd.Context()

	profile, err := a.profile(ctx)
	if err != nil {
		return err
	}

	hw := profile.Hardware
	out := infoOutput{
		Profile:      profile,
		CoreCount:    hw.CoreCount,
		ThreadCount:  hw.ThreadCount,
		Voltage:      hw.Voltage,
		MaxSpeed:     hw.MaxSpeed,
		CurrentSpeed: hw.CurrentSpeed,
	}

	// The SMU version is informational; a missing RyzenAdj is not an error here.
	if utility, err := a.utility(); err != nil {
		logger.Debug().Err(err).Msg("RyzenAdj unavailable")
	} else {
		out.RyzenAdj = utility.Path()
		if version, err := utility.SMUInterfaceVersion(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to read SMU interface version")
		} else {
			out.SMUVersion = version
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, out)
	}

	if err := printProfile(w, profile); err != nil {
		return err
	}

	t := newTable(w)
	fmt.Fprintf(t, "Cores:\t%d (%d enabled)\n", hw.CoreCount, hw.CoreEnabled)
	fmt.Fprintf(t, "Threads:\t%d\n", hw.ThreadCount)
	if hw.Voltage != "" {
		fmt.Fprintf(t, "Voltage:\t%s\n", hw.Voltage)
	}
	if hw.MaxSpeed != "" {
		fmt.Fprintf(t, "Max speed:\t%s\n", hw.MaxSpeed)
	}
	if hw.CurrentSpeed != "" {
		fmt.Fprintf(t, "Current speed:\t%s\n", hw.CurrentSpeed)
	}
	if out.SMUVersion != "" {
		fmt.Fprintf(t, "SMU interface:\t%s\n", out.SMUVersion)
	}
	if out.RyzenAdj != "" {
		fmt.Fprintf(t, "RyzenAdj:\t%s\n", out.RyzenAdj)
	}

	return t.Flush()
}
