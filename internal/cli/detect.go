package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect and classify the processor and store the result",
	Args:  cobra.NoArgs,
	RunE:  withApp(runDetect),
}

func runDetect(cmd *cobra.Command, a *app, _ []string) error {
	profile, err := a.detect(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), profile)
	}

	return printProfile(cmd.OutOrStdout(), profile)
}
