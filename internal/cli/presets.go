package cli

import (
	"fmt"

	"codeberg.org/mutker/ryzenctl/internal/preset"
	"github.com/spf13/cobra"
)

func init() {
	presetsCmd.Flags().Bool("all", false, "List every group in the catalog")
	rootCmd.AddCommand(presetsCmd)
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets of the detected preset group",
	Args:  cobra.NoArgs,
	RunE:  withApp(runPresets),
}

func runPresets(cmd *cobra.Command, a *app, _ []string) error {
	all, _ := cmd.Flags().GetBool("all")

	var groups []preset.Group
	if all {
		groups = a.resolver.Catalog().Groups()
	} else {
		profile, err := a.profile(cmd.Context())
		if err != nil {
			return err
		}
		group, err := a.group(profile)
		if err != nil {
			return err
		}
		groups = []preset.Group{group}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, groups)
	}

	t := newTable(w)
	fmt.Fprintln(t, "GROUP\tPRESET\tARGUMENTS")
	for _, g := range groups {
		for _, p := range g.Presets {
			fmt.Fprintf(t, "%s\t%s\t%s\n", g.ID, p.Name, p.Args)
		}
	}

	return t.Flush()
}
