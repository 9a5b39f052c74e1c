package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"codeberg.org/mutker/ryzenctl/internal/state"
	"github.com/spf13/cobra"
)

// withApp opens the shared dependencies for the duration of fn.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(cmd, a, args)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printProfile(w io.Writer, p state.Profile) error {
	t := newTable(w)
	hw := p.Hardware
	c := p.Classification

	fmt.Fprintf(t, "Processor:\t%s\n", hw.ModelName)
	fmt.Fprintf(t, "Vendor:\t%s\n", hw.Vendor)
	fmt.Fprintf(t, "Signature:\t%s\n", hw.Signature)
	fmt.Fprintf(t, "Architecture:\t%s\n", c.Architecture)
	fmt.Fprintf(t, "Codename:\t%s\n", c.Codename)
	fmt.Fprintf(t, "Category:\t%s\n", c.Category)
	if p.Group != "" {
		fmt.Fprintf(t, "Preset group:\t%s\n", p.Group)
	}
	fmt.Fprintf(t, "Detected:\t%s\n", p.DetectedAt.Local().Format("2006-01-02 15:04"))

	return t.Flush()
}

func printApplied(w io.Writer, a state.Applied) error {
	t := newTable(w)

	name := a.Preset
	if a.IsCustom() {
		name = fmt.Sprintf("Custom (%s)", a.CustomArgs)
	}
	fmt.Fprintf(t, "Preset:\t%s\n", name)
	fmt.Fprintf(t, "Dynamic mode:\t%s\n", onOff(a.DynamicMode))
	fmt.Fprintf(t, "Auto reapply:\t%s\n", onOff(a.AutoReapply))
	fmt.Fprintf(t, "Apply on start:\t%s\n", onOff(a.ApplyOnStart))
	fmt.Fprintf(t, "Interval:\t%ds\n", a.IntervalSeconds)

	return t.Flush()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
