// Package gate decides whether the system is prepared for RyzenAdj: the
// required boot argument is active and the protection policy matches.
package gate

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/errors"
)

// BootConfig exposes the active boot configuration. Implementations must be
// read-only.
type BootConfig interface {
	BootArgs(ctx context.Context) (string, error)
	ProtectionPolicy(ctx context.Context) (string, error)
}

// Report is the outcome of a readiness check.
type Report struct {
	Ready           bool   `json:"ready"`
	BootFlagPresent bool   `json:"boot_flag_present"`
	PolicyMatches   bool   `json:"policy_matches"`
	BootArgs        string `json:"boot_args,omitempty"`
	Policy          string `json:"policy,omitempty"`
	Err             error  `json:"-"`
}

// AsError converts a not-ready report into a not_ready error carrying an
// operator-facing explanation. It returns nil when the report is ready.
func (r Report) AsError() error {
	if r.Ready {
		return nil
	}

	errFactory := errors.New()

	var reasons []string
	if !r.BootFlagPresent {
		reasons = append(reasons, "required boot argument is not active")
	}
	if !r.PolicyMatches {
		reasons = append(reasons, "protection policy does not match")
	}
	msg := "System is not ready for RyzenAdj: " + strings.Join(reasons, ", ")

	if r.Err != nil {
		return errFactory.Wrap(errors.ErrNotReady, r.Err).WithMessage(msg)
	}

	return errFactory.WithMessage(errors.ErrNotReady, msg)
}

type Gate struct {
	boot           BootConfig
	bootFlag       string
	requiredPolicy string
}

// New returns a gate requiring bootFlag and requiredPolicy. An empty
// requirement is not checked.
func New(boot BootConfig, bootFlag, requiredPolicy string) *Gate {
	return &Gate{
		boot:           boot,
		bootFlag:       strings.TrimSpace(bootFlag),
		requiredPolicy: strings.TrimSpace(requiredPolicy),
	}
}

// Check queries both signals. Query failures make the report not ready and
// are returned in Report.Err.
func (g *Gate) Check(ctx context.Context) Report {
	report := Report{BootFlagPresent: true, PolicyMatches: true}

	if g.bootFlag != "" {
		args, err := g.boot.BootArgs(ctx)
		if err != nil {
			report.BootFlagPresent = false
			report.Err = fmt.Errorf("reading boot arguments: %w", err)
		} else {
			report.BootArgs = args
			report.BootFlagPresent = HasBootFlag(args, g.bootFlag)
		}
	}

	if g.requiredPolicy != "" {
		policy, err := g.boot.ProtectionPolicy(ctx)
		if err != nil {
			report.PolicyMatches = false
			if report.Err == nil {
				report.Err = fmt.Errorf("reading protection policy: %w", err)
			}
		} else {
			report.Policy = policy
			report.PolicyMatches = PolicyMatches(policy, g.requiredPolicy)
		}
	}

	report.Ready = report.BootFlagPresent && report.PolicyMatches

	return report
}

// HasBootFlag reports whether flag is one of the whitespace separated
// arguments in bootArgs.
func HasBootFlag(bootArgs, flag string) bool {
	for _, arg := range strings.Fields(bootArgs) {
		if arg == flag {
			return true
		}
	}

	return false
}

// PolicyMatches reports whether required occurs in observed, ignoring case and
// the percent signs nvram uses to escape raw bytes.
func PolicyMatches(observed, required string) bool {
	cleaned := strings.ReplaceAll(observed, "%", "")

	return strings.Contains(strings.ToLower(cleaned), strings.ToLower(required))
}
