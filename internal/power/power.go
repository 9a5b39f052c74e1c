// Package power reports whether the machine currently runs on AC or battery.
package power

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/sysexec"
)

type Source int

const (
	Unknown Source = iota
	OnACPower
	OnBatteryPower
)

func (s Source) String() string {
	switch s {
	case OnACPower:
		return "ac"
	case OnBatteryPower:
		return "battery"
	default:
		return "unknown"
	}
}

// Sampler samples the current power source.
type Sampler interface {
	Source(ctx context.Context) (Source, error)
}

// PmsetSampler reads "pmset -g batt".
type PmsetSampler struct {
	exec sysexec.Executor
}

func NewPmsetSampler(exec sysexec.Executor) *PmsetSampler {
	return &PmsetSampler{exec: exec}
}

func (p *PmsetSampler) Source(ctx context.Context) (Source, error) {
	res, err := p.exec.Run(ctx, sysexec.Command{Name: "pmset", Args: []string{"-g", "batt"}})
	if err != nil {
		return Unknown, err
	}

	return ParsePmset(res.Stdout), nil
}

// ParsePmset maps the "Now drawing from" line of pmset output.
func ParsePmset(output string) Source {
	switch {
	case strings.Contains(output, "AC Power"):
		return OnACPower
	case strings.Contains(output, "Battery Power"):
		return OnBatteryPower
	default:
		return Unknown
	}
}

const DefaultSysfsRoot = "/sys/class/power_supply"

// SysfsSampler reads the Linux power_supply class.
type SysfsSampler struct {
	Root string
}

func NewSysfsSampler() *SysfsSampler {
	return &SysfsSampler{Root: DefaultSysfsRoot}
}

func (p *SysfsSampler) Source(context.Context) (Source, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return Unknown, err
	}

	var sawMains, sawBattery, discharging bool
	for _, entry := range entries {
		dir := filepath.Join(p.Root, entry.Name())

		switch readAttr(dir, "type") {
		case "Mains", "USB":
			sawMains = true
			if readAttr(dir, "online") == "1" {
				return OnACPower, nil
			}
		case "Battery":
			sawBattery = true
			if readAttr(dir, "status") == "Discharging" {
				discharging = true
			}
		}
	}

	switch {
	case discharging:
		return OnBatteryPower, nil
	case sawMains && sawBattery:
		return OnBatteryPower, nil
	default:
		return Unknown, nil
	}
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

// Fixed always reports the same source.
type Fixed Source

func (f Fixed) Source(context.Context) (Source, error) {
	return Source(f), nil
}
