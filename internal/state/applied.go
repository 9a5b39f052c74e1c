package state

import (
	"codeberg.org/mutker/ryzenctl/internal/preset"
)

const DefaultInterval = 30

// Applied is the live control state: which preset to apply and how often.
type Applied struct {
	Preset          string `json:"preset"`
	CustomArgs      string `json:"custom_args,omitempty"`
	DynamicMode     bool   `json:"dynamic_mode"`
	AutoReapply     bool   `json:"auto_reapply"`
	ApplyOnStart    bool   `json:"apply_on_start"`
	IntervalSeconds int    `json:"interval_seconds"`
}

// DefaultApplied is used until the operator picks a preset.
func DefaultApplied() Applied {
	return Applied{
		Preset:          preset.Balance,
		ApplyOnStart:    true,
		IntervalSeconds: DefaultInterval,
	}
}

// Normalize repairs values that cannot drive a loop.
func (a *Applied) Normalize() {
	if a.IntervalSeconds < 1 {
		a.IntervalSeconds = DefaultInterval
	}
	if a.Preset == "" {
		a.Preset = preset.Balance
	}
	if a.Preset != preset.Custom {
		a.CustomArgs = ""
	}
}

// SelectPreset switches to a named preset and leaves dynamic mode.
func (a *Applied) SelectPreset(name string) {
	a.Preset = name
	a.CustomArgs = ""
	a.DynamicMode = false
}

// SelectCustom switches to a literal argument string and leaves dynamic mode.
func (a *Applied) SelectCustom(args string) {
	a.Preset = preset.Custom
	a.CustomArgs = args
	a.DynamicMode = false
}

// SelectDynamic lets the power source pick the preset. Dynamic mode only
// makes sense in a loop, so reapply is switched on.
func (a *Applied) SelectDynamic() {
	a.Preset = preset.Balance
	a.CustomArgs = ""
	a.DynamicMode = true
	a.AutoReapply = true
}

// IsCustom reports whether the literal argument string is selected.
func (a Applied) IsCustom() bool {
	return a.Preset == preset.Custom
}
