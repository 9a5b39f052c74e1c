//go:build darwin

package gate

import "codeberg.org/mutker/ryzenctl/internal/sysexec"

// NewBootConfig returns the boot configuration reader for the running platform.
func NewBootConfig(exec sysexec.Executor) BootConfig {
	return NewNVRAM(exec)
}
