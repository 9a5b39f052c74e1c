//go:build darwin

package power

import "codeberg.org/mutker/ryzenctl/internal/sysexec"

// NewSampler returns the sampler for the running platform.
func NewSampler(exec sysexec.Executor) Sampler {
	return NewPmsetSampler(exec)
}
