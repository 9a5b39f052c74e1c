//go:build linux

package power

import "codeberg.org/mutker/ryzenctl/internal/sysexec"

// NewSampler returns the sampler for the running platform.
func NewSampler(sysexec.Executor) Sampler {
	return NewSysfsSampler()
}
