//go:build darwin

package config

// RyzenAdj on macOS needs the debug boot argument and a relaxed SIP policy.
const (
	DefaultBootFlag       = "debug=0x144"
	DefaultRequiredPolicy = "03080000"
)
