//go:build !darwin

package config

// No boot requirement by default. Linux users typically set boot_flag to
// "iomem=relaxed".
const (
	DefaultBootFlag       = ""
	DefaultRequiredPolicy = ""
)
