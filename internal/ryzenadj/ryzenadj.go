// Package ryzenadj wraps the RyzenAdj command line utility.
package ryzenadj

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/sysexec"
)

const binaryName = "ryzenadj"

// Locate returns the RyzenAdj binary to use. It checks the configured path,
// then <binDir>/ryzenadj, then PATH.
func Locate(configured, binDir string) (string, error) {
	if configured != "" {
		if isExecutable(configured) {
			return configured, nil
		}
		return "", errors.New().WithData(errors.ErrUtilityNotFound, configured)
	}

	if binDir != "" {
		candidate := filepath.Join(binDir, binaryName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := sysexec.LookPath(binaryName); err == nil {
		return path, nil
	}

	return "", errors.New().WithMessage(errors.ErrUtilityNotFound,
		"RyzenAdj not found: set ryzenadj in the configuration or install it into "+binDir)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	return info.Mode()&0o111 != 0
}

// Utility invokes RyzenAdj with elevated privileges.
type Utility struct {
	path string
	exec sysexec.Executor
}

func New(path string, exec sysexec.Executor) *Utility {
	return &Utility{path: path, exec: exec}
}

// Path returns the binary the utility runs.
func (u *Utility) Path() string {
	return u.path
}

// Apply runs RyzenAdj with args. A non-zero exit yields an
// utility_invocation_failed error; the captured result is returned either way.
func (u *Utility) Apply(ctx context.Context, args []string) (sysexec.Result, error) {
	res, err := u.exec.Run(ctx, sysexec.Command{
		Name:     u.path,
		Args:     args,
		Elevated: true,
	})

	logOutput(res)

	if err != nil {
		return res, errors.New().Wrap(errors.ErrUtilityInvocationFailed, err)
	}
	if res.ExitCode != 0 {
		return res, errors.New().WithData(errors.ErrUtilityInvocationFailed, res)
	}

	return res, nil
}

func logOutput(res sysexec.Result) {
	for _, line := range nonEmptyLines(res.Stdout) {
		logger.Info().Str("stream", "stdout").Msg(line)
	}
	for _, line := range nonEmptyLines(res.Stderr) {
		logger.Debug().Str("stream", "stderr").Msg(line)
	}
}

const smuVersionLabel = "SMU BIOS Interface Version"

// SMUInterfaceVersion runs "ryzenadj -i" and returns the reported SMU BIOS
// interface version, or "" when the output does not carry one.
func (u *Utility) SMUInterfaceVersion(ctx context.Context) (string, error) {
	res, err := u.exec.Run(ctx, sysexec.Command{
		Name:     u.path,
		Args:     []string{"-i"},
		Elevated: true,
	})
	if err != nil {
		return "", errors.New().Wrap(errors.ErrUtilityInvocationFailed, err)
	}
	if res.ExitCode != 0 {
		return "", errors.New().WithData(errors.ErrUtilityInvocationFailed, res)
	}

	return ParseSMUVersion(res.Stdout), nil
}

// ParseSMUVersion extracts the SMU BIOS interface version from "ryzenadj -i"
// output.
func ParseSMUVersion(output string) string {
	for _, line := range nonEmptyLines(output) {
		label, value, ok := strings.Cut(line, ":")
		if ok && strings.TrimSpace(label) == smuVersionLabel {
			return strings.TrimSpace(value)
		}
	}

	return ""
}

func nonEmptyLines(s string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
