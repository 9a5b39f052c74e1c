package gate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/sysexec"
)

// NVRAM reads boot arguments and the SIP policy with the macOS nvram tool.
type NVRAM struct {
	exec sysexec.Executor
}

func NewNVRAM(exec sysexec.Executor) *NVRAM {
	return &NVRAM{exec: exec}
}

func (n *NVRAM) BootArgs(ctx context.Context) (string, error) {
	return n.read(ctx, "boot-args")
}

func (n *NVRAM) ProtectionPolicy(ctx context.Context) (string, error) {
	return n.read(ctx, "csr-active-config")
}

func (n *NVRAM) read(ctx context.Context, variable string) (string, error) {
	res, err := n.exec.Run(ctx, sysexec.Command{Name: "nvram", Args: []string{variable}})
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("nvram %s: %s", variable, strings.TrimSpace(res.Stderr))
	}

	// Output is "<variable>\t<value>".
	out := strings.TrimSpace(res.Stdout)
	value := strings.TrimSpace(strings.TrimPrefix(out, variable))

	return value, nil
}

const procCmdline = "/proc/cmdline"

// KernelCmdline reads boot arguments from the running Linux kernel. It has no
// protection policy.
type KernelCmdline struct {
	Path string
}

func (k KernelCmdline) BootArgs(context.Context) (string, error) {
	path := k.Path
	if path == "" {
		path = procCmdline
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

func (KernelCmdline) ProtectionPolicy(context.Context) (string, error) {
	return "", fmt.Errorf("no protection policy on this platform")
}
