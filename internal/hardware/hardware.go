// Package hardware collects the processor inventory that classification
// starts from.
package hardware

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/sysexec"
	"github.com/cenkalti/backoff/v4"
)

const (
	SourceDmidecode = "dmidecode"
	SourceCPUID     = "cpuid"

	maxRetries = 3
)

// Info is the processor inventory as plain strings and counts.
type Info struct {
	ModelName    string `json:"model_name"`
	Vendor       string `json:"vendor"`
	Signature    string `json:"signature"`
	Voltage      string `json:"voltage"`
	MaxSpeed     string `json:"max_speed"`
	CurrentSpeed string `json:"current_speed"`
	CoreCount    int    `json:"core_count"`
	CoreEnabled  int    `json:"core_enabled"`
	ThreadCount  int    `json:"thread_count"`
	Source       string `json:"source"`
}

type Option func(*Inventory)

// WithFallback replaces the inventory used when dmidecode is unavailable.
func WithFallback(fn func(ctx context.Context) (Info, error)) Option {
	return func(i *Inventory) {
		i.fallback = fn
	}
}

// WithRetryInterval sets the initial backoff between dmidecode attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(i *Inventory) {
		i.retryInterval = d
	}
}

type Inventory struct {
	exec          sysexec.Executor
	dmidecode     string
	fallback      func(ctx context.Context) (Info, error)
	retryInterval time.Duration
}

func NewInventory(exec sysexec.Executor, dmidecodePath string, opts ...Option) *Inventory {
	if dmidecodePath == "" {
		dmidecodePath = "dmidecode"
	}

	i := &Inventory{
		exec:          exec,
		dmidecode:     dmidecodePath,
		fallback:      FromHost,
		retryInterval: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Collect returns the processor inventory from dmidecode, falling back to
// CPUID data when dmidecode cannot be run or parsed.
func (i *Inventory) Collect(ctx context.Context) (Info, error) {
	info, err := i.fromDmidecode(ctx)
	if err == nil {
		return info, nil
	}

	logger.Warn().Err(err).Msg("dmidecode unavailable, falling back to CPUID")

	info, fbErr := i.fallback(ctx)
	if fbErr != nil {
		return Info{}, errors.New().Wrap(errors.ErrInventoryFailed,
			fmt.Errorf("dmidecode: %w; cpuid: %w", err, fbErr))
	}

	return info, nil
}

func (i *Inventory) fromDmidecode(ctx context.Context) (Info, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = i.retryInterval

	var info Info
	operation := func() error {
		res, err := i.exec.Run(ctx, sysexec.Command{
			Name:     i.dmidecode,
			Args:     []string{"-t", "processor"},
			Elevated: true,
		})
		if err != nil {
			return backoff.Permanent(err)
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("dmidecode exited with %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
		}

		parsed, err := ParseDmidecode(res.Stdout)
		if err != nil {
			return backoff.Permanent(err)
		}
		info = parsed

		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Debug().Err(err).Dur("retry_in", wait).Msg("dmidecode failed")
	}

	err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx), notify)

	return info, err
}

var dmidecodeFields = map[string]func(*Info, string){
	"Version":       func(i *Info, v string) { i.ModelName = v },
	"Manufacturer":  func(i *Info, v string) { i.Vendor = v },
	"Signature":     func(i *Info, v string) { i.Signature = v },
	"Voltage":       func(i *Info, v string) { i.Voltage = v },
	"Max Speed":     func(i *Info, v string) { i.MaxSpeed = v },
	"Current Speed": func(i *Info, v string) { i.CurrentSpeed = v },
	"Core Count":    func(i *Info, v string) { i.CoreCount = atoi(v) },
	"Core Enabled":  func(i *Info, v string) { i.CoreEnabled = atoi(v) },
	"Thread Count":  func(i *Info, v string) { i.ThreadCount = atoi(v) },
}

// ParseDmidecode reads the first "Processor Information" block of
// "dmidecode -t processor" output.
func ParseDmidecode(output string) (Info, error) {
	info := Info{Source: SourceDmidecode}

	inBlock := false
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "Processor Information" {
			if inBlock {
				break
			}
			inBlock = true
			continue
		}
		if !inBlock || !strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "\t\t") {
			continue
		}

		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		if set, known := dmidecodeFields[key]; known {
			set(&info, strings.TrimSpace(value))
		}
	}

	if info.ModelName == "" || info.Signature == "" {
		return Info{}, errors.New().WithMessage(errors.ErrInventoryFailed,
			"dmidecode output has no processor version or signature")
	}

	return info, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}
