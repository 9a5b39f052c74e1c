package cli

import (
	"context"
	"strings"
	"time"

	"codeberg.org/mutker/ryzenctl/internal/config"
	"codeberg.org/mutker/ryzenctl/internal/cpu"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/gate"
	"codeberg.org/mutker/ryzenctl/internal/hardware"
	"codeberg.org/mutker/ryzenctl/internal/logger"
	"codeberg.org/mutker/ryzenctl/internal/preset"
	"codeberg.org/mutker/ryzenctl/internal/ryzenadj"
	"codeberg.org/mutker/ryzenctl/internal/state"
	"codeberg.org/mutker/ryzenctl/internal/sysexec"
)

// sudoPasswordEnv is read at each elevated invocation.
const sudoPasswordEnv = config.DefaultEnvPrefix + "_SUDO_PASSWORD"

// app holds the dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	runner   *sysexec.Runner
	store    *state.Store
	resolver *preset.Resolver
}

func newApp(c *config.Config) (*app, error) {
	catalog, err := preset.LoadCatalog(c.CatalogPath)
	if err != nil {
		return nil, err
	}

	store, err := state.Open(c.StateDBPath(), logger.Default().With("state"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      c,
		runner:   newRunner(c),
		store:    store,
		resolver: preset.NewResolver(catalog),
	}, nil
}

func newRunner(c *config.Config) *sysexec.Runner {
	return sysexec.NewRunner(sysexec.WithCredentials(credentials(c)))
}

// credentials prefers the environment so the secret is read per invocation;
// a configured sudo_password is only a fallback and is dropped from cfg.
func credentials(c *config.Config) sysexec.CredentialSource {
	static := sysexec.StaticCredential(c.SudoPassword)
	c.SudoPassword = ""
	env := sysexec.EnvCredential(sudoPasswordEnv)

	return sysexec.CredentialFunc(func(ctx context.Context) (sysexec.Credential, error) {
		cred, err := env.Credential(ctx)
		if err != nil || cred != nil || static == nil {
			return cred, err
		}
		return static.Credential(ctx)
	})
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close state store")
	}
}

// detect collects hardware info, classifies it and persists the profile.
func (a *app) detect(ctx context.Context) (state.Profile, error) {
	inventory := hardware.NewInventory(a.runner, a.cfg.DmidecodePath)

	info, err := inventory.Collect(ctx)
	if err != nil {
		return state.Profile{}, err
	}

	sig, err := cpu.ParseSignature(info.Signature, info.Vendor)
	if err != nil {
		return state.Profile{}, err
	}

	classification := cpu.Classify(sig, info.ModelName)
	logger.Info().
		Str("model", info.ModelName).
		Str("signature", sig.String()).
		Str("architecture", classification.Architecture).
		Str("codename", classification.Codename.String()).
		Str("category", string(classification.Category)).
		Msg("Processor classified")

	profile := state.Profile{
		Hardware:       info,
		Classification: classification,
		DetectedAt:     time.Now().UTC(),
	}

	if classification.Category != cpu.CategoryIntel {
		group, err := a.resolver.Resolve(classification, info.ModelName)
		if err != nil {
			return state.Profile{}, err
		}
		profile.Group = group.ID
	}

	if err := a.store.SaveProfile(ctx, profile); err != nil {
		return state.Profile{}, err
	}

	return profile, nil
}

// profile returns the stored profile, detecting the processor first if
// nothing has been stored yet.
func (a *app) profile(ctx context.Context) (state.Profile, error) {
	profile, err := a.store.LoadProfile(ctx)
	if errors.HasCode(err, errors.ErrStateNotFound) {
		logger.Info().Msg("No stored classification, detecting processor")
		return a.detect(ctx)
	}

	return profile, err
}

// group returns the preset group for profile. A group missing from the
// catalog, for example after a catalog override changed, is resolved again.
func (a *app) group(profile state.Profile) (preset.Group, error) {
	if isIntel(profile) {
		return preset.Group{}, errors.New().WithMessage(errors.ErrUnsupportedPlatform,
			"Intel processors are not supported by RyzenAdj")
	}

	if group, ok := a.resolver.Catalog().Group(profile.Group); ok {
		return group, nil
	}

	return a.resolver.Resolve(profile.Classification, profile.Hardware.ModelName)
}

func isIntel(profile state.Profile) bool {
	return profile.Classification.Category == cpu.CategoryIntel
}

// applyGroup is group for apply requests. Intel profiles get an empty group
// so the controller reports the block after gating.
func (a *app) applyGroup(profile state.Profile) (preset.Group, error) {
	if isIntel(profile) {
		return preset.Group{}, nil
	}

	return a.group(profile)
}

// applied returns the persisted AppliedState, or one built from the config
// when nothing has been saved.
func (a *app) applied(ctx context.Context) (state.Applied, error) {
	fallback := state.DefaultApplied()
	fallback.IntervalSeconds = a.cfg.Interval
	fallback.AutoReapply = a.cfg.Reapply
	fallback.ApplyOnStart = a.cfg.ApplyOnStart
	if a.cfg.Dynamic {
		fallback.SelectDynamic()
	}

	return a.store.LoadAppliedOr(ctx, fallback)
}

func (a *app) utility() (*ryzenadj.Utility, error) {
	path, err := ryzenadj.Locate(a.cfg.RyzenAdjPath, a.cfg.BinDir())
	if err != nil {
		return nil, err
	}

	return ryzenadj.New(path, a.runner), nil
}

func (a *app) gate() *gate.Gate {
	return gate.New(gate.NewBootConfig(a.runner), a.cfg.BootFlag, a.cfg.RequiredPolicy)
}

// canonicalPreset matches name case-insensitively against the group's presets.
func canonicalPreset(group preset.Group, name string) (string, error) {
	for _, candidate := range group.Names() {
		if strings.EqualFold(candidate, name) {
			return candidate, nil
		}
	}

	return "", errors.New().WithData(errors.ErrUnresolvedPreset, string(group.ID)+"/"+name)
}
