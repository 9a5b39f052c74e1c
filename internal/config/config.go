package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "RYZENCTL"
	DefaultInterval  = 30
	DefaultLogLevel  = string(LogLevelInfo)
	SystemDataDir    = "/var/lib/ryzenctl"

	configName = "ryzenctl"
	configEnv  = "RYZENCTL_CONFIG"
)

type flagSet interface {
	VisitAll(fn func(*pflag.Flag))
}

type Config struct {
	Interval       int    `mapstructure:"interval"`
	Reapply        bool   `mapstructure:"reapply"`
	Dynamic        bool   `mapstructure:"dynamic"`
	ApplyOnStart   bool   `mapstructure:"apply_on_start"`
	LogLevel       string `mapstructure:"log_level"`
	BootFlag       string `mapstructure:"boot_flag"`
	RequiredPolicy string `mapstructure:"required_policy"`
	RyzenAdjPath   string `mapstructure:"ryzenadj"`
	DmidecodePath  string `mapstructure:"dmidecode"`
	DataDir        string `mapstructure:"data_dir"`
	CatalogPath    string `mapstructure:"catalog"`
	Telemetry      bool   `mapstructure:"telemetry"`
	Listen         string `mapstructure:"listen"`
	SudoPassword   string `mapstructure:"sudo_password"`
}

func defaults() map[string]any {
	return map[string]any{
		"interval":        DefaultInterval,
		"reapply":         false,
		"dynamic":         false,
		"apply_on_start":  true,
		"log_level":       DefaultLogLevel,
		"boot_flag":       DefaultBootFlag,
		"required_policy": DefaultRequiredPolicy,
		"ryzenadj":        "",
		"dmidecode":       "",
		"data_dir":        DefaultDataDir(),
		"catalog":         "",
		"telemetry":       false,
		"listen":          "",
		"sudo_password":   "",
	}
}

// Load merges defaults, the config file, environment variables and flags.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{
		envPrefix:   DefaultEnvPrefix,
		configPath:  os.Getenv(configEnv),
		searchPaths: defaultSearchPaths(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if o.configPath != "" {
		v.SetConfigFile(o.configPath)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		for _, path := range o.searchPaths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if o.flags != nil {
		var bindErr error
		o.flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults()[key]; !known {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, bindErr)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval < 1 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.DataDir == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "data_dir must not be empty")
	}

	return nil
}

// StateDBPath returns the SQLite file holding classification and applied state.
func (c *Config) StateDBPath() string {
	return filepath.Join(c.DataDir, "state.db")
}

// TelemetryDBPath returns the SQLite file holding apply cycle history.
func (c *Config) TelemetryDBPath() string {
	return filepath.Join(c.DataDir, "telemetry.db")
}

// BinDir is searched for bundled helper binaries.
func (c *Config) BinDir() string {
	return filepath.Join(c.DataDir, "bin")
}

// DefaultDataDir is SystemDataDir for root and the per-user config
// directory otherwise.
func DefaultDataDir() string {
	return DataDirFor(os.Geteuid() == 0)
}

// DataDirFor returns the default data directory for a root or non-root user.
func DataDirFor(isRoot bool) string {
	if isRoot {
		return SystemDataDir
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return SystemDataDir
	}

	return filepath.Join(dir, configName)
}

func defaultSearchPaths() []string {
	paths := []string{"/etc"}

	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, configName))
	}

	return paths
}
