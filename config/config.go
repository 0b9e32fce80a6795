// Package config loads the ioplus utility configuration. Built-in defaults are overridden by an
// optional YAML file, and the file by IOPLUS_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"go.viam.com/ioplus/utils"
)

// EnvPrefix prefixes every environment variable override, e.g. IOPLUS_BUS=3.
const EnvPrefix = "IOPLUS"

// Config is the utility configuration.
type Config struct {
	// Bus is the periph.io I2C bus name, "1" for /dev/i2c-1.
	Bus string `mapstructure:"bus"`
	// LockFile serializes bus access between ioplus processes.
	LockFile string `mapstructure:"lock_file"`

	StableReadDelay  time.Duration `mapstructure:"stable_read_delay"`
	VerifyDelay      time.Duration `mapstructure:"verify_delay"`
	CalibrationDelay time.Duration `mapstructure:"calibration_delay"`

	Debug bool `mapstructure:"debug"`
	// LogFile additionally writes JSON logs to a rotated file when set.
	LogFile string `mapstructure:"log_file"`
}

// DefaultLockFile returns the lock file used when none is configured.
func DefaultLockFile() string {
	return filepath.Join(os.TempDir(), "ioplus.lock")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bus", "1")
	v.SetDefault("lock_file", DefaultLockFile())
	v.SetDefault("stable_read_delay", "0s")
	v.SetDefault("verify_delay", "10ms")
	v.SetDefault("calibration_delay", "100ms")
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")
}

// Load reads the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %q", path)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	source := path
	if source == "" {
		source = "config"
	}
	if err := cfg.Validate(source); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	if c.Bus == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "bus")
	}
	if c.LockFile == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "lock_file")
	}
	for field, d := range map[string]time.Duration{
		"stable_read_delay": c.StableReadDelay,
		"verify_delay":      c.VerifyDelay,
		"calibration_delay": c.CalibrationDelay,
	} {
		if d < 0 {
			return utils.NewConfigValidationError(path, errors.Errorf("%q must not be negative, got %s", field, d))
		}
	}
	return nil
}
