package onboarding

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/onboarding/pkg/errors"
	"github.com/go-drift/onboarding/pkg/platform"
)

// Config represents the optional onboarding.yaml configuration.
type Config struct {
	Notifications NotificationsConfig `yaml:"notifications"`
	Location      LocationConfig      `yaml:"location"`

	// RequestTimeout bounds each permission prompt flow, e.g. "45s".
	// Empty means the platform default.
	RequestTimeout string `yaml:"requestTimeout,omitempty"`

	// LogLevel sets the diagnostic log level ("debug", "info", "warn").
	LogLevel string `yaml:"logLevel,omitempty"`
}

// NotificationsConfig selects which notification capabilities to request.
// A zero-value section means the defaults (alert, sound, badge).
type NotificationsConfig struct {
	Alert       bool `yaml:"alert,omitempty"`
	Sound       bool `yaml:"sound,omitempty"`
	Badge       bool `yaml:"badge,omitempty"`
	Provisional bool `yaml:"provisional,omitempty"`
}

// LocationConfig adjusts how location grants are interpreted and requested.
type LocationConfig struct {
	// AllowReducedAccuracy counts an approximate-location grant as granted.
	AllowReducedAccuracy bool `yaml:"allowReducedAccuracy,omitempty"`

	// RequestAlways escalates a granted foreground request to background
	// (always) authorization.
	RequestAlways bool `yaml:"requestAlways,omitempty"`
}

// DefaultConfig returns the configuration used when onboarding.yaml is
// absent: default notification capabilities, full accuracy required, and
// the always-location escalation enabled.
func DefaultConfig() *Config {
	return &Config{
		Notifications: NotificationsConfig{Alert: true, Sound: true, Badge: true},
		Location:      LocationConfig{RequestAlways: true},
	}
}

// LoadOptional reads onboarding.yaml from dir if present, returning
// DefaultConfig otherwise. Failures are reported and returned.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "onboarding.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		loadErr := fmt.Errorf("failed to read onboarding.yaml: %w", err)
		errors.Report(&errors.OnboardingError{
			Op:   "config.load",
			Kind: errors.KindConfig,
			Err:  loadErr,
		})
		return nil, loadErr
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		parseErr := fmt.Errorf("failed to parse onboarding.yaml: %w", err)
		errors.Report(&errors.OnboardingError{
			Op:   "config.parse",
			Kind: errors.KindConfig,
			Err:  parseErr,
		})
		return nil, parseErr
	}

	return cfg, nil
}

// notificationOptions translates the config into platform request options.
// A fully zero section falls back to the defaults.
func (c *Config) notificationOptions() platform.NotificationOptions {
	n := c.Notifications
	if !n.Alert && !n.Sound && !n.Badge && !n.Provisional {
		return platform.DefaultNotificationOptions()
	}
	return platform.NotificationOptions{
		Alert:       n.Alert,
		Sound:       n.Sound,
		Badge:       n.Badge,
		Provisional: n.Provisional,
	}
}

// requestTimeout parses RequestTimeout, returning zero when unset or
// unparseable.
func (c *Config) requestTimeout() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
