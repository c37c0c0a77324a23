// Package config loads and saves the tracker's user-tunable settings. A
// missing or corrupt settings file is never an error: tracking always starts
// with defaults rather than surfacing a configuration problem.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const settingsFile = "settings.json"

// Defaults substituted for missing or out-of-range values.
const (
	DefaultIdleThresholdMinutes       = 2
	DefaultPollIntervalSeconds        = 5
	DefaultLiveRefreshIntervalSeconds = 30
)

// Settings is the persisted configuration surface.
type Settings struct {
	IdleThresholdMinutes       int  `mapstructure:"idle_threshold_minutes"`
	PollIntervalSeconds        int  `mapstructure:"poll_interval_seconds"`
	EnableLiveRefresh          bool `mapstructure:"enable_live_refresh"`
	LiveRefreshIntervalSeconds int  `mapstructure:"live_refresh_interval_seconds"`
	AutoStartTracking          bool `mapstructure:"auto_start_tracking"`
}

// Default returns the out-of-the-box settings.
func Default() Settings {
	return Settings{
		IdleThresholdMinutes:       DefaultIdleThresholdMinutes,
		PollIntervalSeconds:        DefaultPollIntervalSeconds,
		EnableLiveRefresh:          true,
		LiveRefreshIntervalSeconds: DefaultLiveRefreshIntervalSeconds,
		AutoStartTracking:          true,
	}
}

// Normalize coerces non-positive values back to their defaults.
func (s *Settings) Normalize() {
	if s.IdleThresholdMinutes <= 0 {
		s.IdleThresholdMinutes = DefaultIdleThresholdMinutes
	}
	if s.PollIntervalSeconds <= 0 {
		s.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if s.LiveRefreshIntervalSeconds <= 0 {
		s.LiveRefreshIntervalSeconds = DefaultLiveRefreshIntervalSeconds
	}
}

// IdleThreshold returns the idle classification threshold as a duration.
func (s Settings) IdleThreshold() time.Duration {
	return time.Duration(s.IdleThresholdMinutes) * time.Minute
}

// PollInterval returns the sampling period as a duration.
func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

// LiveRefreshInterval returns the dashboard refresh period as a duration.
func (s Settings) LiveRefreshInterval() time.Duration {
	return time.Duration(s.LiveRefreshIntervalSeconds) * time.Second
}

// Load reads settings from dir. Any failure (absent file, malformed JSON,
// wrong types) yields normalized defaults.
func Load(dir string) Settings {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, settingsFile))
	v.SetConfigType("json")

	s := Default()
	if err := v.ReadInConfig(); err != nil {
		return s
	}
	if err := v.Unmarshal(&s); err != nil {
		return Default()
	}
	s.Normalize()
	return s
}

// Save writes settings to dir, creating it as needed.
func Save(dir string, s Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("idle_threshold_minutes", s.IdleThresholdMinutes)
	v.Set("poll_interval_seconds", s.PollIntervalSeconds)
	v.Set("enable_live_refresh", s.EnableLiveRefresh)
	v.Set("live_refresh_interval_seconds", s.LiveRefreshIntervalSeconds)
	v.Set("auto_start_tracking", s.AutoStartTracking)

	if err := v.WriteConfigAs(filepath.Join(dir, settingsFile)); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// DataDir resolves the tracker's data directory: $ARGUS_HOME when set,
// otherwise ~/.argus. Both the settings file and the daily logs live there.
func DataDir() (string, error) {
	if dir := os.Getenv("ARGUS_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".argus"), nil
}
