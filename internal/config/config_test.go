package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	s := Load(t.TempDir())
	assert.Equal(t, Default(), s)
}

func TestLoad_CorruptFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0o644))

	s := Load(dir)
	assert.Equal(t, Default(), s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	want := Settings{
		IdleThresholdMinutes:       10,
		PollIntervalSeconds:        15,
		EnableLiveRefresh:          false,
		LiveRefreshIntervalSeconds: 60,
		AutoStartTracking:          false,
	}
	require.NoError(t, Save(dir, want))

	assert.Equal(t, want, Load(dir))
}

func TestLoad_CoercesNonPositiveValues(t *testing.T) {
	dir := t.TempDir()
	payload := `{"idle_threshold_minutes": -1, "poll_interval_seconds": 0, "live_refresh_interval_seconds": -5}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(payload), 0o644))

	s := Load(dir)
	assert.Equal(t, DefaultIdleThresholdMinutes, s.IdleThresholdMinutes)
	assert.Equal(t, DefaultPollIntervalSeconds, s.PollIntervalSeconds)
	assert.Equal(t, DefaultLiveRefreshIntervalSeconds, s.LiveRefreshIntervalSeconds)
}

func TestDurationAccessors(t *testing.T) {
	s := Settings{IdleThresholdMinutes: 3, PollIntervalSeconds: 7, LiveRefreshIntervalSeconds: 45}
	assert.Equal(t, 3*time.Minute, s.IdleThreshold())
	assert.Equal(t, 7*time.Second, s.PollInterval())
	assert.Equal(t, 45*time.Second, s.LiveRefreshInterval())
}

func TestDataDir_HonorsEnvOverride(t *testing.T) {
	t.Setenv("ARGUS_HOME", "/tmp/argus-test")
	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/argus-test", dir)
}
