package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmptyConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyTuningConfig()
	assert.Equal(t, 4, cfg.GetChannelCount())
	assert.InDelta(t, 0.001, cfg.GetSampleInterval(), 1e-12)
	assert.Equal(t, 30, cfg.GetHistogramBins())
	assert.Equal(t, int64(16*1024*1024), cfg.GetMaxUploadBytes())
	assert.InDelta(t, 10.0, cfg.GetDefaultWindowSeconds(), 1e-12)
}

func TestLoadTuningConfigPartial(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"channel_count": 6, "histogram_bins": 50}`)
	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.GetChannelCount())
	assert.Equal(t, 50, cfg.GetHistogramBins())
	// Unset fields fall back to defaults.
	assert.InDelta(t, 0.001, cfg.GetSampleInterval(), 1e-12)
}

func TestLoadTuningConfigRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"zero channels", `{"channel_count": 0}`},
		{"negative interval", `{"sample_interval_seconds": -0.001}`},
		{"zero bins", `{"histogram_bins": 0}`},
		{"zero upload cap", `{"max_upload_bytes": 0}`},
		{"not json", `channel_count = 4`},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadTuningConfig(writeConfig(t, c.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadTuningConfigRejectsNonJSONPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	_, err := LoadTuningConfig(path)
	assert.ErrorContains(t, err, ".json extension")
}

func TestLoadTuningConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
