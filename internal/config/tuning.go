// Package config loads optional JSON tuning for the shock analysis service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/shock.report/internal/shockdata"
)

// TuningConfig is the root tuning document. All fields are pointers so a
// partial JSON file only overrides what it names; Get* methods supply
// defaults for the rest.
type TuningConfig struct {
	// ChannelCount is the required number of position columns in an upload.
	ChannelCount *int `json:"channel_count,omitempty"`

	// SampleIntervalSeconds is dt for the synthesized time axis (seconds).
	SampleIntervalSeconds *float64 `json:"sample_interval_seconds,omitempty"`

	// HistogramBins is the bin count for the velocity histogram chart.
	HistogramBins *int `json:"histogram_bins,omitempty"`

	// MaxUploadBytes caps the accepted payload size.
	MaxUploadBytes *int64 `json:"max_upload_bytes,omitempty"`

	// DefaultWindowSeconds is the end bound used when a request omits one.
	DefaultWindowSeconds *float64 `json:"default_window_seconds,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must have
// a .json extension and the file must be under 1MB. Fields omitted from the
// file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any set fields hold usable values.
func (c *TuningConfig) Validate() error {
	if c.ChannelCount != nil && *c.ChannelCount < 1 {
		return fmt.Errorf("channel_count must be at least 1, got %d", *c.ChannelCount)
	}
	if c.SampleIntervalSeconds != nil && *c.SampleIntervalSeconds <= 0 {
		return fmt.Errorf("sample_interval_seconds must be positive, got %f", *c.SampleIntervalSeconds)
	}
	if c.HistogramBins != nil && *c.HistogramBins < 1 {
		return fmt.Errorf("histogram_bins must be at least 1, got %d", *c.HistogramBins)
	}
	if c.MaxUploadBytes != nil && *c.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", *c.MaxUploadBytes)
	}
	if c.DefaultWindowSeconds != nil && *c.DefaultWindowSeconds <= 0 {
		return fmt.Errorf("default_window_seconds must be positive, got %f", *c.DefaultWindowSeconds)
	}
	return nil
}

// GetChannelCount returns channel_count or the stock four-channel layout.
func (c *TuningConfig) GetChannelCount() int {
	if c.ChannelCount == nil {
		return shockdata.DefaultChannels
	}
	return *c.ChannelCount
}

// GetSampleInterval returns sample_interval_seconds or the 1 kHz default.
func (c *TuningConfig) GetSampleInterval() float64 {
	if c.SampleIntervalSeconds == nil {
		return shockdata.DefaultSampleInterval
	}
	return *c.SampleIntervalSeconds
}

// GetHistogramBins returns histogram_bins or the default bin count.
func (c *TuningConfig) GetHistogramBins() int {
	if c.HistogramBins == nil {
		return shockdata.DefaultHistogramBins
	}
	return *c.HistogramBins
}

// GetMaxUploadBytes returns max_upload_bytes or a 16MB default.
func (c *TuningConfig) GetMaxUploadBytes() int64 {
	if c.MaxUploadBytes == nil {
		return 16 * 1024 * 1024
	}
	return *c.MaxUploadBytes
}

// GetDefaultWindowSeconds returns default_window_seconds or 10s, the span of
// a typical tuning run.
func (c *TuningConfig) GetDefaultWindowSeconds() float64 {
	if c.DefaultWindowSeconds == nil {
		return 10.0
	}
	return *c.DefaultWindowSeconds
}
