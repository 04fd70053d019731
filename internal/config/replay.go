package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/units"
)

// DefaultPalette is the session colour cycle, assigned in arrival order.
var DefaultPalette = []string{"#00ff9d", "#ff4757", "#2e86de", "#f39c12", "#9b59b6"}

// ReplayConfig holds the tunables for ingestion, alignment, validation and
// playback. Every field is optional; the Get* methods supply defaults for
// anything omitted, so partial files are safe.
type ReplayConfig struct {
	// Ingestion
	HeaderScanLines        *int    `json:"header_scan_lines,omitempty" yaml:"header_scan_lines,omitempty"`
	FallbackSampleInterval *string `json:"fallback_sample_interval,omitempty" yaml:"fallback_sample_interval,omitempty"` // duration string like "100ms"
	SourceSpeedUnits       *string `json:"source_speed_units,omitempty" yaml:"source_speed_units,omitempty"`

	// Smoothing
	SmoothingWindow *int `json:"smoothing_window,omitempty" yaml:"smoothing_window,omitempty"`

	// Alignment
	AnchorCeilingMeters *float64 `json:"anchor_ceiling_meters,omitempty" yaml:"anchor_ceiling_meters,omitempty"`
	EndSearchSkip       *int     `json:"end_search_skip,omitempty" yaml:"end_search_skip,omitempty"`

	// Validation
	ValidationSessionStride *int     `json:"validation_session_stride,omitempty" yaml:"validation_session_stride,omitempty"`
	ValidationTrackStride   *int     `json:"validation_track_stride,omitempty" yaml:"validation_track_stride,omitempty"`
	CorridorMarginMeters    *float64 `json:"corridor_margin_meters,omitempty" yaml:"corridor_margin_meters,omitempty"`
	DefaultRadiusMeters     *float64 `json:"default_radius_meters,omitempty" yaml:"default_radius_meters,omitempty"`
	MaxOffTrackFraction     *float64 `json:"max_off_track_fraction,omitempty" yaml:"max_off_track_fraction,omitempty"`

	// Playback
	HeadingLookahead *int     `json:"heading_lookahead,omitempty" yaml:"heading_lookahead,omitempty"`
	FrameInterval    *string  `json:"frame_interval,omitempty" yaml:"frame_interval,omitempty"` // duration string like "16ms"
	DefaultSpeed     *float64 `json:"default_speed,omitempty" yaml:"default_speed,omitempty"`

	// Display
	SpeedUnits *string  `json:"speed_units,omitempty" yaml:"speed_units,omitempty"`
	Palette    []string `json:"palette,omitempty" yaml:"palette,omitempty"`
}

// EmptyReplayConfig returns a ReplayConfig with every field unset, which
// yields the built-in defaults from all Get* methods.
func EmptyReplayConfig() *ReplayConfig {
	return &ReplayConfig{}
}

// LoadReplayConfig loads a ReplayConfig from a .json, .yaml or .yml file
// read through fsys. The file must be under 1MB and must pass Validate.
func LoadReplayConfig(fsys fsutil.FileSystem, path string) (*ReplayConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyReplayConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *ReplayConfig) Validate() error {
	positiveInts := []struct {
		name string
		v    *int
	}{
		{"header_scan_lines", c.HeaderScanLines},
		{"smoothing_window", c.SmoothingWindow},
		{"validation_session_stride", c.ValidationSessionStride},
		{"validation_track_stride", c.ValidationTrackStride},
	}
	for _, f := range positiveInts {
		if f.v != nil && *f.v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", f.name, *f.v)
		}
	}

	if c.EndSearchSkip != nil && *c.EndSearchSkip < 0 {
		return fmt.Errorf("end_search_skip must be non-negative, got %d", *c.EndSearchSkip)
	}
	if c.HeadingLookahead != nil && *c.HeadingLookahead < 1 {
		return fmt.Errorf("heading_lookahead must be at least 1, got %d", *c.HeadingLookahead)
	}
	if c.AnchorCeilingMeters != nil && *c.AnchorCeilingMeters <= 0 {
		return fmt.Errorf("anchor_ceiling_meters must be positive, got %f", *c.AnchorCeilingMeters)
	}
	if c.CorridorMarginMeters != nil && *c.CorridorMarginMeters < 0 {
		return fmt.Errorf("corridor_margin_meters must be non-negative, got %f", *c.CorridorMarginMeters)
	}
	if c.DefaultRadiusMeters != nil && *c.DefaultRadiusMeters <= 0 {
		return fmt.Errorf("default_radius_meters must be positive, got %f", *c.DefaultRadiusMeters)
	}
	if c.MaxOffTrackFraction != nil {
		if *c.MaxOffTrackFraction <= 0 || *c.MaxOffTrackFraction > 1 {
			return fmt.Errorf("max_off_track_fraction must be in (0, 1], got %f", *c.MaxOffTrackFraction)
		}
	}
	if c.DefaultSpeed != nil && *c.DefaultSpeed <= 0 {
		return fmt.Errorf("default_speed must be positive, got %f", *c.DefaultSpeed)
	}

	for name, d := range map[string]*string{
		"fallback_sample_interval": c.FallbackSampleInterval,
		"frame_interval":           c.FrameInterval,
	} {
		if d == nil || *d == "" {
			continue
		}
		parsed, err := time.ParseDuration(*d)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *d, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, *d)
		}
	}

	for name, u := range map[string]*string{
		"speed_units":        c.SpeedUnits,
		"source_speed_units": c.SourceSpeedUnits,
	} {
		if u != nil && !units.IsValid(*u) {
			return fmt.Errorf("%s must be one of %s, got %q", name, units.GetValidUnitsString(), *u)
		}
	}
	return nil
}

func getDuration(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def
	}
	return d
}

// GetHeaderScanLines returns how many leading lines are searched for a header.
func (c *ReplayConfig) GetHeaderScanLines() int {
	if c.HeaderScanLines == nil {
		return 50
	}
	return *c.HeaderScanLines
}

// GetFallbackSampleInterval returns the cadence assumed when a log has no usable timestamps.
func (c *ReplayConfig) GetFallbackSampleInterval() time.Duration {
	return getDuration(c.FallbackSampleInterval, 100*time.Millisecond)
}

// GetSourceSpeedUnits returns the unit logged speed columns are recorded in.
func (c *ReplayConfig) GetSourceSpeedUnits() string {
	if c.SourceSpeedUnits == nil {
		return units.KMPH
	}
	return *c.SourceSpeedUnits
}

// GetSmoothingWindow returns the moving-average half window.
func (c *ReplayConfig) GetSmoothingWindow() int {
	if c.SmoothingWindow == nil {
		return 3
	}
	return *c.SmoothingWindow
}

// GetAnchorCeilingMeters returns the maximum distance for a start/end anchor match.
func (c *ReplayConfig) GetAnchorCeilingMeters() float64 {
	if c.AnchorCeilingMeters == nil {
		return 500
	}
	return *c.AnchorCeilingMeters
}

// GetEndSearchSkip returns the number of samples skipped after the start anchor.
func (c *ReplayConfig) GetEndSearchSkip() int {
	if c.EndSearchSkip == nil {
		return 50
	}
	return *c.EndSearchSkip
}

// GetValidationSessionStride returns the session downsampling stride.
func (c *ReplayConfig) GetValidationSessionStride() int {
	if c.ValidationSessionStride == nil {
		return 10
	}
	return *c.ValidationSessionStride
}

// GetValidationTrackStride returns the reference path downsampling stride.
func (c *ReplayConfig) GetValidationTrackStride() int {
	if c.ValidationTrackStride == nil {
		return 5
	}
	return *c.ValidationTrackStride
}

// GetCorridorMarginMeters returns the slack added to the track radius.
func (c *ReplayConfig) GetCorridorMarginMeters() float64 {
	if c.CorridorMarginMeters == nil {
		return 5
	}
	return *c.CorridorMarginMeters
}

// GetDefaultRadiusMeters returns the radius used when a track omits one.
func (c *ReplayConfig) GetDefaultRadiusMeters() float64 {
	if c.DefaultRadiusMeters == nil {
		return 10
	}
	return *c.DefaultRadiusMeters
}

// GetMaxOffTrackFraction returns the share of sampled points allowed off the corridor.
func (c *ReplayConfig) GetMaxOffTrackFraction() float64 {
	if c.MaxOffTrackFraction == nil {
		return 0.2
	}
	return *c.MaxOffTrackFraction
}

// GetHeadingLookahead returns how many samples ahead the heading target sits.
func (c *ReplayConfig) GetHeadingLookahead() int {
	if c.HeadingLookahead == nil {
		return 5
	}
	return *c.HeadingLookahead
}

// GetFrameInterval returns the playback tick period.
func (c *ReplayConfig) GetFrameInterval() time.Duration {
	return getDuration(c.FrameInterval, 16*time.Millisecond)
}

// GetDefaultSpeed returns the initial playback speed multiplier.
func (c *ReplayConfig) GetDefaultSpeed() float64 {
	if c.DefaultSpeed == nil {
		return 1
	}
	return *c.DefaultSpeed
}

// GetSpeedUnits returns the unit telemetry readouts are displayed in.
func (c *ReplayConfig) GetSpeedUnits() string {
	if c.SpeedUnits == nil {
		return units.KMPH
	}
	return *c.SpeedUnits
}

// GetPalette returns the session colour cycle.
func (c *ReplayConfig) GetPalette() []string {
	if len(c.Palette) == 0 {
		return DefaultPalette
	}
	return c.Palette
}
