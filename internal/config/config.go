// Package config loads and validates the startup configuration.
//
// Values come from built-in defaults, then an optional TOML file, then
// command line flags. Configuration is read once at startup and never
// changes while the detection loop runs.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Dispatch modes.
const (
	DispatchPlugin = "plugin"
	DispatchLog    = "log"
)

// Config holds every startup setting.
type Config struct {
	// Camera
	CameraIndex int  `toml:"camera_index"`
	FrameWidth  int  `toml:"frame_width"`
	FrameHeight int  `toml:"frame_height"`
	Mirror      bool `toml:"mirror"`

	// Hand detection
	DetectionConfidence float64 `toml:"detection_confidence"`
	TrackingConfidence  float64 `toml:"tracking_confidence"`

	// Gesture recognition
	BufferSize      int     `toml:"buffer_size"`
	Threshold       int     `toml:"threshold"`
	CooldownSeconds float64 `toml:"cooldown_seconds"`

	// Actions
	Dispatch  string `toml:"dispatch"`
	PluginDir string `toml:"plugin_dir"`
	DataDir   string `toml:"data_dir"`

	// Interfaces
	Listen string `toml:"listen"`
	Tray   bool   `toml:"tray"`
	Debug  bool   `toml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	dataDir := ".mudra"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".mudra")
	}

	return Config{
		CameraIndex:         0,
		FrameWidth:          640,
		FrameHeight:         480,
		Mirror:              true,
		DetectionConfidence: 0.7,
		TrackingConfidence:  0.5,
		BufferSize:          10,
		Threshold:           7,
		CooldownSeconds:     1.5,
		Dispatch:            DispatchPlugin,
		PluginDir:           filepath.Join(dataDir, "plugins"),
		DataDir:             dataDir,
		Listen:              "127.0.0.1:8080",
	}
}

// Load reads a TOML file over the defaults and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// maxCooldownSeconds keeps Cooldown within time.Duration.
const maxCooldownSeconds = float64(math.MaxInt64) / float64(time.Second)

// Validate rejects combinations the pipeline cannot run with.
// Every failure is reported, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !inUnitRange(c.DetectionConfidence) {
		fail("detection_confidence must be between 0 and 1, got %g", c.DetectionConfidence)
	}
	if !inUnitRange(c.TrackingConfidence) {
		fail("tracking_confidence must be between 0 and 1, got %g", c.TrackingConfidence)
	}
	if c.BufferSize < 1 {
		fail("buffer_size must be at least 1, got %d", c.BufferSize)
	}
	if c.Threshold < 1 {
		fail("threshold must be at least 1, got %d", c.Threshold)
	}
	if c.Threshold > c.BufferSize {
		fail("threshold %d exceeds buffer_size %d", c.Threshold, c.BufferSize)
	}
	if math.IsNaN(c.CooldownSeconds) || c.CooldownSeconds < 0 || c.CooldownSeconds > maxCooldownSeconds {
		fail("cooldown_seconds must be between 0 and %.0f, got %g", maxCooldownSeconds, c.CooldownSeconds)
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		fail("frame size %dx%d must be positive", c.FrameWidth, c.FrameHeight)
	}
	if c.Dispatch != DispatchPlugin && c.Dispatch != DispatchLog {
		fail("dispatch must be %q or %q, got %q", DispatchPlugin, DispatchLog, c.Dispatch)
	}

	return errors.Join(errs...)
}

// inUnitRange reports whether v is a finite value in [0, 1].
// NaN fails both comparisons.
func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

// Cooldown returns the cooldown interval as a duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds * float64(time.Second))
}

// DBPath returns the location of the bindings database.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}
