package particlefield

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Front-ends selectable through Config.Frontend.
const (
	FrontendGPU      = "gpu"
	FrontendTerminal = "tty"
	FrontendHeadless = "headless"
)

type WindowConfig struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
}

// ParamsConfig holds the initial simulation parameters. Angles are in radians.
type ParamsConfig struct {
	TimeScale   float32 `yaml:"time_scale" toml:"time_scale"`
	LifeMin     float32 `yaml:"life_min" toml:"life_min"`
	LifeMax     float32 `yaml:"life_max" toml:"life_max"`
	SpeedMin    float32 `yaml:"speed_min" toml:"speed_min"`
	SpeedMax    float32 `yaml:"speed_max" toml:"speed_max"`
	AngleSpread float32 `yaml:"angle_spread" toml:"angle_spread"`
	AngleBias   float32 `yaml:"angle_bias" toml:"angle_bias"`
	Invert      bool    `yaml:"invert" toml:"invert"`
}

// FieldConfig tunes the gravity-like emitter field.
type FieldConfig struct {
	Gravity     float32 `yaml:"gravity" toml:"gravity"`
	Density     float32 `yaml:"density" toml:"density"`
	MinDistance float32 `yaml:"min_distance" toml:"min_distance"`
}

type HeadlessConfig struct {
	Frames int     `yaml:"frames" toml:"frames"`
	Step   float64 `yaml:"step" toml:"step"`
}

type Config struct {
	Frontend      string         `yaml:"frontend" toml:"frontend"`
	Debug         bool           `yaml:"debug" toml:"debug"`
	Particles     int            `yaml:"particles" toml:"particles"`
	Seed          int64          `yaml:"seed" toml:"seed"`
	// MaxFrameDelta caps dt in seconds; zero leaves it uncapped.
	MaxFrameDelta float64        `yaml:"max_frame_delta" toml:"max_frame_delta"`
	EmitterPolicy string         `yaml:"emitter_policy" toml:"emitter_policy"`
	Velocity      string         `yaml:"velocity" toml:"velocity"`
	MetricsAddr   string         `yaml:"metrics_addr" toml:"metrics_addr"`
	Window        WindowConfig   `yaml:"window" toml:"window"`
	Params        ParamsConfig   `yaml:"params" toml:"params"`
	Field         FieldConfig    `yaml:"field" toml:"field"`
	Headless      HeadlessConfig `yaml:"headless" toml:"headless"`
}

func DefaultConfig() Config {
	return Config{
		Frontend:      FrontendGPU,
		Particles:     10000,
		Seed:          1,
		EmitterPolicy: "cancel-zero",
		Velocity:      "random",
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Particle Field",
		},
		Params: ParamsConfig{
			TimeScale:   1,
			LifeMin:     2,
			LifeMax:     10,
			SpeedMin:    0.1,
			SpeedMax:    0.2,
			AngleSpread: 3.14159265,
			AngleBias:   0,
		},
		Field: FieldConfig{
			Gravity:     6.67e-11,
			Density:     5.51e3,
			MinDistance: 0.1,
		},
		Headless: HeadlessConfig{
			Frames: 600,
			Step:   1.0 / 60.0,
		},
	}
}

// LoadConfig reads path over the defaults. The format follows the extension:
// .yaml/.yml or .toml. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the simulation cannot start with. Parameter ranges are
// not checked here; the simulation clamps them.
func (c *Config) Validate() error {
	switch c.Frontend {
	case FrontendGPU, FrontendTerminal, FrontendHeadless:
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if c.MaxFrameDelta < 0 {
		return fmt.Errorf("max_frame_delta must not be negative, got %v", c.MaxFrameDelta)
	}
	switch c.EmitterPolicy {
	case "cancel-zero", "always":
	default:
		return fmt.Errorf("unknown emitter_policy %q", c.EmitterPolicy)
	}
	switch c.Velocity {
	case "zero", "random", "constant":
	default:
		return fmt.Errorf("unknown velocity mode %q", c.Velocity)
	}
	if c.Frontend == FrontendGPU && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Frontend == FrontendHeadless && (c.Headless.Frames <= 0 || c.Headless.Step <= 0) {
		return fmt.Errorf("headless run needs positive frames and step")
	}
	return nil
}
