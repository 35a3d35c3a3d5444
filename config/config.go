// Package config provides configuration loading and access for fieldscan.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fieldscan/coord"
	"github.com/pthm-cable/fieldscan/eval"
	"github.com/pthm-cable/fieldscan/region"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrNoEvaluators is returned when the configuration enables no evaluator.
var ErrNoEvaluators = errors.New("no evaluators configured")

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig      `yaml:"screen"`
	Engine     EngineConfig      `yaml:"engine"`
	Region     RegionConfig      `yaml:"region"`
	Evaluators []EvaluatorConfig `yaml:"evaluators"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Viewer     ViewerConfig      `yaml:"viewer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// EngineConfig holds sampling engine parameters.
type EngineConfig struct {
	MaxLen        uint32 `yaml:"max_len"`        // Capacity ceiling (clamped to region.HardMaxLen)
	InitialLen    uint32 `yaml:"initial_len"`    // Points sampled at startup
	RefreshRate   int    `yaml:"refresh_rate"`   // Points processed per tick
	RefreshRandom bool   `yaml:"refresh_random"` // Refresh random points when nothing is dirty
	RequestQueue  int    `yaml:"request_queue"`  // Pending request capacity
	Workers       int    `yaml:"workers"`        // Evaluation goroutines (0 = GOMAXPROCS)
}

// RegionConfig holds the initial rectangle. A missing endpoint takes the
// matching end of the full coordinate domain.
type RegionConfig struct {
	XStart *float32 `yaml:"x_start,omitempty"`
	XEnd   *float32 `yaml:"x_end,omitempty"`
	YStart *float32 `yaml:"y_start,omitempty"`
	YEnd   *float32 `yaml:"y_end,omitempty"`
}

// EvaluatorConfig names a built-in evaluator and the color its layer is drawn in.
type EvaluatorConfig struct {
	Name  string   `yaml:"name"`
	Color [4]uint8 `yaml:"color,flow"` // RGBA
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// ViewerConfig holds point cloud display parameters.
type ViewerConfig struct {
	Extent float32 `yaml:"extent"`  // Half-width of the drawn region in world units
	ZScale float32 `yaml:"z_scale"` // Initial height per output unit for every layer
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	X, Y           region.Axis // Initial bounds in coordinate space
	EvaluatorNames []string    // Evaluators in configured order
	ScreenW32      float32     // Screen.Width as float32
	ScreenH32      float32     // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file. A present list
		// replaces the default list.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Evaluators) == 0 {
		return ErrNoEvaluators
	}
	for _, ev := range c.Evaluators {
		if _, err := eval.Lookup(ev.Name); err != nil {
			return fmt.Errorf("evaluators: %w", err)
		}
	}
	if c.Engine.RefreshRate < 0 {
		return fmt.Errorf("engine.refresh_rate must be >= 0, got %d", c.Engine.RefreshRate)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Engine.MaxLen = min(c.Engine.MaxLen, region.HardMaxLen)
	c.Engine.InitialLen = min(c.Engine.InitialLen, c.Engine.MaxLen)

	c.Derived.X = region.Axis{
		Start: endpoint(c.Region.XStart, coord.Min),
		End:   endpoint(c.Region.XEnd, coord.Max),
	}
	c.Derived.Y = region.Axis{
		Start: endpoint(c.Region.YStart, coord.Min),
		End:   endpoint(c.Region.YEnd, coord.Max),
	}

	c.Derived.EvaluatorNames = make([]string, len(c.Evaluators))
	for i, ev := range c.Evaluators {
		c.Derived.EvaluatorNames[i] = ev.Name
	}

	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

func endpoint(v *float32, fallback coord.Coord) coord.Coord {
	if v == nil {
		return fallback
	}
	return coord.FromFloat32(*v)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
