package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/quatmesh/engine/core"
	"github.com/spaghettifunk/quatmesh/engine/fractal"
	"github.com/spaghettifunk/quatmesh/engine/grid"
	"github.com/spaghettifunk/quatmesh/engine/math"
	"github.com/spaghettifunk/quatmesh/testbed"
)

type AxisConfig struct {
	Min        float32 `toml:"min"`
	Max        float32 `toml:"max"`
	Resolution int     `toml:"resolution"`
}

type GridConfig struct {
	X AxisConfig `toml:"x"`
	Y AxisConfig `toml:"y"`
	Z AxisConfig `toml:"z"`
	// Fixed fourth coordinate of every seed.
	W float32 `toml:"w"`
}

type QuaternionConfig struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
	Z float32 `toml:"z"`
	W float32 `toml:"w"`
}

type FractalConfig struct {
	C             QuaternionConfig `toml:"c"`
	MaxIterations int              `toml:"max_iterations"`
	Threshold     float32          `toml:"threshold"`
	Exponent      float32          `toml:"exponent"`
	// Defaults to Threshold when unset.
	Isovalue *float32 `toml:"isovalue,omitempty"`
}

type EvaluatorConfig struct {
	Backend   string `toml:"backend"`
	Workers   int    `toml:"workers"`
	ChunkSize int    `toml:"chunk_size"`
}

type OutputConfig struct {
	Path      string `toml:"path"`
	SlicesDir string `toml:"slices_dir"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Grid      GridConfig      `toml:"grid"`
	Fractal   FractalConfig   `toml:"fractal"`
	Evaluator EvaluatorConfig `toml:"evaluator"`
	Output    OutputConfig    `toml:"output"`
	Log       LogConfig       `toml:"log"`
}

// Backends accepted by evaluator.backend.
var Backends = []string{fractal.BackendPooled, fractal.BackendSerial, testbed.BackendSphere}

// Default is a 1000³ grid over [-1.5, 1.5]³ with C = (0.3, 0.5, 0.4, 0.2).
func Default() *Config {
	axis := AxisConfig{Min: -1.5, Max: 1.5, Resolution: 1000}
	p := fractal.DefaultParams()
	return &Config{
		Grid: GridConfig{X: axis, Y: axis, Z: axis, W: 0},
		Fractal: FractalConfig{
			C:             QuaternionConfig{X: p.C.X, Y: p.C.Y, Z: p.C.Z, W: p.C.W},
			MaxIterations: p.MaxIterations,
			Threshold:     p.Threshold,
			Exponent:      p.Exponent,
		},
		Evaluator: EvaluatorConfig{
			Backend:   fractal.BackendPooled,
			Workers:   0,
			ChunkSize: fractal.DefaultChunkSize,
		},
		Output: OutputConfig{Path: "out.stl"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the TOML file at path on top of the defaults and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML from r on top of the defaults. Unknown keys are errors.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", core.ErrInvalidConfig, row, col, derr.Error())
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, serr.String())
		}
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.GridGeometry().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.FractalParams().Validate(); err != nil {
		errs = append(errs, err)
	}
	if iso := c.Isovalue(); !math.IsFinite(iso) {
		errs = append(errs, fmt.Errorf("isovalue must be finite, got %v", iso))
	}
	if !slices.Contains(Backends, c.Evaluator.Backend) {
		errs = append(errs, fmt.Errorf("unknown evaluator backend %q (want one of %v)", c.Evaluator.Backend, Backends))
	}
	if c.Evaluator.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Evaluator.Workers))
	}
	if c.Evaluator.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", c.Evaluator.ChunkSize))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output path must not be empty"))
	}
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *Config) GridGeometry() grid.Grid {
	axis := func(a AxisConfig) grid.Axis {
		return grid.Axis{Min: a.Min, Max: a.Max, Resolution: a.Resolution}
	}
	return grid.Grid{X: axis(c.Grid.X), Y: axis(c.Grid.Y), Z: axis(c.Grid.Z)}
}

func (c *Config) FractalParams() fractal.Params {
	q := c.Fractal.C
	return fractal.Params{
		C:             math.NewQuat(q.X, q.Y, q.Z, q.W),
		MaxIterations: c.Fractal.MaxIterations,
		Threshold:     c.Fractal.Threshold,
		Exponent:      c.Fractal.Exponent,
	}
}

// Isovalue is the explicit isovalue or, failing that, the escape threshold.
func (c *Config) Isovalue() float32 {
	if c.Fractal.Isovalue != nil {
		return *c.Fractal.Isovalue
	}
	return c.Fractal.Threshold
}
