package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spaghettifunk/quatmesh/engine/assets"
	"github.com/spaghettifunk/quatmesh/engine/assets/exporters"
	"github.com/spaghettifunk/quatmesh/engine/config"
	"github.com/spaghettifunk/quatmesh/engine/core"
	"github.com/spaghettifunk/quatmesh/engine/fractal"
	"github.com/spaghettifunk/quatmesh/engine/grid"
	"github.com/spaghettifunk/quatmesh/engine/math"
	"github.com/spaghettifunk/quatmesh/engine/mesh"
	"github.com/spaghettifunk/quatmesh/testbed"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	appConfig    *ApplicationConfig
	hooks        Hooks
	config       *config.Config
	evaluator    fractal.Evaluator
	watcher      *assets.ConfigWatcher
	clock        *core.Clock
}

// Result summarises one pipeline run.
type Result struct {
	RunID     string
	Path      string
	Triangles int
	Bytes     int64
	Bounds    math.Extents3D
	Metrics   *core.Metrics
}

func New(app *ApplicationConfig, hooks Hooks) (*Engine, error) {
	if app == nil {
		return nil, errors.New("application config is required")
	}
	if app.Watch && app.ConfigPath == "" {
		return nil, errors.New("watch mode needs a config file")
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		appConfig:    app,
		hooks:        hooks,
		clock:        core.NewClock(),
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Config is the configuration the next Generate call runs with.
func (e *Engine) Config() *config.Config {
	return e.config
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	core.LogInfo("initializing %s", e.appConfig.Name)

	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if err := e.apply(cfg); err != nil {
		return err
	}

	if e.appConfig.Watch {
		w, err := assets.NewConfigWatcher(e.appConfig.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", e.appConfig.ConfigPath, err)
		}
		e.watcher = w
		core.LogInfo("watching %s for changes", w.Path())
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) loadConfig() (*config.Config, error) {
	if e.appConfig.Config != nil {
		if err := e.appConfig.Config.Validate(); err != nil {
			return nil, err
		}
		return e.appConfig.Config, nil
	}
	if e.appConfig.ConfigPath == "" {
		core.LogDebug("no config file given, using defaults")
		return config.Default(), nil
	}
	return config.Load(e.appConfig.ConfigPath)
}

// apply makes cfg current, rebuilding the evaluator when its section changed.
func (e *Engine) apply(cfg *config.Config) error {
	level, err := core.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if e.appConfig.LogLevel != nil {
		level = *e.appConfig.LogLevel
	}
	core.SetLogLevel(level)

	if e.evaluator == nil || e.config == nil || e.config.Evaluator != cfg.Evaluator {
		ev, err := NewEvaluator(cfg.Evaluator)
		if err != nil {
			return err
		}
		e.closeEvaluator()
		e.evaluator = ev
		core.LogDebug("using %s evaluator", ev.Name())
	}
	e.config = cfg
	return nil
}

// NewEvaluator builds the backend named in ec.
func NewEvaluator(ec config.EvaluatorConfig) (fractal.Evaluator, error) {
	if ec.Backend == testbed.BackendSphere {
		return testbed.NewSphereEvaluator(), nil
	}
	return fractal.NewEvaluator(ec.Backend, fractal.BackendOptions{
		Workers:   ec.Workers,
		ChunkSize: ec.ChunkSize,
	})
}

func (e *Engine) closeEvaluator() {
	if c, ok := e.evaluator.(io.Closer); ok {
		if err := c.Close(); err != nil {
			core.LogWarn("failed to close %s evaluator: %s", e.evaluator.Name(), err)
		}
	}
	e.evaluator = nil
}

// Generate runs the full pipeline once: z-plane by z-plane it samples the
// seeds, evaluates them and tessellates each adjacent plane pair, then
// writes the STL. Only two planes are ever held in memory.
func (e *Engine) Generate(ctx context.Context) (*Result, error) {
	if e.config == nil || e.evaluator == nil {
		return nil, fmt.Errorf("%w: engine is not initialized", core.ErrEvaluatorUnavailable)
	}
	cfg := e.config
	g := cfg.GridGeometry()
	params := cfg.FractalParams()

	runID := core.NewRunID()
	tag := core.ShortID(runID)
	core.LogInfo("[%s] generating %dx%dx%d grid with %s evaluator", tag, g.X.Resolution, g.Y.Resolution, g.Z.Resolution, e.evaluator.Name())

	var exporter *exporters.PlaneExporter
	if cfg.Output.SlicesDir != "" {
		pe, err := exporters.NewPlaneExporter(cfg.Output.SlicesDir, g, params.Threshold)
		if err != nil {
			return nil, err
		}
		exporter = pe
	}

	sampler := grid.NewSampler(g, cfg.Grid.W)
	planes := grid.NewPlaneBuffer(g)
	tess := mesh.NewTessellator(g, cfg.Isovalue())
	out := mesh.New()
	metrics := core.NewMetrics()

	e.clock.Start()
	var seeds []math.Quaternion
	for z := 0; z < g.Z.Resolution; z++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()

		seeds = sampler.Slice(z, seeds)
		trajectories, err := e.evaluator.Evaluate(ctx, seeds, params)
		if err != nil {
			return nil, fmt.Errorf("evaluating plane %d: %w", z, err)
		}
		if err := planes.Load(trajectories); err != nil {
			return nil, err
		}
		if exporter != nil {
			if _, err := exporter.Export(z, planes.Current()); err != nil {
				return nil, fmt.Errorf("exporting plane %d: %w", z, err)
			}
		}

		if z > 0 {
			core.LogInfo("[%s] calculating triangles from xy-plane pair %d of %d", tag, z, g.Slabs())
			stats := tess.TessellateSlab(planes.Previous(), planes.Current(), z-1, out)
			elapsed := time.Since(start)
			metrics.SlabUpdate(elapsed, stats.Cells, stats.Triangles)
			remaining := metrics.Remaining(g.Slabs() - z)
			core.LogDebug("[%s] slab %d: %d cells, %d triangles in %s (eta %s)", tag, z, stats.Cells, stats.Triangles, elapsed, remaining.Round(time.Millisecond))

			if e.hooks.OnSlab != nil {
				e.hooks.OnSlab(SlabReport{
					RunID:     runID,
					Index:     z,
					Total:     g.Slabs(),
					Stats:     stats,
					Elapsed:   elapsed,
					Remaining: remaining,
				})
			}
		}
		planes.Swap()
	}
	e.clock.Stop()

	res := &Result{
		RunID:     runID,
		Path:      cfg.Output.Path,
		Triangles: out.Len(),
		Bounds:    out.Bounds(),
		Metrics:   metrics,
	}
	core.LogInfo("[%s] %d triangles in %s", tag, res.Triangles, e.clock.Elapsed().Round(time.Millisecond))

	if err := mesh.Write(out, cfg.Output.Path); err != nil {
		if errors.Is(err, core.ErrEmptyMesh) {
			core.LogWarn("[%s] %s: %s", tag, cfg.Output.Path, err)
			res.Path = ""
			return res, nil
		}
		return nil, err
	}
	res.Bytes = mesh.STLSize(res.Triangles)

	b := res.Bounds
	core.LogInfo("[%s] bounds min [%.4f, %.4f, %.4f] max [%.4f, %.4f, %.4f]", tag, b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	core.LogInfo("[%s] wrote %s (%.2f MB)", tag, res.Path, float64(res.Bytes)/(1024*1024))
	return res, nil
}

// Run generates once and, in watch mode, again after every config change
// until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	defer func() { e.currentStage = EngineStageInitialized }()

	_, err := e.Generate(ctx)
	if e.watcher == nil || ctx.Err() != nil {
		return err
	}
	if err != nil {
		core.LogError("%s", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-e.watcher.Errors():
			core.LogWarn("watcher: %s", err)
		case <-e.watcher.Changes():
			cfg, err := config.Load(e.appConfig.ConfigPath)
			if err != nil {
				core.LogError("ignoring config change: %s", err)
				continue
			}
			if err := e.apply(cfg); err != nil {
				core.LogError("ignoring config change: %s", err)
				continue
			}
			if _, err := e.Generate(ctx); err != nil {
				if ctx.Err() != nil {
					return err
				}
				core.LogError("%s", err)
			}
		}
	}
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	core.LogInfo("shutting down %s", e.appConfig.Name)

	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
		e.watcher = nil
	}
	if c, ok := e.evaluator.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	e.evaluator = nil

	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}
