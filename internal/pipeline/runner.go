// Package pipeline coordinates a full scene generation run: the three
// feature pipelines fan out concurrently and their layer collections are
// gathered into a single result, or the run fails as a whole.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wegman-software/osm2scene-go/internal/config"
	"github.com/wegman-software/osm2scene-go/internal/logger"
	"github.com/wegman-software/osm2scene-go/internal/metrics"
	"github.com/wegman-software/osm2scene-go/internal/overpass"
	"github.com/wegman-software/osm2scene-go/internal/scene"
	"github.com/wegman-software/osm2scene-go/internal/style"
)

// Result holds the layer collections of one completed run. A failed run
// produces no Result; partial layers are never handed out.
type Result struct {
	BasePlane *scene.Collection
	Buildings *scene.Collection
	Roads     *scene.Collection
	Nature    *scene.Collection
	Duration  time.Duration
}

// Layers returns the non-empty collections in commit order.
func (r *Result) Layers() []*scene.Collection {
	var out []*scene.Collection
	for _, c := range []*scene.Collection{r.BasePlane, r.Buildings, r.Roads, r.Nature} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Runner executes scene generation runs for one configuration.
type Runner struct {
	cfg   *config.Config
	style *style.Style
}

// NewRunner creates a runner, loading the style file if one is configured.
func NewRunner(cfg *config.Config) (*Runner, error) {
	st := style.Default()
	if cfg.StyleFile != "" {
		loaded, err := style.Load(cfg.StyleFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load style: %w", err)
		}
		st = loaded
	}
	return &Runner{cfg: cfg, style: st}, nil
}

// Run generates all scene layers. The feature pipelines are independent and
// run as parallel tasks, capped at cfg.Workers; the first error cancels the
// others and fails the whole run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := logger.Get()
	start := time.Now()

	if r.cfg.MetricsInterval > 0 {
		metricsCtx, cancelMetrics := context.WithCancel(ctx)
		defer cancelMetrics()

		collector := metrics.NewCollector(r.cfg.MetricsInterval, log)
		go collector.Start(metricsCtx)
		log.Info("System metrics collection started",
			zap.Duration("interval", r.cfg.MetricsInterval))
	}

	fetch := overpass.NewClient(r.cfg.OverpassURL)
	gen, err := scene.NewGenerator(r.cfg, r.style, fetch)
	if err != nil {
		return nil, err
	}

	log.Info("Generating scene",
		zap.Float64("lat", r.cfg.Lat),
		zap.Float64("lon", r.cfg.Lon),
		zap.Float64("radius_m", r.cfg.RadiusMeters),
		zap.String("units", r.cfg.Units))

	result := &Result{}
	if r.cfg.BasePlane {
		result.BasePlane = gen.BasePlane()
	}

	g, gctx := errgroup.WithContext(ctx)
	if r.cfg.Workers > 0 {
		g.SetLimit(r.cfg.Workers)
	}

	g.Go(func() error {
		coll, err := gen.Buildings(gctx)
		if err != nil {
			return err
		}
		result.Buildings = coll
		return nil
	})

	g.Go(func() error {
		coll, err := gen.Roads(gctx)
		if err != nil {
			return err
		}
		result.Roads = coll
		return nil
	})

	g.Go(func() error {
		coll, err := gen.Nature(gctx)
		if err != nil {
			return err
		}
		result.Nature = coll
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scene generation failed: %w", err)
	}

	result.Duration = time.Since(start)

	records := 0
	for _, c := range result.Layers() {
		records += len(c.Records)
	}
	log.Info("Scene generation complete",
		zap.Int("layers", len(result.Layers())),
		zap.Int("records", records),
		zap.Duration("duration", result.Duration))

	return result, nil
}
