package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/engine"
	"github.com/lixenwraith/particlefield/render/raster"
)

var errNoFrames = errors.New("snapshot: no frame was drawn")

// snapshot simulates opts.frames frames on a virtual clock and writes the last one as PNG
func snapshot(opts options, cfg config.EngineConfig, logger *zap.Logger) (err error) {
	canvas := raster.New(opts.width, opts.height)
	sched := engine.NewManualScheduler()
	clock := engine.NewMockTimeProvider(time.Unix(0, 0).UTC())

	ctrl := engine.NewController(canvas, cfg,
		engine.WithScheduler(sched),
		engine.WithTimeProvider(clock),
		engine.WithLogger(logger),
	)
	ctrl.Mount()
	for i := 0; i < opts.frames; i++ {
		sched.RunFrame(clock.AdvanceFrames(1))
	}
	stats := ctrl.Stats()
	ctrl.Stop()

	if stats.Frames == 0 {
		return errNoFrames
	}

	f, err := os.Create(opts.snapshotPath)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	if err := canvas.WritePNG(f); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	logger.Info("snapshot written",
		zap.String("path", opts.snapshotPath),
		zap.Uint64("frames", stats.Frames),
		zap.Int("particles", stats.Particles),
		zap.Int("edges", stats.Edges),
	)
	return nil
}
