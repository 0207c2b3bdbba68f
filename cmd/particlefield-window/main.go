// particlefield-window draws the ambient particle field in a resizable desktop window
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/engine"
	"github.com/lixenwraith/particlefield/logging"
	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/render/window"
)

func main() {
	configPath := flag.String("config", "", "YAML engine config")
	count := flag.Int("count", parameter.DefaultParticleCount, "requested particle count")
	shadows := flag.Bool("shadows", false, "paint particles with a soft glow")
	frequency := flag.Float64("frequency", parameter.DefaultConnectionFrequency, "connection frequency, 0 disables lines")
	width := flag.Int("width", 1200, "initial window width")
	height := flag.Int("height", 600, "initial window height")
	debug := flag.Bool("debug", false, "write logs to logs/particlefield.log")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "particlefield-window:", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "count":
			cfg.ParticleCount = *count
		case "shadows":
			cfg.EnableShadows = *shadows
		case "frequency":
			cfg.ConnectionFrequency = *frequency
		}
	})

	logger, closeLog, err := logging.New(logging.Config{Enabled: *debug, Dir: logging.DefaultDir, Level: "debug"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "particlefield-window:", err)
		os.Exit(1)
	}
	defer closeLog()

	events := engine.NewDispatcher()
	sched := window.NewScheduler(nil)
	game := window.NewGame(sched, events)

	ctrl := engine.NewController(game.Surface, cfg,
		engine.WithScheduler(sched),
		engine.WithLogger(logger),
		engine.WithEvents(events),
	)
	ctrl.Mount()
	defer ctrl.Stop()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("particlefield")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game loop failed", zap.Error(err))
	}
	logger.Info("shutdown", zap.Uint64("frames", ctrl.Stats().Frames))
}
