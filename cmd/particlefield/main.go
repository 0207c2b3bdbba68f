// particlefield draws the ambient particle field in a terminal, or headless into a PNG
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/core"
	"github.com/lixenwraith/particlefield/engine"
	"github.com/lixenwraith/particlefield/logging"
	"github.com/lixenwraith/particlefield/render/cell"
	"github.com/lixenwraith/particlefield/status"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "particlefield:", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := opts.engineConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Config{
		Enabled: opts.debug,
		Dir:     logging.DefaultDir,
		Level:   "debug",
	})
	if err != nil {
		return err
	}
	defer closeLog()
	defer logger.Sync()

	if opts.snapshotPath != "" {
		return snapshot(opts, cfg, logger)
	}
	return runTerminal(opts, cfg, logger)
}

func runTerminal(opts options, cfg config.EngineConfig, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashScreen(screen)
	defer core.SetCrashScreen(nil)
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	screen.EnableFocus()
	screen.HideCursor()
	screen.Clear()

	presenter := cell.New(screen, opts.scale)
	events := engine.NewDispatcher()
	reg := status.NewRegistry()

	sched := engine.NewTickerScheduler(time.Second/time.Duration(opts.fps), nil)
	sched.Start()
	defer sched.Close()

	ctrl := engine.NewController(presenter, cfg,
		engine.WithScheduler(sched),
		engine.WithLogger(logger),
		engine.WithStatus(reg),
		engine.WithEvents(events),
		engine.WithViewportWidth(presenter.ViewportWidth),
	)
	ctrl.Mount()
	defer ctrl.Stop()

	ss := newSession(ctrl, events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(core.Guard(func() error {
		defer stop()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				vw, w, h := presenter.Fit()
				events.DispatchResize(engine.ResizeEvent{ViewportWidth: vw, Width: w, Height: h})
				screen.Sync()
			case *tcell.EventFocus:
				events.DispatchVisibility(ev.Focused)
			case *tcell.EventKey:
				if ss.handleKey(ev) {
					return nil
				}
			case *tcell.EventInterrupt:
				return nil
			}
		}
	}))

	// PollEvent blocks, so shutdown is signalled through the event queue
	g.Go(func() error {
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	if opts.configPath != "" {
		g.Go(core.Guard(func() error {
			return config.Watch(ctx, opts.configPath,
				func(next config.EngineConfig) {
					ss.apply(opts.overlay(next))
					logger.Info("config reloaded", zap.String("path", opts.configPath))
				},
				func(err error) {
					logger.Warn("config reload failed", zap.Error(err))
				})
		}))
	}

	if opts.metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, opts.metricsAddr, reg, logger)
		})
	}

	err = g.Wait()
	logger.Info("shutdown", zap.Uint64("frames", ctrl.Stats().Frames))
	return err
}
