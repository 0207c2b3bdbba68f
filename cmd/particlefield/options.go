package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/parameter"
)

// options are the parsed command line
// set records which flags were given so they override file values only when explicit
type options struct {
	configPath string
	count      int
	shadows    bool
	frequency  float64
	seed       uint64
	twinkle    float64

	fps   int
	scale int
	debug bool

	metricsAddr string

	snapshotPath string
	frames       int
	width        int
	height       int

	set map[string]bool
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("particlefield", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "YAML engine config, reloaded on change")
	fs.IntVar(&o.count, "count", parameter.DefaultParticleCount, "requested particle count")
	fs.BoolVar(&o.shadows, "shadows", false, "paint particles with a soft glow")
	fs.Float64Var(&o.frequency, "frequency", parameter.DefaultConnectionFrequency, "connection frequency, 0 disables lines")
	fs.Uint64Var(&o.seed, "seed", 0, "spawn seed, 0 seeds from the clock")
	fs.Float64Var(&o.twinkle, "twinkle", 0, "opacity twinkle depth in [0,1]")
	fs.IntVar(&o.fps, "fps", parameter.FrameRate, "frame loop rate")
	fs.IntVar(&o.scale, "scale", 4, "raster pixels per half-cell")
	fs.BoolVar(&o.debug, "debug", false, "write logs to logs/particlefield.log")
	fs.StringVar(&o.metricsAddr, "metrics", "", "serve Prometheus metrics on this address, e.g. :9102")
	fs.StringVar(&o.snapshotPath, "snapshot", "", "render headless to this PNG and exit")
	fs.IntVar(&o.frames, "frames", 120, "frames simulated before the snapshot")
	fs.IntVar(&o.width, "width", 1200, "snapshot width in pixels")
	fs.IntVar(&o.height, "height", 600, "snapshot height in pixels")

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.fps <= 0 {
		return o, fmt.Errorf("-fps must be positive, got %d", o.fps)
	}
	if o.snapshotPath != "" && (o.width <= 0 || o.height <= 0 || o.frames <= 0) {
		return o, fmt.Errorf("-snapshot needs positive -width, -height and -frames")
	}
	return o, nil
}

// engineConfig loads the config file, if any, then applies explicit flags
func (o options) engineConfig() (config.EngineConfig, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	return o.overlay(cfg), nil
}

func (o options) overlay(cfg config.EngineConfig) config.EngineConfig {
	if o.set["count"] {
		cfg.ParticleCount = o.count
	}
	if o.set["shadows"] {
		cfg.EnableShadows = o.shadows
	}
	if o.set["frequency"] {
		cfg.ConnectionFrequency = o.frequency
	}
	if o.set["seed"] {
		cfg.Seed = o.seed
	}
	if o.set["twinkle"] {
		cfg.Style.Twinkle = o.twinkle
	}
	return cfg
}
