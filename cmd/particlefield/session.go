package main

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particlefield/config"
	"github.com/lixenwraith/particlefield/engine"
	"github.com/lixenwraith/particlefield/parameter"
)

const (
	frequencyStep = 0.5
	countStep     = 25
)

// session holds the interactive overrides layered on the running config
type session struct {
	mu           sync.Mutex
	ctrl         *engine.Controller
	events       *engine.Dispatcher
	cfg          config.EngineConfig
	intersecting bool
}

func newSession(ctrl *engine.Controller, events *engine.Dispatcher) *session {
	return &session{
		ctrl:         ctrl,
		events:       events,
		cfg:          ctrl.Config(),
		intersecting: true,
	}
}

// apply replaces the base config, e.g. after a file reload
func (s *session) apply(cfg config.EngineConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.ctrl.Reconfigure(cfg)
}

// handleKey reports whether the key asks to quit
func (s *session) handleKey(ev *tcell.EventKey) bool {
	return s.handleInput(ev.Key(), ev.Rune())
}

func (s *session) handleInput(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch r {
	case 'q', 'Q':
		return true
	case 'p':
		s.mu.Lock()
		s.intersecting = !s.intersecting
		intersecting := s.intersecting
		s.mu.Unlock()
		s.events.DispatchIntersection(intersecting)
		return false
	}

	s.mu.Lock()
	cfg, changed := adjust(s.cfg, r)
	if changed {
		s.cfg = cfg
	}
	s.mu.Unlock()

	if changed {
		s.ctrl.Reconfigure(cfg)
	}
	return false
}

// adjust applies one config hotkey
func adjust(cfg config.EngineConfig, r rune) (config.EngineConfig, bool) {
	switch r {
	case 's':
		cfg.EnableShadows = !cfg.EnableShadows
	case '+', '=':
		cfg.ConnectionFrequency += frequencyStep
	case '-':
		cfg.ConnectionFrequency = max(0, cfg.ConnectionFrequency-frequencyStep)
	case ']':
		cfg.ParticleCount = min(cfg.ParticleCount+countStep, parameter.MaxParticles)
	case '[':
		cfg.ParticleCount = max(0, cfg.ParticleCount-countStep)
	default:
		return cfg, false
	}
	return cfg, true
}
