package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lixenwraith/particlefield/engine"
)

// Scheduler runs queued frames from the game's Update tick
type Scheduler struct {
	*engine.ManualScheduler
	clock engine.TimeProvider
}

func NewScheduler(clock engine.TimeProvider) *Scheduler {
	if clock == nil {
		clock = engine.NewMonotonicTimeProvider()
	}
	return &Scheduler{ManualScheduler: engine.NewManualScheduler(), clock: clock}
}

// Pump runs the frames queued since the last tick
func (s *Scheduler) Pump() int {
	return s.RunFrame(s.clock.Now())
}

// Game adapts a field controller to ebiten.Game
// Window size and focus changes are forwarded through the dispatcher
type Game struct {
	Surface *Surface
	Sched   *Scheduler
	Events  *engine.Dispatcher

	layoutW, layoutH int
	focused          bool
}

func NewGame(sched *Scheduler, events *engine.Dispatcher) *Game {
	return &Game{
		Surface: &Surface{},
		Sched:   sched,
		Events:  events,
		focused: true,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if w, h := g.Surface.Size(); w != g.layoutW || h != g.layoutH {
		g.Surface.Resize(g.layoutW, g.layoutH)
		g.Events.DispatchResize(engine.ResizeEvent{ViewportWidth: g.layoutW, Width: g.layoutW, Height: g.layoutH})
	}

	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		g.Events.DispatchVisibility(focused)
	}

	g.Sched.Pump()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if img := g.Surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
}

// Layout keeps a 1:1 pixel mapping; the new size is applied on the next Update
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.layoutW, g.layoutH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
