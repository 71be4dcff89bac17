package ebiten

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leonelquinteros/gotext"

	"fogrunner/pkg/game/config"
	"fogrunner/pkg/game/devtools"
	"fogrunner/pkg/game/gameplay"
	"fogrunner/pkg/logger"
)

// Host runs a gameplay.Run inside an Ebiten window. Ebiten calls Update at the
// configured tick rate, and every Update is exactly one simulation tick.
type Host struct {
	run  *gameplay.Run
	cfg  config.Config
	live *devtools.Live

	windowOpenedLogged bool
	ticks              int
	gamepadIDs         []ebiten.GamepadID

	message      string
	messageUntil time.Time

	digit *ebiten.Image // offscreen buffer for the enlarged countdown digit
}

// New returns a host for run. live may be nil.
func New(run *gameplay.Run, cfg config.Config, live *devtools.Live) *Host {
	return &Host{run: run, cfg: cfg, live: live}
}

// Run opens the window and blocks until it is closed or the player quits.
func (h *Host) Run() error {
	ebiten.SetWindowSize(h.cfg.Window.Width, h.cfg.Window.Height)
	ebiten.SetWindowTitle(gotext.Get("Fog Runner"))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(h.cfg.Simulation.TickRate)
	ebiten.SetWindowClosingHandled(true)

	logger.Log.WithField("tps", h.cfg.Simulation.TickRate).Info("starting window")
	return ebiten.RunGame(h)
}

// Layout returns the game's logical screen size (Ebiten interface)
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// say shows msg in the corner of the window for a few seconds.
func (h *Host) say(msg string) {
	h.message = msg
	h.messageUntil = time.Now().Add(messageTTL * time.Second)
}
