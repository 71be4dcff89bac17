package ebiten

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/leonelquinteros/gotext"
	"github.com/sirupsen/logrus"

	engineinput "fogrunner/pkg/engine/input"
	"fogrunner/pkg/engine/tick"
	"fogrunner/pkg/game/devtools"
	"fogrunner/pkg/game/gameplay"
	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/logger"
)

// keyCodes maps Ebiten keys to the raw codes the binding layer understands.
var keyCodes = []struct {
	key  ebiten.Key
	code string
}{
	{ebiten.KeyArrowUp, "arrow_up"},
	{ebiten.KeyArrowDown, "arrow_down"},
	{ebiten.KeyArrowLeft, "arrow_left"},
	{ebiten.KeyArrowRight, "arrow_right"},
	{ebiten.KeyW, "w"},
	{ebiten.KeyS, "s"},
	{ebiten.KeyA, "a"},
	{ebiten.KeyD, "d"},
	{ebiten.KeyK, "k"},
	{ebiten.KeyJ, "j"},
	{ebiten.KeyH, "h"},
	{ebiten.KeyL, "l"},
	{ebiten.KeyEscape, "escape"},
	{ebiten.KeyP, "p"},
	{ebiten.KeyQ, "q"},
	{ebiten.KeyF9, "f9"},
	{ebiten.KeyF5, "f5"},
	{ebiten.KeyEnter, "enter"},
	{ebiten.KeyNumpadEnter, "enter"},
	{ebiten.KeySpace, "space"},
	{ebiten.KeyR, "r"},
	{ebiten.Key1, "1"},
	{ebiten.Key2, "2"},
	{ebiten.Key3, "3"},
}

var padCodes = []struct {
	button ebiten.StandardGamepadButton
	code   string
}{
	{ebiten.StandardGamepadButtonLeftTop, "gamepad_dpad_up"},
	{ebiten.StandardGamepadButtonLeftBottom, "gamepad_dpad_down"},
	{ebiten.StandardGamepadButtonLeftLeft, "gamepad_dpad_left"},
	{ebiten.StandardGamepadButtonLeftRight, "gamepad_dpad_right"},
	{ebiten.StandardGamepadButtonCenterRight, "gamepad_start"},
	{ebiten.StandardGamepadButtonRightBottom, "gamepad_a"},
	{ebiten.StandardGamepadButtonRightTop, "gamepad_y"},
}

// Update samples input and advances the simulation by one tick (Ebiten interface)
func (h *Host) Update() error {
	// Log window opening on first update (confirms window is actually running)
	if !h.windowOpenedLogged {
		h.windowOpenedLogged = true
		w, hgt := ebiten.WindowSize()
		logger.Log.WithFields(logrus.Fields{"width": w, "height": hgt}).Info("main window opened")
	}

	if ebiten.IsWindowBeingClosed() {
		h.quit()
		return ebiten.Termination
	}

	h.gamepadIDs = ebiten.AppendGamepadIDs(h.gamepadIDs[:0])

	for _, code := range h.justPressed() {
		intent := engineinput.MapToIntent(engineinput.NewDebouncedInput(engineinput.RawInput{
			Device: engineinput.DeviceKeyboard,
			Code:   code,
		}))
		if intent.Action == engineinput.ActionQuit {
			h.quit()
			return ebiten.Termination
		}
		h.handle(intent)
	}

	if ss := h.run.Session(); ss != nil {
		ss.SetHeld(engineinput.HeldFromCodes(h.pressed()))
	}
	tick.Step(h.run, 1/float64(h.cfg.Simulation.TickRate))

	h.ticks++
	if h.live != nil && h.ticks%publishEvery == 0 {
		if ss := h.run.Session(); ss != nil {
			h.live.Publish(devtools.FrameOf(ss.Snapshot()))
		}
	}
	return nil
}

// pressed returns the codes held down this tick.
func (h *Host) pressed() []string {
	var codes []string
	for _, k := range keyCodes {
		if ebiten.IsKeyPressed(k.key) {
			codes = append(codes, k.code)
		}
	}
	for _, id := range h.gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, b := range padCodes {
			if ebiten.IsStandardGamepadButtonPressed(id, b.button) {
				codes = append(codes, b.code)
			}
		}
	}
	return codes
}

// justPressed returns the codes that went down this tick. Meta actions are
// edge-triggered so holding a key does not repeat them.
func (h *Host) justPressed() []string {
	var codes []string
	for _, k := range keyCodes {
		if inpututil.IsKeyJustPressed(k.key) {
			codes = append(codes, k.code)
		}
	}
	for _, id := range h.gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, b := range padCodes {
			if inpututil.IsStandardGamepadButtonJustPressed(id, b.button) {
				codes = append(codes, b.code)
			}
		}
	}
	return codes
}

func (h *Host) handle(intent engineinput.Intent) {
	ss := h.run.Session()

	switch intent.Action {
	case engineinput.ActionPause:
		if ss != nil {
			ss.TogglePause()
		}

	case engineinput.ActionRestartLevel:
		if ss != nil && ss.Restart() {
			h.say(gotext.Get("Restarting floor %d", ss.State().CurrentFloor))
		}

	case engineinput.ActionDumpLayout:
		if ss == nil || ss.Floor().Len() == 0 {
			return
		}
		snap := ss.Snapshot()
		d := devtools.Dump{
			State:  ss.State(),
			Result: generator.Result{Layout: ss.Floor().Layout(), EstimatedCompletionTime: snap.Estimated},
			Floor:  ss.Floor(),
			Player: snap.Cell,
		}
		path, err := devtools.DumpToFile(d)
		if err != nil {
			logger.Log.WithError(err).Error("floor dump failed")
			h.say(gotext.Get("Dump failed"))
			return
		}
		html, err := devtools.SaveScreenshotHTML(d)
		if err != nil {
			logger.Log.WithError(err).Warn("map screenshot failed")
		}
		logger.Log.WithFields(logrus.Fields{
			"path": path,
			"html": html,
		}).Info("floor dumped")
		h.say(gotext.Get("Floor written to %s", path))

	case engineinput.ActionConfirm:
		switch {
		case h.run.Over():
			seed := rand.Int64()
			logger.Log.WithField("seed", seed).Info("starting new run")
			h.run.NewGame(seed)
		case ss != nil && ss.Phase() == gameplay.Scoring:
			h.run.OpenShop()
		case h.run.Shop() != nil:
			h.run.Continue()
		}

	case engineinput.ActionReroll:
		if h.run.Shop() == nil {
			return
		}
		if err := h.run.Reroll(); err != nil {
			h.say(err.Error())
		}

	case engineinput.ActionBuy1, engineinput.ActionBuy2, engineinput.ActionBuy3:
		if h.run.Shop() == nil {
			return
		}
		if err := h.run.Buy(engineinput.BuySlot(intent.Action)); err != nil {
			h.say(err.Error())
		}
	}
}

// quit saves a run that is between floors; a floor in progress is replayed
// from its start next time.
func (h *Host) quit() {
	if ss := h.run.Session(); ss != nil && !h.run.Over() {
		if err := ss.Save(); err != nil {
			logger.Log.WithError(err).Error("saving on quit failed")
		}
	}
	logger.Log.Info("quitting")
}
