package input

import (
	"fmt"
	"sort"
	"time"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceGamepad
	DeviceScript
)

// Action represents a high‑level intent in the game.
type Action int

const (
	ActionNone Action = iota

	// Movement (held, not edge-triggered)
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight

	// Meta
	ActionPause
	ActionQuit
	ActionDumpLayout
	ActionRestartLevel

	// Between floors
	ActionConfirm
	ActionReroll
	ActionBuy1
	ActionBuy2
	ActionBuy3
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
type Intent struct {
	Action Action
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "w", "arrow_up", "gamepad_dpad_up").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
// Held movement is sampled every tick, so only the meta actions rely on the
// host's own edge detection (inpututil for Ebiten).
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// bindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
var bindings = map[string]Action{
	"arrow_up":    ActionMoveUp,
	"w":           ActionMoveUp,
	"k":           ActionMoveUp,
	"arrow_down":  ActionMoveDown,
	"s":           ActionMoveDown,
	"j":           ActionMoveDown,
	"arrow_left":  ActionMoveLeft,
	"a":           ActionMoveLeft,
	"h":           ActionMoveLeft,
	"arrow_right": ActionMoveRight,
	"d":           ActionMoveRight,
	"l":           ActionMoveRight,

	"escape": ActionPause,
	"p":      ActionPause,
	"q":      ActionQuit,
	"f9":     ActionDumpLayout,
	"f5":     ActionRestartLevel,

	"enter": ActionConfirm,
	"space": ActionConfirm,
	"r":     ActionReroll,
	"1":     ActionBuy1,
	"2":     ActionBuy2,
	"3":     ActionBuy3,

	"gamepad_dpad_up":    ActionMoveUp,
	"gamepad_dpad_down":  ActionMoveDown,
	"gamepad_dpad_left":  ActionMoveLeft,
	"gamepad_dpad_right": ActionMoveRight,
	"gamepad_start":      ActionPause,
	"gamepad_a":          ActionConfirm,
	"gamepad_y":          ActionReroll,
}

// MapToIntent is the 3rd+4th layer: it applies the current bindings to a
// debounced input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// HeldFromCodes folds every currently pressed code into the four movement
// booleans the simulation consumes. Codes bound to non-movement actions are ignored.
func HeldFromCodes(codes []string) Held {
	var h Held
	for _, code := range codes {
		switch bindings[code] {
		case ActionMoveUp:
			h.Up = true
		case ActionMoveDown:
			h.Down = true
		case ActionMoveLeft:
			h.Left = true
		case ActionMoveRight:
			h.Right = true
		}
	}
	return h
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionMoveUp:
		return "Move Up"
	case ActionMoveDown:
		return "Move Down"
	case ActionMoveLeft:
		return "Move Left"
	case ActionMoveRight:
		return "Move Right"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	case ActionDumpLayout:
		return "Dump Layout"
	case ActionRestartLevel:
		return "Restart Level"
	case ActionConfirm:
		return "Confirm"
	case ActionReroll:
		return "Reroll Shop"
	case ActionBuy1, ActionBuy2, ActionBuy3:
		return fmt.Sprintf("Buy Offer %d", BuySlot(a)+1)
	default:
		return "None"
	}
}

// BuySlot returns the shop offer index a buy action selects, or -1.
func BuySlot(a Action) int {
	if a < ActionBuy1 || a > ActionBuy3 {
		return -1
	}
	return int(a - ActionBuy1)
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Ensure stable ordering of codes within each action so UI doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// Codes returns every bound code in sorted order. Hosts poll these each tick.
func Codes() []string {
	codes := make([]string, 0, len(bindings))
	for code := range bindings {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
