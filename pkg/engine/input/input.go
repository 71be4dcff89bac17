// Package input turns device state into the logical movement booleans and meta
// intents the simulation consumes. It knows nothing about any particular device
// library; hosts translate their key state into binding codes.
package input

import (
	"fmt"
	"strings"

	"fogrunner/pkg/engine/world"
)

// Held is the per-tick snapshot of which movement directions are held down.
type Held struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Any returns true if at least one direction is held
func (h Held) Any() bool {
	return h.Up || h.Down || h.Left || h.Right
}

// Has returns true if the given direction is held
func (h Held) Has(dir world.Direction) bool {
	switch dir {
	case world.Up:
		return h.Up
	case world.Down:
		return h.Down
	case world.Left:
		return h.Left
	case world.Right:
		return h.Right
	default:
		return false
	}
}

// Primary returns the held direction with the highest priority
// (up > down > left > right), or world.None when nothing is held.
func (h Held) Primary() world.Direction {
	for _, dir := range world.AllDirections() {
		if h.Has(dir) {
			return dir
		}
	}
	return world.None
}

// String returns a compact representation such as "U.L." for debugging
func (h Held) String() string {
	var b strings.Builder
	for _, dir := range world.AllDirections() {
		if h.Has(dir) {
			b.WriteString(dir.String()[:1])
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// HeldOf returns a Held with only the given directions pressed.
func HeldOf(dirs ...world.Direction) Held {
	var h Held
	for _, dir := range dirs {
		switch dir {
		case world.Up:
			h.Up = true
		case world.Down:
			h.Down = true
		case world.Left:
			h.Left = true
		case world.Right:
			h.Right = true
		}
	}
	return h
}

// ParseScript parses a scripted input string for headless runs. Each
// comma-separated step is "<dirs>x<ticks>", where dirs is any of "udlr" (or "-"
// for nothing held), e.g. "ux120,-x30,rx60".
func ParseScript(script string) ([]ScriptStep, error) {
	var steps []ScriptStep
	for _, part := range strings.Split(script, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dirs, count, ok := strings.Cut(part, "x")
		if !ok {
			return nil, fmt.Errorf("script step %q: missing tick count", part)
		}
		var ticks int
		if _, err := fmt.Sscanf(count, "%d", &ticks); err != nil || ticks < 0 {
			return nil, fmt.Errorf("script step %q: invalid tick count", part)
		}
		var held Held
		for _, r := range dirs {
			switch r {
			case 'u':
				held.Up = true
			case 'd':
				held.Down = true
			case 'l':
				held.Left = true
			case 'r':
				held.Right = true
			case '-':
			default:
				return nil, fmt.Errorf("script step %q: unknown direction %q", part, r)
			}
		}
		steps = append(steps, ScriptStep{Held: held, Ticks: ticks})
	}
	return steps, nil
}

// ScriptStep holds a set of directions for a number of ticks.
type ScriptStep struct {
	Held  Held
	Ticks int
}
