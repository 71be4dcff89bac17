// Package generator builds floor layouts from a save-state snapshot.
package generator

import (
	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/save"
)

// FloorGenerator is an interface for floor generation algorithms
type FloorGenerator interface {
	Generate(s save.State) Result
	Name() string
}

// Result is the outcome of one generation request.
type Result struct {
	Layout                  world.Layout
	EstimatedCompletionTime float64

	// Steps is the walk length drawn for this floor; 0 for the fixed floor.
	Steps int64
}

// Available generators
var (
	RandomWalk = &RandomWalkGenerator{}
)

// DefaultGenerator is the default floor generator
var DefaultGenerator FloorGenerator = RandomWalk

// Generate runs the default generator.
func Generate(s save.State) Result {
	return DefaultGenerator.Generate(s)
}

// TutorialLayout returns the fixed layout of floor 0.
func TutorialLayout() world.Layout {
	return world.LayoutOf(
		world.C(-1, 1),
		world.C(0, 1),
		world.C(0, 0),
		world.C(1, 0),
		world.C(2, 0),
		world.C(3, 0),
		world.C(4, 0),
		world.C(5, 0),
		world.C(5, -1),
	)
}

// EstimateCompletionTime returns the par time for clearing rooms on floor.
// Deeper floors allow less time per room, approaching one second.
func EstimateCompletionTime(rooms int, floor int64) float64 {
	depth := float64(max(floor, 0))
	perRoom := (1/(depth/2+1))*2 + 1
	return float64(rooms) * perRoom
}

// maxSteps is 20 + floor² + jitter, the walk length for floor.
func maxSteps(floor, jitter int64) int64 {
	return 20 + floor*floor + jitter
}
