package generator

import (
	"fogrunner/pkg/engine/rng"
	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/save"
)

// WarmupDiscards is the number of draws thrown away after the walk length is
// drawn. Existing saves depend on it; changing it changes every floor.
const WarmupDiscards = 3

// RandomWalkGenerator generates floors by walking from the origin in random
// cardinal steps and marking every visited cell as a room.
type RandomWalkGenerator struct{}

// Name returns the name of this generator
func (g *RandomWalkGenerator) Name() string {
	return "Random Walk"
}

// Generate creates the layout for the state's current floor.
func (g *RandomWalkGenerator) Generate(s save.State) Result {
	if s.CurrentFloor == 0 {
		return Result{Layout: TutorialLayout()}
	}

	layout := world.LayoutOf(world.Origin)
	steps := walk(s, func(c world.Coord) {
		layout[c] = world.Normal
	})

	return Result{
		Layout:                  layout,
		EstimatedCompletionTime: EstimateCompletionTime(layout.Len(), s.CurrentFloor),
		Steps:                   steps,
	}
}

// Walk returns every cell the walk stands on, in order, starting at the origin.
// Revisited cells appear once per visit. The fixed floor has no walk.
func (g *RandomWalkGenerator) Walk(s save.State) []world.Coord {
	if s.CurrentFloor == 0 {
		return nil
	}
	var path []world.Coord
	walk(s, func(c world.Coord) {
		path = append(path, c)
	})
	return path
}

// walk calls visit for every cell the walk stands on and returns the number
// of steps taken.
func walk(s save.State, visit func(world.Coord)) int64 {
	src := rng.New(s.Seed())

	steps := maxSteps(s.CurrentFloor, rng.Int64Inclusive(src, -10, 10))

	for range WarmupDiscards {
		rng.Int32Inclusive(src, -1, 1)
	}

	if steps <= 0 {
		return 0
	}
	pos := world.Origin
	for range steps {
		visit(pos)

		dx := rng.Int64Inclusive(src, -1, 1)
		dy := rng.Int64Inclusive(src, -1, 1)
		if dx != 0 && dy != 0 {
			if rng.Bool(src, 0.5) {
				dx = 0
			} else {
				dy = 0
			}
		}

		pos = pos.Add(dx, dy)
	}
	return steps
}
