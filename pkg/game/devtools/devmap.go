package devtools

import (
	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/game/save"
)

// DevGenerator builds a hard-coded developer testing floor: a square block of
// rooms centred on the origin, so every direction can be walked from the
// start. It ignores the seed.
type DevGenerator struct {
	// Radius is how many rooms the block extends from the origin each way.
	Radius int64
}

// Name returns the generator's name.
func (g DevGenerator) Name() string {
	return "dev"
}

// Generate returns the block with the usual time estimate for its size.
func (g DevGenerator) Generate(s save.State) generator.Result {
	layout := DevLayout(g.Radius)
	return generator.Result{
		Layout:                  layout,
		EstimatedCompletionTime: generator.EstimateCompletionTime(layout.Len(), s.CurrentFloor),
	}
}

// DevLayout returns a (2r+1)² block of rooms centred on the origin. A
// negative radius is treated as zero.
func DevLayout(r int64) world.Layout {
	r = max(r, 0)
	layout := world.NewLayout()
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			layout[world.C(x, y)] = world.Normal
		}
	}
	return layout
}
