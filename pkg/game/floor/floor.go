package floor

import (
	"github.com/zyedidia/generic/mapset"

	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/visibility"
)

// Floor is the loaded layout plus one visibility tracker per room. Trackers
// are indexed by coordinate; rooms find their neighbours through the layout
// rather than holding references to each other.
type Floor struct {
	layout   world.Layout
	trackers map[world.Coord]*visibility.Tracker
	order    []world.Coord
}

// New returns an empty floor. Progress is 0 until a layout is loaded.
func New() *Floor {
	return &Floor{
		layout:   world.NewLayout(),
		trackers: make(map[world.Coord]*visibility.Tracker),
	}
}

// Load discards every tracker and builds fresh ones for layout. The floor
// keeps its own copy so the caller's map may be reused.
func (f *Floor) Load(layout world.Layout) {
	f.layout = layout.Clone()
	f.order = f.layout.Coords()
	f.trackers = make(map[world.Coord]*visibility.Tracker, len(f.order))

	for _, c := range f.order {
		switch f.layout[c] {
		case world.Normal:
			t := visibility.NewTracker(c, f.layout.Adjacency(c))
			t.Reset()
			f.trackers[c] = t
		}
	}
}

// Layout returns the loaded layout. Callers must not modify it.
func (f *Floor) Layout() world.Layout {
	return f.layout
}

// Len returns the number of rooms.
func (f *Floor) Len() int {
	return len(f.trackers)
}

// Tracker returns the tracker of the room at c.
func (f *Floor) Tracker(c world.Coord) (*visibility.Tracker, bool) {
	t, ok := f.trackers[c]
	return t, ok
}

// Trackers returns every tracker in coordinate order.
func (f *Floor) Trackers() []*visibility.Tracker {
	out := make([]*visibility.Tracker, 0, len(f.order))
	for _, c := range f.order {
		if t, ok := f.trackers[c]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Observe feeds the player position to every room and returns how many changed.
func (f *Floor) Observe(pos world.Vec2, viewDistance float64) int {
	changed := 0
	for _, c := range f.order {
		if f.trackers[c].Observe(pos, viewDistance) {
			changed++
		}
	}
	return changed
}

// Progress returns the floor-wide share of what has been seen.
func (f *Floor) Progress() float64 {
	return visibility.Aggregate(f.Trackers())
}

// RevealedRooms returns the rooms that have been fully seen.
func (f *Floor) RevealedRooms() mapset.Set[world.Coord] {
	set := mapset.New[world.Coord]()
	for c, t := range f.trackers {
		if t.Revealed() {
			set.Put(c)
		}
	}
	return set
}
