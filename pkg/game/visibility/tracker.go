// Package visibility tracks how much of each room the player has seen.
//
// Every room is split into seven regions: the center, the horizontal corridor
// pair, the vertical corridor pair and four corner quadrants. A region is
// marked seen once the player stands where it would be in view, and the
// weighted share of seen regions is the room's progress. Progress never goes
// down until the tracker is reset for a new floor.
package visibility

import (
	"fogrunner/pkg/engine/world"
)

const (
	// centerlineBand is how far off a room's axis the player may be and still
	// look straight down its corridors.
	centerlineBand = 1.5

	halfExtent = world.GridBasis / 2

	// nearRadius is the distance below which entering from a neighbour also
	// reveals the corridors the player is walking through.
	nearRadius = world.GridBasis
)

// Region weights. They sum to one.
const (
	weightHorizontal = 0.25
	weightVertical   = 0.25
	weightCenter     = 0.30
	weightQuadrant   = 0.05
)

// Flags records which regions of a room have been seen.
type Flags struct {
	HorizontalCorridors bool
	VerticalCorridors   bool
	Center              bool
	TopLeft             bool
	TopRight            bool
	BottomLeft          bool
	BottomRight         bool
}

// All reports whether every region has been seen.
func (f Flags) All() bool {
	return f.HorizontalCorridors && f.VerticalCorridors && f.Center &&
		f.TopLeft && f.TopRight && f.BottomLeft && f.BottomRight
}

// Count returns the number of seen regions.
func (f Flags) Count() int {
	n := 0
	for _, b := range []bool{f.HorizontalCorridors, f.VerticalCorridors, f.Center, f.TopLeft, f.TopRight, f.BottomLeft, f.BottomRight} {
		if b {
			n++
		}
	}
	return n
}

// Progress returns the weighted share of seen regions, exactly 1 when all are seen.
func (f Flags) Progress() float64 {
	if f.All() {
		return 1
	}
	p := 0.0
	if f.HorizontalCorridors {
		p += weightHorizontal
	}
	if f.VerticalCorridors {
		p += weightVertical
	}
	if f.Center {
		p += weightCenter
	}
	for _, q := range []bool{f.TopLeft, f.TopRight, f.BottomLeft, f.BottomRight} {
		if q {
			p += weightQuadrant
		}
	}
	return p
}

// merge sets every flag that is set in o.
func (f *Flags) merge(o Flags) {
	f.HorizontalCorridors = f.HorizontalCorridors || o.HorizontalCorridors
	f.VerticalCorridors = f.VerticalCorridors || o.VerticalCorridors
	f.Center = f.Center || o.Center
	f.TopLeft = f.TopLeft || o.TopLeft
	f.TopRight = f.TopRight || o.TopRight
	f.BottomLeft = f.BottomLeft || o.BottomLeft
	f.BottomRight = f.BottomRight || o.BottomRight
}

// Tracker accumulates what the player has seen of one room.
type Tracker struct {
	coord     world.Coord
	center    world.Vec2
	corridors world.Adjacency

	flags    Flags
	progress float64
	revealed bool
}

// NewTracker creates a tracker for the room at coord with the given corridor
// layout. The corridors never change for the tracker's lifetime.
func NewTracker(coord world.Coord, corridors world.Adjacency) *Tracker {
	return &Tracker{
		coord:     coord,
		center:    coord.WorldPosition(),
		corridors: corridors,
	}
}

// Coord returns the room the tracker belongs to.
func (t *Tracker) Coord() world.Coord { return t.coord }

// Center returns the world position of the room center.
func (t *Tracker) Center() world.Vec2 { return t.center }

// Corridors returns which neighbours the room opens onto.
func (t *Tracker) Corridors() world.Adjacency { return t.corridors }

// Flags returns the regions seen so far.
func (t *Tracker) Flags() Flags { return t.flags }

// SeenProgress returns the room's progress in [0, 1].
func (t *Tracker) SeenProgress() float64 { return t.progress }

// Revealed reports whether every region has been seen.
func (t *Tracker) Revealed() bool { return t.revealed }

// Reset clears everything seen. Called whenever the room is rebuilt for a new floor.
func (t *Tracker) Reset() {
	t.flags = Flags{}
	t.progress = 0
	t.revealed = false
}

// InRange reports whether a player at pos is close enough for the room to change.
func (t *Tracker) InRange(pos world.Vec2, viewDistance float64) bool {
	return pos.DistanceTo(t.center) <= viewDistance+halfExtent
}

// Observe marks the regions visible from pos and returns true if the room's
// progress changed.
func (t *Tracker) Observe(pos world.Vec2, viewDistance float64) bool {
	if t.revealed || !t.InRange(pos, viewDistance) {
		return false
	}

	before := t.flags
	t.flags.merge(Visible(pos.Sub(t.center)))
	if t.flags == before {
		return false
	}

	t.progress = t.flags.Progress()
	if t.flags.All() {
		t.revealed = true
	}
	return true
}

// Visible returns the regions of a room seen from offset, the player's
// position relative to the room center. Distance limits are the caller's
// concern; Visible only applies the geometry.
func Visible(offset world.Vec2) Flags {
	var f Flags
	dx, dy := offset.X, offset.Y

	if dy < centerlineBand && dy > -centerlineBand {
		f.HorizontalCorridors = true
		f.Center = true
	}
	if dx < centerlineBand && dx > -centerlineBand {
		f.VerticalCorridors = true
		f.Center = true
	}

	switch regionOf(dx, dy) {
	case regionLeft:
		f.TopRight = true
		f.BottomRight = true
	case regionAbove:
		f.TopLeft = true
		f.TopRight = true
	case regionInside:
		f.TopLeft = true
		f.TopRight = true
		f.BottomLeft = true
		f.BottomRight = true
	case regionBelow:
		f.BottomLeft = true
		f.BottomRight = true
	case regionRight:
		f.TopLeft = true
		f.BottomLeft = true
	}

	if offset.Length() < nearRadius {
		switch regionOf(dx, dy) {
		case regionLeft, regionRight:
			f.VerticalCorridors = true
		case regionAbove, regionBelow:
			f.HorizontalCorridors = true
		case regionInside:
			f.HorizontalCorridors = true
			f.VerticalCorridors = true
		}
	}
	return f
}

type region int

const (
	regionNone region = iota
	regionLeft
	regionAbove
	regionInside
	regionBelow
	regionRight
)

// regionOf classifies an offset from the room center. "Above" is toward
// negative y, the side of the room's top quadrants. Offsets exactly on an
// extent boundary fall in no region.
func regionOf(dx, dy float64) region {
	inRow := dy > -halfExtent && dy < halfExtent
	switch {
	case dx < -halfExtent && inRow:
		return regionLeft
	case dx > -halfExtent && dx < halfExtent:
		switch {
		case dy < -halfExtent:
			return regionAbove
		case inRow:
			return regionInside
		case dy > halfExtent:
			return regionBelow
		}
	case dx > halfExtent && inRow:
		return regionRight
	}
	return regionNone
}

// Aggregate returns the mean progress of trackers, or 0 when there are none.
func Aggregate(trackers []*Tracker) float64 {
	if len(trackers) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range trackers {
		sum += t.SeenProgress()
	}
	return sum / float64(len(trackers))
}
