// Package world provides the grid primitives shared by generation, movement and
// visibility: coordinates, directions, world-space vectors and floor layouts.
package world

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// RoomType is the kind of room placed at a coordinate.
type RoomType int

// Room types
const (
	Normal RoomType = iota
)

// String returns the string representation of a room type
func (t RoomType) String() string {
	switch t {
	case Normal:
		return "Normal"
	default:
		return "Unknown"
	}
}

// Layout maps each room coordinate on a floor to its room type.
// A layout is built once by a generator and must not be mutated after it has
// been handed to the simulation; use Clone to derive a modified copy.
type Layout map[Coord]RoomType

// CoordSet is a set of room coordinates
type CoordSet = mapset.Set[Coord]

// NewLayout creates an empty layout
func NewLayout() Layout {
	return make(Layout)
}

// LayoutOf builds a layout of Normal rooms at the given coordinates.
func LayoutOf(coords ...Coord) Layout {
	l := make(Layout, len(coords))
	for _, c := range coords {
		l[c] = Normal
	}
	return l
}

// Has returns true if a room exists at c
func (l Layout) Has(c Coord) bool {
	_, ok := l[c]
	return ok
}

// Len returns the number of distinct rooms
func (l Layout) Len() int {
	return len(l)
}

// Clone returns an independent copy of the layout
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	for c, t := range l {
		out[c] = t
	}
	return out
}

// Coords returns all room coordinates in a stable order (by X, then Y).
func (l Layout) Coords() []Coord {
	coords := make([]Coord, 0, len(l))
	for c := range l {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		return coords[i].Less(coords[j])
	})
	return coords
}

// Equal returns true if both layouts hold the same rooms with the same types
func (l Layout) Equal(o Layout) bool {
	if len(l) != len(o) {
		return false
	}
	for c, t := range l {
		if ot, ok := o[c]; !ok || ot != t {
			return false
		}
	}
	return true
}

// Adjacency records which of the four neighbouring rooms exist.
type Adjacency struct {
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// Count returns how many neighbours exist
func (a Adjacency) Count() int {
	n := 0
	for _, b := range []bool{a.Left, a.Right, a.Top, a.Bottom} {
		if b {
			n++
		}
	}
	return n
}

// Adjacency returns the neighbour flags for the room at c.
// Top and Bottom follow the room's own mesh orientation (top is -Y), matching
// how corridors are placed around a room.
func (l Layout) Adjacency(c Coord) Adjacency {
	return Adjacency{
		Left:   l.Has(c.Add(-1, 0)),
		Right:  l.Has(c.Add(1, 0)),
		Top:    l.Has(c.Add(0, -1)),
		Bottom: l.Has(c.Add(0, 1)),
	}
}

// Bounds returns the inclusive min and max corners of the layout.
// An empty layout returns two zero coordinates.
func (l Layout) Bounds() (min, max Coord) {
	first := true
	for c := range l {
		if first {
			min, max = c, c
			first = false
			continue
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
	}
	return min, max
}

// Reachable collects all rooms reachable from start through 4-directional
// neighbours using BFS. Returns an empty set if start is not a room.
func (l Layout) Reachable(start Coord) CoordSet {
	visited := mapset.New[Coord]()
	if !l.Has(start) {
		return visited
	}

	queue := []Coord{start}
	visited.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range AllDirections() {
			n := current.Step(dir)
			if l.Has(n) && !visited.Has(n) {
				visited.Put(n)
				queue = append(queue, n)
			}
		}
	}

	return visited
}

// Connected returns true if every room can be reached from every other room.
func (l Layout) Connected() bool {
	if len(l) == 0 {
		return true
	}
	for c := range l {
		return l.Reachable(c).Size() == len(l)
	}
	return true
}
