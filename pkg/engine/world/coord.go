package world

import (
	"cmp"
	"fmt"
	"math"
)

// GridBasis is the world-space distance between the centers of two adjacent rooms.
const GridBasis = 6.0

// Coord is a room position on the floor grid, in grid units.
// Coords are comparable and used directly as map keys.
type Coord struct {
	X int64
	Y int64
}

// Origin is the start room of every floor.
var Origin = Coord{}

// C is shorthand for building a Coord.
func C(x, y int64) Coord {
	return Coord{X: x, Y: y}
}

// String returns the coordinate as "(x,y)"
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by (dx, dy)
func (c Coord) Add(dx, dy int64) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the neighbouring coordinate in the given direction.
// Step(None) returns c unchanged.
func (c Coord) Step(dir Direction) Coord {
	dx, dy := dir.Delta()
	return c.Add(dx, dy)
}

// WorldPosition returns the world-space center of the room at c.
func (c Coord) WorldPosition() Vec2 {
	return Vec2{X: float64(c.X) * GridBasis, Y: float64(c.Y) * GridBasis}
}

// Less orders coordinates by X, then Y.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

// Compare orders coordinates like Less, returning -1, 0 or +1.
func (c Coord) Compare(o Coord) int {
	if c.X != o.X {
		return cmp.Compare(c.X, o.X)
	}
	return cmp.Compare(c.Y, o.Y)
}

// ManhattanDistance returns |dx| + |dy| between two coordinates.
func (c Coord) ManhattanDistance(o Coord) int64 {
	return abs64(c.X-o.X) + abs64(c.Y-o.Y)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Vec2 is a continuous world-space position.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// DistanceTo returns the euclidean distance between v and o.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Sub(o).Length()
}

// NearestCoord returns the room whose center is closest to v.
func (v Vec2) NearestCoord() Coord {
	return Coord{
		X: int64(math.Round(v.X / GridBasis)),
		Y: int64(math.Round(v.Y / GridBasis)),
	}
}
