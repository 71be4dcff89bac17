package world

// Direction represents one of the four grid directions a player can commit to.
// The zero value is None (no direction held / movement cancelled).
type Direction int

// Direction constants, in input priority order
const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// AllDirections returns the valid directions in input priority order
// (up beats down beats left beats right).
func AllDirections() []Direction {
	return []Direction{Up, Down, Left, Right}
}

// String returns the string representation of a direction
func (d Direction) String() string {
	switch d {
	case None:
		return "None"
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the direction is one of the four grid directions
func (d Direction) IsValid() bool {
	return d >= Up && d <= Right
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}

// Delta returns the x and y offsets for this direction. Up is +Y.
func (d Direction) Delta() (dx, dy int64) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Vertical reports whether the direction moves along the Y axis.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}
