// Package gameplay provides core game logic for player movement and the
// phases of a floor.
package gameplay

import (
	"math"

	"fogrunner/pkg/engine/input"
	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/save"
)

// epsilon bounds every denominator in the movement math.
const epsilon = 0.001

// Status is the movement state of the player.
type Status int

const (
	Idle Status = iota
	Moving
	Cooling
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Cooling:
		return "cooling"
	default:
		return "unknown"
	}
}

// StopCooldown returns how long a player moving at speed needs to come to rest.
// A player of the default mass stopping from rest needs no time at all.
func StopCooldown(speed, stoppingMass float64) float64 {
	return (math.Pow(math.Abs(speed), 1.4) / 100) * (stoppingMass / 128)
}

// Controller moves the player between rooms. The player accelerates toward the
// next room while its direction is held, and must cool down before changing
// direction or after stopping. The target room is always part of the layout
// while moving; a move toward a missing room bounces straight into cooling.
type Controller struct {
	layout world.Layout
	props  save.PlayerProperties

	status    Status
	direction world.Direction
	target    world.Coord
	speed     float64
	position  world.Vec2

	cooldown      float64
	totalCooldown float64

	// OnBounce, if set, is called when a move toward a missing room is rejected.
	OnBounce func(at, rejected world.Coord, speed float64)

	// OnStatusChange, if set, is called on every status transition.
	OnStatusChange func(from, to Status)
}

// NewController returns an idle controller at the origin of layout.
func NewController(layout world.Layout, props save.PlayerProperties) *Controller {
	c := &Controller{}
	c.Load(layout, props)
	return c
}

// Load replaces the layout and properties and puts the player back at the origin.
func (c *Controller) Load(layout world.Layout, props save.PlayerProperties) {
	c.layout = layout
	c.props = props
	c.Reset()
}

// Reset puts the player at rest on the origin.
func (c *Controller) Reset() {
	c.status = Idle
	c.direction = world.None
	c.target = world.Origin
	c.speed = 0
	c.position = world.Vec2{}
	c.cooldown = 0
	c.totalCooldown = 0
}

// Status returns the current movement state.
func (c *Controller) Status() Status { return c.status }

// Direction returns the committed (or, while cooling, the most recently held) direction.
func (c *Controller) Direction() world.Direction { return c.direction }

// Target returns the room being moved to, or the room the player rests on.
func (c *Controller) Target() world.Coord { return c.target }

// Speed returns the current speed in world units per second.
func (c *Controller) Speed() float64 { return c.speed }

// Position returns the continuous world position.
func (c *Controller) Position() world.Vec2 { return c.position }

// Cooldown returns the time left before the player may move again.
func (c *Controller) Cooldown() float64 { return c.cooldown }

// TotalCooldown returns the length of the current cooldown.
func (c *Controller) TotalCooldown() float64 { return c.totalCooldown }

// CooldownRatio returns the share of the cooldown still remaining.
func (c *Controller) CooldownRatio() float64 {
	return c.cooldown / math.Max(c.totalCooldown, epsilon)
}

// Cell returns the room the player logically occupies: the room it rests on,
// or while moving whichever of the two rooms it is closer to.
func (c *Controller) Cell() world.Coord {
	if c.status == Moving {
		return c.position.NearestCoord()
	}
	return c.target
}

// Physics advances the controller by dt seconds with the given directions held.
func (c *Controller) Physics(dt float64, held input.Held) {
	switch c.status {
	case Idle:
		if dir := held.Primary(); dir != world.None {
			c.direction = dir
			c.commit()
		}

	case Moving:
		c.speed = math.Min(c.speed+c.props.ActiveAcceleration*dt, c.props.MaxSpeed)

		dx, dy := c.direction.Delta()
		step := world.Vec2{X: float64(dx), Y: float64(dy)}.Scale(c.speed * dt)
		c.position = c.position.Add(step)

		if !c.reachedTarget() {
			return
		}

		switch next := held.Primary(); {
		case next == world.None:
			c.direction = world.None
			c.enter(Cooling)
		case next != c.direction:
			c.direction = next
			c.enter(Cooling)
		default:
			c.commit()
		}

	case Cooling:
		if held.Any() {
			c.direction = held.Primary()
		}

		if c.cooldown > 0 {
			c.cooldown = math.Max(c.cooldown-dt, 0)
			return
		}

		if held.Any() {
			c.commit()
		} else {
			c.direction = world.None
			c.enter(Idle)
		}
	}
}

// reachedTarget reports whether the tracked axis has reached or passed the target.
func (c *Controller) reachedTarget() bool {
	goal := c.target.WorldPosition()
	switch c.direction {
	case world.Up:
		return c.position.Y >= goal.Y
	case world.Down:
		return c.position.Y <= goal.Y
	case world.Left:
		return c.position.X <= goal.X
	case world.Right:
		return c.position.X >= goal.X
	default:
		return true
	}
}

// commit moves the target one room along the current direction, or bounces
// into cooling when that room does not exist.
func (c *Controller) commit() {
	next := c.target.Step(c.direction)
	if !c.layout.Has(next) {
		c.direction = world.None
		if c.OnBounce != nil {
			c.OnBounce(c.target, next, c.speed)
		}
		c.enter(Cooling)
		return
	}
	c.target = next
	c.enter(Moving)
}

func (c *Controller) enter(next Status) {
	if next == Cooling {
		c.totalCooldown = StopCooldown(c.speed, c.props.StoppingMass)
		c.cooldown = c.totalCooldown
		c.position = c.target.WorldPosition()
		c.speed = 0
	}

	prev := c.status
	c.status = next
	if prev != next && c.OnStatusChange != nil {
		c.OnStatusChange(prev, next)
	}
}
