// Package ebiten draws a run with Ebiten and feeds it keyboard and gamepad input.
package ebiten

import (
	"image/color"

	"fogrunner/pkg/engine/world"
)

// Color palette
var (
	colorBackground      = color.RGBA{26, 26, 46, 255}    // Dark blue-gray
	colorRoomUnseen      = color.RGBA{45, 45, 70, 255}    // Barely visible
	colorRoomRevealed    = color.RGBA{160, 160, 180, 255} // Light gray
	colorRoomBorder      = color.RGBA{60, 60, 80, 255}
	colorPlayer          = color.RGBA{0, 255, 0, 255}     // Bright green
	colorCooldown        = color.RGBA{255, 220, 100, 255} // Yellow
	colorAction          = color.RGBA{180, 150, 250, 255} // Blue-purple
	colorSubtle          = color.RGBA{120, 130, 180, 255}
	colorDenied          = color.RGBA{255, 100, 100, 255} // Bright red
	colorPanelBackground = color.RGBA{30, 30, 50, 220}    // Semi-transparent dark
	colorOverlay         = color.RGBA{0, 0, 0, 140}
)

// Room geometry in world units. Rooms are GridBasis apart; the gap between
// two boxes is bridged by a corridor.
const (
	roomHalf     = world.GridBasis * 0.375
	corridorHalf = world.GridBasis * 0.125
	playerRadius = world.GridBasis * 0.12
	ringRadius   = world.GridBasis * 0.22
)

const (
	hudMargin    = 12
	lineHeight   = 16
	digitScale   = 6
	publishEvery = 6 // ticks between live frames
	messageTTL   = 3 // seconds a status message stays up
)
