package ebiten

import (
	"image/color"
	"math"
	"time"
)

// pulse scales base between lo and hi brightness on a sine wave of the given period.
func pulse(base color.RGBA, lo, hi float64, period time.Duration, now time.Time) color.RGBA {
	phase := float64(now.UnixMilli()%period.Milliseconds()) / float64(period.Milliseconds())
	value := (math.Sin(phase*2*math.Pi) + 1.0) / 2.0 // 0.0 to 1.0
	brightness := lo + (hi-lo)*value

	return color.RGBA{
		R: uint8(float64(base.R) * brightness),
		G: uint8(float64(base.G) * brightness),
		B: uint8(float64(base.B) * brightness),
		A: base.A,
	}
}

// lerpColor blends from a to b; t is clamped to [0, 1].
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// roomColor shades a room by how much of it has been seen.
func roomColor(progress float64) color.RGBA {
	return lerpColor(colorRoomUnseen, colorRoomRevealed, progress)
}
