package ebiten

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"

	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/gameplay"
	"fogrunner/pkg/game/scoring"
	"fogrunner/pkg/game/upgrades"
)

// camera maps world positions to screen pixels around a focus point. Screen
// y grows downwards while world y grows upwards.
type camera struct {
	focus  world.Vec2
	cx, cy float64
	scale  float64
}

func (c camera) point(p world.Vec2) (float32, float32) {
	return float32(c.cx + (p.X-c.focus.X)*c.scale), float32(c.cy - (p.Y-c.focus.Y)*c.scale)
}

func (c camera) length(v float64) float32 {
	return float32(v * c.scale)
}

// Draw renders the game to the screen (Ebiten interface)
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	if sh := h.run.Shop(); sh != nil {
		h.drawShop(screen, sh)
		h.drawMessage(screen)
		return
	}

	ss := h.run.Session()
	snap := ss.Snapshot()
	w, hgt := screen.Bounds().Dx(), screen.Bounds().Dy()
	cam := camera{focus: snap.Position, cx: float64(w) / 2, cy: float64(hgt) / 2, scale: h.cfg.Window.CellSize}

	h.drawFloor(screen, cam, ss.Floor().Layout(), snap)
	h.drawPlayer(screen, cam, snap)
	h.drawHUD(screen, snap)

	switch snap.Phase {
	case gameplay.Loading:
		h.drawCentered(screen, []string{gotext.Get("Generating floor %d...", snap.Floor)})
	case gameplay.WarmUp:
		h.drawCountdown(screen, snap.Countdown)
	case gameplay.Paused:
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(hgt), colorOverlay, false)
		h.drawCentered(screen, []string{gotext.Get("PAUSED"), "", gotext.Get("P / Esc to resume, F5 to restart")})
	case gameplay.Scoring:
		h.drawCard(screen, snap.Card)
	}
	h.drawMessage(screen)
}

// drawFloor draws every room shaded by how much of it has been seen, with
// corridors to its right and upper neighbours.
func (h *Host) drawFloor(screen *ebiten.Image, cam camera, layout world.Layout, snap gameplay.Snapshot) {
	for _, c := range layout.Coords() {
		center := c.WorldPosition()
		progress := snap.Rooms[c]

		for _, n := range []world.Coord{c.Add(1, 0), c.Add(0, 1)} {
			if !layout.Has(n) {
				continue
			}
			shade := roomColor(math.Min(progress, snap.Rooms[n]))
			mid := center.Add(n.WorldPosition()).Scale(0.5)
			halfW, halfH := corridorHalf, world.GridBasis/2.0
			if n.Y == c.Y {
				halfW, halfH = halfH, halfW
			}
			x, y := cam.point(world.Vec2{X: mid.X - halfW, Y: mid.Y + halfH})
			vector.DrawFilledRect(screen, x, y, cam.length(halfW*2), cam.length(halfH*2), shade, false)
		}
	}

	for _, c := range layout.Coords() {
		center := c.WorldPosition()
		x, y := cam.point(world.Vec2{X: center.X - roomHalf, Y: center.Y + roomHalf})
		size := cam.length(roomHalf * 2)
		vector.DrawFilledRect(screen, x, y, size, size, roomColor(snap.Rooms[c]), false)
		vector.StrokeRect(screen, x, y, size, size, 1, colorRoomBorder, false)
	}
}

func (h *Host) drawPlayer(screen *ebiten.Image, cam camera, snap gameplay.Snapshot) {
	x, y := cam.point(snap.Position)
	col := colorPlayer
	if snap.Phase == gameplay.WarmUp {
		col = pulse(colorPlayer, 0.5, 1.0, 2*time.Second, time.Now())
	}
	vector.DrawFilledCircle(screen, x, y, cam.length(playerRadius), col, true)

	if snap.CooldownRatio <= 0 {
		return
	}
	var path vector.Path
	start := float32(-math.Pi / 2)
	path.Arc(x, y, cam.length(ringRadius), start, start+float32(2*math.Pi*snap.CooldownRatio), vector.Clockwise)
	strokeOpts := &vector.StrokeOptions{Width: 2, MiterLimit: 10}
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(colorCooldown)
	vector.StrokePath(screen, &path, strokeOpts, drawOpts)
}

func (h *Host) drawHUD(screen *ebiten.Image, snap gameplay.Snapshot) {
	lines := []string{
		gotext.Get("Floor %d", snap.Floor),
		fmt.Sprintf("$%d", snap.Money),
		fmt.Sprintf("%s / %s", scoring.FormatTime(snap.Elapsed), scoring.FormatTime(snap.Estimated)),
		gotext.Get("Explored %.0f%%", snap.Progress*100),
	}
	h.drawPanel(screen, hudMargin, hudMargin, lines, colorPanelBackground)
}

// drawCountdown shows the big 3-2-1 for the last seconds of warm-up.
func (h *Host) drawCountdown(screen *ebiten.Image, remaining float64) {
	d := scoring.CountdownDigit(remaining)
	if d == 0 {
		return
	}
	if h.digit == nil {
		h.digit = ebiten.NewImage(8, lineHeight)
	}
	h.digit.Clear()
	ebitenutil.DebugPrint(h.digit, strconv.Itoa(d))

	w, hgt := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(digitScale, digitScale)
	op.GeoM.Translate(float64(w)/2-4*digitScale, float64(hgt)/4-lineHeight/2*digitScale)
	op.ColorScale.ScaleWithColor(colorCooldown)
	screen.DrawImage(h.digit, op)
}

func (h *Host) drawCard(screen *ebiten.Image, card *scoring.Card) {
	if card == nil {
		return
	}
	lines := card.Lines()
	lines = append(lines, "")
	if card.Defunded() {
		lines = append(lines, gotext.Get("Enter: start a new run"))
	} else {
		lines = append(lines, gotext.Get("Enter: visit the shop"))
	}
	h.drawCentered(screen, lines)
}

func (h *Host) drawShop(screen *ebiten.Image, sh *upgrades.Shop) {
	s := sh.State()
	lines := []string{
		gotext.Get("SHOP - floor %d next", s.CurrentFloor),
		fmt.Sprintf("$%d", s.Money),
		"",
	}
	h.drawPanel(screen, hudMargin, hudMargin, lines, colorPanelBackground)

	y := hudMargin + (len(lines)+1)*lineHeight
	for i, o := range sh.Offers() {
		bg := colorPanelBackground
		status := fmt.Sprintf("$%d", o.Price())
		switch {
		case o.Sold:
			bg = color.RGBA{colorSubtle.R, colorSubtle.G, colorSubtle.B, 120}
			status = gotext.Get("sold")
		case !sh.CanAfford(o.Price()):
			bg = color.RGBA{colorDenied.R / 3, colorDenied.G / 3, colorDenied.B / 3, 220}
		default:
			bg = color.RGBA{colorAction.R / 3, colorAction.G / 3, colorAction.B / 3, 220}
		}
		h.drawPanel(screen, hudMargin, y, []string{
			fmt.Sprintf("[%d] %s  %s", i+1, o.Name(), status),
			"    " + o.Description(),
		}, bg)
		y += 4 * lineHeight
	}

	h.drawPanel(screen, hudMargin, y, []string{
		gotext.Get("[R] reroll for $%d", sh.RerollCost()),
		gotext.Get("[Enter] descend"),
	}, colorPanelBackground)
}

func (h *Host) drawMessage(screen *ebiten.Image) {
	if h.message == "" || time.Now().After(h.messageUntil) {
		return
	}
	hgt := screen.Bounds().Dy()
	h.drawPanel(screen, hudMargin, hgt-hudMargin-2*lineHeight, []string{h.message}, colorPanelBackground)
}

// drawPanel draws lines of debug text on a filled box with its top-left at x, y.
func (h *Host) drawPanel(screen *ebiten.Image, x, y int, lines []string, bg color.Color) {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	const pad = 6
	vector.DrawFilledRect(screen, float32(x-pad), float32(y-pad),
		float32(width*6+2*pad), float32(len(lines)*lineHeight+2*pad), bg, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, x, y+i*lineHeight)
	}
}

func (h *Host) drawCentered(screen *ebiten.Image, lines []string) {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	w, hgt := screen.Bounds().Dx(), screen.Bounds().Dy()
	x := w/2 - width*3
	y := hgt/2 - len(lines)*lineHeight/2
	h.drawPanel(screen, x, y, lines, colorPanelBackground)
}
