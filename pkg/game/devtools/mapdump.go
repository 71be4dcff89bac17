// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/floor"
	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/game/save"
)

const mapDumpFilename = "floor.txt"

// Map symbols.
const (
	symbolPlayer     = '@'
	symbolUnseen     = '?'
	symbolPartial    = '+'
	symbolRevealed   = '.'
	symbolVoid       = ' '
	symbolHorizontal = '-'
	symbolVertical   = '|'
)

var (
	colorPlayer   = color.Style{color.FgMagenta, color.OpBold}
	colorUnseen   = color.Style{color.FgGray}
	colorPartial  = color.Style{color.FgYellow}
	colorRevealed = color.Style{color.FgGreen, color.OpBold}
	colorCorridor = color.Style{color.FgBlue}
)

// Dump is everything a floor dump shows.
type Dump struct {
	State  save.State
	Result generator.Result
	Floor  *floor.Floor
	Player world.Coord
}

// NewDump loads result into a fresh floor with the player on the origin.
func NewDump(s save.State, result generator.Result) Dump {
	fl := floor.New()
	fl.Load(result.Layout)
	return Dump{State: s, Result: result, Floor: fl, Player: world.Origin}
}

// roomSymbol returns the symbol for the room at c, or symbolVoid if there is none.
func (d Dump) roomSymbol(c world.Coord) rune {
	if c == d.Player {
		return symbolPlayer
	}
	t, ok := d.Floor.Tracker(c)
	if !ok {
		return symbolVoid
	}
	switch {
	case t.Revealed():
		return symbolRevealed
	case t.SeenProgress() > 0:
		return symbolPartial
	default:
		return symbolUnseen
	}
}

func styleFor(r rune) color.Style {
	switch r {
	case symbolPlayer:
		return colorPlayer
	case symbolUnseen:
		return colorUnseen
	case symbolPartial:
		return colorPartial
	case symbolRevealed:
		return colorRevealed
	default:
		return colorCorridor
	}
}

// mapGrid lays the map out as runes with up (+Y) at the top and returns it
// with the player's line and column.
func (d Dump) mapGrid() (grid [][]rune, playerRow, playerCol int) {
	layout := d.Floor.Layout()
	if layout.Len() == 0 {
		return nil, 0, 0
	}
	lo, hi := layout.Bounds()
	width := int(hi.X-lo.X)*2 + 1

	for y := hi.Y; y >= lo.Y; y-- {
		rooms := make([]rune, width)
		below := make([]rune, width)
		for i := 0; i < width; i++ {
			x := lo.X + int64(i/2)
			c := world.C(x, y)
			below[i] = symbolVoid
			if i%2 == 1 {
				rooms[i] = symbolVoid
				if layout.Has(c) && layout.Has(c.Add(1, 0)) {
					rooms[i] = symbolHorizontal
				}
				continue
			}
			rooms[i] = d.roomSymbol(c)
			if c == d.Player {
				playerRow, playerCol = len(grid), i
			}
			if y > lo.Y && layout.Has(c) && layout.Has(c.Add(0, -1)) {
				below[i] = symbolVertical
			}
		}
		grid = append(grid, rooms)
		if y > lo.Y {
			grid = append(grid, below)
		}
	}
	return grid, playerRow, playerCol
}

func render(grid [][]rune, colored bool) []string {
	lines := make([]string, 0, len(grid))
	for _, row := range grid {
		var b strings.Builder
		for _, r := range []rune(strings.TrimRight(string(row), " ")) {
			if colored && r != symbolVoid {
				b.WriteString(styleFor(r).Sprint(string(r)))
				continue
			}
			b.WriteRune(r)
		}
		lines = append(lines, b.String())
	}
	return lines
}

// MapLines renders the layout with corridors between neighbouring rooms.
// Up (+Y) is at the top.
func (d Dump) MapLines(colored bool) []string {
	grid, _, _ := d.mapGrid()
	return render(grid, colored)
}

// MapWindow renders at most rows lines of cols characters, centred on the
// player where the map is large enough.
func (d Dump) MapWindow(rows, cols int, colored bool) []string {
	grid, pr, pc := d.mapGrid()
	if len(grid) == 0 || rows <= 0 || cols <= 0 {
		return nil
	}
	top := clamp(pr-rows/2, 0, max(len(grid)-rows, 0))
	left := clamp(pc-cols/2, 0, max(len(grid[0])-cols, 0))

	window := make([][]rune, 0, rows)
	for _, row := range grid[top:min(top+rows, len(grid))] {
		window = append(window, row[left:min(left+cols, len(row))])
	}
	return render(window, colored)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Write prints the full dump: metadata, legend, map and per-room state.
func (d Dump) Write(w io.Writer, colored bool) error {
	ew := &errWriter{w: w}

	ew.printf("=== %s ===\n\n", gotext.Get("FLOOR DUMP"))
	ew.printf("--- %s ---\n", gotext.Get("Metadata"))
	ew.printf("level_seed: %d\n", d.State.LevelSeed)
	ew.printf("current_floor: %d\n", d.State.CurrentFloor)
	ew.printf("in_shop: %v\n", d.State.InShop)
	ew.printf("mod_shop_page: %d\n", d.State.ModShopPage)
	ew.printf("money: %d\n", d.State.Money)
	ew.printf("seed: %x\n", d.State.Seed())
	ew.printf("steps: %d\n", d.Result.Steps)
	ew.printf("rooms: %d\n", d.Floor.Len())
	ew.printf("estimated_completion_time: %.2f\n", d.Result.EstimatedCompletionTime)
	ew.printf("progress: %.3f\n", d.Floor.Progress())
	ew.printf("player_cell: %d,%d\n", d.Player.X, d.Player.Y)
	ew.printf("\n")

	ew.printf("--- %s ---\n", gotext.Get("Legend"))
	ew.printf("%c = %s  %c = %s  %c = %s  %c = %s  %c %c = %s\n\n",
		symbolPlayer, gotext.Get("player"),
		symbolUnseen, gotext.Get("unseen"),
		symbolPartial, gotext.Get("partly seen"),
		symbolRevealed, gotext.Get("revealed"),
		symbolHorizontal, symbolVertical, gotext.Get("corridor"))

	ew.printf("--- %s ---\n", gotext.Get("Map"))
	for _, line := range d.MapLines(colored) {
		ew.printf("%s\n", line)
	}
	ew.printf("\n")

	ew.printf("--- %s ---\n", gotext.Get("Rooms"))
	for _, t := range d.Floor.Trackers() {
		c := t.Coord()
		ew.printf("  x: %d y: %d progress: %.2f revealed: %v seen: %d/7 corridors: %s\n",
			c.X, c.Y, t.SeenProgress(), t.Revealed(), t.Flags().Count(), corridorNames(t.Corridors()))
	}
	return ew.err
}

func corridorNames(a world.Adjacency) string {
	var names []string
	if a.Left {
		names = append(names, "left")
	}
	if a.Right {
		names = append(names, "right")
	}
	if a.Top {
		names = append(names, "top")
	}
	if a.Bottom {
		names = append(names, "bottom")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// DumpToFile writes the dump without colour to floor.txt in the working
// directory and returns its absolute path.
func DumpToFile(d Dump) (string, error) {
	absPath, err := filepath.Abs(mapDumpFilename)
	if err != nil {
		return "", err
	}
	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	if err := d.Write(f, false); err != nil {
		f.Close()
		return "", err
	}
	return absPath, f.Close()
}

// errWriter keeps the first write error so the dump can be written without
// checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
