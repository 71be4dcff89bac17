package tui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"fogrunner/pkg/engine/terminal"
	"fogrunner/pkg/game/devtools"
	"fogrunner/pkg/game/gameplay"
	"fogrunner/pkg/game/scoring"
	"fogrunner/pkg/game/upgrades"
)

// Viewport margins and minimum sizes
const (
	ViewportMinRows = 7
	ViewportMinCols = 15
	// Lines needed outside viewport:
	// - Floor indicator + blank (2)
	// - Status bar + blank (3)
	// - Phase line (1)
	// - Card or hint (4)
	ViewportTopMargin = 10
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

// Renderer prints frames of a run as text. It is used by headless runs to
// watch a floor being played.
type Renderer struct {
	out     io.Writer
	colored bool

	colorAction      color.Style
	colorActionShort color.Style
	colorDenied      color.Style
	colorMoney       color.Style
	colorSubtle      color.Style

	regexpStringFunctions *regexp.Regexp
}

// New creates a renderer writing to out. Colour codes are only emitted when
// colored is set.
func New(out io.Writer, colored bool) *Renderer {
	t := &Renderer{out: out, colored: colored}
	t.Init()
	return t
}

// Init sets up the styles and the markup parser.
func (t *Renderer) Init() {
	t.colorAction = color.Style{color.FgMagenta}
	t.colorActionShort = color.Style{color.FgMagenta, color.OpBold}
	t.colorDenied = color.Style{color.FgRed, color.OpBold}
	t.colorMoney = color.Style{color.FgGreen, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}

	t.regexpStringFunctions = regexp.MustCompile(`([a-zA-Z_]*){([^{}]+)}`)
}

// Clear moves the cursor home and clears the terminal.
func (t *Renderer) Clear() {
	if t.colored {
		fmt.Fprint(t.out, "\x1b[H\x1b[2J")
	}
}

func (t *Renderer) style(s color.Style, text string) string {
	if !t.colored {
		return text
	}
	return s.Sprint(text)
}

// FormatText formats a message with the markup system: GT{} translates,
// ACTION{} highlights a key, MONEY{} and DENIED{} colour their operand.
func (t *Renderer) FormatText(msg string, args ...any) string {
	ret := fmt.Sprintf(msg, args...)

	matches := t.regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		var val string

		switch function {
		case "GT":
			val = dynamicGet(operand)
		case "ACTION":
			val = t.style(t.colorActionShort, operand[0:1]) + t.style(t.colorAction, operand[1:])
		case "MONEY":
			val = t.style(t.colorMoney, operand)
		case "DENIED":
			val = t.style(t.colorDenied, operand)
		case "SUBTLE":
			val = t.style(t.colorSubtle, operand)
		default:
			val = fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, -1)
	}

	return ret
}

// GetViewportSize returns the map viewport dimensions based on terminal size
func (t *Renderer) GetViewportSize() (rows, cols int) {
	termWidth, termHeight := terminal.GetSize()

	cols = termWidth
	rows = termHeight - ViewportTopMargin

	// Ensure minimum size
	if cols < ViewportMinCols {
		cols = ViewportMinCols
	}
	if rows < ViewportMinRows {
		rows = ViewportMinRows
	}

	// Keep rows and cols odd for centering
	if rows%2 == 0 {
		rows--
	}
	if cols%2 == 0 {
		cols--
	}

	return rows, cols
}

// RenderFrame renders a complete frame of the run.
func (t *Renderer) RenderFrame(run *gameplay.Run) {
	if sh := run.Shop(); sh != nil {
		t.renderShop(sh)
		return
	}
	ss := run.Session()
	snap := ss.Snapshot()

	t.printString("ACTION{%s}\n\n", gotext.Get("Floor %d", snap.Floor))

	rows, cols := t.GetViewportSize()
	d := devtools.Dump{State: ss.State(), Floor: ss.Floor(), Player: snap.Cell}
	for _, line := range d.MapWindow(rows, cols, t.colored) {
		fmt.Fprintln(t.out, line)
	}
	fmt.Fprintln(t.out)

	t.printStatusBar(snap)

	switch snap.Phase {
	case gameplay.WarmUp:
		if digit := scoring.CountdownDigit(snap.Countdown); digit > 0 {
			t.printString("SUBTLE{%s} %d\n", gotext.Get("Starting in"), digit)
		}
	case gameplay.Scoring:
		if snap.Card != nil {
			for _, line := range snap.Card.Lines() {
				t.printBullet(line)
			}
		}
	default:
		t.printString("SUBTLE{%s}\n", snap.Phase)
	}
}

func (t *Renderer) printStatusBar(snap gameplay.Snapshot) {
	t.printString("MONEY{$%d}  %s / %s  %s %.0f%%\n\n",
		snap.Money,
		scoring.FormatTime(snap.Elapsed),
		scoring.FormatTime(snap.Estimated),
		gotext.Get("explored"),
		snap.Progress*100)
}

func (t *Renderer) renderShop(sh *upgrades.Shop) {
	s := sh.State()
	t.printString("ACTION{%s}  MONEY{$%d}\n\n", gotext.Get("Shop before floor %d", s.CurrentFloor), s.Money)
	for i, o := range sh.Offers() {
		price := fmt.Sprintf("$%d", o.Price())
		switch {
		case o.Sold:
			price = "SUBTLE{" + gotext.Get("sold") + "}"
		case !sh.CanAfford(o.Price()):
			price = "DENIED{" + price + "}"
		}
		t.printBullet(fmt.Sprintf("%d. %s (%s) %s", i+1, o.Name(), o.Description(), price))
	}
	t.printString("\n%s $%d\n", gotext.Get("reroll"), sh.RerollCost())
}

// printString prints a formatted string
func (t *Renderer) printString(msg string, a ...any) {
	fmt.Fprint(t.out, t.FormatText(msg, a...))
}

// printBullet prints a bulleted item
func (t *Renderer) printBullet(txt string) {
	fmt.Fprint(t.out, "- "+t.FormatText("%s", txt)+"\n")
}
