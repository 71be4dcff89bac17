package devtools

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leonelquinteros/gotext"
)

// SaveScreenshotHTML saves the dump's map as an HTML file named after the
// current time and returns the file name.
func SaveScreenshotHTML(d Dump) (string, error) {
	filename := fmt.Sprintf("screenshot-%s.html", time.Now().Format("20060102-150405"))
	if err := os.WriteFile(filename, []byte(RenderHTML(d)), 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// RenderHTML renders the dump's map as a standalone HTML page.
func RenderHTML(d Dump) string {
	var html strings.Builder

	html.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>fogrunner - Screenshot</title>
    <style>
        body {
            background-color: #1a1a2e;
            color: #eee;
            font-family: 'Courier New', monospace;
            padding: 20px;
        }
        .header { color: #bb86fc; font-size: 18px; margin-bottom: 10px; }
        .stats { color: #888; margin-bottom: 20px; }
        .map-container {
            background-color: #0f0f1a;
            padding: 20px;
            border-radius: 8px;
            display: inline-block;
        }
        .map-row { white-space: pre; line-height: 1.2; font-size: 16px; }
        .player { color: #ff66ff; font-weight: bold; }
        .unseen { color: #666; }
        .partial { color: #ffff00; }
        .revealed { color: #00ff00; font-weight: bold; }
        .corridor { color: #4444ff; }
        .void { color: #1a1a2e; }
    </style>
</head>
<body>
`)

	html.WriteString(fmt.Sprintf(`    <div class="header">%s</div>`+"\n", gotext.Get("Floor %d", d.State.CurrentFloor)))
	html.WriteString(fmt.Sprintf(`    <div class="stats">%s</div>`+"\n",
		gotext.Get("seed %d, %d rooms, %.0f%% explored", d.State.LevelSeed, d.Floor.Len(), d.Floor.Progress()*100)))

	html.WriteString(`    <div class="map-container">` + "\n")
	for _, line := range d.MapLines(false) {
		html.WriteString(`        <div class="map-row">`)
		for _, r := range line {
			html.WriteString(fmt.Sprintf(`<span class="%s">%c</span>`, htmlClass(r), r))
		}
		html.WriteString("</div>\n")
	}
	html.WriteString(`    </div>` + "\n")

	html.WriteString(`</body>
</html>
`)
	return html.String()
}

func htmlClass(r rune) string {
	switch r {
	case symbolPlayer:
		return "player"
	case symbolUnseen:
		return "unseen"
	case symbolPartial:
		return "partial"
	case symbolRevealed:
		return "revealed"
	case symbolHorizontal, symbolVertical:
		return "corridor"
	default:
		return "void"
	}
}

