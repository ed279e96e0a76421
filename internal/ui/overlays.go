package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

const (
	seatRowH   = 36
	seatRowW   = 280
	seatRowGap = 8
)

// seatRowRect is the clickable row for seat i on the setup screen.
func (g *Game) seatRowRect(i int) image.Rectangle {
	x := g.layout.BoardOrigin.X + 40
	y := g.layout.BoardOrigin.Y + 80 + i*(seatRowH+seatRowGap)
	return image.Rect(x, y, x+seatRowW, y+seatRowH)
}

func (g *Game) drawSetup(screen *ebiten.Image, pal [game.Seats]color.RGBA) {
	x := g.layout.BoardOrigin.X + 40
	y := g.layout.BoardOrigin.Y + 20
	g.drawText(screen, "NEW GAME", x, y, colText)
	g.drawText(screen, "Click a seat or press 1-4 to toggle human / ai.", x, y+24, colDim)

	for i := 0; i < game.Seats; i++ {
		r := g.seatRowRect(i)
		fillRect(screen, r, colSlot)
		strokeRect(screen, r, 1, colGrid)
		sw := image.Rect(r.Min.X+10, r.Min.Y+10, r.Min.X+26, r.Min.Y+26)
		fillRect(screen, sw, pal[i])
		c := colText
		if g.seats[i] == game.SeatAI {
			c = colDim
		}
		g.drawText(screen, fmt.Sprintf("%d  Player %d   %s", i+1, i+1, g.seats[i]), r.Min.X+36, r.Min.Y+12, c)
	}

	hint := "Enter to start"
	if g.session.Pending() {
		hint = "Setting up..."
	}
	last := g.seatRowRect(game.Seats - 1)
	g.drawText(screen, hint, x, last.Max.Y+20, colWarn)
}

// drawPreview tints the projected cells under the cursor. Occupied cells are
// tinted too; the authority decides legality.
func (g *Game) drawPreview(screen *ebiten.Image) {
	for _, c := range g.preview.Cells() {
		fillRect(screen, g.layout.CellRect(c), colPreview)
	}
	if anchor, ok := g.preview.Hovered(); ok {
		strokeRect(screen, g.layout.CellRect(anchor), 2, colText)
	}
}

// drawBusy shades the board while an AI seat is thinking. Input still
// reaches the session, which refuses it.
func (g *Game) drawBusy(screen *ebiten.Image) {
	b := g.layout.BoardRect()
	fillRect(screen, b, colShade)
	msg := fmt.Sprintf("Player %d (ai) is thinking...", g.session.ActivePlayer())
	w := len(msg) * 7
	g.drawText(screen, msg, b.Min.X+(b.Dx()-w)/2, b.Min.Y+b.Dy()/2-6, colText)
}

// drawRankings draws the final standings centred on the board.
func (g *Game) drawRankings(screen *ebiten.Image, pal [game.Seats]color.RGBA) {
	b := g.layout.BoardRect()
	fillRect(screen, b, colShade)

	rankings := g.session.Rankings()
	lines := strings.Split(strings.TrimRight(game.FormatRankings(rankings), "\n"), "\n")
	winners := game.Winners(rankings)

	const lineH = 24
	hint := wrap("N starts a new game. C copies these rankings to the clipboard.", 50)
	panelH := 60 + len(lines)*lineH + len(hint)*14
	panel := image.Rect(b.Min.X+120, b.Min.Y+(b.Dy()-panelH)/2, b.Max.X-120, b.Min.Y+(b.Dy()+panelH)/2)
	fillRect(screen, panel, colSlot)
	vector.StrokeRect(screen, float32(panel.Min.X), float32(panel.Min.Y), float32(panel.Dx()), float32(panel.Dy()), 2, colGrid, false)

	title := "GAME OVER"
	switch len(winners) {
	case 0:
	case 1:
		title = fmt.Sprintf("GAME OVER  Player %d wins", winners[0])
	default:
		title = "GAME OVER  shared win"
	}
	g.drawText(screen, title, panel.Min.X+16, panel.Min.Y+14, colText)

	y := panel.Min.Y + 44
	for i, line := range lines {
		if line == "" {
			continue
		}
		if i < len(rankings) {
			p := rankings[i].PlayerID
			if p >= 1 && p <= game.Seats {
				fillRect(screen, image.Rect(panel.Min.X+16, y, panel.Min.X+28, y+12), pal[p-1])
			}
		}
		g.drawText(screen, line, panel.Min.X+36, y, colText)
		y += lineH
	}
	y += 4
	for _, l := range hint {
		ebitenutil.DebugPrintAt(screen, l, panel.Min.X+16, y)
		y += 14
	}
}
