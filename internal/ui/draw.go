package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	pal := seatPalette(g.session.Colors())

	if g.session.Phase() == game.PhaseAwaitingSetup {
		g.drawSetup(screen, pal)
		g.drawMessages(screen)
		return
	}

	g.drawHUD(screen, pal)
	g.drawBoard(screen, pal)
	g.drawPreview(screen)
	g.drawTray(screen, pal)
	g.drawMessages(screen)
	g.drawDragClone(screen, pal)

	if g.session.Busy() {
		g.drawBusy(screen)
	}
	if g.session.Phase() == game.PhaseGameOver {
		g.drawRankings(screen, pal)
	}
}

// drawText draws s with its top-left corner at (x, y).
func (g *Game) drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, g.face, op)
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	vector.FillRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, w float32, c color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), w, c, false)
}

func (g *Game) drawHUD(screen *ebiten.Image, pal [game.Seats]color.RGBA) {
	active := g.session.ActivePlayer()
	seats := g.session.Seats()

	x := g.layout.BoardOrigin.X
	y := 12
	if active >= 1 && active <= game.Seats {
		fillRect(screen, image.Rect(x, y, x+14, y+14), pal[active-1])
		g.drawText(screen, fmt.Sprintf("Player %d (%s)", active, seats[active-1]), x+22, y+1, colText)
	}

	status := g.session.Phase().String()
	switch {
	case g.session.Busy():
		status = "ai thinking"
	case g.session.Phase() == game.PhaseSkipping:
		status = "skipping: no valid moves"
	case g.session.Pending():
		status = "waiting for authority"
	}
	g.drawText(screen, status, x+200, y+1, colDim)

	help := "drag=place  R=rotate  F=flip  E=end turn  A=resume ai  Esc=cancel"
	if g.session.Phase() == game.PhaseGameOver {
		help = "N=new game  C=copy rankings"
	}
	ebitenutil.DebugPrintAt(screen, help, x, g.layout.BoardRect().Max.Y+8)
}

func (g *Game) drawBoard(screen *ebiten.Image, pal [game.Seats]color.RGBA) {
	grid := g.session.Board()
	for r := 0; r < game.BoardSize; r++ {
		for c := 0; c < game.BoardSize; c++ {
			cell := game.Cell{Row: r, Col: c}
			fillRect(screen, g.layout.CellRect(cell), ownerColor(pal, grid.Owner(cell)))
		}
	}
	drawGrid(screen, g.layout.BoardRect(), g.layout.CellW, g.layout.CellH, colGrid)
	strokeRect(screen, g.layout.BoardRect().Inset(-2), 2, colGrid)
}

func drawGrid(screen *ebiten.Image, r image.Rectangle, cw, ch int, c color.Color) {
	if cw <= 0 || ch <= 0 {
		return
	}
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	for x := 0; x <= r.Dx(); x += cw {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(r.Dy()), 1.0, c, false)
	}
	for y := 0; y <= r.Dy(); y += ch {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(r.Dx()), yf, 1.0, c, false)
	}
}

func (g *Game) drawTray(screen *ebiten.Image, pal [game.Seats]color.RGBA) {
	pieces := g.session.Inventory()
	armed, hasArmed := g.sel.Armed()
	drag := g.sel.Drag()
	tint := colDim
	if p := g.session.ActivePlayer(); p >= 1 && p <= game.Seats {
		tint = pal[p-1]
	}

	for i, p := range pieces {
		slot := g.layout.SlotRect(i)
		bg := colSlot
		if hasArmed && armed.Name == p.Name {
			bg = colSlotArmed
		}
		fillRect(screen, slot, bg)
		if drag != nil && drag.Piece.Name == p.Name {
			continue
		}
		pc := tint
		if g.session.OrientationPending(p.Name) {
			pc = colDim
		}
		drawShape(screen, p.Shape, slot.Min.Add(image.Pt(2, 2)), g.layout.TrayCellPx-1, pc)
	}
	if len(pieces) == 0 && g.session.Phase() != game.PhaseGameOver {
		g.drawText(screen, "no pieces", g.layout.TrayOrigin.X, g.layout.TrayOrigin.Y, colDim)
	}
}

// drawShape paints the occupied cells of s from origin, cell px per side.
func drawShape(dst *ebiten.Image, s game.Shape, origin image.Point, cell int, c color.Color) {
	for i, row := range s {
		for j, v := range row {
			if !v {
				continue
			}
			lo := origin.Add(image.Pt(j*(cell+1), i*(cell+1)))
			fillRect(dst, image.Rectangle{Min: lo, Max: lo.Add(image.Pt(cell, cell))}, c)
		}
	}
}

// drawDragClone draws the picked-up piece so that the cursor keeps the
// fixed offset from its bounding-box corner.
func (g *Game) drawDragClone(screen *ebiten.Image, pal [game.Seats]color.RGBA) {
	d := g.sel.Drag()
	if d == nil {
		return
	}
	c := colText
	if p := g.session.ActivePlayer(); p >= 1 && p <= game.Seats {
		c = pal[p-1]
	}
	c.A = 200
	cell := g.cfg.CellSizePx
	pos := d.ClonePos()
	for i, row := range d.Piece.Shape {
		for j, v := range row {
			if !v {
				continue
			}
			lo := pos.Add(image.Pt(j*cell, i*cell))
			r := image.Rectangle{Min: lo, Max: lo.Add(image.Pt(cell, cell))}
			fillRect(screen, r, c)
			strokeRect(screen, r, 1, colBackground)
		}
	}
}

func (g *Game) drawMessages(screen *ebiten.Image) {
	panel := g.messagePanel()
	fillRect(screen, panel, color.RGBA{R: 10, G: 12, B: 16, A: 248})
	vector.StrokeLine(screen, float32(panel.Min.X), float32(panel.Min.Y), float32(panel.Max.X), float32(panel.Min.Y), 1.0, colGrid, false)
	ebitenutil.DebugPrintAt(screen, "MESSAGES", panel.Min.X+6, panel.Min.Y+2)

	const lineH = 16
	entries := g.session.Messages().Recent()
	maxVisible := (panel.Dy() - 24) / lineH
	if maxVisible < 0 {
		maxVisible = 0
	}
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	maxChars := (panel.Dx() - 12) / 7
	y := panel.Min.Y + 22
	for _, m := range entries {
		line := m.Time.Format("15:04:05") + " " + m.Text
		if len(line) > maxChars && maxChars > 3 {
			line = line[:maxChars-3] + "..."
		}
		g.drawText(screen, line, panel.Min.X+6, y, levelColor(m.Level))
		y += lineH
	}
}

// messagePanel sits under a full tray.
func (g *Game) messagePanel() image.Rectangle {
	tray := g.layout.TrayRect(21)
	top := tray.Max.Y + 12
	return image.Rect(tray.Min.X, top, tray.Max.X, g.layout.BoardRect().Max.Y)
}

// wrap splits s into lines of at most n characters on spaces.
func wrap(s string, n int) []string {
	var lines []string
	var cur strings.Builder
	for _, w := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(w) > n {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
