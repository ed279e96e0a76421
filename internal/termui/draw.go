package termui

import (
	"fmt"
	"strings"

	"github.com/nsf/termbox-go"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

const (
	fgDim   = termbox.ColorWhite
	msgRows = 8
)

func (a *App) draw(c canvas) {
	attrs := seatAttrs(a.session.Colors())
	a.drawStatus(c, attrs)
	if a.session.Phase() == game.PhaseAwaitingSetup {
		a.drawSetup(c, attrs)
	} else {
		a.drawBoard(c, attrs)
		a.drawTray(c, attrs)
	}
	if a.session.Phase() == game.PhaseGameOver {
		a.drawRankings(c)
	}
	a.drawMessages(c)
}

func (a *App) drawStatus(c canvas, attrs [game.Seats]termbox.Attribute) {
	x := boardX
	if p := a.session.ActivePlayer(); p >= 1 && p <= game.Seats {
		seat := a.session.Seats()[p-1]
		x += printAt(c, x, 0, 30, fmt.Sprintf("Player %d (%s)", p, seat), attrs[p-1]|termbox.AttrBold, termbox.ColorDefault)
		x += 2
	}
	printAt(c, x, 0, 40, statusLine(a.session), fgDim, termbox.ColorDefault)
}

// statusLine summarises what the session is doing.
func statusLine(s *game.Session) string {
	switch {
	case s.Busy():
		return "ai thinking..."
	case s.Phase() == game.PhaseSkipping:
		return "no valid moves, skipping"
	case s.Pending():
		return "waiting for authority"
	}
	return s.Phase().String()
}

func (a *App) drawSetup(c canvas, attrs [game.Seats]termbox.Attribute) {
	printAt(c, boardX, boardY, 60, "Press 1-4 to toggle a seat, Enter to start, q to quit.", termbox.ColorDefault, termbox.ColorDefault)
	for i := 0; i < game.Seats; i++ {
		y := boardY + 2 + i
		fill(c, boardX, y, 2, 1, ' ', termbox.ColorDefault, attrs[i])
		printAt(c, boardX+3, y, 30, fmt.Sprintf("%d  Player %d  %s", i+1, i+1, a.seats[i]), termbox.ColorDefault, termbox.ColorDefault)
	}
}

// cellGlyph is how one board cell is drawn: two runes plus colours.
func cellGlyph(owner int, preview, cursor bool, attrs [game.Seats]termbox.Attribute) (string, termbox.Attribute, termbox.Attribute) {
	fg, bg := fgDim, termbox.ColorDefault
	glyph := " ."
	if owner >= 1 && owner <= game.Seats {
		glyph = "  "
		bg = attrs[owner-1]
	}
	if preview {
		glyph = "[]"
		fg = termbox.ColorWhite | termbox.AttrBold
	}
	if cursor {
		fg |= termbox.AttrReverse
	}
	return glyph, fg, bg
}

func (a *App) drawBoard(c canvas, attrs [game.Seats]termbox.Attribute) {
	grid := a.session.Board()
	human := a.humanTurn()
	for r := 0; r < game.BoardSize; r++ {
		for col := 0; col < game.BoardSize; col++ {
			cell := game.Cell{Row: r, Col: col}
			g, fg, bg := cellGlyph(grid.Owner(cell), a.preview.Contains(cell), human && cell == a.cursor, attrs)
			rect := a.layout.CellRect(cell)
			printAt(c, rect.Min.X, rect.Min.Y, 2, g, fg, bg)
		}
	}
	b := a.layout.BoardRect()
	for x := b.Min.X - 1; x <= b.Max.X; x++ {
		c.SetCell(x, b.Min.Y-1, '─', fgDim, termbox.ColorDefault)
		c.SetCell(x, b.Max.Y, '─', fgDim, termbox.ColorDefault)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		c.SetCell(b.Min.X-1, y, '│', fgDim, termbox.ColorDefault)
		c.SetCell(b.Max.X, y, '│', fgDim, termbox.ColorDefault)
	}
	printAt(c, b.Min.X, b.Max.Y+1, b.Dx()+trayGap+trayW, "arrows move  [ ] piece  r/f orient  Enter place  e end turn  a ai  q quit", fgDim, termbox.ColorDefault)
}

func (a *App) drawTray(c canvas, attrs [game.Seats]termbox.Attribute) {
	x := a.trayX()
	pieces := a.session.Inventory()
	tint := termbox.ColorDefault
	if p := a.session.ActivePlayer(); p >= 1 && p <= game.Seats {
		tint = attrs[p-1]
	}
	printAt(c, x, boardY-1, trayW, fmt.Sprintf("pieces (%d)", len(pieces)), fgDim, termbox.ColorDefault)
	armed, hasArmed := a.sel.Armed()
	for i, p := range pieces {
		fg := termbox.ColorDefault
		mark := "  "
		if hasArmed && p.Name == armed.Name {
			mark = "> "
			fg = tint | termbox.AttrBold
		}
		if a.session.OrientationPending(p.Name) {
			fg = fgDim
		}
		printAt(c, x, boardY+i, trayW, mark+p.Name, fg, termbox.ColorDefault)
	}
	if !hasArmed {
		return
	}
	// Selected shape, full size, to the right of the list.
	sx := x + 8
	for i, row := range armed.Shape {
		for j, v := range row {
			if v {
				fill(c, sx+j*2, boardY+i, 2, 1, ' ', termbox.ColorDefault, tint)
			}
		}
	}
}

func (a *App) drawRankings(c canvas) {
	x := a.trayX()
	y := boardY
	fill(c, x, y, trayW, game.Seats+4, ' ', termbox.ColorDefault, termbox.ColorDefault)
	printAt(c, x, y, trayW, "GAME OVER", termbox.ColorDefault|termbox.AttrBold, termbox.ColorDefault)
	lines := strings.Split(strings.TrimRight(game.FormatRankings(a.session.Rankings()), "\n"), "\n")
	for i, l := range lines {
		printAt(c, x, y+2+i, trayW, l, termbox.ColorDefault, termbox.ColorDefault)
	}
	printAt(c, x, y+3+len(lines), trayW, "n new game  c copy", fgDim, termbox.ColorDefault)
}

func (a *App) drawMessages(c canvas) {
	y := a.layout.BoardRect().Max.Y + 3
	entries := a.session.Messages().Recent()
	if len(entries) > msgRows {
		entries = entries[len(entries)-msgRows:]
	}
	w := a.layout.BoardRect().Dx() + trayGap + trayW
	for i, m := range entries {
		printAt(c, boardX, y+i, w, m.Time.Format("15:04:05")+" "+m.Text, levelAttr(m.Level), termbox.ColorDefault)
	}
}
