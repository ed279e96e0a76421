// Package termui is a terminal front end over the same session core as the
// window client. The board is drawn two columns per cell.
package termui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/atotto/clipboard"
	"github.com/nsf/termbox-go"
	"go.uber.org/zap"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

const (
	boardX   = 2
	boardY   = 2
	trayGap  = 3
	trayW    = 22
	frameDur = 50 * time.Millisecond
)

// App runs a session in the terminal.
type App struct {
	session *game.Session
	logger  *zap.Logger
	layout  game.Layout

	sel     *game.Selection
	preview game.HoverPreview
	cursor  game.Cell
	armed   int // tray index of the armed piece
	seats   [game.Seats]game.SeatType

	copyText func(string) error
}

// New returns a terminal app for s. seats preselects the setup screen.
func New(s *game.Session, cfg game.Config, seats [game.Seats]game.SeatType, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		session: s,
		logger:  logger,
		layout: game.Layout{
			BoardOrigin: image.Pt(boardX, boardY),
			CellW:       2,
			CellH:       1,
		},
		sel:      game.NewSelection(cfg.CellSizePx, cfg.PaddingPx),
		cursor:   game.Cell{Row: game.BoardSize / 2, Col: game.BoardSize / 2},
		seats:    seats,
		copyText: clipboard.WriteAll,
	}
}

// Run owns the terminal until the user quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)

	events := make(chan termbox.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	defer termbox.Interrupt()

	tick := time.NewTicker(frameDur)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if ev.Type == termbox.EventError {
				return fmt.Errorf("terminal: %w", ev.Err)
			}
			if a.handleEvent(ev) {
				return nil
			}
		case <-tick.C:
		}
		a.session.Update()
		a.sync()
		if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
			return err
		}
		a.draw(termboxCanvas{})
		if err := termbox.Flush(); err != nil {
			return err
		}
	}
}

func (a *App) humanTurn() bool {
	if a.session.Phase() != game.PhaseInProgress {
		return false
	}
	seat, ok := a.session.ActiveSeat()
	return ok && seat == game.SeatHuman
}

// sync keeps the armed piece and preview in step with the model.
func (a *App) sync() {
	pieces := a.session.Inventory()
	if !a.humanTurn() || len(pieces) == 0 {
		a.sel.Cancel()
		a.preview.Leave()
		return
	}
	if a.armed >= len(pieces) {
		a.armed = len(pieces) - 1
	}
	if a.armed < 0 {
		a.armed = 0
	}
	p, ok := a.sel.Armed()
	if !ok || p.Name != pieces[a.armed].Name || !p.Shape.Equal(pieces[a.armed].Shape) {
		a.sel.Cancel()
		a.sel.Arm(pieces[a.armed])
	}
	cur, _ := a.sel.Armed()
	a.preview.Enter(cur.Shape, a.cursor)
}

func (a *App) notify(err error) {
	level := game.LevelWarn
	if game.IsInvariant(err) {
		level = game.LevelError
	}
	a.session.Messages().Add(level, err.Error())
	a.logger.Debug("input refused", zap.Error(err))
}

// handleEvent applies one terminal event. It reports whether to quit.
func (a *App) handleEvent(ev termbox.Event) bool {
	switch ev.Type {
	case termbox.EventKey:
		if ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
			return true
		}
		switch a.session.Phase() {
		case game.PhaseAwaitingSetup:
			a.setupKey(ev)
		case game.PhaseGameOver:
			a.gameOverKey(ev)
		default:
			a.playKey(ev)
		}
	case termbox.EventMouse:
		a.mouse(ev)
	}
	return false
}

func (a *App) setupKey(ev termbox.Event) {
	switch {
	case ev.Ch >= '1' && ev.Ch <= '4':
		if a.session.Pending() {
			return
		}
		i := int(ev.Ch - '1')
		if a.seats[i] == game.SeatHuman {
			a.seats[i] = game.SeatAI
		} else {
			a.seats[i] = game.SeatHuman
		}
	case ev.Key == termbox.KeyEnter:
		if err := a.session.ConfigureSeats(a.seats); err != nil && !errors.Is(err, game.ErrRequestInFlight) {
			a.notify(err)
		}
	}
}

func (a *App) gameOverKey(ev termbox.Event) {
	switch ev.Ch {
	case 'n':
		if err := a.session.Restart(); err != nil {
			a.notify(err)
		}
	case 'c':
		txt := game.FormatRankings(a.session.Rankings())
		if txt == "" {
			return
		}
		if err := a.copyText(txt); err != nil {
			a.session.Messages().Add(game.LevelWarn, "clipboard copy failed: "+err.Error())
			return
		}
		a.session.Messages().Add(game.LevelInfo, "rankings copied to clipboard")
	}
}

func (a *App) playKey(ev termbox.Event) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		a.moveCursor(-1, 0)
		return
	case termbox.KeyArrowDown:
		a.moveCursor(1, 0)
		return
	case termbox.KeyArrowLeft:
		a.moveCursor(0, -1)
		return
	case termbox.KeyArrowRight:
		a.moveCursor(0, 1)
		return
	case termbox.KeyEnter:
		a.place(a.cursor)
		return
	case termbox.KeyEsc:
		a.sel.Cancel()
		a.preview.Leave()
		return
	}
	switch ev.Ch {
	case '[':
		a.cycle(-1)
	case ']':
		a.cycle(1)
	case 'r', 'f':
		p, ok := a.sel.Armed()
		if !ok {
			return
		}
		action := game.OrientRotate
		if ev.Ch == 'f' {
			action = game.OrientFlip
		}
		if err := a.session.ChangeOrientation(p.Name, action); err != nil {
			a.notify(err)
		}
	case 'e':
		a.sel.Cancel()
		if err := a.session.EndTurn(); err != nil {
			a.notify(err)
		}
	case 'a':
		if err := a.session.ResumeAI(); err != nil {
			a.notify(err)
		}
	}
}

func (a *App) moveCursor(dr, dc int) {
	next := a.cursor.Add(game.Cell{Row: dr, Col: dc})
	if next.OnBoard() {
		a.cursor = next
	}
}

func (a *App) cycle(d int) {
	n := len(a.session.Inventory())
	if n == 0 {
		return
	}
	a.armed = ((a.armed+d)%n + n) % n
	a.sel.Cancel()
}

// place drops the armed piece anchored at cell.
func (a *App) place(cell game.Cell) {
	if !a.humanTurn() {
		a.notify(game.ErrNotHumanTurn)
		return
	}
	a.sync()
	if _, err := a.sel.BeginDrag(a.layout.CellRect(cell).Min, a.layout.CellRect(cell).Min); err != nil {
		a.notify(err)
		return
	}
	intent, ok := a.sel.Release(cell, true)
	a.preview.Leave()
	if !ok {
		return
	}
	if err := a.session.Place(intent); err != nil && !game.IsInvariant(err) {
		a.notify(err)
	}
}

// mouse: left click on a tray row arms it, on the board it places the armed
// piece there. Motion moves the board cursor.
func (a *App) mouse(ev termbox.Event) {
	p := image.Pt(ev.MouseX, ev.MouseY)
	cell, onBoard := a.layout.CellAt(p)
	if onBoard {
		a.cursor = cell
	}
	if ev.Key != termbox.MouseLeft || ev.Mod&termbox.ModMotion != 0 {
		return
	}
	if onBoard {
		a.place(cell)
		return
	}
	if i, ok := a.trayRowAt(p); ok {
		a.armed = i
		a.sel.Cancel()
	}
}

func (a *App) trayX() int {
	return a.layout.BoardRect().Max.X + trayGap
}

// trayRowAt maps p to a tray list index.
func (a *App) trayRowAt(p image.Point) (int, bool) {
	x := a.trayX()
	if p.X < x || p.X >= x+trayW {
		return 0, false
	}
	i := p.Y - boardY
	if i < 0 || i >= len(a.session.Inventory()) {
		return 0, false
	}
	return i, true
}
