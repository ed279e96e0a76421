// Package ui is the ebiten front end. It only reads the session model and
// turns pointer and keyboard input into session calls.
package ui

import (
	"errors"
	"image"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

// borderWidth is the gap between the window edge and the board or tray.
const borderWidth = 24

// hudHeight is the strip above the board holding the status line.
const hudHeight = 32

// frameInput is one frame of pointer and keyboard state.
type frameInput struct {
	cursor   image.Point
	pressed  bool // left button went down this frame
	released bool // left button went up this frame
	keys     []ebiten.Key
}

// Game implements ebiten.Game on top of a game.Session.
type Game struct {
	session *game.Session
	cfg     game.Config
	layout  game.Layout
	logger  *zap.Logger

	width  int
	height int

	sel     *game.Selection
	preview game.HoverPreview
	seats   [game.Seats]game.SeatType

	boardVersion int
	face         text.Face

	// copyText is where rankings go on C; swapped in tests.
	copyText func(string) error
}

// New returns the window game for s. seats preselects the setup screen.
func New(s *game.Session, cfg game.Config, seats [game.Seats]game.SeatType, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := game.NewLayout(cfg)
	tray := l.TrayRect(21)
	g := &Game{
		session:  s,
		cfg:      cfg,
		layout:   l,
		logger:   logger,
		width:    tray.Max.X + borderWidth,
		height:   l.BoardRect().Max.Y + borderWidth + hudHeight,
		sel:      game.NewSelection(cfg.CellSizePx, cfg.PaddingPx),
		seats:    seats,
		face:     text.NewGoXFace(basicfont.Face7x13),
		copyText: clipboard.WriteAll,
	}
	return g
}

func (g *Game) Update() error {
	g.session.Update()
	g.handleFrame(readInput())
	return nil
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Size is the window size the game draws at.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

func readInput() frameInput {
	mx, my := ebiten.CursorPosition()
	return frameInput{
		cursor:   image.Pt(mx, my),
		pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		keys:     inpututil.AppendJustPressedKeys(nil),
	}
}

func (g *Game) handleFrame(in frameInput) {
	g.syncModel()
	switch g.session.Phase() {
	case game.PhaseAwaitingSetup:
		g.handleSetup(in)
	case game.PhaseGameOver:
		g.handleGameOver(in)
	default:
		g.handlePointer(in)
		g.handleKeys(in)
	}
}

// syncModel drops view state the model has moved past.
func (g *Game) syncModel() {
	if v := g.session.BoardVersion(); v != g.boardVersion {
		g.boardVersion = v
		g.preview.Leave()
	}
	if !g.humanTurn() {
		g.sel.Cancel()
		g.preview.Leave()
		return
	}
	p, ok := g.sel.Armed()
	if !ok {
		return
	}
	cur, ok := g.session.Piece(p.Name)
	if !ok {
		g.sel.Cancel()
		g.preview.Leave()
		return
	}
	if !cur.Shape.Equal(p.Shape) {
		if err := g.sel.Refresh(cur); err != nil {
			g.notify(err)
		}
	}
}

func (g *Game) humanTurn() bool {
	if g.session.Phase() != game.PhaseInProgress {
		return false
	}
	seat, ok := g.session.ActiveSeat()
	return ok && seat == game.SeatHuman
}

// notify surfaces a synchronous refusal from the session.
func (g *Game) notify(err error) {
	level := game.LevelWarn
	if game.IsInvariant(err) {
		level = game.LevelError
	}
	g.session.Messages().Add(level, err.Error())
	g.logger.Debug("input refused", zap.Error(err))
}

func (g *Game) handlePointer(in frameInput) {
	pieces := g.session.Inventory()
	p := in.cursor

	if d := g.sel.Drag(); d != nil {
		g.sel.MoveTo(p)
		g.updatePreview(p)
		if in.released {
			g.drop(p)
		}
		return
	}

	if !g.humanTurn() {
		return
	}
	if i, ok := g.layout.SlotAt(p, len(pieces)); ok {
		g.sel.Arm(pieces[i])
		if in.pressed {
			if _, err := g.sel.BeginDrag(p, g.layout.SlotRect(i).Min); err != nil {
				g.notify(err)
			}
		}
	} else if !p.In(g.layout.BoardRect()) && !p.In(g.layout.TrayRect(len(pieces))) {
		g.sel.Disarm()
	}
	g.updatePreview(p)
}

// updatePreview repaints the preview for the selected piece under p.
func (g *Game) updatePreview(p image.Point) {
	piece, ok := g.sel.Armed()
	cell, onBoard := g.layout.CellAt(p)
	if !ok || !onBoard {
		g.preview.Leave()
		return
	}
	g.preview.Enter(piece.Shape, cell)
}

func (g *Game) drop(p image.Point) {
	cell, onBoard := g.layout.CellAt(p)
	intent, ok := g.sel.Release(cell, onBoard)
	g.preview.Leave()
	if !ok {
		return
	}
	if err := g.session.Place(intent); err != nil && !game.IsInvariant(err) {
		g.notify(err)
	}
}

func (g *Game) handleKeys(in frameInput) {
	for _, k := range in.keys {
		switch k {
		case ebiten.KeyR, ebiten.KeyF:
			piece, ok := g.sel.Armed()
			if !ok {
				continue
			}
			action := game.OrientRotate
			if k == ebiten.KeyF {
				action = game.OrientFlip
			}
			if err := g.session.ChangeOrientation(piece.Name, action); err != nil {
				g.notify(err)
			}
		case ebiten.KeyE, ebiten.KeySpace:
			g.sel.Cancel()
			g.preview.Leave()
			if err := g.session.EndTurn(); err != nil {
				g.notify(err)
			}
		case ebiten.KeyA:
			if err := g.session.ResumeAI(); err != nil {
				g.notify(err)
			}
		case ebiten.KeyEscape:
			g.sel.Cancel()
			g.preview.Leave()
		}
	}
}

// handleSetup toggles seats with 1-4 or a click on a seat row, and starts
// the game on Enter.
func (g *Game) handleSetup(in frameInput) {
	for _, k := range in.keys {
		switch k {
		case ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4:
			g.toggleSeat(int(k - ebiten.Key1))
		case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
			if err := g.session.ConfigureSeats(g.seats); err != nil && !errors.Is(err, game.ErrRequestInFlight) {
				g.notify(err)
			}
		}
	}
	if in.pressed {
		for i := 0; i < game.Seats; i++ {
			if in.cursor.In(g.seatRowRect(i)) {
				g.toggleSeat(i)
			}
		}
	}
}

func (g *Game) toggleSeat(i int) {
	if g.session.Pending() {
		return
	}
	if g.seats[i] == game.SeatHuman {
		g.seats[i] = game.SeatAI
	} else {
		g.seats[i] = game.SeatHuman
	}
}

func (g *Game) handleGameOver(in frameInput) {
	for _, k := range in.keys {
		switch k {
		case ebiten.KeyN:
			if err := g.session.Restart(); err != nil {
				g.notify(err)
			}
		case ebiten.KeyC:
			g.copyRankings()
		}
	}
}

func (g *Game) copyRankings() {
	txt := game.FormatRankings(g.session.Rankings())
	if txt == "" {
		return
	}
	if err := g.copyText(txt); err != nil {
		// atotto needs xclip/xsel or wl-clipboard on Linux.
		g.session.Messages().Add(game.LevelWarn, "clipboard copy failed: "+err.Error())
		g.logger.Warn("clipboard copy failed", zap.Error(err))
		return
	}
	g.session.Messages().Add(game.LevelInfo, "rankings copied to clipboard")
}
