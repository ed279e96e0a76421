package ui

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

// stubAuthority is a single-seat-human authority that accepts everything.
type stubAuthority struct {
	mu      sync.Mutex
	grid    game.Grid
	pieces  []game.PieceRecord
	placed  []game.PlacementIntent
	seats   [game.Seats]game.SeatType
	inits   int
	restart int
	over    bool
}

func transpose(s game.Shape) game.Shape {
	out := make(game.Shape, s.Cols())
	for j := range out {
		out[j] = make([]bool, s.Rows())
		for i := range s {
			out[j][i] = s[i][j]
		}
	}
	return out
}

func newStub() *stubAuthority {
	return &stubAuthority{
		pieces: []game.PieceRecord{
			{Name: "I1", Shape: game.ShapeFromInts([][]int{{1}})},
			{Name: "I2", Shape: game.ShapeFromInts([][]int{{1, 1}})},
		},
	}
}

func (a *stubAuthority) FetchBoard(context.Context) (game.BoardSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return game.BoardSnapshot{Grid: a.grid, CurrentPlayer: 1}, nil
}

func (a *stubAuthority) FetchPieces(context.Context) ([]game.PieceRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]game.PieceRecord(nil), a.pieces...), nil
}

func (a *stubAuthority) FetchSeatColors(context.Context) ([]string, error) {
	return []string{"blue", "yellow", "red", "green"}, nil
}

func (a *stubAuthority) ChangeOrientation(_ context.Context, piece string, _ game.Orientation) (game.Shape, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.pieces {
		if p.Name == piece {
			return transpose(p.Shape), nil
		}
	}
	return nil, &game.RejectedError{Op: "orient", Status: 404, Reason: "no such piece"}
}

func (a *stubAuthority) PlacePiece(_ context.Context, in game.PlacementIntent) (game.PlacementResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.placed = append(a.placed, in)
	for _, c := range game.CoveredCells(in.Shape, in.Anchor) {
		if c.OnBoard() {
			a.grid[c.Row][c.Col] = 1
		}
	}
	var rest []game.PieceRecord
	for _, p := range a.pieces {
		if p.Name != in.Piece {
			rest = append(rest, p)
		}
	}
	a.pieces = rest
	g := a.grid
	return game.PlacementResult{Board: &g, NextPlayer: 1, Pieces: append([]game.PieceRecord(nil), rest...)}, nil
}

func (a *stubAuthority) EndTurn(context.Context, int) (game.TurnResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.over {
		return game.TurnResult{GameOver: true, Rankings: []game.Ranking{{PlayerID: 1, Score: 3}, {PlayerID: 2, Score: 0}}}, nil
	}
	g := a.grid
	return game.TurnResult{NextPlayer: 1, ValidMoves: 3, Board: &g, Pieces: append([]game.PieceRecord(nil), a.pieces...)}, nil
}

func (a *stubAuthority) InitializeSeats(_ context.Context, seats [game.Seats]game.SeatType) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seats = seats
	a.inits++
	return nil
}

func (a *stubAuthority) RequestAIMove(context.Context) (game.AIMoveResult, error) {
	return game.AIMoveResult{}, errors.New("no ai seats here")
}

func (a *stubAuthority) Restart(context.Context) (game.BoardSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.restart++
	return game.BoardSnapshot{CurrentPlayer: 1}, nil
}

func newTestGame(t *testing.T, a game.Authority) *Game {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.RequestTimeout = 2 * time.Second
	s := game.NewSession(context.Background(), a, cfg)
	t.Cleanup(s.Close)
	return New(s, cfg, [game.Seats]game.SeatType{}, nil)
}

func settle(t *testing.T, g *Game) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.session.Wait(ctx); err != nil {
		t.Fatalf("session did not settle: %v", err)
	}
}

func started(t *testing.T, a *stubAuthority) *Game {
	t.Helper()
	g := newTestGame(t, a)
	g.handleFrame(frameInput{keys: []ebiten.Key{ebiten.KeyEnter}})
	settle(t, g)
	if g.session.Phase() != game.PhaseInProgress {
		t.Fatalf("expected in progress, got %s", g.session.Phase())
	}
	return g
}

func cellCenter(g *Game, c game.Cell) image.Point {
	r := g.layout.CellRect(c)
	return r.Min.Add(image.Pt(r.Dx()/2, r.Dy()/2))
}

func TestSetup_TogglesSeatsAndStarts(t *testing.T) {
	a := newStub()
	g := newTestGame(t, a)

	g.handleFrame(frameInput{keys: []ebiten.Key{ebiten.Key2, ebiten.Key4}})
	row := g.seatRowRect(3)
	g.handleFrame(frameInput{cursor: row.Min.Add(image.Pt(5, 5)), pressed: true})
	g.handleFrame(frameInput{keys: []ebiten.Key{ebiten.KeyEnter}})
	settle(t, g)

	want := [game.Seats]game.SeatType{game.SeatHuman, game.SeatAI, game.SeatHuman, game.SeatHuman}
	if a.seats != want {
		t.Fatalf("authority got seats %v, want %v", a.seats, want)
	}
	if a.inits != 1 {
		t.Fatalf("expected one init, got %d", a.inits)
	}
}

func TestDragAndDrop_PlacesAtCellUnderCursor(t *testing.T) {
	a := newStub()
	g := started(t, a)

	slot := g.layout.SlotRect(0).Min.Add(image.Pt(3, 3))
	g.handleFrame(frameInput{cursor: slot, pressed: true})
	if g.sel.Drag() == nil {
		t.Fatal("press on a slot should start a drag")
	}

	target := game.Cell{Row: 4, Col: 6}
	g.handleFrame(frameInput{cursor: cellCenter(g, target)})
	if !g.preview.Contains(target) {
		t.Fatal("expected preview under the cursor")
	}

	g.handleFrame(frameInput{cursor: cellCenter(g, target), released: true})
	settle(t, g)
	g.handleFrame(frameInput{cursor: cellCenter(g, target)})

	if len(a.placed) != 1 || a.placed[0].Piece != "I1" || a.placed[0].Anchor != target {
		t.Fatalf("unexpected placements %+v", a.placed)
	}
	b := g.session.Board()
	if b.Owner(target) != 1 {
		t.Fatal("board should show the confirmed placement")
	}
	if _, ok := g.session.Piece("I1"); ok {
		t.Fatal("placed piece should leave the tray")
	}
	if g.sel.Drag() != nil {
		t.Fatal("selection should be idle after the drop")
	}
}

func TestDrop_OffBoardCancels(t *testing.T) {
	a := newStub()
	g := started(t, a)

	slot := g.layout.SlotRect(1).Min.Add(image.Pt(3, 3))
	g.handleFrame(frameInput{cursor: slot, pressed: true})
	g.handleFrame(frameInput{cursor: image.Pt(2, 2), released: true})
	settle(t, g)

	if len(a.placed) != 0 {
		t.Fatal("drop outside the board must not place")
	}
	if _, ok := g.sel.Armed(); ok {
		t.Fatal("selection should be idle")
	}
}

func TestHover_OutsideBoardAndTrayDisarms(t *testing.T) {
	a := newStub()
	g := started(t, a)

	g.handleFrame(frameInput{cursor: g.layout.SlotRect(0).Min.Add(image.Pt(1, 1))})
	if _, ok := g.sel.Armed(); !ok {
		t.Fatal("hovering a slot should arm")
	}
	g.handleFrame(frameInput{cursor: cellCenter(g, game.Cell{Row: 0, Col: 0})})
	if _, ok := g.sel.Armed(); !ok {
		t.Fatal("moving onto the board keeps the piece armed")
	}
	if !g.preview.Contains(game.Cell{Row: 0, Col: 0}) {
		t.Fatal("armed piece should preview over the board")
	}
	g.handleFrame(frameInput{cursor: image.Pt(1, 1)})
	if _, ok := g.sel.Armed(); ok {
		t.Fatal("leaving board and tray should disarm")
	}
}

func TestRotateKey_RefreshesArmedPiece(t *testing.T) {
	a := newStub()
	g := started(t, a)

	g.handleFrame(frameInput{cursor: g.layout.SlotRect(1).Min.Add(image.Pt(1, 1))})
	g.handleFrame(frameInput{cursor: g.layout.SlotRect(1).Min.Add(image.Pt(1, 1)), keys: []ebiten.Key{ebiten.KeyR}})
	settle(t, g)
	g.handleFrame(frameInput{cursor: g.layout.SlotRect(1).Min.Add(image.Pt(1, 1))})

	p, ok := g.sel.Armed()
	if !ok || p.Name != "I2" {
		t.Fatalf("expected I2 armed, got %+v %v", p, ok)
	}
	if len(p.Shape) != 2 || len(p.Shape[0]) != 1 {
		t.Fatalf("armed shape not refreshed: %v", p.Shape)
	}
}

func TestGameOver_CopyAndRestart(t *testing.T) {
	a := newStub()
	a.over = true
	g := started(t, a)
	var got string
	g.copyText = func(s string) error { got = s; return nil }

	g.handleFrame(frameInput{keys: []ebiten.Key{ebiten.KeyE}})
	settle(t, g)
	if g.session.Phase() != game.PhaseGameOver {
		t.Fatalf("expected game over, got %s", g.session.Phase())
	}

	g.handleFrame(frameInput{keys: []ebiten.Key{ebiten.KeyC}})
	if got != "1. Player 1  3\n2. Player 2  0\n" {
		t.Fatalf("unexpected clipboard text %q", got)
	}

	g.copyText = func(string) error { return errors.New("no clipboard utility") }
	g.handleFrame(frameInput{keys: []ebiten.Key{ebiten.KeyC}})
	if last, _ := g.session.Messages().Last(); last.Level != game.LevelWarn {
		t.Fatalf("copy failure should warn, got %+v", last)
	}

	g.handleFrame(frameInput{keys: []ebiten.Key{ebiten.KeyN}})
	settle(t, g)
	if a.restart != 1 || g.session.Phase() != game.PhaseAwaitingSetup {
		t.Fatalf("expected restart back to setup, got %d restarts in %s", a.restart, g.session.Phase())
	}
}

func TestSize_FitsBoardAndTray(t *testing.T) {
	g := newTestGame(t, newStub())
	w, h := g.Size()
	if w < g.layout.TrayRect(21).Max.X || h < g.layout.BoardRect().Max.Y {
		t.Fatalf("window %dx%d too small", w, h)
	}
	if g.messagePanel().Dy() <= 0 {
		t.Fatal("message panel should have height")
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9)
	if len(got) != 3 || got[0] != "one two" || got[1] != "three" || got[2] != "four" {
		t.Fatalf("unexpected wrap %q", got)
	}
}
