package game

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeAuthority is an in-memory authority for session tests. It keeps a
// board and per-player inventories, advances the turn on every placement
// and AI move, and answers end-turn requests from a script.
type fakeAuthority struct {
	mu      sync.Mutex
	calls   []string
	board   Grid
	current int
	pieces  map[int][]PieceRecord
	colors  []string

	// sparse drops next_player and pieces from placement responses, and
	// pieces from end-turn responses, so the session has to fetch them.
	sparse bool

	setupErr   error
	colorsErr  error
	orientErr  error
	orientTo   Shape
	placeErr   error
	endErr     error
	aiErr      error
	restartErr error
	piecesErr  error

	endTurns []TurnResult
	aiMoves  []AIMoveResult

	// hold blocks the named call until the channel is closed.
	hold map[string]chan struct{}
}

func newFakeAuthority() *fakeAuthority {
	f := &fakeAuthority{
		current: 1,
		pieces:  map[int][]PieceRecord{},
		colors:  []string{"blue", "yellow", "red", "green"},
		hold:    map[string]chan struct{}{},
	}
	for p := 1; p <= Seats; p++ {
		f.pieces[p] = []PieceRecord{
			{Name: "I1", Shape: ShapeFromInts([][]int{{1}})},
			{Name: "I2", Shape: ShapeFromInts([][]int{{1, 1}})},
			{Name: "V3", Shape: ShapeFromInts([][]int{{1, 0}, {1, 1}})},
		}
	}
	return f
}

// block makes the named call wait until the returned func is called.
func (f *fakeAuthority) block(op string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.hold[op] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeAuthority) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	ch := f.hold[op]
	f.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return &TransportError{Op: op, Err: ctx.Err()}
	}
}

func (f *fakeAuthority) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeAuthority) callLog() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.calls, ",")
}

func (f *fakeAuthority) advance() {
	f.current = f.current%Seats + 1
}

func clonePieces(ps []PieceRecord) []PieceRecord {
	out := make([]PieceRecord, len(ps))
	for i, p := range ps {
		out[i] = PieceRecord{Name: p.Name, Shape: p.Shape.Clone()}
	}
	return out
}

func (f *fakeAuthority) FetchBoard(ctx context.Context) (BoardSnapshot, error) {
	if err := f.enter(ctx, "fetch_board"); err != nil {
		return BoardSnapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return BoardSnapshot{Grid: f.board, CurrentPlayer: f.current}, nil
}

func (f *fakeAuthority) FetchPieces(ctx context.Context) ([]PieceRecord, error) {
	if err := f.enter(ctx, "fetch_pieces"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.piecesErr != nil {
		return nil, f.piecesErr
	}
	return clonePieces(f.pieces[f.current]), nil
}

func (f *fakeAuthority) FetchSeatColors(ctx context.Context) ([]string, error) {
	if err := f.enter(ctx, "colors"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.colorsErr != nil {
		return nil, f.colorsErr
	}
	return append([]string(nil), f.colors...), nil
}

func (f *fakeAuthority) ChangeOrientation(ctx context.Context, piece string, action Orientation) (Shape, error) {
	if err := f.enter(ctx, "orient"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orientErr != nil {
		return nil, f.orientErr
	}
	return f.orientTo.Clone(), nil
}

func (f *fakeAuthority) PlacePiece(ctx context.Context, intent PlacementIntent) (PlacementResult, error) {
	if err := f.enter(ctx, "place"); err != nil {
		return PlacementResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.placeErr != nil {
		return PlacementResult{}, f.placeErr
	}
	for _, c := range CoveredCells(intent.Shape, intent.Anchor) {
		if !c.OnBoard() || f.board[c.Row][c.Col] != 0 {
			return PlacementResult{}, &RejectedError{Op: "place", Status: 400, Reason: "Invalid move"}
		}
	}
	for _, c := range CoveredCells(intent.Shape, intent.Anchor) {
		f.board[c.Row][c.Col] = f.current
	}
	inv := NewInventory(f.pieces[f.current])
	inv.Remove(intent.Piece)
	f.pieces[f.current] = inv.Pieces()
	f.advance()
	g := f.board
	if f.sparse {
		return PlacementResult{Board: &g}, nil
	}
	return PlacementResult{Board: &g, NextPlayer: f.current, Pieces: clonePieces(f.pieces[f.current])}, nil
}

func (f *fakeAuthority) EndTurn(ctx context.Context, currentPlayer int) (TurnResult, error) {
	if err := f.enter(ctx, "end_turn"); err != nil {
		return TurnResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.endErr != nil {
		return TurnResult{}, f.endErr
	}
	var res TurnResult
	if len(f.endTurns) > 0 {
		res = f.endTurns[0]
		f.endTurns = f.endTurns[1:]
	} else {
		f.current = currentPlayer
		f.advance()
		res = TurnResult{NextPlayer: f.current, ValidMoves: 5}
	}
	if res.GameOver {
		return res, nil
	}
	if res.NextPlayer == 0 {
		f.current = currentPlayer
		f.advance()
		res.NextPlayer = f.current
	}
	f.current = res.NextPlayer
	g := f.board
	res.Board = &g
	if !f.sparse {
		res.Pieces = clonePieces(f.pieces[f.current])
	}
	return res, nil
}

func (f *fakeAuthority) InitializeSeats(ctx context.Context, seats [Seats]SeatType) error {
	if err := f.enter(ctx, "init"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setupErr
}

func (f *fakeAuthority) RequestAIMove(ctx context.Context) (AIMoveResult, error) {
	if err := f.enter(ctx, "ai_move"); err != nil {
		return AIMoveResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.aiErr != nil {
		return AIMoveResult{}, f.aiErr
	}
	if len(f.aiMoves) > 0 {
		res := f.aiMoves[0]
		f.aiMoves = f.aiMoves[1:]
		if res.GameOver {
			return res, nil
		}
	}
	f.board[f.current-1][BoardSize-1] = f.current
	f.advance()
	g := f.board
	return AIMoveResult{Board: &g, NextPlayer: f.current, Pieces: clonePieces(f.pieces[f.current])}, nil
}

func (f *fakeAuthority) Restart(ctx context.Context) (BoardSnapshot, error) {
	if err := f.enter(ctx, "restart"); err != nil {
		return BoardSnapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restartErr != nil {
		return BoardSnapshot{}, f.restartErr
	}
	f.board = Grid{}
	f.current = 1
	return BoardSnapshot{Grid: f.board, CurrentPlayer: 1}, nil
}

// fakeClock is a manually advanced clock for the skip timer.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// --- session helpers ---

func newTestSession(t *testing.T, auth Authority, clock *fakeClock, mutate ...func(*Config)) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RequestTimeout = 2 * time.Second
	for _, m := range mutate {
		m(&cfg)
	}
	s := NewSession(context.Background(), auth, cfg, WithClock(clock.now))
	t.Cleanup(s.Close)
	return s
}

func waitIdle(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("session did not settle: %v\n%s", err, s.Events().Format())
	}
}

// pumpUntil calls Update until cond holds.
func pumpUntil(t *testing.T, s *Session, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached\n%s", s.Events().Format())
		}
		s.Update()
		time.Sleep(time.Millisecond)
	}
}

// waitCalls waits until the fake has seen n calls to op.
func waitCalls(t *testing.T, f *fakeAuthority, op string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.count(op) < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d %s calls, got %d (%s)", n, op, f.count(op), f.callLog())
		}
		time.Sleep(time.Millisecond)
	}
}

func startSession(t *testing.T, f *fakeAuthority, clock *fakeClock, seats string, mutate ...func(*Config)) *Session {
	t.Helper()
	s := newTestSession(t, f, clock, mutate...)
	st, err := ParseSeats(seats)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ConfigureSeats(st); err != nil {
		t.Fatalf("configure seats: %v", err)
	}
	waitIdle(t, s)
	return s
}
