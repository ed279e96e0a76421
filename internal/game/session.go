package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Phase is the session-level state.
type Phase int

const (
	PhaseAwaitingSetup Phase = iota
	PhaseInProgress
	PhaseSkipping
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingSetup:
		return "awaiting_setup"
	case PhaseInProgress:
		return "in_progress"
	case PhaseSkipping:
		return "skipping"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// requestKind names the remote flows a session runs.
type requestKind int

const (
	reqNone requestKind = iota
	reqSetup
	reqPlace
	reqEndTurn
	reqAIMove
	reqRestart
	reqOrient
)

func (k requestKind) String() string {
	switch k {
	case reqNone:
		return "none"
	case reqSetup:
		return "setup"
	case reqPlace:
		return "place"
	case reqEndTurn:
		return "end_turn"
	case reqAIMove:
		return "ai_move"
	case reqRestart:
		return "restart"
	case reqOrient:
		return "orient"
	default:
		return "unknown"
	}
}

// completion carries a finished remote flow back to the owning loop. apply
// runs on that loop and is the only place session state changes.
type completion struct {
	kind  requestKind
	piece string
	apply func()
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the operator logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock replaces time.Now; the skip timer reads it.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithEventLog records lifecycle events into l.
func WithEventLog(l *EventLog) Option {
	return func(s *Session) { s.events = l }
}

// WithMessageLog surfaces user messages into l.
func WithMessageLog(l *MessageLog) Option {
	return func(s *Session) { s.msgs = l }
}

// Session is the turn-lifecycle controller. It owns the board, the
// inventories and the session state, and it serializes every turn-affecting
// request: at most one setup, placement, end-turn, AI-move or restart is
// outstanding at a time.
//
// Remote calls run on their own goroutines; their results are applied by
// Update or Wait, which must be called from a single owning goroutine (the
// frame loop).
type Session struct {
	cfg    Config
	auth   Authority
	logger *zap.Logger
	events *EventLog
	msgs   *MessageLog
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	board    BoardModel
	inv      map[int]*Inventory
	seats    [Seats]SeatType
	phase    Phase
	rankings []Ranking
	colors   []string
	busy     bool
	lastErr  error

	inflight  requestKind
	orienting map[string]bool
	results   chan completion

	skipArmed bool
	skipAt    time.Time
	skipRun   int
}

// NewSession returns a session waiting for seat assignment.
func NewSession(ctx context.Context, auth Authority, cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:       cfg,
		auth:      auth,
		logger:    zap.NewNop(),
		events:    NewEventLog(),
		msgs:      NewMessageLog(),
		now:       time.Now,
		inv:       map[int]*Inventory{},
		orienting: map[string]bool{},
		results:   make(chan completion, 32),
	}
	for _, o := range opts {
		o(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Close cancels every outstanding request.
func (s *Session) Close() {
	s.cancel()
}

// ---- accessors ----

func (s *Session) Phase() Phase              { return s.phase }
func (s *Session) ActivePlayer() int         { return s.board.ActivePlayer() }
func (s *Session) Seats() [Seats]SeatType    { return s.seats }
func (s *Session) Board() Grid               { return s.board.Grid() }
func (s *Session) BoardVersion() int         { return s.board.Version() }
func (s *Session) Busy() bool                { return s.busy }
func (s *Session) Events() *EventLog         { return s.events }
func (s *Session) Messages() *MessageLog     { return s.msgs }
func (s *Session) LastError() error          { return s.lastErr }
func (s *Session) Colors() []string          { return append([]string(nil), s.colors...) }
func (s *Session) Rankings() []Ranking       { return append([]Ranking(nil), s.rankings...) }
func (s *Session) InventoryFor(p int) []PieceRecord { return s.inv[p].Pieces() }

// Inventory returns the active player's pieces.
func (s *Session) Inventory() []PieceRecord {
	return s.inv[s.board.ActivePlayer()].Pieces()
}

// Piece looks up a piece in the active inventory.
func (s *Session) Piece(name string) (PieceRecord, bool) {
	return s.inv[s.board.ActivePlayer()].Get(name)
}

// ActiveSeat returns the type of the active seat.
func (s *Session) ActiveSeat() (SeatType, bool) {
	p := s.board.ActivePlayer()
	if p < 1 || p > Seats {
		return SeatHuman, false
	}
	return s.seats[p-1], true
}

// Pending reports whether any remote flow is outstanding.
func (s *Session) Pending() bool {
	return s.inflight != reqNone || len(s.orienting) > 0
}

// OrientationPending reports whether name has an orientation change in flight.
func (s *Session) OrientationPending(name string) bool {
	return s.orienting[name]
}

// SkipDeadline returns when the scheduled automatic end-turn fires.
func (s *Session) SkipDeadline() (time.Time, bool) {
	return s.skipAt, s.skipArmed
}

// ---- loop integration ----

// Update applies every finished remote flow without blocking, then fires the
// skip timer if it is due. Call once per frame.
func (s *Session) Update() {
	for {
		select {
		case c := <-s.results:
			s.settle(c)
		default:
			s.pollSkip()
			return
		}
	}
}

// Wait blocks until no remote flow is outstanding, applying results as they
// arrive. Flows started while applying are waited for too. A scheduled skip
// is not a flow; it fires from Update once due.
func (s *Session) Wait(ctx context.Context) error {
	for s.Pending() {
		select {
		case c := <-s.results:
			s.settle(c)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Session) settle(c completion) {
	if c.kind == reqOrient {
		delete(s.orienting, c.piece)
	} else {
		s.inflight = reqNone
	}
	if c.kind == reqAIMove {
		s.setBusy(false)
	}
	c.apply()
}

// launch runs fn off the loop. fn performs remote calls only and returns the
// closure that applies the outcome.
func (s *Session) launch(kind requestKind, piece string, fn func(ctx context.Context) func()) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	go func() {
		defer cancel()
		var apply func()
		defer func() {
			if r := recover(); r != nil {
				err := &InvariantError{Op: kind.String(), Err: fmt.Errorf("panic: %v", r)}
				apply = func() { s.surface(kind.String(), err) }
			}
			select {
			case s.results <- completion{kind: kind, piece: piece, apply: apply}:
			case <-s.ctx.Done():
			}
		}()
		apply = fn(ctx)
	}()
}

func (s *Session) begin(kind requestKind, detail string) {
	s.inflight = kind
	s.events.Add("request", kind.String(), detail)
	s.logger.Debug("request issued", zap.String("kind", kind.String()), zap.String("detail", detail))
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.events.Add("phase", "change", fmt.Sprintf("%s → %s", s.phase, p))
	s.logger.Info("phase change", zap.Stringer("from", s.phase), zap.Stringer("to", p))
	s.phase = p
}

func (s *Session) setBusy(b bool) {
	if s.busy == b {
		return
	}
	s.busy = b
	if b {
		s.events.Add("busy", "on", "")
	} else {
		s.events.Add("busy", "off", "")
	}
}

// surface reports err to the player and the operator. It never changes game
// state.
func (s *Session) surface(op string, err error) {
	s.lastErr = err
	var rej *RejectedError
	switch {
	case errors.As(err, &rej):
		s.msgs.Add(LevelWarn, fmt.Sprintf("%s rejected: %s", op, rej.Reason))
	case IsInvariant(err):
		s.msgs.Add(LevelError, fmt.Sprintf("%s aborted: %v", op, err))
	default:
		s.msgs.Add(LevelError, fmt.Sprintf("%s failed: %v", op, err))
	}
	s.events.Add("error", op, err.Error())
	s.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
}

func (s *Session) inform(format string, args ...any) {
	s.msgs.Add(LevelInfo, fmt.Sprintf(format, args...))
}

// ---- turn catch-up ----

// turnUpdate is what a turn-advancing response told us, completed with
// follow-up fetches for anything it left out.
type turnUpdate struct {
	board  *Grid
	next   int
	pieces []PieceRecord
	err    error
}

// catchUp fills the gaps of a turn-advancing response. It runs inside the
// remote flow, never on the loop.
func (s *Session) catchUp(ctx context.Context, board *Grid, next int, pieces []PieceRecord) turnUpdate {
	u := turnUpdate{board: board, next: next, pieces: pieces}
	if u.board == nil || u.next == 0 {
		snap, err := s.auth.FetchBoard(ctx)
		if err != nil {
			u.err = err
			return u
		}
		if u.board == nil {
			g := snap.Grid
			u.board = &g
		}
		if u.next == 0 {
			u.next = snap.CurrentPlayer
		}
	}
	if u.pieces == nil {
		p, err := s.auth.FetchPieces(ctx)
		if err != nil {
			u.err = err
			return u
		}
		u.pieces = p
	}
	return u
}

// applyTurn installs a turn update on the loop.
func (s *Session) applyTurn(op string, u turnUpdate) {
	if u.board != nil {
		s.board.Apply(*u.board)
	}
	if u.next >= 1 && u.next <= Seats {
		if u.next != s.board.ActivePlayer() {
			s.events.Add("turn", "advance", fmt.Sprintf("%d → %d", s.board.ActivePlayer(), u.next))
		}
		s.board.SetActive(u.next)
		if u.pieces != nil {
			s.inv[u.next] = NewInventory(u.pieces)
		}
	}
	if u.err != nil {
		s.surface(op, u.err)
	}
}

// ---- setup ----

// ConfigureSeats confirms the seat assignment, initializes the authority and
// loads the opening board.
func (s *Session) ConfigureSeats(seats [Seats]SeatType) error {
	if s.phase != PhaseAwaitingSetup {
		return ErrWrongPhase
	}
	if s.inflight != reqNone {
		return ErrRequestInFlight
	}
	s.begin(reqSetup, FormatSeats(seats))
	s.launch(reqSetup, "", func(ctx context.Context) func() {
		if err := s.auth.InitializeSeats(ctx, seats); err != nil {
			return func() { s.surface("setup", err) }
		}
		snap, err := s.auth.FetchBoard(ctx)
		if err != nil {
			return func() { s.surface("setup", err) }
		}
		pieces, err := s.auth.FetchPieces(ctx)
		if err != nil {
			return func() { s.surface("setup", err) }
		}
		colors, cerr := s.auth.FetchSeatColors(ctx)
		return func() {
			if cerr != nil {
				s.logger.Warn("seat colors unavailable", zap.Error(cerr))
			} else {
				s.colors = colors
			}
			s.seats = seats
			s.inv = map[int]*Inventory{}
			s.board.Apply(snap.Grid)
			s.board.SetActive(snap.CurrentPlayer)
			s.inv[snap.CurrentPlayer] = NewInventory(pieces)
			s.inform("game started: %s", FormatSeats(seats))
			s.setPhase(PhaseInProgress)
			s.maybeRunAI()
		}
	})
	return nil
}

// ---- orientation ----

// ChangeOrientation asks the authority to rotate or flip a piece of the
// active inventory. On failure the shape stays as it was.
func (s *Session) ChangeOrientation(name string, action Orientation) error {
	player := s.board.ActivePlayer()
	if _, ok := s.inv[player].Get(name); !ok {
		return ErrUnknownPiece
	}
	if s.orienting[name] {
		return ErrOrientationPending
	}
	s.orienting[name] = true
	s.events.Add("request", reqOrient.String(), fmt.Sprintf("%s %s", name, action))
	s.launch(reqOrient, name, func(ctx context.Context) func() {
		shape, err := s.auth.ChangeOrientation(ctx, name, action)
		if err == nil {
			if verr := shape.Validate(); verr != nil {
				err = &InvariantError{Op: "orient", Err: verr}
			}
		}
		return func() {
			if err != nil {
				s.surface("orient", err)
				return
			}
			if s.inv[player].ReplaceShape(name, shape) {
				s.events.Add("orient", "ok", fmt.Sprintf("%s %s", name, action))
			}
		}
	})
	return nil
}

// ---- placement ----

// Place sends a drop to the authority. The piece leaves the inventory only
// once the authority confirms.
func (s *Session) Place(intent PlacementIntent) error {
	if s.phase != PhaseInProgress {
		return ErrWrongPhase
	}
	if s.inflight != reqNone {
		return ErrRequestInFlight
	}
	player := s.board.ActivePlayer()
	if seat, ok := s.ActiveSeat(); !ok || seat != SeatHuman {
		return ErrNotHumanTurn
	}
	if _, ok := s.inv[player].Get(intent.Piece); !ok {
		return ErrUnknownPiece
	}
	if s.orienting[intent.Piece] {
		return ErrOrientationPending
	}
	if err := intent.Shape.Validate(); err != nil {
		ierr := &InvariantError{Op: "place", Err: err}
		s.surface("place", ierr)
		return ierr
	}
	s.begin(reqPlace, fmt.Sprintf("player=%d piece=%s at=(%d,%d)", player, intent.Piece, intent.Anchor.Row, intent.Anchor.Col))
	s.launch(reqPlace, "", func(ctx context.Context) func() {
		res, err := s.auth.PlacePiece(ctx, intent)
		if err != nil {
			return func() { s.surface("place", err) }
		}
		u := s.catchUp(ctx, res.Board, res.NextPlayer, res.Pieces)
		return func() {
			s.inv[player].Remove(intent.Piece)
			s.events.Add("place", "ok", fmt.Sprintf("player=%d piece=%s", player, intent.Piece))
			s.applyTurn("place", u)
			if u.err == nil {
				s.maybeRunAI()
			}
		}
	})
	return nil
}

// ---- end turn and skip chain ----

// EndTurn passes the active seat's turn.
func (s *Session) EndTurn() error {
	if s.phase != PhaseInProgress {
		return ErrWrongPhase
	}
	if s.inflight != reqNone {
		return ErrRequestInFlight
	}
	s.startEndTurn(false)
	return nil
}

func (s *Session) startEndTurn(auto bool) {
	player := s.board.ActivePlayer()
	detail := fmt.Sprintf("player=%d", player)
	if auto {
		detail += " auto"
	}
	s.begin(reqEndTurn, detail)
	s.launch(reqEndTurn, "", func(ctx context.Context) func() {
		res, err := s.auth.EndTurn(ctx, player)
		if err != nil {
			return func() {
				s.surface("end turn", err)
				s.stopSkipChain()
			}
		}
		if res.GameOver {
			return func() { s.finish(res.Rankings) }
		}
		u := s.catchUp(ctx, res.Board, res.NextPlayer, res.Pieces)
		return func() { s.onTurnEnded(res, u) }
	})
}

func (s *Session) onTurnEnded(res TurnResult, u turnUpdate) {
	s.applyTurn("end turn", u)
	if u.err != nil {
		s.stopSkipChain()
		return
	}
	if res.ValidMoves != 0 {
		s.skipRun = 0
		s.setPhase(PhaseInProgress)
		s.maybeRunAI()
		return
	}
	s.skipRun++
	if s.cfg.MaxSkipChain > 0 && s.skipRun > s.cfg.MaxSkipChain {
		s.surface("skip", fmt.Errorf("%w: %d consecutive skips", ErrSkipChainLimit, s.skipRun))
		s.stopSkipChain()
		return
	}
	s.inform("player %d has no valid moves, skipping", s.board.ActivePlayer())
	s.setPhase(PhaseSkipping)
	s.scheduleSkip()
}

// scheduleSkip arms the one-shot skip timer unless it is already armed.
func (s *Session) scheduleSkip() {
	if s.skipArmed {
		return
	}
	s.skipArmed = true
	s.skipAt = s.now().Add(s.cfg.SkipDelay)
	s.events.Add("skip", "scheduled", fmt.Sprintf("player=%d", s.board.ActivePlayer()))
}

func (s *Session) pollSkip() {
	if !s.skipArmed || s.inflight != reqNone || s.phase != PhaseSkipping {
		return
	}
	if s.now().Before(s.skipAt) {
		return
	}
	s.skipArmed = false
	s.events.Add("skip", "fire", fmt.Sprintf("player=%d", s.board.ActivePlayer()))
	s.startEndTurn(true)
}

// stopSkipChain ends an automatic chain after an error; the player can end
// the turn by hand.
func (s *Session) stopSkipChain() {
	s.skipRun = 0
	if s.phase == PhaseSkipping {
		s.setPhase(PhaseInProgress)
	}
}

// ---- AI sub-flow ----

// ResumeAI restarts the AI sub-flow after it stopped on an error.
func (s *Session) ResumeAI() error {
	if s.phase != PhaseInProgress {
		return ErrWrongPhase
	}
	if s.inflight != reqNone {
		return ErrRequestInFlight
	}
	if seat, ok := s.ActiveSeat(); !ok || seat != SeatAI {
		return ErrNotAITurn
	}
	s.maybeRunAI()
	return nil
}

// maybeRunAI starts an AI move when the active seat is an AI. The busy flag
// is raised before the request and dropped in settle whatever the outcome.
func (s *Session) maybeRunAI() {
	if s.phase != PhaseInProgress || s.inflight != reqNone {
		return
	}
	if seat, ok := s.ActiveSeat(); !ok || seat != SeatAI {
		return
	}
	player := s.board.ActivePlayer()
	s.setBusy(true)
	s.begin(reqAIMove, fmt.Sprintf("player=%d", player))
	s.launch(reqAIMove, "", func(ctx context.Context) func() {
		res, err := s.auth.RequestAIMove(ctx)
		if err != nil {
			return func() { s.surface("ai move", err) }
		}
		if res.GameOver {
			return func() { s.finish(res.Rankings) }
		}
		u := s.catchUp(ctx, res.Board, res.NextPlayer, res.Pieces)
		return func() {
			s.events.Add("ai", "moved", fmt.Sprintf("player=%d", player))
			s.applyTurn("ai move", u)
			if u.err == nil {
				s.maybeRunAI()
			}
		}
	})
}

// ---- game over and restart ----

func (s *Session) finish(rankings []Ranking) {
	s.skipArmed = false
	s.skipRun = 0
	s.rankings = append([]Ranking(nil), rankings...)
	s.setPhase(PhaseGameOver)
	s.inform("game over")
	s.logger.Info("game over", zap.Int("rankings", len(rankings)))
}

// Restart asks the authority for a fresh game and returns to seat setup.
func (s *Session) Restart() error {
	if s.phase != PhaseGameOver {
		return ErrWrongPhase
	}
	if s.inflight != reqNone {
		return ErrRequestInFlight
	}
	s.begin(reqRestart, "")
	s.launch(reqRestart, "", func(ctx context.Context) func() {
		snap, err := s.auth.Restart(ctx)
		if err != nil {
			return func() { s.surface("restart", err) }
		}
		return func() {
			s.rankings = nil
			s.inv = map[int]*Inventory{}
			s.board.Reset()
			s.board.Apply(snap.Grid)
			s.inform("new game: choose seats")
			s.setPhase(PhaseAwaitingSetup)
		}
	})
	return nil
}
