package game

import (
	"context"
	"fmt"
	"strings"
)

// SeatType says who drives a seat.
type SeatType int

const (
	SeatHuman SeatType = iota
	SeatAI
)

func (t SeatType) String() string {
	switch t {
	case SeatHuman:
		return "human"
	case SeatAI:
		return "ai"
	default:
		return "unknown"
	}
}

// ParseSeatType accepts "human" and "ai" in any case.
func ParseSeatType(s string) (SeatType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "h":
		return SeatHuman, true
	case "ai", "a", "cpu":
		return SeatAI, true
	}
	return SeatHuman, false
}

// ParseSeats parses a comma-separated list of exactly Seats entries,
// e.g. "human,ai,ai,ai".
func ParseSeats(s string) ([Seats]SeatType, error) {
	var out [Seats]SeatType
	parts := strings.Split(s, ",")
	if len(parts) != Seats {
		return out, fmt.Errorf("%w: want %d seats, got %d", ErrInvalidSeats, Seats, len(parts))
	}
	for i, p := range parts {
		t, ok := ParseSeatType(p)
		if !ok {
			return out, fmt.Errorf("%w: seat %d %q", ErrInvalidSeats, i+1, p)
		}
		out[i] = t
	}
	return out, nil
}

// FormatSeats is the inverse of ParseSeats.
func FormatSeats(seats [Seats]SeatType) string {
	parts := make([]string, Seats)
	for i, t := range seats {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// Orientation is a shape transform the authority can apply to a piece.
type Orientation int

const (
	OrientRotate Orientation = iota
	OrientFlip
)

func (o Orientation) String() string {
	switch o {
	case OrientRotate:
		return "rotate"
	case OrientFlip:
		return "flip"
	default:
		return "unknown"
	}
}

// Ranking is one line of the final standings.
type Ranking struct {
	PlayerID int
	Score    int
}

// PlacementIntent is what a drop hands to the turn controller.
type PlacementIntent struct {
	Piece  string
	Shape  Shape
	Anchor Cell
}

// ValidMovesUnknown marks an end-turn response that did not report a count.
const ValidMovesUnknown = -1

// PlacementResult is a confirmed placement. Optional fields are nil/zero when
// the authority left them out.
type PlacementResult struct {
	Board      *Grid
	NextPlayer int
	Pieces     []PieceRecord
}

// TurnResult answers an end-turn request.
type TurnResult struct {
	NextPlayer int
	GameOver   bool
	Rankings   []Ranking
	ValidMoves int
	Board      *Grid
	Pieces     []PieceRecord
}

// AIMoveResult answers an AI-move request.
type AIMoveResult struct {
	GameOver   bool
	Rankings   []Ranking
	Board      *Grid
	NextPlayer int
	Pieces     []PieceRecord
}

// Authority is the remote service that owns the canonical game. Failures
// come back as *TransportError or *RejectedError.
type Authority interface {
	FetchBoard(ctx context.Context) (BoardSnapshot, error)
	FetchPieces(ctx context.Context) ([]PieceRecord, error)
	FetchSeatColors(ctx context.Context) ([]string, error)
	ChangeOrientation(ctx context.Context, piece string, action Orientation) (Shape, error)
	PlacePiece(ctx context.Context, intent PlacementIntent) (PlacementResult, error)
	EndTurn(ctx context.Context, currentPlayer int) (TurnResult, error)
	InitializeSeats(ctx context.Context, seats [Seats]SeatType) error
	RequestAIMove(ctx context.Context) (AIMoveResult, error)
	Restart(ctx context.Context) (BoardSnapshot, error)
}
