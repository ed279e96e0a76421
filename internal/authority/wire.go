package authority

import (
	"errors"
	"fmt"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

// endpoint is one remote operation. name doubles as the WebSocket message
// type.
type endpoint struct {
	name   string
	method string
	path   string
}

var (
	epBoard   = endpoint{"get_board", "GET", "/get_board"}
	epPieces  = endpoint{"get_pieces", "GET", "/get_pieces"}
	epColors  = endpoint{"get_player_colors", "GET", "/get_player_colors"}
	epOrient  = endpoint{"rotate_piece_keypress", "POST", "/rotate_piece_keypress"}
	epPlace   = endpoint{"place_piece", "POST", "/place_piece"}
	epEndTurn = endpoint{"end_turn", "POST", "/end_turn"}
	epInit    = endpoint{"initialize_players", "POST", "/initialize_players"}
	epAIMove  = endpoint{"process_ai_move", "POST", "/process_ai_move"}
	epRestart = endpoint{"restart_game", "POST", "/restart_game"}
)

var errPieceName = errors.New("piece without a name")

// ---------- requests ----------

type orientRequest struct {
	Piece  string `json:"piece"`
	Action string `json:"action"`
}

// placeRequest carries the anchor as x=row, y=col.
type placeRequest struct {
	Piece string  `json:"piece"`
	Shape [][]int `json:"shape"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
}

type endTurnRequest struct {
	CurrentPlayer int `json:"current_player"`
}

type initRequest struct {
	PlayerTypes []string `json:"player_types"`
}

// ---------- replies ----------

type pieceWire struct {
	Name  string  `json:"name"`
	Shape [][]int `json:"shape"`
}

type rankingWire struct {
	PlayerID int `json:"player_id"`
	Score    int `json:"score"`
}

// reply is the union of every response body the authority sends. Absent
// fields stay nil so callers can tell them from empty ones.
type reply struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`

	Board         [][]int       `json:"board,omitempty"`
	CurrentPlayer int           `json:"current_player,omitempty"`
	NextPlayer    int           `json:"next_player,omitempty"`
	Pieces        []pieceWire   `json:"pieces,omitempty"`
	Colors        []string      `json:"colors,omitempty"`
	Shape         [][]int       `json:"shape,omitempty"`
	GameOver      bool          `json:"game_over,omitempty"`
	Rankings      []rankingWire `json:"rankings,omitempty"`
	ValidMoves    *int          `json:"valid_moves,omitempty"`
}

func (r *reply) grid() (*game.Grid, error) {
	if r.Board == nil {
		return nil, nil
	}
	g, err := game.GridFromInts(r.Board)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *reply) pieces() ([]game.PieceRecord, error) {
	if r.Pieces == nil {
		return nil, nil
	}
	out := make([]game.PieceRecord, 0, len(r.Pieces))
	for _, p := range r.Pieces {
		if p.Name == "" {
			return nil, errPieceName
		}
		out = append(out, game.PieceRecord{Name: p.Name, Shape: game.ShapeFromInts(p.Shape)})
	}
	return out, nil
}

func (r *reply) rankings() []game.Ranking {
	if r.Rankings == nil {
		return nil
	}
	out := make([]game.Ranking, len(r.Rankings))
	for i, rk := range r.Rankings {
		out[i] = game.Ranking{PlayerID: rk.PlayerID, Score: rk.Score}
	}
	return out
}

func (r *reply) validMoves() int {
	if r.ValidMoves == nil {
		return game.ValidMovesUnknown
	}
	return *r.ValidMoves
}

// refused reports an explicit success:false body.
func (r *reply) refused() bool {
	return r.Success != nil && !*r.Success
}

// classify turns a failed exchange into the error taxonomy: 4xx with a reason
// or success:false is a rejection, anything else is transport trouble.
func classify(op string, status int, r *reply) error {
	switch {
	case status >= 400 && status < 500 && r != nil && r.Error != "":
		return &game.RejectedError{Op: op, Status: status, Reason: r.Error}
	case status >= 400:
		return &game.TransportError{Op: op, Err: fmt.Errorf("status %d", status)}
	case r != nil && r.refused():
		reason := r.Error
		if reason == "" {
			reason = "refused"
		}
		return &game.RejectedError{Op: op, Status: status, Reason: reason}
	}
	return nil
}
