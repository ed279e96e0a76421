// Package authority implements game.Authority against a remote game service,
// either over its JSON HTTP API or over a WebSocket gateway that carries the
// same bodies.
package authority

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported authority url scheme")
	ErrUnknownAIKind     = errors.New("unknown ai kind")
)

// AIKinds lists the AI players the authority can host. The first is the
// default for "ai" seats.
var AIKinds = []string{"greedy", "minimax", "monte_carlo"}

type transport interface {
	roundTrip(ctx context.Context, ep endpoint, reqID string, body any, out *reply) error
	close() error
}

type options struct {
	logger    *zap.Logger
	hc        *http.Client
	aiKind    string
	sessionID string
}

// Option configures a Client.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient replaces the HTTP client used for http(s) authorities.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.hc = hc }
}

// WithAIKind picks the AI the authority runs for "ai" seats.
func WithAIKind(kind string) Option {
	return func(o *options) { o.aiKind = kind }
}

// WithSessionID fixes the client session id sent with every request.
func WithSessionID(id string) Option {
	return func(o *options) { o.sessionID = id }
}

// Client is a game.Authority backed by a remote service.
type Client struct {
	tr        transport
	logger    *zap.Logger
	aiKind    string
	sessionID string
}

var _ game.Authority = (*Client)(nil)

// Dial connects to the authority at rawURL. http and https use the JSON API,
// ws and wss the WebSocket gateway.
func Dial(ctx context.Context, rawURL string, opts ...Option) (*Client, error) {
	o := options{
		logger:    zap.NewNop(),
		hc:        &http.Client{},
		aiKind:    AIKinds[0],
		sessionID: uuid.NewString(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if !validAIKind(o.aiKind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAIKind, o.aiKind)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse authority url: %w", err)
	}
	c := &Client{
		logger:    o.logger.With(zap.String("session", o.sessionID)),
		aiKind:    o.aiKind,
		sessionID: o.sessionID,
	}
	switch u.Scheme {
	case "http", "https":
		c.tr = &httpTransport{base: u, hc: o.hc, sessionID: o.sessionID}
	case "ws", "wss":
		tr, err := dialWS(ctx, rawURL, o.sessionID, c.logger)
		if err != nil {
			return nil, err
		}
		c.tr = tr
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	c.logger.Info("authority ready", zap.String("url", rawURL), zap.String("ai_kind", o.aiKind))
	return c, nil
}

func validAIKind(k string) bool {
	for _, v := range AIKinds {
		if v == k {
			return true
		}
	}
	return false
}

func (c *Client) SessionID() string { return c.sessionID }

func (c *Client) Close() error {
	return c.tr.close()
}

func (c *Client) call(ctx context.Context, ep endpoint, body any) (*reply, error) {
	reqID := uuid.NewString()
	start := time.Now()
	var r reply
	err := c.tr.roundTrip(ctx, ep, reqID, body, &r)
	fields := []zap.Field{
		zap.String("op", ep.name),
		zap.String("request_id", reqID),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		c.logger.Warn("authority call failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	c.logger.Debug("authority call", fields...)
	return &r, nil
}

// malformed wraps a reply that decoded but does not make sense.
func malformed(op string, err error) error {
	return &game.TransportError{Op: op, Err: fmt.Errorf("malformed reply: %w", err)}
}

func (c *Client) FetchBoard(ctx context.Context) (game.BoardSnapshot, error) {
	r, err := c.call(ctx, epBoard, nil)
	if err != nil {
		return game.BoardSnapshot{}, err
	}
	g, err := r.grid()
	if err != nil {
		return game.BoardSnapshot{}, malformed(epBoard.name, err)
	}
	if g == nil {
		return game.BoardSnapshot{}, malformed(epBoard.name, errors.New("no board"))
	}
	return game.BoardSnapshot{Grid: *g, CurrentPlayer: r.CurrentPlayer}, nil
}

func (c *Client) FetchPieces(ctx context.Context) ([]game.PieceRecord, error) {
	r, err := c.call(ctx, epPieces, nil)
	if err != nil {
		return nil, err
	}
	ps, err := r.pieces()
	if err != nil {
		return nil, malformed(epPieces.name, err)
	}
	if ps == nil {
		ps = []game.PieceRecord{}
	}
	return ps, nil
}

func (c *Client) FetchSeatColors(ctx context.Context) ([]string, error) {
	r, err := c.call(ctx, epColors, nil)
	if err != nil {
		return nil, err
	}
	return r.Colors, nil
}

func (c *Client) ChangeOrientation(ctx context.Context, piece string, action game.Orientation) (game.Shape, error) {
	r, err := c.call(ctx, epOrient, orientRequest{Piece: piece, Action: action.String()})
	if err != nil {
		return nil, err
	}
	if r.Shape == nil {
		return nil, malformed(epOrient.name, errors.New("no shape"))
	}
	return game.ShapeFromInts(r.Shape), nil
}

func (c *Client) PlacePiece(ctx context.Context, intent game.PlacementIntent) (game.PlacementResult, error) {
	r, err := c.call(ctx, epPlace, placeRequest{
		Piece: intent.Piece,
		Shape: intent.Shape.Ints(),
		X:     intent.Anchor.Row,
		Y:     intent.Anchor.Col,
	})
	if err != nil {
		return game.PlacementResult{}, err
	}
	g, err := r.grid()
	if err != nil {
		return game.PlacementResult{}, malformed(epPlace.name, err)
	}
	ps, err := r.pieces()
	if err != nil {
		return game.PlacementResult{}, malformed(epPlace.name, err)
	}
	return game.PlacementResult{Board: g, NextPlayer: r.NextPlayer, Pieces: ps}, nil
}

func (c *Client) EndTurn(ctx context.Context, currentPlayer int) (game.TurnResult, error) {
	r, err := c.call(ctx, epEndTurn, endTurnRequest{CurrentPlayer: currentPlayer})
	if err != nil {
		return game.TurnResult{}, err
	}
	if r.GameOver {
		return game.TurnResult{GameOver: true, Rankings: r.rankings()}, nil
	}
	g, err := r.grid()
	if err != nil {
		return game.TurnResult{}, malformed(epEndTurn.name, err)
	}
	ps, err := r.pieces()
	if err != nil {
		return game.TurnResult{}, malformed(epEndTurn.name, err)
	}
	return game.TurnResult{
		NextPlayer: r.NextPlayer,
		ValidMoves: r.validMoves(),
		Board:      g,
		Pieces:     ps,
	}, nil
}

func (c *Client) InitializeSeats(ctx context.Context, seats [game.Seats]game.SeatType) error {
	types := make([]string, len(seats))
	for i, s := range seats {
		switch s {
		case game.SeatAI:
			types[i] = c.aiKind
		default:
			types[i] = "human"
		}
	}
	_, err := c.call(ctx, epInit, initRequest{PlayerTypes: types})
	return err
}

func (c *Client) RequestAIMove(ctx context.Context) (game.AIMoveResult, error) {
	r, err := c.call(ctx, epAIMove, struct{}{})
	if err != nil {
		return game.AIMoveResult{}, err
	}
	if r.GameOver {
		return game.AIMoveResult{GameOver: true, Rankings: r.rankings()}, nil
	}
	g, err := r.grid()
	if err != nil {
		return game.AIMoveResult{}, malformed(epAIMove.name, err)
	}
	ps, err := r.pieces()
	if err != nil {
		return game.AIMoveResult{}, malformed(epAIMove.name, err)
	}
	return game.AIMoveResult{Board: g, NextPlayer: r.NextPlayer, Pieces: ps}, nil
}

func (c *Client) Restart(ctx context.Context) (game.BoardSnapshot, error) {
	r, err := c.call(ctx, epRestart, struct{}{})
	if err != nil {
		return game.BoardSnapshot{}, err
	}
	g, err := r.grid()
	if err != nil {
		return game.BoardSnapshot{}, malformed(epRestart.name, err)
	}
	snap := game.BoardSnapshot{CurrentPlayer: r.CurrentPlayer}
	if g != nil {
		snap.Grid = *g
	}
	return snap, nil
}
