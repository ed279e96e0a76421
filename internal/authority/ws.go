package authority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

// frame is the WebSocket envelope. Requests carry t (the endpoint name), a
// correlation id and the request body in m; replies echo id and carry the
// reply body plus an HTTP-style status.
type frame struct {
	T      string          `json:"t"`
	ID     string          `json:"id"`
	M      json.RawMessage `json:"m,omitempty"`
	Status int             `json:"status,omitempty"`
	Error  string          `json:"error,omitempty"`
}

var errConnClosed = errors.New("websocket closed")

// wsTransport multiplexes request/reply pairs over one WebSocket.
type wsTransport struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu      sync.Mutex
	waiting map[string]chan frame
	closed  chan struct{}
	err     error
}

func dialWS(ctx context.Context, rawURL, sessionID string, logger *zap.Logger) (*wsTransport, error) {
	conn, _, err := websocket.Dial(ctx, rawURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"X-Session-ID": []string{sessionID}},
	})
	if err != nil {
		return nil, &game.TransportError{Op: "dial", Err: err}
	}
	conn.SetReadLimit(maxReplyBytes)
	t := &wsTransport{
		conn:    conn,
		logger:  logger,
		waiting: map[string]chan frame{},
		closed:  make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

func (t *wsTransport) readLoop() {
	for {
		var f frame
		if err := wsjson.Read(context.Background(), t.conn, &f); err != nil {
			t.fail(err)
			return
		}
		t.mu.Lock()
		ch := t.waiting[f.ID]
		delete(t.waiting, f.ID)
		t.mu.Unlock()
		if ch == nil {
			t.logger.Debug("unsolicited frame", zap.String("t", f.T), zap.String("id", f.ID))
			continue
		}
		ch <- f
	}
}

func (t *wsTransport) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.closed:
		return
	default:
	}
	t.err = fmt.Errorf("%w: %v", errConnClosed, err)
	close(t.closed)
}

func (t *wsTransport) forget(id string) {
	t.mu.Lock()
	delete(t.waiting, id)
	t.mu.Unlock()
}

func (t *wsTransport) roundTrip(ctx context.Context, ep endpoint, reqID string, body any, out *reply) error {
	req := frame{T: ep.name, ID: reqID}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &game.InvariantError{Op: ep.name, Err: err}
		}
		req.M = b
	}

	ch := make(chan frame, 1)
	t.mu.Lock()
	select {
	case <-t.closed:
		err := t.err
		t.mu.Unlock()
		return &game.TransportError{Op: ep.name, Err: err}
	default:
	}
	t.waiting[reqID] = ch
	t.mu.Unlock()

	if err := wsjson.Write(ctx, t.conn, req); err != nil {
		t.forget(reqID)
		return &game.TransportError{Op: ep.name, Err: err}
	}

	var f frame
	select {
	case f = <-ch:
	case <-ctx.Done():
		t.forget(reqID)
		return &game.TransportError{Op: ep.name, Err: ctx.Err()}
	case <-t.closed:
		t.forget(reqID)
		return &game.TransportError{Op: ep.name, Err: t.err}
	}

	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status >= 400 {
		return classify(ep.name, status, &reply{Error: f.Error})
	}
	if len(f.M) > 0 {
		if err := json.Unmarshal(f.M, out); err != nil {
			return &game.TransportError{Op: ep.name, Err: fmt.Errorf("decode reply: %w", err)}
		}
	}
	if out.Error == "" {
		out.Error = f.Error
	}
	return classify(ep.name, status, out)
}

func (t *wsTransport) close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "bye")
}
