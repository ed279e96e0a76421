package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Garsondee/Blokus-Client/internal/game"
)

const maxReplyBytes = 4 << 20

// httpTransport speaks the authority's JSON-over-HTTP API.
type httpTransport struct {
	base      *url.URL
	hc        *http.Client
	sessionID string
}

func (t *httpTransport) roundTrip(ctx context.Context, ep endpoint, reqID string, body any, out *reply) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &game.InvariantError{Op: ep.name, Err: err}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, ep.method, t.base.JoinPath(ep.path).String(), rd)
	if err != nil {
		return &game.TransportError{Op: ep.name, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Session-ID", t.sessionID)
	req.Header.Set("X-Request-ID", reqID)

	resp, err := t.hc.Do(req)
	if err != nil {
		return &game.TransportError{Op: ep.name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return &game.TransportError{Op: ep.name, Err: err}
	}
	if resp.StatusCode >= 400 {
		var r reply
		if json.Unmarshal(data, &r) != nil {
			return classify(ep.name, resp.StatusCode, nil)
		}
		return classify(ep.name, resp.StatusCode, &r)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &game.TransportError{Op: ep.name, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return classify(ep.name, resp.StatusCode, out)
}

func (t *httpTransport) close() error {
	t.hc.CloseIdleConnections()
	return nil
}
